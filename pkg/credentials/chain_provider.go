package credentials

import "errors"

const ChainProviderName = "ChainProvider"

var ErrNoValidProvidersFound = errors.New("no valid providers in chain")

// ChainProvider tries each of its providers in order and returns the credentials
// of the first one that succeeds. The winning provider is remembered so IsExpired
// reflects its state.
type ChainProvider struct {
	Providers []Provider

	active Provider
}

func NewChainProvider(providers ...Provider) *ChainProvider {
	return &ChainProvider{Providers: providers}
}

func (c *ChainProvider) Retrieve() (Credentials, error) {
	errs := []error{ErrNoValidProvidersFound}

	for _, p := range c.Providers {
		creds, err := p.Retrieve()
		if err == nil {
			c.active = p
			return creds, nil
		}

		errs = append(errs, err)
	}

	c.active = nil

	return Credentials{ProviderName: ChainProviderName}, errors.Join(errs...)
}

func (c *ChainProvider) IsExpired() bool {
	if c.active == nil {
		return true
	}

	return c.active.IsExpired()
}
