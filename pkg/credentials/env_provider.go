package credentials

import (
	"errors"
	"os"
)

const EnvProviderName = "EnvProvider"

// Environment variables recognized for credential retrieval.
const (
	EnvAccessKeyID     = "AWS_ACCESS_KEY_ID"
	EnvSecretAccessKey = "AWS_SECRET_ACCESS_KEY"
	EnvSessionToken    = "AWS_SESSION_TOKEN"
)

var ErrEnvCredentialsNotFound = errors.New("credentials not found in environment")

// EnvProvider retrieves credentials from environment variables. The lookup itself
// is an injected capability so retrieval stays testable without touching the
// process environment.
type EnvProvider struct {
	// LookupEnv reports environment values, defaulting to os.LookupEnv if nil.
	LookupEnv LookupEnvFunc
}

func NewEnvProvider() *EnvProvider {
	return &EnvProvider{LookupEnv: os.LookupEnv}
}

func (e *EnvProvider) Retrieve() (Credentials, error) {
	lookup := e.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}

	id, _ := lookup(EnvAccessKeyID)
	secret, _ := lookup(EnvSecretAccessKey)
	token, _ := lookup(EnvSessionToken)

	if len(id) == 0 || len(secret) == 0 {
		return Credentials{ProviderName: EnvProviderName}, ErrEnvCredentialsNotFound
	}

	return Credentials{
		AccessKeyID:     id,
		SecretAccessKey: secret,
		SessionToken:    token,
		ProviderName:    EnvProviderName,
	}, nil
}

func (e *EnvProvider) IsExpired() bool {
	return false
}
