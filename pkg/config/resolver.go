package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/aquarhead/awsbs/pkg/credentials"
)

const (
	// DefaultProfile is the profile consulted when none is selected explicitly
	// or via EnvProfile.
	DefaultProfile = "default"

	// ResolvedProviderName identifies credentials produced by Resolve.
	ResolvedProviderName = "ConfigResolver"
)

// Environment variables recognized during resolution, in addition to the
// credential variables of pkg/credentials. EnvRegion wins over EnvDefaultRegion.
const (
	EnvRegion        = "AWS_REGION"
	EnvDefaultRegion = "AWS_DEFAULT_REGION"
	EnvProfile       = "AWS_PROFILE"
)

// Setting keys recognized in profile files.
const (
	KeyAccessKeyID     = "aws_access_key_id"
	KeySecretAccessKey = "aws_secret_access_key"
	KeySessionToken    = "aws_session_token"
	KeyRegion          = "region"
)

// MissingCredentialError reports a credential field that remained unset after
// every source was consulted.
type MissingCredentialError struct {
	Field string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("missing credential: %s", e.Field)
}

// MissingContextError reports an unresolved signing context field (region or service).
type MissingContextError struct {
	Field string
}

func (e *MissingContextError) Error() string {
	return fmt.Sprintf("missing signing context: %s", e.Field)
}

// ReadFileFunc reads the contents of the named file.
type ReadFileFunc func(name string) ([]byte, error)

// Overrides carries caller-supplied values which take precedence over every other
// source. Empty fields fall through to the next source.
type Overrides struct {
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Region          string
}

// Sources enumerates everything resolution may consult, in fixed precedence order:
// explicit overrides first, then environment variables, then the selected profile
// of the credentials and config files.
type Sources struct {
	Overrides Overrides

	// LookupEnv reports environment values. A nil func disables the environment source.
	LookupEnv credentials.LookupEnvFunc
	// ReadFile reads profile files. A nil func disables the file sources.
	ReadFile ReadFileFunc

	// CredentialsPath and ConfigPath locate the profile files. Empty paths are
	// skipped; unreadable files count as absent sources, malformed ones fail.
	CredentialsPath string
	ConfigPath      string

	// Profile selects the profile to read, falling back to EnvProfile and then
	// DefaultProfile when empty.
	Profile string

	// Service the resolved context signs for. Required.
	Service string
}

// Resolved is the effective credential set and signing context produced by Resolve.
//
// Resolved satisfies credentials.Provider, so it can back a Signer directly.
type Resolved struct {
	Credentials credentials.Credentials
	Region      string
	Service     string
}

func (r *Resolved) Retrieve() (credentials.Credentials, error) {
	return r.Credentials, nil
}

func (r *Resolved) IsExpired() bool {
	return false
}

// DefaultPaths returns the probe locations of the shared credentials and config
// files under the user's home directory.
func DefaultPaths() (credentialsPath string, configPath string, err error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", "", err
	}

	return filepath.Join(home, ".aws", "credentials"), filepath.Join(home, ".aws", "config"), nil
}

// Resolve determines the effective credentials, region and service from the given
// sources. Each field is resolved independently: an explicit override always wins
// over an environment value, which always wins over a profile value.
//
// A credential field that remains unset is a MissingCredentialError naming the
// field; an unset region or service is a MissingContextError. Resolution never
// falls back to an empty value, since an empty credential would still produce a
// syntactically valid but rejected signature.
func Resolve(sources Sources) (*Resolved, error) {
	if len(sources.Service) == 0 {
		return nil, &MissingContextError{Field: "service"}
	}

	env := func(keys ...string) string {
		if sources.LookupEnv == nil {
			return ""
		}
		for _, key := range keys {
			if v, ok := sources.LookupEnv(key); ok && len(v) > 0 {
				return v
			}
		}
		return ""
	}

	profile := sources.Profile
	if len(profile) == 0 {
		profile = env(EnvProfile)
	}
	if len(profile) == 0 {
		profile = DefaultProfile
	}

	credProfile, err := loadProfile(sources, sources.CredentialsPath, profile)
	if err != nil {
		return nil, err
	}

	confProfile, err := loadProfile(sources, sources.ConfigPath, configSection(profile))
	if err != nil {
		return nil, err
	}

	pick := func(override string, fileVal string, envKeys ...string) string {
		if len(override) > 0 {
			return override
		}
		if v := env(envKeys...); len(v) > 0 {
			return v
		}
		return fileVal
	}

	id := pick(sources.Overrides.AccessKeyID, credProfile[KeyAccessKeyID], credentials.EnvAccessKeyID)
	secret := pick(sources.Overrides.SecretAccessKey, credProfile[KeySecretAccessKey], credentials.EnvSecretAccessKey)
	token := pick(sources.Overrides.SessionToken, credProfile[KeySessionToken], credentials.EnvSessionToken)
	region := pick(sources.Overrides.Region, profileRegion(credProfile, confProfile), EnvRegion, EnvDefaultRegion)

	if len(id) == 0 {
		return nil, &MissingCredentialError{Field: "access_key_id"}
	}
	if len(secret) == 0 {
		return nil, &MissingCredentialError{Field: "secret_access_key"}
	}
	if len(region) == 0 {
		return nil, &MissingContextError{Field: "region"}
	}

	return &Resolved{
		Credentials: credentials.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    token,
			ProviderName:    ResolvedProviderName,
		},
		Region:  region,
		Service: sources.Service,
	}, nil
}

// ResolveAuto resolves credentials and region for the given service from the
// process environment and the default shared file locations.
func ResolveAuto(service string) (*Resolved, error) {
	credPath, confPath, err := DefaultPaths()
	if err != nil {
		// No home directory leaves the environment as the only source.
		credPath, confPath = "", ""
	}

	return Resolve(Sources{
		LookupEnv:       os.LookupEnv,
		ReadFile:        os.ReadFile,
		CredentialsPath: credPath,
		ConfigPath:      confPath,
		Service:         service,
	})
}

// configSection maps a profile name to its section header in the config file,
// which prefixes non-default profiles with "profile".
func configSection(profile string) string {
	if profile == DefaultProfile {
		return profile
	}

	return "profile " + profile
}

// profileRegion picks the region from the loaded profiles. The config file wins
// over a region carried in the credentials file.
func profileRegion(credProfile map[string]string, confProfile map[string]string) string {
	if v := confProfile[KeyRegion]; len(v) > 0 {
		return v
	}

	return credProfile[KeyRegion]
}

func loadProfile(sources Sources, path string, profile string) (map[string]string, error) {
	if sources.ReadFile == nil || len(path) == 0 {
		return nil, nil
	}

	src, err := sources.ReadFile(path)
	if err != nil {
		// An unreadable file is an absent source, not a resolution failure.
		return nil, nil
	}

	profiles, err := Parse(src)
	if err != nil {
		return nil, err
	}

	return profiles[profile], nil
}
