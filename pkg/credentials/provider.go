package credentials

type Provider interface {
	Retrieve() (Credentials, error)
	IsExpired() bool
}

// LookupEnvFunc reports the value of an environment variable and whether it is set.
type LookupEnvFunc func(key string) (string, bool)
