package credentials

import (
	"errors"
	"testing"
)

func TestChainProviderRetrieve(t *testing.T) {
	chain := NewChainProvider(
		&EnvProvider{LookupEnv: lookupFromMap(nil)},
		NewStaticProvider("AKID", "SECRET", ""),
	)

	creds, err := chain.Retrieve()
	if err != nil {
		t.Fatalf("expected no error, got %q", err)
	}

	if e, g := "AKID", creds.AccessKeyID; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
	if e, g := StaticProviderName, creds.ProviderName; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
	if e, g := false, chain.IsExpired(); e != g {
		t.Errorf("expected %v, got %v", e, g)
	}
}

func TestChainProviderRetrieveOrder(t *testing.T) {
	chain := NewChainProvider(
		NewStaticProvider("FIRST", "SECRET", ""),
		NewStaticProvider("SECOND", "SECRET", ""),
	)

	creds, err := chain.Retrieve()
	if err != nil {
		t.Fatalf("expected no error, got %q", err)
	}

	if e, g := "FIRST", creds.AccessKeyID; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
}

func TestChainProviderRetrieveExhausted(t *testing.T) {
	chain := NewChainProvider(
		NewStaticProvider("", "", ""),
		&EnvProvider{LookupEnv: lookupFromMap(nil)},
	)

	_, err := chain.Retrieve()
	if !errors.Is(err, ErrNoValidProvidersFound) {
		t.Errorf("expected %v, got %v", ErrNoValidProvidersFound, err)
	}
	if !errors.Is(err, ErrStaticCredentialsEmpty) {
		t.Errorf("expected %v, got %v", ErrStaticCredentialsEmpty, err)
	}
	if !errors.Is(err, ErrEnvCredentialsNotFound) {
		t.Errorf("expected %v, got %v", ErrEnvCredentialsNotFound, err)
	}
	if e, g := true, chain.IsExpired(); e != g {
		t.Errorf("expected %v, got %v", e, g)
	}
}
