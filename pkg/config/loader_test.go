package config

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	t.Parallel()

	src := []byte(`# shared credentials
[default]
aws_access_key_id = AKIDDEFAULT
aws_secret_access_key = SECRETDEFAULT

; alternate profile
[staging]
aws_access_key_id=AKIDSTAGING
aws_secret_access_key =   SECRETSTAGING
region = eu-west-1
`)

	profiles, err := Parse(src)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if e, g := 2, len(profiles); e != g {
		t.Fatalf("expected %d profiles, got %d", e, g)
	}

	if e, g := "AKIDDEFAULT", profiles["default"][KeyAccessKeyID]; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
	if e, g := "SECRETDEFAULT", profiles["default"][KeySecretAccessKey]; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
	if e, g := "AKIDSTAGING", profiles["staging"][KeyAccessKeyID]; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
	if e, g := "SECRETSTAGING", profiles["staging"][KeySecretAccessKey]; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
	if e, g := "eu-west-1", profiles["staging"][KeyRegion]; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
}

func TestParseProfileSections(t *testing.T) {
	t.Parallel()

	src := []byte(`[default]
region = us-east-1

[profile staging]
region = eu-west-1
`)

	profiles, err := Parse(src)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if e, g := "us-east-1", profiles["default"][KeyRegion]; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
	if e, g := "eu-west-1", profiles["profile staging"][KeyRegion]; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
}

func TestParseEmptyValue(t *testing.T) {
	t.Parallel()

	profiles, err := Parse([]byte("[default]\naws_session_token =\n"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	v, ok := profiles["default"][KeySessionToken]
	if e, g := true, ok; e != g {
		t.Fatalf("expected key to be present")
	}
	if e, g := "", v; e != g {
		t.Errorf("expected %q, got %q", e, g)
	}
}

func TestParseMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		src  string
		line int
	}{
		{name: "EntryOutsideSection", src: "aws_access_key_id = AKID\n", line: 1},
		{name: "MissingSeparator", src: "[default]\naws_access_key_id\n", line: 2},
		{name: "EmptyKey", src: "[default]\n= value\n", line: 2},
		{name: "UnterminatedSection", src: "[default\n", line: 1},
		{name: "EmptySectionName", src: "[  ]\n", line: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse([]byte(tt.src))

			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected *ParseError, got %v", err)
			}

			if e, g := tt.line, parseErr.Line; e != g {
				t.Errorf("expected line %d, got %d", e, g)
			}
		})
	}
}
