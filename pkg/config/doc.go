// Package config loads profile-style configuration files and resolves the
// effective credentials and signing context from explicit overrides, environment
// variables and shared profile files, in that order of precedence.
//
// All reads happen through injected capabilities, keeping resolution a pure and
// deterministic function of its inputs.
package config
