// Package credentials implements credential management for signing requests.
//
// Credentials consist of an access key ID, a secret access key as well as an
// optional session token.
//
// This package implements providers for retrieving credentials from different sources.
package credentials
