// Package awsbs signs HTTP requests using AWS Signature Version 4.
//
// Signing follows the Signature Version 4 format as specified by AWS in the AWS General Reference, section
// Signing AWS requests: https://docs.aws.amazon.com/general/latest/gr/sigv4_signing.html. Signatures can be
// attached either as an Authorization header or as presigned query parameters.
//
// Credentials and the regional signing context are resolved from explicit values, environment variables or
// shared profile files via the pkg/credentials and pkg/config packages. Verification of signatures compatible
// with AWS Signature Version 4 is included as well.
package awsbs
