// Package bootstrap produces the local TLS material: a self-signed CA
// plus server and client key/certificate pairs, written to a disposable
// scratch directory with the terminal files copied into the output
// directory.
//
// Runs are idempotent at the output level: when the server key already
// exists in the output directory the whole pipeline is skipped. A run
// is strictly sequential; concurrent runs against the same scratch
// directory are unsafe and must be serialized by the caller.
package bootstrap
