// Package bundle exports and restores the CA key pair as a single
// passphrase-protected file, so a bootstrapped CA can be moved between
// machines without ever writing the key in the clear.
//
// A bundle is a small binary envelope: a magic header, the sealing
// algorithm, the KDF salt, then an AEAD-sealed JSON payload. The
// header doubles as additional data, so tampering with the algorithm
// or salt fails authentication rather than producing garbage.
package bundle
