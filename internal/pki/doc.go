// Package pki implements the X.509 primitives behind the certmesh
// bootstrapper: RSA key generation, a self-signed root CA, CSR creation,
// and CSR-based leaf issuance with subjectAltName injection.
//
// Everything is RSA 2048 with SHA-256 signatures, matching the artifacts
// the original openssl workflow produced. Keys are written as PKCS#1
// "RSA PRIVATE KEY" PEM with mode 0600; certificates as "CERTIFICATE"
// PEM with mode 0644.
package pki
