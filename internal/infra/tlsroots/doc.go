// Package tlsroots turns bootstrapped certificate artifacts into
// usable TLS configuration.
//
//   - roots.go: trust pools built from ca.crt (plus system roots when
//     wanted) and tls.Config builders on top of them
//   - watcher.go: hot-reload of the server key pair via fsnotify, so a
//     re-bootstrap is picked up without restarting the probe server
package tlsroots
