// Package probe implements the certmesh-probe HTTPS endpoint, a small
// server that exists to prove the bootstrapped certificates work: it
// terminates TLS with the live server pair (hot-reloaded through
// tlsroots.Watcher) and reports what it is serving on /certz.
package probe
