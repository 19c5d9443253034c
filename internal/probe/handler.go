package probe

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/yndnr/certmesh-go/internal/infra/buildinfo"
)

// certInfo is the /certz response body.
type certInfo struct {
	Subject   string    `json:"subject"`
	Issuer    string    `json:"issuer"`
	Serial    string    `json:"serial"`
	NotBefore time.Time `json:"not_before"`
	NotAfter  time.Time `json:"not_after"`
	DNSNames  []string  `json:"dns_names"`
	IPs       []string  `json:"ips"`
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealthz)
	mux.HandleFunc("/certz", s.handleCertz)
	return mux
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Get().Version,
	})
}

// handleCertz reports the certificate currently being served, which is
// also the certificate the client just completed a handshake against.
func (s *Server) handleCertz(w http.ResponseWriter, r *http.Request) {
	leaf := s.watcher.Leaf()
	if leaf == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"error": "no certificate loaded"})
		return
	}

	info := certInfo{
		Subject:   leaf.Subject.String(),
		Issuer:    leaf.Issuer.String(),
		Serial:    leaf.SerialNumber.Text(16),
		NotBefore: leaf.NotBefore,
		NotAfter:  leaf.NotAfter,
		DNSNames:  leaf.DNSNames,
	}
	for _, ip := range leaf.IPAddresses {
		info.IPs = append(info.IPs, ip.String())
	}
	writeJSON(w, http.StatusOK, info)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
