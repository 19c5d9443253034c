package pki

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"strings"
)

// SerialFile tracks issued certificate serial numbers in a small hex
// file next to the CA, in the manner of openssl's .srl files. The file
// is created with a random starting value when absent.
type SerialFile struct {
	path    string
	current *big.Int
}

// OpenSerialFile opens or creates the serial file at path.
func OpenSerialFile(path string) (*SerialFile, error) {
	data, err := os.ReadFile(path)
	if err == nil {
		text := strings.TrimSpace(string(data))
		current, ok := new(big.Int).SetString(text, 16)
		if !ok {
			return nil, fmt.Errorf("pki: serial file %s is not hex: %q", path, text)
		}
		return &SerialFile{path: path, current: current}, nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("pki: read serial file: %w", err)
	}

	// Absent: seed with a random positive 64-bit value.
	limit := new(big.Int).Lsh(big.NewInt(1), 63)
	current, rerr := rand.Int(rand.Reader, limit)
	if rerr != nil {
		return nil, fmt.Errorf("pki: seed serial file: %w", rerr)
	}

	s := &SerialFile{path: path, current: current}
	if err := s.persist(); err != nil {
		return nil, err
	}
	return s, nil
}

// Next increments the serial, persists it, and returns a copy.
func (s *SerialFile) Next() (*big.Int, error) {
	s.current.Add(s.current, big.NewInt(1))
	if err := s.persist(); err != nil {
		return nil, err
	}
	return new(big.Int).Set(s.current), nil
}

// Current returns the last issued serial without advancing.
func (s *SerialFile) Current() *big.Int {
	return new(big.Int).Set(s.current)
}

func (s *SerialFile) persist() error {
	text := strings.ToUpper(s.current.Text(16)) + "\n"
	if err := os.WriteFile(s.path, []byte(text), CertFileMode); err != nil {
		return fmt.Errorf("pki: write serial file: %w", err)
	}
	return nil
}
