package bundle

import (
	"bytes"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/hkdf"

	"github.com/yndnr/certmesh-go/pkg/crypto/adaptive"
)

// Bundle format constants.
const (
	// saltLength is the Argon2 salt size stored in the header.
	saltLength = 16

	// minPassphraseLength guards against trivially weak passphrases.
	minPassphraseLength = 8

	// subkeyInfo separates the sealing key from any other use of the
	// same passphrase-derived master key.
	subkeyInfo = "certmesh/bundle/v1"

	// Argon2id parameters.
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// magic identifies a certmesh bundle file.
var magic = []byte("CMB1")

// Algorithm bytes stored in the header.
const (
	algoAESGCM   byte = 0x01
	algoChaCha20 byte = 0x02
)

// Bundle errors.
var (
	ErrPassphraseTooWeak = fmt.Errorf("bundle: passphrase shorter than %d characters", minPassphraseLength)
	ErrNotABundle        = errors.New("bundle: not a certmesh bundle")
	ErrOpenFailed        = errors.New("bundle: open failed, wrong passphrase or corrupted file")
)

// Payload is the sealed content of a bundle.
type Payload struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	CAKeyPEM  []byte    `json:"ca_key_pem"`
	CACertPEM []byte    `json:"ca_cert_pem"`
}

// FileName returns the conventional file name for a new bundle.
func FileName() string {
	return fmt.Sprintf("certmesh-%s.bundle", ulid.Make().String())
}

// Export seals the CA key and certificate PEM into a bundle.
func Export(caKeyPEM, caCertPEM, passphrase []byte, algorithm adaptive.CipherType) ([]byte, error) {
	if len(passphrase) < minPassphraseLength {
		return nil, ErrPassphraseTooWeak
	}

	algoByte, err := algorithmByte(algorithm)
	if err != nil {
		return nil, err
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("bundle: generate salt: %w", err)
	}

	payload, err := json.Marshal(Payload{
		ID:        ulid.Make().String(),
		CreatedAt: time.Now().UTC(),
		CAKeyPEM:  caKeyPEM,
		CACertPEM: caCertPEM,
	})
	if err != nil {
		return nil, fmt.Errorf("bundle: encode payload: %w", err)
	}

	cipher, err := sealingCipher(passphrase, salt, algorithm)
	if err != nil {
		return nil, err
	}

	header := header(algoByte, salt)
	sealed, err := cipher.Encrypt(payload, header)
	if err != nil {
		return nil, fmt.Errorf("bundle: seal payload: %w", err)
	}

	return append(header, sealed...), nil
}

// Restore opens a bundle and returns its payload.
func Restore(data, passphrase []byte) (*Payload, error) {
	if len(data) < len(magic)+1+saltLength {
		return nil, ErrNotABundle
	}
	if !bytes.Equal(data[:len(magic)], magic) {
		return nil, ErrNotABundle
	}

	algoByte := data[len(magic)]
	algorithm, err := byteAlgorithm(algoByte)
	if err != nil {
		return nil, err
	}
	salt := data[len(magic)+1 : len(magic)+1+saltLength]

	cipher, err := sealingCipher(passphrase, salt, algorithm)
	if err != nil {
		return nil, err
	}

	header := header(algoByte, salt)
	payload, err := cipher.Decrypt(data[len(header):], header)
	if err != nil {
		return nil, ErrOpenFailed
	}

	var p Payload
	if err := json.Unmarshal(payload, &p); err != nil {
		return nil, fmt.Errorf("bundle: decode payload: %w", err)
	}
	return &p, nil
}

func header(algoByte byte, salt []byte) []byte {
	h := make([]byte, 0, len(magic)+1+saltLength)
	h = append(h, magic...)
	h = append(h, algoByte)
	return append(h, salt...)
}

// sealingCipher derives the bundle key: Argon2id over the passphrase,
// then an HKDF subkey bound to the bundle format version.
func sealingCipher(passphrase, salt []byte, algorithm adaptive.CipherType) (adaptive.Cipher, error) {
	master := argon2.IDKey(passphrase, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)

	key := make([]byte, argon2KeyLen)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(subkeyInfo)), key); err != nil {
		return nil, fmt.Errorf("bundle: derive sealing key: %w", err)
	}

	return adaptive.NewWithType(key, algorithm)
}

func algorithmByte(algorithm adaptive.CipherType) (byte, error) {
	switch algorithm {
	case adaptive.CipherAESGCM:
		return algoAESGCM, nil
	case adaptive.CipherChaCha20:
		return algoChaCha20, nil
	default:
		return 0, fmt.Errorf("bundle: unsupported algorithm %q", algorithm)
	}
}

func byteAlgorithm(b byte) (adaptive.CipherType, error) {
	switch b {
	case algoAESGCM:
		return adaptive.CipherAESGCM, nil
	case algoChaCha20:
		return adaptive.CipherChaCha20, nil
	default:
		return "", fmt.Errorf("bundle: unsupported algorithm byte 0x%02x", b)
	}
}
