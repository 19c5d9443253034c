package adaptive

import (
	"bytes"
	"testing"
)

func key32() []byte {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return key
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		cipherType CipherType
	}{
		{"aes-gcm", CipherAESGCM},
		{"chacha20-poly1305", CipherChaCha20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewWithType(key32(), tt.cipherType)
			if err != nil {
				t.Fatalf("NewWithType() error = %v", err)
			}
			if c.Type() != tt.cipherType {
				t.Errorf("Type() = %v, want %v", c.Type(), tt.cipherType)
			}

			plaintext := []byte("certificate bundle payload")
			aad := []byte("header")

			sealed, err := c.Encrypt(plaintext, aad)
			if err != nil {
				t.Fatalf("Encrypt() error = %v", err)
			}
			if bytes.Contains(sealed, plaintext) {
				t.Error("sealed output contains plaintext")
			}

			opened, err := c.Decrypt(sealed, aad)
			if err != nil {
				t.Fatalf("Decrypt() error = %v", err)
			}
			if !bytes.Equal(opened, plaintext) {
				t.Errorf("Decrypt() = %q, want %q", opened, plaintext)
			}
		})
	}
}

func TestDecrypt_WrongAAD(t *testing.T) {
	c, err := NewAESGCM(key32())
	if err != nil {
		t.Fatalf("NewAESGCM() error = %v", err)
	}

	sealed, err := c.Encrypt([]byte("payload"), []byte("aad-one"))
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if _, err := c.Decrypt(sealed, []byte("aad-two")); err == nil {
		t.Error("Decrypt() should fail with mismatched additional data")
	}
}

func TestDecrypt_Tampered(t *testing.T) {
	c, err := NewChaCha20(key32())
	if err != nil {
		t.Fatalf("NewChaCha20() error = %v", err)
	}

	sealed, err := c.Encrypt([]byte("payload"), nil)
	if err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	sealed[len(sealed)-1] ^= 0x01
	if _, err := c.Decrypt(sealed, nil); err == nil {
		t.Error("Decrypt() should fail on tampered ciphertext")
	}
}

func TestDecrypt_TooShort(t *testing.T) {
	c, err := NewAESGCM(key32())
	if err != nil {
		t.Fatalf("NewAESGCM() error = %v", err)
	}
	if _, err := c.Decrypt([]byte("short"), nil); err != ErrCiphertextTooShort {
		t.Errorf("Decrypt() error = %v, want %v", err, ErrCiphertextTooShort)
	}
}

func TestNew_SelectsSomething(t *testing.T) {
	c, err := New(key32())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if c.Type() != CipherAESGCM && c.Type() != CipherChaCha20 {
		t.Errorf("New() selected unknown cipher %v", c.Type())
	}
}

func TestNewWithType_Unknown(t *testing.T) {
	if _, err := NewWithType(key32(), "rot13"); err == nil {
		t.Error("NewWithType() should reject unknown cipher types")
	}
}

func TestInvalidKeySizes(t *testing.T) {
	if _, err := NewAESGCM(make([]byte, 15)); err == nil {
		t.Error("NewAESGCM() should reject a 15-byte key")
	}
	if _, err := NewChaCha20(make([]byte, 16)); err == nil {
		t.Error("NewChaCha20() should reject a 16-byte key")
	}
}
