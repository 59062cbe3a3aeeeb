// Package secrets seals transfer credentials before they reach the catalog
// store, so a database dump never contains a usable password.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/nacl/secretbox"
)

var ErrInvalidCiphertext = errors.New("invalid ciphertext")

// Box seals and opens strings with a fixed process key.
type Box struct {
	key [32]byte
}

func NewBox(key [32]byte) *Box {
	return &Box{key: key}
}

// Seal encrypts plain and returns base64(nonce || box). An empty string
// stays empty so unset credentials round-trip as unset.
func (b *Box) Seal(plain string) (string, error) {
	if plain == "" {
		return "", nil
	}
	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], []byte(plain), &nonce, &b.key)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal.
func (b *Box) Open(encoded string) (string, error) {
	if encoded == "" {
		return "", nil
	}
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("decode ciphertext: %w", err)
	}
	if len(raw) < 24 {
		return "", ErrInvalidCiphertext
	}
	var nonce [24]byte
	copy(nonce[:], raw[:24])
	plain, ok := secretbox.Open(nil, raw[24:], &nonce, &b.key)
	if !ok {
		return "", ErrInvalidCiphertext
	}
	return string(plain), nil
}
