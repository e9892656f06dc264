// Package auth implements the admin session: an encrypted,
// cookie-carried token proving the bearer passed the shared-password
// check within the last 24 hours.
package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
)

const keySize = 32

// Codec turns opaque text into a cookie-safe string and back. The
// strategy is picked once at construction: AES-256-CBC with a random IV
// when the cipher is usable with the configured key, otherwise a
// reversible base64 encoding that round-trips but carries no
// confidentiality guarantee. The encrypted form is
// hex(iv) ":" hex(ciphertext), so decryption is self-describing: a
// value without the colon is always decoded through the fallback path,
// regardless of which strategy is active.
type Codec struct {
	key      []byte
	fallback bool
}

func NewCodec(secret string) *Codec {
	c := &Codec{key: normalizeKey(secret)}
	if _, err := aes.NewCipher(c.key); err != nil {
		c.fallback = true
		log.Printf("Warning: AES cipher unavailable (%v), session cookies use base64 encoding only", err)
	}
	return c
}

// normalizeKey stretches or truncates the secret to the AES-256 key
// length, padding with spaces like the cookie's original format did.
func normalizeKey(secret string) []byte {
	for len(secret) < keySize {
		secret += " "
	}
	return []byte(secret)[:keySize]
}

func (c *Codec) Encrypt(text string) (string, error) {
	if c.fallback {
		return base64.StdEncoding.EncodeToString([]byte(text)), nil
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := rand.Read(iv); err != nil {
		return "", fmt.Errorf("failed to generate iv: %w", err)
	}

	padded := pkcs7Pad([]byte(text), aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(ciphertext), nil
}

func (c *Codec) Decrypt(encrypted string) (string, error) {
	ivHex, ciphertextHex, found := strings.Cut(encrypted, ":")
	if !found {
		return decodeFallback(encrypted)
	}

	iv, err := hex.DecodeString(ivHex)
	if err != nil {
		return "", errors.New("invalid encrypted data")
	}
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", errors.New("invalid encrypted data")
	}
	if len(iv) != aes.BlockSize || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", errors.New("malformed encrypted payload")
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", fmt.Errorf("failed to create cipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func decodeFallback(encoded string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", errors.New("invalid encrypted data")
	}
	return string(raw), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	padding := blockSize - len(data)%blockSize
	padded := make([]byte, len(data)+padding)
	copy(padded, data)
	for i := len(data); i < len(padded); i++ {
		padded[i] = byte(padding)
	}
	return padded
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, errors.New("malformed encrypted payload")
	}
	padding := int(data[len(data)-1])
	if padding == 0 || padding > blockSize {
		return nil, errors.New("malformed encrypted payload")
	}
	for _, b := range data[len(data)-padding:] {
		if int(b) != padding {
			return nil, errors.New("malformed encrypted payload")
		}
	}
	return data[:len(data)-padding], nil
}
