package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

const (
	// CiphertextPrefix marks values produced by this codec. Other components
	// test for the prefix instead of attempting decryption.
	CiphertextPrefix = "enc.v1."

	// maxDecryptAttempts bounds nested-decryption recovery. A value wrapped
	// more than this many times is returned as-is with a logged warning.
	maxDecryptAttempts = 3

	masterSecretSize = 32
	userKeySize      = 32
	keyInfoLabel     = "inkwell/prompt-content/v1"
)

var (
	ErrInvalidMasterSecret = errors.New("master secret must be 32 bytes")
	ErrNotEncrypted        = errors.New("value is not in ciphertext format")
	ErrInvalidCiphertext   = errors.New("ciphertext too short to contain nonce")
	ErrDecryptFailed       = errors.New("ciphertext authentication failed")
)

// Codec encrypts and decrypts prompt content with per-user AES-256-GCM keys.
// Keys are derived deterministically from the user's ID and a server-held
// master secret, so the same user always derives the same key and no user
// can decrypt another user's content.
type Codec struct {
	masterSecret []byte
}

// NewCodec creates a Codec from a 32-byte master secret.
func NewCodec(masterSecret []byte) (*Codec, error) {
	if len(masterSecret) != masterSecretSize {
		return nil, fmt.Errorf("%w: got %d bytes", ErrInvalidMasterSecret, len(masterSecret))
	}
	secret := make([]byte, masterSecretSize)
	copy(secret, masterSecret)
	return &Codec{masterSecret: secret}, nil
}

// IsEncrypted reports whether value carries the codec's ciphertext prefix.
func IsEncrypted(value string) bool {
	return strings.HasPrefix(value, CiphertextPrefix)
}

// KeyFor derives the user's 32-byte AES key via HKDF-SHA256 over the master
// secret, salted with the user ID.
func (c *Codec) KeyFor(userID uuid.UUID) []byte {
	key := make([]byte, userKeySize)
	kdf := hkdf.New(sha256.New, c.masterSecret, userID[:], []byte(keyInfoLabel))
	if _, err := io.ReadFull(kdf, key); err != nil {
		// Unreachable: HKDF-SHA256 yields up to 8160 bytes and we ask for 32.
		panic(err)
	}
	return key
}

func (c *Codec) aeadFor(userID uuid.UUID) (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.KeyFor(userID))
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return aead, nil
}

// Encrypt encrypts plaintext under the user's derived key. The random nonce
// is prepended to the sealed bytes and the whole value is base64-encoded
// behind CiphertextPrefix.
func (c *Codec) Encrypt(userID uuid.UUID, plaintext string) (string, error) {
	aead, err := c.aeadFor(userID)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	// Seal appends ciphertext+tag to the nonce so storage stays one value.
	sealed := aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return CiphertextPrefix + base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt decrypts a single layer of ciphertext produced by Encrypt.
// A value without the ciphertext prefix returns ErrNotEncrypted so callers
// never receive silently-garbled plaintext.
func (c *Codec) Decrypt(userID uuid.UUID, value string) (string, error) {
	if !IsEncrypted(value) {
		return "", ErrNotEncrypted
	}

	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(value, CiphertextPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: invalid base64: %v", ErrInvalidCiphertext, err)
	}

	aead, err := c.aeadFor(userID)
	if err != nil {
		return "", err
	}
	if len(raw) < aead.NonceSize() {
		return "", ErrInvalidCiphertext
	}

	nonce, ciphertext := raw[:aead.NonceSize()], raw[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptFailed, err)
	}
	return string(plaintext), nil
}

// DecryptNested unwinds values that were encrypted more than once, a defect
// older update paths could introduce by re-encrypting stored ciphertext.
// At most maxDecryptAttempts layers are removed; a value still
// ciphertext-shaped afterwards is returned as-is with a logged warning
// rather than an error, and downstream consumers must tolerate it.
// Plaintext input passes through unchanged.
func (c *Codec) DecryptNested(userID uuid.UUID, value string) (string, error) {
	current := value
	for attempt := 0; attempt < maxDecryptAttempts && IsEncrypted(current); attempt++ {
		plaintext, err := c.Decrypt(userID, current)
		if err != nil {
			// Best effort: hand back whatever we unwound so far.
			return current, err
		}
		current = plaintext
	}

	if IsEncrypted(current) {
		log.Printf("WARN [Codec] DecryptNested: value still ciphertext-shaped after %d attempts for user %s, returning residual",
			maxDecryptAttempts, userID)
	}
	return current, nil
}
