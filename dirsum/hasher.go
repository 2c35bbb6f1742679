package dirsum

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// Digest is a SHA-256 content digest.
type Digest [sha256.Size]byte

// String renders the digest as 64 lowercase hex characters, the same form
// sha256sum prints.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest parses a digest from its 64-character hex rendering.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != hex.EncodedLen(len(d)) {
		return d, fmt.Errorf("digest %q: want %d hex characters, got %d", s, hex.EncodedLen(len(d)), len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return d, fmt.Errorf("digest %q: %w", s, err)
	}
	return d, nil
}

// GetHash calculates the SHA-256 digest of data from an io.Reader.
func GetHash(r io.Reader) (Digest, error) {
	var d Digest
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return d, err
	}
	copy(d[:], h.Sum(nil))
	return d, nil
}

// GetFileHash opens the file at path and returns the SHA-256 digest of its
// content.
func GetFileHash(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, err
	}
	defer file.Close()
	return GetHash(file)
}
