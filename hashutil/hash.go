// Package hashutil provides the streaming SHA-256 hashing used to
// content-address pack payloads.
package hashutil

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
)

// BlockSize is the default read block size used while streaming a hash.
const BlockSize = 64 * 1024

// Hash streams r in BlockSize chunks and returns the lowercase hex SHA-256
// digest. It does not rewind r; callers that need to read the stream again
// must seek or reopen it themselves.
func Hash(r io.Reader) (string, error) {
	h := sha256.New()
	buf := make([]byte, BlockSize)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
