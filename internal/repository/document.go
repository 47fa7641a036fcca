package repository

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/blake2b"

	"github.com/sakif/genfolio/internal/model"
)

// EncodeDocument serializes p the way every backend stores it and returns
// the hex BLAKE2b-256 digest of the bytes.
func EncodeDocument(p *model.ProfileRecord) ([]byte, string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, "", fmt.Errorf("repository: encoding profile: %w", err)
	}
	return data, Digest(data), nil
}

// DecodeDocument is the inverse of EncodeDocument.
func DecodeDocument(data []byte) (*model.ProfileRecord, error) {
	var p model.ProfileRecord
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("repository: decoding profile: %w", err)
	}
	return &p, nil
}

// Digest returns the hex BLAKE2b-256 sum of data.
func Digest(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}
