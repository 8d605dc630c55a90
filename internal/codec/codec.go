// Package codec serializes records to their canonical stored form and back.
//
// Encoding uses encoding/json, whose deterministic map-key ordering makes the
// byte output canonical for map-shaped records: two records with equal fields
// produce identical bytes and therefore identical hashes. The hash is a hex
// SHA-256 digest over the canonical bytes, used for change detection only;
// uniqueness is always by (collection, id).
package codec

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/foldcms/foldcms-go/internal/schema"
	"github.com/foldcms/foldcms-go/pkg/types"
)

// Encode serializes a record to canonical bytes and returns the content hash
// of those bytes.
func Encode(rec types.Record) (data []byte, hash string, err error) {
	data, err = json.Marshal(rec)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode record: %w", err)
	}
	sum := sha256.Sum256(data)
	return data, hex.EncodeToString(sum[:]), nil
}

// Decode parses canonical bytes and validates the result against the schema.
// Malformed bytes or a schema mismatch surface as *schema.ValidationError.
func Decode(data []byte, s *schema.Schema) (types.Record, error) {
	var rec types.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &schema.ValidationError{
			Issues: []string{fmt.Sprintf("malformed record data: %v", err)},
		}
	}
	if err := s.Validate(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Hash returns the content hash a record would be stored with.
func Hash(rec types.Record) (string, error) {
	_, h, err := Encode(rec)
	return h, err
}
