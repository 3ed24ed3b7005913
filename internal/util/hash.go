package util

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Fingerprint hashes the JSON encoding of parts with xxhash64 and returns
// 16 lowercase hex characters. Maps are encoded with sorted keys by
// encoding/json, so equal inputs always give the same fingerprint.
func Fingerprint(parts ...any) (string, error) {
	d := xxhash.New()
	for i, p := range parts {
		b, err := json.Marshal(p)
		if err != nil {
			return "", fmt.Errorf("fingerprint part %d: %w", i, err)
		}
		// length prefix keeps ["ab","c"] and ["a","bc"] apart
		_, _ = d.WriteString(strconv.Itoa(len(b)))
		_, _ = d.WriteString(":")
		_, _ = d.Write(b)
	}
	return fmt.Sprintf("%016x", d.Sum64()), nil
}
