package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Key builds the cache fingerprint for an upstream endpoint and its query
// parameters.
//
// Format: <endpoint>:<hash>
// where hash is the first 16 hex characters of SHA-256(JSON(params)).
// encoding/json writes map keys in sorted order, so logically equal parameter
// maps produce the same key regardless of insertion order.
func Key(endpoint string, params any) (string, error) {
	if err := ValidateKey(endpoint); err != nil {
		return "", err
	}

	canonical, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("cache: failed to encode params: %w", err)
	}

	sum := sha256.Sum256(canonical)
	return endpoint + ":" + hex.EncodeToString(sum[:8]), nil
}
