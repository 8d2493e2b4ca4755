package ir

import (
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces a deterministic JSON encoding for hashing.
// CRITICAL: This is the ONLY serialization that should be used for
// content fingerprints of configuration snapshots.
//
// Differences from plain json.Marshal:
// 1. Object keys sorted (maps and structs alike, after a generic round trip)
// 2. No HTML escaping (< > & are NOT escaped - templates are full of markup)
// 3. Strings are NFC normalized, so visually identical config text hashes equal
// 4. Numbers are preserved verbatim (json.Number), never re-formatted
func MarshalCanonical(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("canonical: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var generic any
	if err := dec.Decode(&generic); err != nil {
		return nil, fmt.Errorf("canonical: %w", err)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false) // CRITICAL: <, >, & must NOT be escaped
	if err := enc.Encode(normalizeStrings(generic)); err != nil {
		return nil, fmt.Errorf("canonical: %w", err)
	}

	// json.Encoder adds trailing newline, remove it
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// normalizeStrings applies NFC normalization to every string and map key.
func normalizeStrings(v any) any {
	switch val := v.(type) {
	case string:
		return norm.NFC.String(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = normalizeStrings(elem)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, elem := range val {
			out[norm.NFC.String(k)] = normalizeStrings(elem)
		}
		return out
	default:
		return val
	}
}
