package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainSnapshot = "marquee/snapshot/v1"
	DomainTemplate = "marquee/template/v1"
)

// hashWithDomain computes SHA-256 hash with domain separation.
// Format: SHA256(domain + 0x00 + data)
// The null byte (0x00) separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash fingerprints an arbitrary JSON-encodable value under a domain.
// Equal content (after canonicalization) always produces the same hash.
func ContentHash(domain string, v any) (string, error) {
	canonical, err := MarshalCanonical(v)
	if err != nil {
		return "", fmt.Errorf("ContentHash: failed to marshal: %w", err)
	}
	return hashWithDomain(domain, canonical), nil
}

// TemplateHash fingerprints a single template.
func TemplateHash(t Template) string {
	h, err := ContentHash(DomainTemplate, []string(t))
	if err != nil {
		// []string always marshals
		panic(fmt.Sprintf("TemplateHash: %v", err))
	}
	return h
}
