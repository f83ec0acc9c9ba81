package ir

import (
	"crypto/sha256"
	"encoding/hex"
)

// Domain prefixes for content-addressed hashing. Version suffix enables
// future algorithm migration.
const (
	DomainGenerated = "figgo/generated/v1"
)

// hashWithDomain computes SHA-256 with domain separation. The null byte
// separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// GeneratedHash computes the content hash of a generated source file. Equal
// inputs through the full pipeline must produce equal hashes; the
// determinism tests compare these.
func GeneratedHash(source []byte) string {
	return hashWithDomain(DomainGenerated, source)
}
