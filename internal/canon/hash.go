package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// Version suffix enables future algorithm migration.
const (
	DomainCheck    = "babelgo/check/v1"
	DomainAST      = "babelgo/ast/v1"
	DomainOptions  = "babelgo/options/v1"
	DomainArtifact = "babelgo/artifact/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator prevents domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// Hash canonicalizes v and hashes it under domain.
func Hash(domain string, v any) (string, error) {
	data, err := Marshal(v)
	if err != nil {
		return "", fmt.Errorf("canon.Hash: %w", err)
	}
	return hashWithDomain(domain, data), nil
}

// CheckID computes the content-addressed identity of a verification check.
// The same suite, check name, input, and options always produce the same ID,
// so stored results can be compared across runs.
func CheckID(suite, name, input string, options map[string]any) (string, error) {
	if options == nil {
		options = map[string]any{}
	}
	obj := map[string]any{
		"suite":   suite,
		"name":    name,
		"input":   input,
		"options": options,
	}
	return Hash(DomainCheck, obj)
}

// ArtifactHash identifies a transform output by its code.
func ArtifactHash(code string) string {
	return hashWithDomain(DomainArtifact, []byte(code))
}

// MustCheckID is like CheckID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustCheckID(suite, name, input string, options map[string]any) string {
	id, err := CheckID(suite, name, input, options)
	if err != nil {
		panic(err)
	}
	return id
}
