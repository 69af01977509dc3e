// Package rng provides the seeded random streams used by the simulations.
// A run is reproducible from its 32-byte seed.
package rng

import (
	"encoding/base64"
	"fmt"
	"strings"

	"lukechampine.com/frand"
)

const (
	bufSize = 1024
	rounds  = 12
)

// New returns a deterministic ChaCha stream for the given seed.
// The returned RNG is not safe for concurrent use.
func New(seed [32]byte) *frand.RNG {
	return frand.NewCustom(seed[:], bufSize, rounds)
}

// NewSeed draws a fresh seed from frand's entropy source.
func NewSeed() [32]byte {
	var seed [32]byte
	frand.Read(seed[:])
	return seed
}

// Uniform fills a new slice of length n with values in [0, 1).
func Uniform(r *frand.RNG, n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = r.Float64()
	}
	return v
}

// Noise returns n independent values drawn uniformly from [-width/2, width/2).
func Noise(r *frand.RNG, n int, width float64) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = width * (r.Float64() - 0.5)
	}
	return v
}

// EncodeSeed uses URL-safe base64 so seeds can go on a command line.
func EncodeSeed(seed [32]byte) string {
	return base64.RawURLEncoding.EncodeToString(seed[:])
}

// DecodeSeed accepts URL-safe or standard base64, with or without padding.
func DecodeSeed(s string) ([32]byte, error) {
	var seed [32]byte
	s = strings.TrimRight(strings.TrimSpace(s), "=")
	decoded, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		decoded, err = base64.RawStdEncoding.DecodeString(s)
		if err != nil {
			return seed, fmt.Errorf("decoding seed: %w", err)
		}
	}
	if len(decoded) != len(seed) {
		return seed, fmt.Errorf("invalid seed length: got %d bytes, expected %d", len(decoded), len(seed))
	}
	copy(seed[:], decoded)
	return seed, nil
}

// ParseSeed decodes s, or draws a fresh seed when s is empty.
func ParseSeed(s string) ([32]byte, error) {
	if strings.TrimSpace(s) == "" {
		return NewSeed(), nil
	}
	return DecodeSeed(s)
}
