// Package normalization maps loosely written configuration strings onto
// typed enum values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Func folds a raw string into its lookup key.
type Func func(string) string

// Normalizer provides type-safe string-to-enum normalization.
type Normalizer[T comparable] struct {
	fold        Func
	validValues map[string]T
	validKeys   []string
}

// NewNormalizer creates a normalizer with a map of accepted spellings.
// Keys are folded with DefaultFold, so "Prod" and " prod " match "prod".
func NewNormalizer[T comparable](values map[string]T) *Normalizer[T] {
	return WithCustomFold(values, DefaultFold)
}

// WithCustomFold creates a normalizer that folds both keys and input with fold.
func WithCustomFold[T comparable](values map[string]T, fold Func) *Normalizer[T] {
	n := &Normalizer[T]{
		fold:        fold,
		validValues: make(map[string]T, len(values)),
		validKeys:   make([]string, 0, len(values)),
	}
	for k, v := range values {
		key := fold(k)
		n.validValues[key] = v
		n.validKeys = append(n.validKeys, key)
	}
	sort.Strings(n.validKeys)
	return n
}

// Lookup returns the value for raw and whether it was recognized.
func (n *Normalizer[T]) Lookup(raw string) (T, bool) {
	v, ok := n.validValues[n.fold(raw)]
	return v, ok
}

// Normalize returns the value for raw, or the zero value when unknown.
func (n *Normalizer[T]) Normalize(raw string) T {
	v, _ := n.Lookup(raw)
	return v
}

// NormalizeWithError returns an error listing the accepted spellings when raw is unknown.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if v, ok := n.Lookup(raw); ok {
		return v, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.validKeys)
}

// ValidKeys returns all accepted spellings, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	out := make([]string, len(n.validKeys))
	copy(out, n.validKeys)
	return out
}

// DefaultFold lowercases and trims s.
func DefaultFold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// SnakeFold is DefaultFold with dashes turned into underscores.
func SnakeFold(s string) string {
	return strings.ReplaceAll(DefaultFold(s), "-", "_")
}
