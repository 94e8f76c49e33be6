// Package hashing computes hex digests of values that know how to feed a hash.Hash.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"slices"
	"strings"

	"github.com/zeebo/xxh3"
)

// ErrUnknownAlgorithm is returned by Lookup for an unsupported algorithm name.
var ErrUnknownAlgorithm = errors.New("unknown hash algorithm")

// HashFunc is a function that takes a Hashable object
// and returns a string representation of its hashing.
// Xxh3 and Sha256 are both HashFuncs.
type HashFunc func(hashable Hashable) (string, error)

// Hashable is an interface that allows an object to update
// a hash.Hash with its contents.
type Hashable interface {
	UpdateHash(h hash.Hash) error
}

var algorithms = map[string]HashFunc{ //nolint:gochecknoglobals
	"sha256": Sha256,
	"xxh3":   Xxh3,
}

// Sha256 returns the SHA256 hashing of the given Hashable
// as a hex-encoded string.
func Sha256(hashable Hashable) (string, error) {
	return digest(sha256.New(), hashable)
}

// Xxh3 returns the 64-bit xxh3 hashing of the given Hashable
// as a 16 character hex-encoded string.
func Xxh3(hashable Hashable) (string, error) {
	return digest(xxh3.New(), hashable)
}

func digest(h hash.Hash, hashable Hashable) (string, error) {
	if err := hashable.UpdateHash(h); err != nil {
		return "", err
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// Lookup returns the HashFunc registered under name (case-insensitive).
func Lookup(name string) (HashFunc, error) {
	fn, ok := algorithms[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w %q (known: %s)", ErrUnknownAlgorithm, name, strings.Join(Algorithms(), ", "))
	}

	return fn, nil
}

// Algorithms lists the names accepted by Lookup.
func Algorithms() []string {
	names := make([]string, 0, len(algorithms))

	for name := range algorithms {
		names = append(names, name)
	}

	slices.Sort(names)

	return names
}

// HashableString hashes as its raw bytes.
type HashableString string

func (s HashableString) UpdateHash(h hash.Hash) error {
	_, err := h.Write([]byte(s))

	return err
}
