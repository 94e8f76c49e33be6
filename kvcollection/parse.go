package kvcollection

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"reflect"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// FromMapping builds a collection from a Go map. Go maps have no iteration order,
// so entries are appended in ascending key order. Function-valued entries are skipped.
func FromMapping[K cmp.Ordered, V any](m map[K]V) *Collection[K, V] {
	c := New[K, V](WithCapacity[V](len(m)))

	for _, key := range slices.Sorted(maps.Keys(m)) {
		value := m[key]

		if reflect.ValueOf(value).Kind() == reflect.Func {
			continue
		}

		c.keys = append(c.keys, key)
		c.values = append(c.values, value)
	}

	return c
}

// FromParallelSlices pairs keys[i] with values[i] for every i.
// The slices must have the same length.
func FromParallelSlices[K comparable, V any](keys []K, values []V) (*Collection[K, V], error) {
	if len(keys) != len(values) {
		return nil, fmt.Errorf("%w: %d keys, %d values", ErrLengthMismatch, len(keys), len(values))
	}

	c := New[K, V](WithCapacity[V](len(keys)))
	c.keys = append(c.keys, keys...)
	c.values = append(c.values, values...)

	return c, nil
}

// FromDelimitedString splits text around every separator and adds one entry per
// token, using the token as both key and value. Adjacent separators produce empty
// tokens. An empty separator splits after each UTF-8 sequence, as strings.Split does.
func FromDelimitedString(text, separator string) *Collection[string, string] {
	tokens := strings.Split(text, separator)

	c := New[string, string](WithCapacity[string](len(tokens)))
	c.keys = append(c.keys, tokens...)
	c.values = append(c.values, tokens...)

	return c
}

// upsertParsed records a decoded field. A repeated field name keeps its first
// position and takes the later value, as object decoding does.
func upsertParsed[V any](c *Collection[string, V], positions map[string]int, key string, value V) {
	if idx, ok := positions[key]; ok {
		c.values[idx] = value

		return
	}

	positions[key] = len(c.keys)
	c.keys = append(c.keys, key)
	c.values = append(c.values, value)
}

// FromJSON parses a JSON object into a collection, keeping the fields in document order.
// Each field value is decoded into V. Malformed input, a top-level value that is not an
// object, or a field that does not decode into V yields ErrParse.
func FromJSON[V any](text string) (*Collection[string, V], error) {
	dec := json.NewDecoder(strings.NewReader(text))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("%w: expected a JSON object, got %v", ErrParse, tok)
	}

	c := New[string, V]()
	positions := make(map[string]int)

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrParse, err)
		}

		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrParse, tok)
		}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrParse, key, err)
		}

		var value V
		if err := json.Unmarshal(raw, &value); err != nil {
			return nil, fmt.Errorf("%w: field %q: %w", ErrParse, key, err)
		}

		upsertParsed(c, positions, key, value)
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: trailing data after object", ErrParse)
	}

	return c, nil
}

// FromYAML parses a YAML mapping into a collection, keeping the keys in document order.
// Each value is decoded into V. Anything other than a single mapping document yields ErrParse.
func FromYAML[V any](data []byte) (*Collection[string, V], error) {
	var doc yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}

	if doc.Kind != yaml.DocumentNode || len(doc.Content) != 1 || doc.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: expected a YAML mapping", ErrParse)
	}

	mapping := doc.Content[0]
	c := New[string, V](WithCapacity[V](len(mapping.Content) / 2))
	positions := make(map[string]int)

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valueNode := mapping.Content[i], mapping.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: line %d: mapping keys must be scalars", ErrParse, keyNode.Line)
		}

		var value V
		if err := valueNode.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: key %q: %w", ErrParse, keyNode.Value, err)
		}

		if stringified, ok := stringifyKeys(any(value)).(V); ok {
			value = stringified
		}

		upsertParsed(c, positions, keyNode.Value, value)
	}

	return c, nil
}

// stringifyKeys rewrites the map[any]any values yaml.v3 produces for mappings with
// non-string keys into map[string]any, recursively, so they can be encoded as JSON.
func stringifyKeys(v any) any {
	switch node := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(node))

		for key, value := range node {
			out[fmt.Sprint(key)] = stringifyKeys(value)
		}

		return out
	case map[string]any:
		for key, value := range node {
			node[key] = stringifyKeys(value)
		}

		return node
	case []any:
		for i, value := range node {
			node[i] = stringifyKeys(value)
		}

		return node
	default:
		return v
	}
}
