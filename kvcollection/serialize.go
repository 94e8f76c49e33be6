package kvcollection

import (
	"bytes"
	"encoding/json"
	"fmt"
	"hash"
	"strings"

	"github.com/zeebo/xxh3"
	"gopkg.in/yaml.v3"
)

// ToMapping returns a Go map with one entry per slot. When keys repeat,
// the value of the last occurrence wins.
func (c *Collection[K, V]) ToMapping() map[K]V {
	out := make(map[K]V, len(c.keys))

	for i, key := range c.keys {
		out[key] = c.values[i]
	}

	return out
}

// fields collapses the entries into object fields named fmt.Sprint(key).
// A field sits where its name first appears and holds the value of its last occurrence.
func (c *Collection[K, V]) fields() ([]string, map[string]V) {
	names := make([]string, 0, len(c.keys))
	byName := make(map[string]V, len(c.keys))

	for i, key := range c.keys {
		name := fmt.Sprint(key)

		if _, seen := byName[name]; !seen {
			names = append(names, name)
		}

		byName[name] = c.values[i]
	}

	return names, byName
}

// MarshalJSON implements json.Marshaler. The collection is written as a JSON object
// whose fields follow entry order; see ToJSON.
func (c *Collection[K, V]) MarshalJSON() ([]byte, error) {
	names, byName := c.fields()

	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, name := range names {
		if i > 0 {
			buf.WriteByte(',')
		}

		nameBytes, err := marshalUnescaped(name)
		if err != nil {
			return nil, fmt.Errorf("error marshaling key %q: %w", name, err)
		}

		valueBytes, err := marshalUnescaped(byName[name])
		if err != nil {
			return nil, fmt.Errorf("error marshaling value of %q: %w", name, err)
		}

		buf.Write(nameBytes)
		buf.WriteByte(':')
		buf.Write(valueBytes)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// marshalUnescaped is json.Marshal without the \u003c-style escaping of <, > and &.
func marshalUnescaped(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// ToJSON renders the collection as a JSON object. Field names are the keys
// formatted with fmt.Sprint, in order of first appearance; a repeated key keeps
// its first position and takes the value of its last occurrence.
func (c *Collection[K, V]) ToJSON() (string, error) {
	data, err := c.MarshalJSON()
	if err != nil {
		return "", err
	}

	return string(data), nil
}

// ToXML renders each entry as <key>value</key>, concatenated without separators
// or a root element. Keys and values are formatted with fmt.Sprint and are not
// escaped; callers needing well-formed XML must sanitize them first.
func (c *Collection[K, V]) ToXML() string {
	var sb strings.Builder

	for i, key := range c.keys {
		name := fmt.Sprint(key)

		sb.WriteString("<")
		sb.WriteString(name)
		sb.WriteString(">")
		sb.WriteString(fmt.Sprint(c.values[i]))
		sb.WriteString("</")
		sb.WriteString(name)
		sb.WriteString(">")
	}

	return sb.String()
}

// ToYAML renders the collection as a YAML mapping with the same field
// rules as ToJSON.
func (c *Collection[K, V]) ToYAML() ([]byte, error) {
	names, byName := c.fields()

	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

	for _, name := range names {
		var valueNode yaml.Node

		if err := valueNode.Encode(byName[name]); err != nil {
			return nil, fmt.Errorf("error encoding value of %q: %w", name, err)
		}

		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
			&valueNode)
	}

	doc := &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}

	return yaml.Marshal(doc)
}

// UpdateHash feeds the ordered contents to h, one JSON-encoded [key, value] pair per
// slot. Every slot contributes, duplicates included.
func (c *Collection[K, V]) UpdateHash(h hash.Hash) error {
	enc := json.NewEncoder(h)

	for i, key := range c.keys {
		if err := enc.Encode([2]any{key, c.values[i]}); err != nil {
			return fmt.Errorf("error encoding entry %d: %w", i, err)
		}
	}

	return nil
}

// Fingerprint returns an xxh3 hash of the ordered contents. Two collections share a
// fingerprint when they hold the same JSON-equivalent entries in the same order.
func (c *Collection[K, V]) Fingerprint() (uint64, error) {
	hasher := xxh3.New()

	if err := c.UpdateHash(hasher); err != nil {
		return 0, err
	}

	return hasher.Sum64(), nil
}
