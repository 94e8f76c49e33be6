package cli

import (
	"bytes"
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/kvcollection/kvcollection"
	"github.com/amp-labs/kvcollection/sortable"
	"github.com/jedib0t/go-pretty/v6/table"
)

// render writes the collection to w in the requested output format.
func render(w io.Writer, c *kvcollection.Collection[string, any], format string) error {
	switch strings.ToLower(format) {
	case "json":
		out, err := c.ToJSON()
		if err != nil {
			return err
		}

		_, err = fmt.Fprintln(w, out)

		return err
	case "xml":
		_, err := fmt.Fprintln(w, c.ToXML())

		return err
	case "yaml", "yml":
		out, err := c.ToYAML()
		if err != nil {
			return err
		}

		_, err = w.Write(out)

		return err
	case "table":
		return renderTable(w, c)
	default:
		return fmt.Errorf("%w: output %q", ErrUnknownFormat, format)
	}
}

func renderTable(w io.Writer, c *kvcollection.Collection[string, any]) error {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Key", "Value"})

	for i, entry := range c.Seq() {
		cell, err := formatValue(entry.Value)
		if err != nil {
			return err
		}

		t.AppendRow(table.Row{i, entry.Key, cell})
	}

	t.Render()

	return nil
}

// formatValue prints strings as they are and everything else as JSON.
func formatValue(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(value); err != nil {
		return "", fmt.Errorf("error formatting value: %w", err)
	}

	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// applySort orders the collection by "key" or "value"; "" and "none" leave it as is.
func applySort(c *kvcollection.Collection[string, any], by string, natural bool) error {
	strCompare := strings.Compare
	if natural {
		strCompare = sortable.Natural
	}

	switch strings.ToLower(by) {
	case "", "none":
		return nil
	case "key":
		c.SortByKeyFunc(strCompare)
	case "value":
		c.SortByValueFunc(compareValues(strCompare))
	default:
		return fmt.Errorf("%w: sort by %q", ErrUnknownFormat, by)
	}

	return nil
}

// compareValues orders decoded JSON/YAML values: nulls, then booleans, then numbers,
// then strings, then everything else by its printed form.
func compareValues(strCompare func(a, b string) int) func(a, b any) int {
	return func(a, b any) int {
		rankA, rankB := valueRank(a), valueRank(b)
		if rankA != rankB {
			return cmp.Compare(rankA, rankB)
		}

		switch av := a.(type) {
		case nil:
			return 0
		case bool:
			bv, _ := b.(bool)

			switch {
			case av == bv:
				return 0
			case !av:
				return -1
			default:
				return 1
			}
		case string:
			bv, _ := b.(string)

			return strCompare(av, bv)
		}

		if af, ok := toFloat(a); ok {
			bf, _ := toFloat(b)

			return cmp.Compare(af, bf)
		}

		return strCompare(fmt.Sprint(a), fmt.Sprint(b))
	}
}

func valueRank(v any) int {
	switch v.(type) {
	case nil:
		return 0
	case bool:
		return 1
	case string:
		return 3
	}

	if _, ok := toFloat(v); ok {
		return 2
	}

	return 4
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}
