package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/amp-labs/kvcollection/kvcollection"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

// ErrUnknownFormat is returned for an input or output format kvc does not support.
var ErrUnknownFormat = errors.New("unknown format")

var utf8BOM = []byte{0xEF, 0xBB, 0xBF} //nolint:gochecknoglobals

type readResult struct {
	data []byte
	err  error
}

// readInput reads the named file, or stdin when no file (or "-") is given.
// Reading stdin gives up with the context's error once ctx is done.
func readInput(ctx context.Context, stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		done := make(chan readResult, 1)

		go func() {
			data, err := io.ReadAll(stdin)
			done <- readResult{data: data, err: err}
		}()

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("error reading stdin: %w", ctx.Err())
		case res := <-done:
			if res.err != nil {
				return nil, fmt.Errorf("error reading stdin: %w", res.err)
			}

			return res.data, nil
		}
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	return data, nil
}

// toUTF8 converts raw input to UTF-8. An explicit charset label is used when given.
// Otherwise valid UTF-8 passes through untouched and anything else goes through
// charset detection. Returns the data and the charset that was applied.
func toUTF8(data []byte, label string) ([]byte, string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)

	if label == "" {
		if utf8.Valid(data) {
			return data, "utf-8", nil
		}

		best, err := chardet.NewTextDetector().DetectBest(data)
		if err != nil {
			// Last resort, keep the bytes as they are
			return data, "utf-8", nil //nolint:nilerr
		}

		label = best.Charset
	}

	reader, err := charset.NewReaderLabel(label, bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("unsupported charset %q: %w", label, err)
	}

	decoded, err := io.ReadAll(reader)
	if err != nil {
		return nil, "", fmt.Errorf("error decoding %s input: %w", label, err)
	}

	return decoded, label, nil
}

// parseCollection turns decoded input into a collection according to cfg.
func parseCollection(data []byte, cfg Config) (*kvcollection.Collection[string, any], error) {
	if cfg.Normalize {
		data = norm.NFC.Bytes(data)
	}

	switch strings.ToLower(cfg.InputFormat) {
	case "json":
		return kvcollection.FromJSON[any](string(data))
	case "yaml", "yml":
		return kvcollection.FromYAML[any](data)
	case "delimited", "text":
		text := strings.TrimSuffix(string(data), "\n")
		text = strings.TrimSuffix(text, "\r")

		tokens := kvcollection.FromDelimitedString(text, cfg.Separator)
		c := kvcollection.New[string, any](kvcollection.WithCapacity[any](tokens.Count()))

		for key, value := range tokens.All() {
			c.Add(key, value)
		}

		return c, nil
	default:
		return nil, fmt.Errorf("%w: input %q", ErrUnknownFormat, cfg.InputFormat)
	}
}
