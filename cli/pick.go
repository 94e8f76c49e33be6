package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/amp-labs/kvcollection/kvcollection"
	"github.com/manifoldco/promptui"
)

// ErrNothingToPick is returned by the pick command for an empty collection.
var ErrNothingToPick = errors.New("nothing to pick from")

// Picker asks the user to choose one of items and returns its index.
type Picker func(label string, items []string, stdin io.Reader, stdout io.Writer) (int, error)

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// PromptPicker is the interactive Picker backed by promptui.
func PromptPicker(label string, items []string, stdin io.Reader, stdout io.Writer) (int, error) {
	sel := &promptui.Select{
		Label: label,
		Items: items,
		Size:  10,
		Searcher: func(input string, index int) bool {
			if len(input) == 0 {
				return true
			}

			return strings.Contains(strings.ToLower(items[index]), strings.ToLower(input))
		},
		Stdin:  io.NopCloser(stdin),
		Stdout: nopWriteCloser{stdout},
	}

	idx, _, err := sel.Run()
	if err != nil {
		return -1, err
	}

	return idx, nil
}

// pickEntry lets the user select an entry and returns it.
func pickEntry(
	c *kvcollection.Collection[string, any],
	picker Picker,
	stdin io.Reader,
	stdout io.Writer,
) (kvcollection.Entry[string, any], error) {
	if c.Count() == 0 {
		return kvcollection.Entry[string, any]{}, ErrNothingToPick
	}

	items := make([]string, 0, c.Count())

	for key, value := range c.All() {
		cell, err := formatValue(value)
		if err != nil {
			return kvcollection.Entry[string, any]{}, err
		}

		items = append(items, fmt.Sprintf("%s = %s", key, cell))
	}

	idx, err := picker("Select an entry", items, stdin, stdout)
	if err != nil {
		return kvcollection.Entry[string, any]{}, err
	}

	return c.EntryAt(idx)
}
