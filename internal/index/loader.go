package index

import (
	_ "embed"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

//go:embed words.tsv
var defaultWords string

// Load reads tab separated records of word, frequency and optional group.
// Lines starting with # are comments.
func (idx *Index) Load(r io.Reader) error {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	loaded := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read dictionary: %w", err)
		}

		word := strings.TrimSpace(rec[0])
		if word == "" {
			continue
		}

		freq := 1
		if len(rec) > 1 && strings.TrimSpace(rec[1]) != "" {
			freq, err = strconv.Atoi(strings.TrimSpace(rec[1]))
			if err != nil {
				line, _ := cr.FieldPos(1)
				return fmt.Errorf("invalid frequency for %q on line %d: %w", word, line, err)
			}
		}

		var group string
		if len(rec) > 2 {
			group = strings.TrimSpace(rec[2])
		}

		idx.Add(word, freq, group)
		loaded++
	}

	idx.logger.Debug("dictionary loaded", "words", loaded)
	return nil
}

// LoadFile loads a dictionary file
func (idx *Index) LoadFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open dictionary: %w", err)
	}
	defer f.Close()

	if err := idx.Load(f); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadDefault loads the built-in word list
func (idx *Index) LoadDefault() error {
	return idx.Load(strings.NewReader(defaultWords))
}
