// Package dictionary holds the English word list used to undo diacritics on
// words that were never meant to be Vietnamese.
package dictionary

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
)

//go:embed words.txt
var defaultWords string

type Dictionary struct {
	words map[string]struct{}
}

// Default returns the built-in word list.
func Default() *Dictionary {
	dict, err := parse(strings.NewReader(defaultWords))
	if err != nil {
		panic(fmt.Sprintf("dictionary: embedded word list: %v", err))
	}
	return dict
}

// Load reads a word list from path. Each line holds one word; a line may also
// be a tab-separated record, in which case its first field is the word.
func Load(path string) (*Dictionary, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary %s: %w", path, err)
	}
	defer file.Close()

	dict, err := parse(file)
	if err != nil {
		return nil, fmt.Errorf("read dictionary %s: %w", path, err)
	}
	return dict, nil
}

func parse(r io.Reader) (*Dictionary, error) {
	dict := &Dictionary{words: make(map[string]struct{})}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		word, _, _ := strings.Cut(line, "\t")
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		dict.words[strings.ToLower(word)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return dict, nil
}

// Merge adds the words of other.
func (d *Dictionary) Merge(other *Dictionary) {
	if d == nil || other == nil {
		return
	}
	for w := range other.words {
		d.words[w] = struct{}{}
	}
}

func (d *Dictionary) Contains(word string) bool {
	if d == nil || word == "" {
		return false
	}
	_, ok := d.words[strings.ToLower(word)]
	return ok
}

func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.words)
}

// Words lists the words in sorted order.
func (d *Dictionary) Words() []string {
	if d == nil {
		return nil
	}
	return slices.Sorted(maps.Keys(d.words))
}
