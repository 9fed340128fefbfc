package wordle

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
)

//go:embed words.txt
var defaultWords string

// LoadStats describes what LoadDictionary kept and dropped.
type LoadStats struct {
	Lines      int
	Words      int
	Duplicates int
	// Skipped holds the malformed entries: wrong length or non-alphabetic.
	Skipped []string
}

// LoadDictionary reads one word per line.  Lines are trimmed and lower cased; blank lines and
// lines starting with '#' are ignored.  Entries of the wrong length or with characters outside
// a-z are skipped and reported in LoadStats.  A length of 0 takes the length of the first
// valid entry.
func LoadDictionary(r io.Reader, length int) (*Dictionary, LoadStats, error) {
	stats := LoadStats{}
	var words []string
	seen := make(map[string]bool)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		stats.Lines++
		w := strings.ToLower(strings.TrimSpace(sc.Text()))
		if w == "" || strings.HasPrefix(w, "#") {
			continue
		}
		if Word(w).Validate() != nil || (length != 0 && len(w) != length) {
			stats.Skipped = append(stats.Skipped, w)
			continue
		}
		if length == 0 {
			length = len(w)
		}
		if seen[w] {
			stats.Duplicates++
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	if err := sc.Err(); err != nil {
		return nil, stats, fmt.Errorf("read dictionary: %w", err)
	}
	stats.Words = len(words)
	ret, err := NewDictionary(words)
	if err != nil {
		return nil, stats, err
	}
	return ret, stats, nil
}

func LoadDictionaryFile(path string, length int) (*Dictionary, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, err
	}
	defer f.Close()
	return LoadDictionary(f, length)
}

// DefaultDictionary returns the embedded five letter word list.
func DefaultDictionary() *Dictionary {
	ret, _, err := LoadDictionary(strings.NewReader(defaultWords), 5)
	if err != nil {
		panic(err)
	}
	return ret
}
