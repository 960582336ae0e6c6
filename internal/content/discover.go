package content

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/muesli/gitcha"
)

// Entry is a deck file found on disk. Err is set when the file matched by
// extension but is not a valid deck.
type Entry struct {
	Path string
	Deck Deck
	Err  error
}

// Discover walks dir for deck files, honoring .gitignore rules unless all
// is set. Results are sorted by path.
func Discover(dir string, all bool) ([]Entry, error) {
	if dir == "" {
		var err error
		if dir, err = os.Getwd(); err != nil {
			return nil, err
		}
	}
	dir, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}

	var ch chan gitcha.SearchResult
	if all {
		ch, err = gitcha.FindAllFilesExcept(dir, Extensions, nil)
	} else {
		ch, err = gitcha.FindFilesExcept(dir, Extensions, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to search %s: %w", dir, err)
	}

	var entries []Entry
	for res := range ch {
		if res.Info != nil && res.Info.IsDir() {
			continue
		}
		d, err := Load(res.Path)
		entries = append(entries, Entry{Path: res.Path, Deck: d, Err: err})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Path < entries[j].Path })
	return entries, nil
}

// Valid returns only the entries that loaded.
func Valid(entries []Entry) []Entry {
	var out []Entry
	for _, e := range entries {
		if e.Err == nil {
			out = append(out, e)
		}
	}
	return out
}
