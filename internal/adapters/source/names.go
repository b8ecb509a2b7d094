package source

import (
	"bufio"
	"os"
	"strings"
)

// LoadNames reads the seasonal roster file: one player name per line,
// trimmed, blank lines dropped, duplicates removed with the first occurrence
// winning. A missing file returns ErrMissingNamesList so callers can show an
// explicit "roster unavailable" state instead of an empty table.
func LoadNames(path string) ([]string, error) {
	const op = "source.load_names"

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, wrap(op, ErrMissingNamesList)
		}
		return nil, wrap(op, err)
	}
	defer f.Close()

	var (
		names []string
		seen  = make(map[string]struct{})
	)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if err := scanner.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return names, nil
}

// NameSet turns a name list into the exact-match set the engine filters on.
func NameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}

// ParseAllowList splits free text on commas and newlines into a trimmed,
// deduplicated name set. Matching downstream is exact: no case folding, no
// whitespace normalization beyond the trim.
func ParseAllowList(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, part := range strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || r == '\n'
	}) {
		name := strings.TrimSpace(part)
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}
