package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// readItems reads one domain or IP per line from the named file, or from
// stdin when the name is empty. Blank lines and #-comments are skipped;
// duplicates are dropped, first occurrence wins. Validation of each item
// happens in the engine so a bad line becomes a per-item error, not a
// refused batch.
func readItems(filename string) ([]string, error) {
	var reader io.Reader = os.Stdin
	if filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			return nil, fmt.Errorf("failed to open input file: %v", err)
		}
		defer file.Close()
		reader = file
	}
	return scanItems(reader)
}

func scanItems(reader io.Reader) ([]string, error) {
	var items []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.ToLower(line)
		if seen[line] {
			continue
		}
		seen[line] = true
		items = append(items, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %v", err)
	}

	return items, nil
}
