package fsutil

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// SafeJoin performs path joining with normalization
func SafeJoin(elem ...string) string {
	return filepath.Clean(filepath.Join(elem...))
}

// ResolveUnder places a relative path under root. Absolute paths and an
// empty root leave p as given.
func ResolveUnder(root, p string) string {
	if root == "" || p == "" || filepath.IsAbs(p) {
		return p
	}
	return SafeJoin(root, p)
}

// ReadFile opens a file for reading
func ReadFile(name string) (*os.File, error) {
	return os.Open(name)
}

// ReadTxtFile reads the non-blank lines of a text file, trimmed
func ReadTxtFile(path string) ([]string, error) {
	f, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
