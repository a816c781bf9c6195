package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// EnvFile is a parsed KEY=VALUE credentials file.
// A zero EnvFile (no path, no values) stands for "no file found".
type EnvFile struct {
	Path   string
	Values map[string]string
}

// Lookup returns the value for key and whether the file defines it.
func (f *EnvFile) Lookup(key string) (string, bool) {
	if f == nil || f.Values == nil {
		return "", false
	}
	v, ok := f.Values[key]
	return v, ok
}

// Found reports whether a file was actually read.
func (f *EnvFile) Found() bool {
	return f != nil && f.Path != ""
}

// LoadEnvFile reads and parses the env file at path.
// A missing file is not an error and yields an empty EnvFile.
func LoadEnvFile(path string) (*EnvFile, error) {
	if path == "" {
		return &EnvFile{}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &EnvFile{}, nil
		}
		return nil, fmt.Errorf("failed to open env file %s: %w", path, err)
	}
	defer f.Close()

	values, err := ParseEnvFile(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
	}
	return &EnvFile{Path: path, Values: values}, nil
}

// ParseEnvFile parses KEY=VALUE lines. Parsing is best effort: blank
// lines, # comments, lines without '=' and lines with an empty key are
// skipped. A value wrapped in a matching pair of quotes is unquoted as-is;
// otherwise a trailing comment introduced by " #" or "\t#" is dropped.
// Later duplicates win. Lines have no length limit. The only error is a
// read failure.
func ParseEnvFile(r io.Reader) (map[string]string, error) {
	pairs := make(map[string]string)

	reader := bufio.NewReader(r)
	for {
		line, err := reader.ReadString('\n')
		if line != "" {
			parseEnvLine(pairs, line)
		}
		if errors.Is(err, io.EOF) {
			return pairs, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func parseEnvLine(pairs map[string]string, line string) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return
	}

	key, raw, ok := strings.Cut(line, "=")
	if !ok {
		return
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return
	}
	pairs[key] = parseEnvValue(raw)
}

func parseEnvValue(raw string) string {
	value := strings.TrimSpace(raw)

	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}

	for _, marker := range []string{" #", "\t#"} {
		if idx := strings.Index(value, marker); idx != -1 {
			value = strings.TrimSpace(value[:idx])
			break
		}
	}

	// KEY="quoted value" # comment
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') && value[len(value)-1] == value[0] {
		return value[1 : len(value)-1]
	}
	return value
}
