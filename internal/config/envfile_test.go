package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseEnvFile(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:     "Plain pair",
			input:    "CURSOR_API_KEY=key_abc123\n",
			expected: map[string]string{"CURSOR_API_KEY": "key_abc123"},
		},
		{
			name:     "Double quoted",
			input:    `CURSOR_API_KEY="key with spaces"`,
			expected: map[string]string{"CURSOR_API_KEY": "key with spaces"},
		},
		{
			name:     "Single quoted",
			input:    `CURSOR_API_KEY='key_abc123'`,
			expected: map[string]string{"CURSOR_API_KEY": "key_abc123"},
		},
		{
			name:     "Quoted with trailing comment",
			input:    `CURSOR_API_KEY="key_abc123" # personal key`,
			expected: map[string]string{"CURSOR_API_KEY": "key_abc123"},
		},
		{
			name:     "Unquoted with trailing comment",
			input:    "CURSOR_API_KEY=key_abc123 # personal key",
			expected: map[string]string{"CURSOR_API_KEY": "key_abc123"},
		},
		{
			name:     "Tab before comment",
			input:    "CURSOR_API_KEY=key_abc123\t# personal key",
			expected: map[string]string{"CURSOR_API_KEY": "key_abc123"},
		},
		{
			name:     "Hash inside quotes kept",
			input:    `SECRET="abc #def"`,
			expected: map[string]string{"SECRET": "abc #def"},
		},
		{
			name:     "Hash without space kept",
			input:    "URL=https://example.com/#anchor",
			expected: map[string]string{"URL": "https://example.com/#anchor"},
		},
		{
			name:     "Blank lines and comments skipped",
			input:    "\n# comment\n   \nA=1\n  # indented comment\nB=2\n",
			expected: map[string]string{"A": "1", "B": "2"},
		},
		{
			name:     "Malformed lines skipped",
			input:    "no equals sign\n=missingkey\nGOOD=yes\n",
			expected: map[string]string{"GOOD": "yes"},
		},
		{
			name:     "Whitespace around key and value",
			input:    "  KEY  =   value  ",
			expected: map[string]string{"KEY": "value"},
		},
		{
			name:     "Value containing equals",
			input:    "TOKEN=abc=def==",
			expected: map[string]string{"TOKEN": "abc=def=="},
		},
		{
			name:     "Empty value",
			input:    "EMPTY=",
			expected: map[string]string{"EMPTY": ""},
		},
		{
			name:     "Later duplicate wins",
			input:    "A=1\nA=2\n",
			expected: map[string]string{"A": "2"},
		},
		{
			name:     "Mismatched quotes left alone",
			input:    `A="abc'`,
			expected: map[string]string{"A": `"abc'`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEnvFile(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseEnvFile: %v", err)
			}
			if len(got) != len(tt.expected) {
				t.Fatalf("ParseEnvFile(%q) = %v, want %v", tt.input, got, tt.expected)
			}
			for k, want := range tt.expected {
				if got[k] != want {
					t.Errorf("ParseEnvFile(%q)[%q] = %q, want %q", tt.input, k, got[k], want)
				}
			}
		})
	}
}

func TestParseEnvFileLongLine(t *testing.T) {
	long := "NOTES=" + strings.Repeat("x", 70000)

	tests := []struct {
		name  string
		input string
	}{
		{name: "Long line before key", input: long + "\nCURSOR_API_KEY=key_abc\n"},
		{name: "Long line after key", input: "CURSOR_API_KEY=key_abc\n" + long},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEnvFile(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("ParseEnvFile: %v", err)
			}
			if got["CURSOR_API_KEY"] != "key_abc" {
				t.Errorf("CURSOR_API_KEY = %q, want %q", got["CURSOR_API_KEY"], "key_abc")
			}
			if len(got["NOTES"]) != 70000 {
				t.Errorf("len(NOTES) = %d, want 70000", len(got["NOTES"]))
			}
		})
	}
}

func TestLoadEnvFileMissing(t *testing.T) {
	f, err := LoadEnvFile(filepath.Join(t.TempDir(), ".env"))
	if err != nil {
		t.Fatalf("LoadEnvFile on missing file: %v", err)
	}
	if f.Found() {
		t.Error("missing file reported as found")
	}
	if _, ok := f.Lookup(APIKeyEnv); ok {
		t.Error("missing file defines a key")
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("CURSOR_API_KEY=\"from_file\" # saved\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := LoadEnvFile(path)
	if err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if !f.Found() || f.Path != path {
		t.Errorf("Path = %q, want %q", f.Path, path)
	}
	if v, _ := f.Lookup(APIKeyEnv); v != "from_file" {
		t.Errorf("Lookup = %q, want %q", v, "from_file")
	}
}

func TestFirstExisting(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "missing.env")
	present := filepath.Join(dir, "present.env")
	if err := os.WriteFile(present, []byte("A=1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	if got := firstExisting([]string{missing, present}); got != present {
		t.Errorf("firstExisting = %q, want %q", got, present)
	}
	if got := firstExisting([]string{missing, dir}); got != "" {
		t.Errorf("firstExisting skipped nothing, got %q", got)
	}
}
