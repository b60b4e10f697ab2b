package fileutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("Could not get home directory")
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty path",
			input:    "",
			expected: "",
		},
		{
			name:     "tilde only",
			input:    "~",
			expected: homeDir,
		},
		{
			name:     "tilde with subpath",
			input:    "~/configs/nightly.txt",
			expected: filepath.Join(homeDir, "configs/nightly.txt"),
		},
		{
			name:     "absolute path unchanged",
			input:    "/usr/local/etc/configurations.txt",
			expected: "/usr/local/etc/configurations.txt",
		},
		{
			name:     "relative path cleaned",
			input:    "./templates/../configurations.txt",
			expected: "configurations.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.input)
			if err != nil {
				t.Fatalf("ExpandPath(%q) error = %v", tt.input, err)
			}
			if got != tt.expected {
				t.Errorf("ExpandPath(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestExpandPathWithEnvVar(t *testing.T) {
	testPath := "/test/path"
	os.Setenv("TEST_WFMAKE_PATH", testPath)
	defer os.Unsetenv("TEST_WFMAKE_PATH")

	got, err := ExpandPath("$TEST_WFMAKE_PATH/subdir")
	if err != nil {
		t.Fatalf("ExpandPath() error = %v", err)
	}

	expected := filepath.Join(testPath, "subdir")
	if got != expected {
		t.Errorf("ExpandPath() = %v, want %v", got, expected)
	}
}
