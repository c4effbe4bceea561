package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/temirov/codedoc/internal/utils"
)

func boolPointer(value bool) *bool {
	pointer := value
	return &pointer
}

func TestLoadApplicationConfigurationMergesSources(t *testing.T) {
	testCases := []struct {
		name             string
		globalContent    string
		localContent     string
		explicitPath     string
		expectFormat     string
		expectExclude    []string
		expectGitignore  *bool
		expectClipboard  *bool
		expectTokens     *bool
		expectModel      string
		expectProgress   *bool
		expectLoadFailed bool
	}{
		{
			name:            "local_overrides_global",
			globalContent:   "generate:\n  format: json\n  clipboard: true\n  use_gitignore: true\n  exclude: [docs]\n",
			localContent:    "generate:\n  format: raw\n  exclude: [\"vendor, tmp\", vendor]\n  tokens:\n    enabled: true\n    model: custom\n",
			expectFormat:    "raw",
			expectExclude:   []string{"vendor", "tmp"},
			expectGitignore: boolPointer(true),
			expectClipboard: boolPointer(true),
			expectTokens:    boolPointer(true),
			expectModel:     "custom",
		},
		{
			name:           "explicit_path_only",
			globalContent:  "generate:\n  format: json\n",
			localContent:   "generate:\n  format: raw\n  progress: false\n",
			explicitPath:   "custom.yaml",
			expectFormat:   "raw",
			expectProgress: boolPointer(false),
		},
		{
			name:          "global_only",
			globalContent: "generate:\n  format: json\n  exclude: [fixtures]\n",
			expectFormat:  "json",
			expectExclude: []string{"fixtures"},
		},
		{
			name:             "missing_explicit_path",
			explicitPath:     "absent.yaml",
			expectLoadFailed: true,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			homeDirectory := t.TempDir()
			workingDirectory := t.TempDir()
			t.Setenv("HOME", homeDirectory)
			t.Setenv("USERPROFILE", homeDirectory)

			if testCase.globalContent != "" {
				globalDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
				if err := os.MkdirAll(globalDirectory, 0o755); err != nil {
					t.Fatalf("mkdir global: %v", err)
				}
				if err := os.WriteFile(filepath.Join(globalDirectory, utils.ConfigFileName), []byte(testCase.globalContent), 0o600); err != nil {
					t.Fatalf("write global: %v", err)
				}
			}
			if testCase.localContent != "" {
				localName := utils.ConfigFileName
				if testCase.explicitPath != "" {
					localName = testCase.explicitPath
				}
				if err := os.WriteFile(filepath.Join(workingDirectory, localName), []byte(testCase.localContent), 0o600); err != nil {
					t.Fatalf("write local: %v", err)
				}
			}

			configuration, err := LoadApplicationConfiguration(LoadOptions{WorkingDirectory: workingDirectory, ExplicitFilePath: testCase.explicitPath})
			if testCase.expectLoadFailed {
				if err == nil {
					t.Fatalf("expected a load error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadApplicationConfiguration error: %v", err)
			}
			generate := configuration.Generate
			if generate.Format != testCase.expectFormat {
				t.Fatalf("format = %q, want %q", generate.Format, testCase.expectFormat)
			}
			if strings.Join(generate.Exclude, "|") != strings.Join(testCase.expectExclude, "|") {
				t.Fatalf("exclude = %v, want %v", generate.Exclude, testCase.expectExclude)
			}
			assertBoolPointer(t, "use_gitignore", generate.UseGitignore, testCase.expectGitignore)
			assertBoolPointer(t, "clipboard", generate.Clipboard, testCase.expectClipboard)
			assertBoolPointer(t, "tokens.enabled", generate.Tokens.Enabled, testCase.expectTokens)
			assertBoolPointer(t, "progress", generate.Progress, testCase.expectProgress)
			if generate.Tokens.Model != testCase.expectModel {
				t.Fatalf("model = %q, want %q", generate.Tokens.Model, testCase.expectModel)
			}
		})
	}
}

func assertBoolPointer(t *testing.T, name string, actual *bool, expected *bool) {
	t.Helper()
	if (actual == nil) != (expected == nil) {
		t.Fatalf("%s = %v, want %v", name, actual, expected)
	}
	if actual != nil && *actual != *expected {
		t.Fatalf("%s = %v, want %v", name, *actual, *expected)
	}
}

func TestBoolOrDefault(t *testing.T) {
	if !BoolOrDefault(nil, true) || BoolOrDefault(boolPointer(false), true) || !BoolOrDefault(boolPointer(true), false) {
		t.Fatalf("BoolOrDefault returned an unexpected value")
	}
}
