// Package config loads codedoc settings and parses exclusion tokens.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	commentPrefix = "#"

	errorOpenExclusionFileFormat = "open exclusion file %s: %w"
	errorReadExclusionFileFormat = "read exclusion file %s: %w"
)

// ParseExclusionTokens splits text on commas, semicolons and whitespace and
// drops empty entries. Order is kept and duplicates are not removed.
func ParseExclusionTokens(text string) []string {
	return strings.FieldsFunc(text, func(character rune) bool {
		switch character {
		case ',', ';', ' ', '\t', '\n', '\r':
			return true
		default:
			return false
		}
	})
}

// ParseExclusionArguments parses every argument with ParseExclusionTokens and
// concatenates the results.
func ParseExclusionArguments(arguments []string) []string {
	var tokens []string
	for _, argument := range arguments {
		tokens = append(tokens, ParseExclusionTokens(argument)...)
	}
	return tokens
}

// LoadExclusionFile reads exclusion tokens from a file. Blank lines and lines
// starting with # are skipped; the remaining lines are parsed like command line
// tokens. A missing file yields no tokens.
//
// #nosec G304
func LoadExclusionFile(path string) ([]string, error) {
	fileHandle, openError := os.Open(path)
	if openError != nil {
		if os.IsNotExist(openError) {
			return nil, nil
		}
		return nil, fmt.Errorf(errorOpenExclusionFileFormat, path, openError)
	}
	defer fileHandle.Close()

	var tokens []string
	scanner := bufio.NewScanner(fileHandle)
	for scanner.Scan() {
		trimmedLine := strings.TrimSpace(scanner.Text())
		if trimmedLine == "" || strings.HasPrefix(trimmedLine, commentPrefix) {
			continue
		}
		tokens = append(tokens, ParseExclusionTokens(trimmedLine)...)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, fmt.Errorf(errorReadExclusionFileFormat, path, scanError)
	}
	return tokens, nil
}
