package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/temirov/codedoc/internal/tokenizer"
	"github.com/temirov/codedoc/internal/types"
	"github.com/temirov/codedoc/internal/utils"
)

// InitTarget identifies where configuration should be initialized.
type InitTarget string

const (
	// InitTargetLocal writes configuration into the working directory.
	InitTargetLocal InitTarget = "local"
	// InitTargetGlobal writes configuration into the global configuration directory.
	InitTargetGlobal InitTarget = "global"

	templateIndent = 2
)

// InitOptions controls how configuration initialization behaves.
type InitOptions struct {
	Target           InitTarget
	Force            bool
	WorkingDirectory string
}

type templateDocument struct {
	Generate templateGenerate `yaml:"generate"`
}

type templateGenerate struct {
	Format       string         `yaml:"format"`
	Exclude      []string       `yaml:"exclude"`
	ExcludeFile  string         `yaml:"exclude_file"`
	UseGitignore bool           `yaml:"use_gitignore"`
	Progress     bool           `yaml:"progress"`
	Clipboard    bool           `yaml:"clipboard"`
	Tokens       templateTokens `yaml:"tokens"`
}

type templateTokens struct {
	Enabled bool   `yaml:"enabled"`
	Model   string `yaml:"model"`
}

// DefaultConfigurationTemplate renders the configuration written by init.
func DefaultConfigurationTemplate() (string, error) {
	document := templateDocument{
		Generate: templateGenerate{
			Format:   types.FormatRaw,
			Exclude:  []string{},
			Progress: true,
			Tokens:   templateTokens{Model: tokenizer.DefaultModel},
		},
	}
	var buffer bytes.Buffer
	encoder := yaml.NewEncoder(&buffer)
	encoder.SetIndent(templateIndent)
	if err := encoder.Encode(document); err != nil {
		return "", fmt.Errorf("encode configuration template: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return "", fmt.Errorf("encode configuration template: %w", err)
	}
	return buffer.String(), nil
}

// InitializeConfiguration writes the default configuration to the requested target.
func InitializeConfiguration(options InitOptions) (string, error) {
	target := options.Target
	if target == "" {
		target = InitTargetLocal
	}
	var destinationPath string
	switch target {
	case InitTargetLocal:
		workingDirectory := options.WorkingDirectory
		if workingDirectory == "" {
			current, err := os.Getwd()
			if err != nil {
				return "", fmt.Errorf("determine working directory for configuration: %w", err)
			}
			workingDirectory = current
		}
		destinationPath = filepath.Join(workingDirectory, utils.ConfigFileName)
	case InitTargetGlobal:
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory for configuration: %w", err)
		}
		configurationDirectory := filepath.Join(homeDirectory, utils.GlobalConfigDirectoryName)
		if err := os.MkdirAll(configurationDirectory, 0o755); err != nil {
			return "", fmt.Errorf("create configuration directory %s: %w", configurationDirectory, err)
		}
		destinationPath = filepath.Join(configurationDirectory, utils.ConfigFileName)
	default:
		return "", fmt.Errorf("unsupported init target %q", target)
	}

	if _, err := os.Stat(destinationPath); err == nil {
		if !options.Force {
			return "", fmt.Errorf("configuration file already exists at %s", destinationPath)
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("inspect configuration path %s: %w", destinationPath, err)
	}

	template, templateErr := DefaultConfigurationTemplate()
	if templateErr != nil {
		return "", templateErr
	}
	if err := os.WriteFile(destinationPath, []byte(template), 0o600); err != nil {
		return "", fmt.Errorf("write configuration to %s: %w", destinationPath, err)
	}

	return destinationPath, nil
}
