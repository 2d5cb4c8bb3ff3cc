// Package config loads model descriptions and solver settings from YAML or
// JSON files.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeu5/mdp-dp/mdp"
)

var (
	ErrNotFound          = errors.New("model file not found")
	ErrUnsupportedFormat = errors.New("unsupported model file format")
	// ErrInvalidFormat is a model validation error: the file does not parse.
	ErrInvalidFormat = fmt.Errorf("%w: malformed model file", mdp.ErrModelValidation)
)

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatOf maps a file extension to a format.
func FormatOf(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// Loader reads model files.
type Loader struct {
	// ExpandEnv replaces ${VAR} and $VAR before parsing.
	ExpandEnv bool
	// StrictEnv fails on references to unset variables.
	StrictEnv bool
}

func NewLoader() *Loader {
	return &Loader{ExpandEnv: true}
}

// LoadModelFile reads a model from path, choosing the format by extension.
func (l *Loader) LoadModelFile(path string) (*ModelSpec, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to access model file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrInvalidFormat, path)
	}
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	spec, err := l.Load(f, format)
	if err != nil {
		return nil, err
	}
	if spec.Name == "" {
		spec.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return spec, nil
}

func (l *Loader) Load(r io.Reader, format Format) (*ModelSpec, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read model: %w", err)
	}
	if l.ExpandEnv {
		if data, err = l.expandEnv(data); err != nil {
			return nil, err
		}
	}

	spec := &ModelSpec{}
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, spec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case FormatJSON:
		if err := json.Unmarshal(data, spec); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return spec, nil
}

func (l *Loader) LoadString(content string, format Format) (*ModelSpec, error) {
	return l.Load(strings.NewReader(content), format)
}

func (l *Loader) expandEnv(data []byte) ([]byte, error) {
	var missing []string
	out := os.Expand(string(data), func(key string) string {
		v, ok := os.LookupEnv(key)
		if !ok {
			missing = append(missing, key)
		}
		return v
	})
	if l.StrictEnv && len(missing) > 0 {
		return nil, fmt.Errorf("%w: unset environment variables %s", ErrInvalidFormat, strings.Join(missing, ", "))
	}
	return []byte(out), nil
}
