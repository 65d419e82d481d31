package fixture

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format names a fixture encoding.
type Format string

const (
	// YAML is the YAML encoding, used for .yaml and .yml files.
	YAML Format = "yaml"
	// JSON is the JSON encoding, used for .json files.
	JSON Format = "json"
)

var (
	// ErrUnsupportedFormat is returned for unknown file extensions or formats.
	ErrUnsupportedFormat = errors.New("unsupported fixture format")

	// ErrInvalidFixture is returned when a fixture fails validation.
	ErrInvalidFixture = errors.New("invalid fixture")
)

// File is a parsed fixture.
type File struct {
	// Config holds configuration keys applied before the mocks are
	// registered.
	Config map[string]any `yaml:"config" json:"config"`

	// Mocks are registered in order.
	Mocks []Mock `yaml:"mocks" json:"mocks"`
}

// Mock is a single declarative mock.
type Mock struct {
	URL    string `yaml:"url" json:"url"`
	Method string `yaml:"method" json:"method"`

	// Delay is in milliseconds. Nil uses the configured default.
	Delay *int `yaml:"delay" json:"delay"`

	Response Response `yaml:"response" json:"response"`
}

// Response is the static response of a Mock. Body strings are text; any
// other non-nil value is serialised as JSON.
type Response struct {
	Status  int               `yaml:"status" json:"status"`
	Headers map[string]string `yaml:"headers" json:"headers"`
	Body    any               `yaml:"body" json:"body"`
}

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".yaml", ".yml":
		return YAML, nil
	case ".json":
		return JSON, nil
	default:
		return "", fmt.Errorf("%w: %q (use .yaml, .yml, or .json)", ErrUnsupportedFormat, ext)
	}
}

// Load reads and parses the fixture at path.
func Load(path string) (*File, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture file: %w", err)
	}

	return Parse(data, format)
}

// Parse decodes and validates a fixture.
func Parse(data []byte, format Format) (*File, error) {
	var f File

	switch format {
	case YAML:
		if err := yaml.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse YAML fixture: %w", err)
		}
	case JSON:
		if err := json.Unmarshal(data, &f); err != nil {
			return nil, fmt.Errorf("failed to parse JSON fixture: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}

	if err := validate(&f); err != nil {
		return nil, err
	}
	return &f, nil
}

func validate(f *File) error {
	for i, m := range f.Mocks {
		if m.URL == "" {
			return fmt.Errorf("%w: mock %d: url is required", ErrInvalidFixture, i)
		}
		if m.Delay != nil && *m.Delay < 0 {
			return fmt.Errorf("%w: mock %d: delay cannot be negative", ErrInvalidFixture, i)
		}
		if s := m.Response.Status; s != 0 && (s < 200 || s > 599) {
			return fmt.Errorf("%w: mock %d: status %d out of range", ErrInvalidFixture, i, s)
		}
	}
	return nil
}
