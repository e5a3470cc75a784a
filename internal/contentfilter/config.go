package contentfilter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
)

//go:embed default_filter.json
var defaultConfig []byte

// Config is the on-disk filter document.
type Config struct {
	Version    string     `json:"version"`
	Categories Categories `json:"categories"`
	Patterns   []string   `json:"patterns"`
	Settings   Settings   `json:"settings"`
}

// Settings holds the numeric thresholds of the heuristic checks.
type Settings struct {
	MaxCapsRatio            float64 `json:"maxCapsRatio"`
	MinLengthForCapsCheck   int     `json:"minLengthForCapsCheck"`
	MaxRepeatedChars        int     `json:"maxRepeatedChars"`
	AutoHideReportThreshold int     `json:"autoHideReportThreshold"`
}

// Category is a named list of blocked words.
type Category struct {
	Name  string   `json:"name"`
	Words []string `json:"words"`
}

// Categories keeps the declaration order of the "categories" object, which
// decides which match wins when a text hits several lists.
type Categories []Category

func (c *Categories) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("categories: expected object, got %v", tok)
	}

	var out Categories
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("categories: unexpected key %v", keyTok)
		}
		var words []string
		if err := dec.Decode(&words); err != nil {
			return fmt.Errorf("categories.%s: %w", name, err)
		}
		out = append(out, Category{Name: name, Words: words})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*c = out
	return nil
}

func (c Categories) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, cat := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		words := cat.Words
		if words == nil {
			words = []string{}
		}
		val, err := json.Marshal(words)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ParseConfig decodes a filter document.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse content filter config: %w", err)
	}
	return cfg, nil
}

// DefaultConfig returns the filter document compiled into the binary.
func DefaultConfig() Config {
	cfg, err := ParseConfig(defaultConfig)
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load builds a Filter from the document at path, or from the embedded
// default when path is empty.
func Load(path string) (*Filter, error) {
	if path == "" {
		return New(DefaultConfig())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content filter config: %w", err)
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	return New(cfg)
}
