// Package config loads generation profiles.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/smith/smith"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Profile describes how to generate programs. Zero values in a YAML file are
// replaced by the defaults only when the key is absent.
type Profile struct {
	// Grammar is an embedded preset name or a path to an .ebnf file.
	Grammar string `json:"grammar" yaml:"grammar" validate:"required"`
	// Start is the start production. Presets supply their own.
	Start string `json:"start" yaml:"start"`
	// Seed makes runs reproducible. Zero picks one at random.
	Seed      int64  `json:"seed" yaml:"seed" validate:"gte=0"`
	MaxDepth  int    `json:"max_depth" yaml:"max_depth" validate:"gte=1,lte=256"`
	Separator string `json:"separator" yaml:"separator"`
	Count     int    `json:"count" yaml:"count" validate:"gte=1,lte=100000"`
	Workers   int    `json:"workers" yaml:"workers" validate:"gte=1,lte=256"`
	Output    string `json:"output" yaml:"output"`
	Trace     bool   `json:"trace" yaml:"trace"`
}

// Default returns the default profile for the expr preset.
func Default() Profile {
	return Profile{
		Grammar:   "expr",
		MaxDepth:  smith.DefaultMaxDepth,
		Separator: smith.DefaultSeparator,
		Count:     1,
		Workers:   1,
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates a YAML profile.
func Load(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("read profile: %w", err)
	}
	p, err := Parse(data)
	if err != nil {
		return Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// Parse decodes a YAML profile over the defaults and validates it.
func Parse(data []byte) (Profile, error) {
	p := Default()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decode profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks field ranges and that a start production is known.
func (p *Profile) Validate() error {
	if err := validate.Struct(p); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (%s)", strings.ToLower(fe.Field()), fe.Tag(), fe.Param()))
			}
			return fmt.Errorf("invalid profile: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid profile: %w", err)
	}
	if p.Start == "" {
		p.Start = smith.DefaultStart(p.Grammar)
	}
	if p.Start == "" {
		return fmt.Errorf("invalid profile: start is required for grammar %s", p.Grammar)
	}
	return nil
}

// Options converts the profile into generator options.
func (p Profile) Options() []smith.Option {
	opts := []smith.Option{
		smith.WithMaxDepth(p.MaxDepth),
		smith.WithSeparator(p.Separator),
	}
	if p.Trace {
		opts = append(opts, smith.WithTrace())
	}
	return opts
}

// Marshal renders the profile as YAML.
func (p Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}
