// Package config loads pipeline configuration from CUE files, unified
// against an embedded schema that carries all defaults.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
)

//go:embed schema.cue
var schemaCUE string

// IconConfig is the icon classification and enforcement window.
type IconConfig struct {
	MinSize         float64 `json:"minSize"`
	MaxSize         float64 `json:"maxSize"`
	AspectTolerance float64 `json:"aspectTolerance"`
	MaxVectorLeaves int     `json:"maxVectorLeaves"`
	MaxDepth        int     `json:"maxDepth"`
	Strict          bool    `json:"strict"`
}

// StageConfig is the reference stage size for overlay placement.
type StageConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Config is the process-wide pipeline configuration, passed explicitly into
// pipeline construction.
type Config struct {
	Icon                   IconConfig  `json:"icon"`
	SuppressInheritedBlack bool        `json:"suppressInheritedBlack"`
	Stage                  StageConfig `json:"stage"`
	OutputDir              string      `json:"outputDir"`
}

// Default returns the configuration with every field at its schema default.
func Default() Config {
	cfg, err := decode(nil)
	if err != nil {
		// The embedded schema is complete; a decode failure here is a
		// programming error.
		panic(fmt.Sprintf("config: embedded schema invalid: %v", err))
	}
	return cfg
}

// Load reads a CUE config file and unifies it against the schema. A missing
// file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return Parse(data)
}

// Parse unifies CUE source against the schema and decodes it.
func Parse(src []byte) (Config, error) {
	return decode(src)
}

func decode(src []byte) (Config, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaCUE)
	if err := schema.Err(); err != nil {
		return Config{}, fmt.Errorf("compiling config schema: %w", err)
	}

	v := schema
	if len(src) > 0 {
		user := ctx.CompileString(string(src))
		if err := user.Err(); err != nil {
			return Config{}, fmt.Errorf("compiling config file: %w", err)
		}
		// User files write fields under "config".
		v = schema.FillPath(cue.ParsePath("config"), user)
		if err := v.Err(); err != nil {
			return Config{}, fmt.Errorf("unifying config: %w", err)
		}
	}

	configVal := v.LookupPath(cue.ParsePath("config"))
	if err := configVal.Validate(cue.Concrete(true)); err != nil {
		return Config{}, fmt.Errorf("validating config: %w", err)
	}

	var cfg Config
	if err := configVal.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	return cfg, nil
}
