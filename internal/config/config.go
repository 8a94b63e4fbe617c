// Purpose: Loads the Configuration table (spec §6) from an on-disk YAML file.
// config.go — configuration failures never abort a session: an invalid
// capture-body-type regex degrades to "match nothing" (disables
// persistence) rather than rejecting the whole file (spec §7).
package config

import (
	"fmt"
	"os"
	"regexp"

	"github.com/brennhill/netcapture/internal/types"
	"gopkg.in/yaml.v3"
)

// Load reads a YAML file at path into a Configuration, applying module
// defaults for any field left at its zero value. A missing or malformed
// file is an error the caller must decide how to handle; once loaded,
// every other configuration failure described by spec §7 is internal to
// this module and never propagates.
func Load(path string) (types.Configuration, error) {
	var cfg types.Configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg.Defaults(), nil
}

// CompileBodyTypePattern compiles the captureBodyTypes regular expression.
// An empty or invalid pattern compiles to a regexp that matches nothing,
// which disables body persistence rather than rejecting the configuration
// (spec §7, "Configuration failures").
func CompileBodyTypePattern(pattern string) *regexp.Regexp {
	if pattern == "" {
		return regexp.MustCompile(`[^\x00-\x{10FFFF}]`) // matches nothing
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return regexp.MustCompile(`[^\x00-\x{10FFFF}]`)
	}
	return re
}
