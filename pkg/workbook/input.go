package workbook

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
)

// LoadFile reads a scheduling input from an xlsx workbook, a JSON document or a YAML document,
// chosen by file extension
func LoadFile(path string) (*model.SchedulingConfig, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".xlsx" {
		return ReadXLSX(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file: %w", err)
	}

	var cfg model.SchedulingConfig
	switch ext {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse input file: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse input file: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported input format %q", ext)
	}
	return &cfg, nil
}
