package subjects

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type tableFile struct {
	Subjects []Subject `yaml:"subjects"`
}

// Load reads a subject table from a YAML file and indexes it.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read subject table: %w", err)
	}
	var f tableFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse subject table: %w", err)
	}
	if len(f.Subjects) == 0 {
		return nil, fmt.Errorf("subject table %s: no subjects defined", path)
	}
	return NewTable(f.Subjects)
}
