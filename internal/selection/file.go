package selection

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Devices []string `yaml:"devices"`
}

// LoadFile reads a YAML seed of the form
//
//	devices:
//	  - b1
//	  - b2
func LoadFile(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	ids := make([]string, 0, len(seed.Devices))
	for _, id := range seed.Devices {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
