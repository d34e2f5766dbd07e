package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"sctl/internal/errors"
)

// ServiceConfig describes one watched service (or glob of services).
// Shared by every host; cloned per grid cell before diagnostic commands
// are appended.
type ServiceConfig struct {
	NamePattern string
	Files       []string
	Commands    []string
	IsGlob      bool
}

// Clone returns a deep copy so per-cell command lists can be appended to
// without mutating the shared catalog entry.
func (c ServiceConfig) Clone() ServiceConfig {
	out := c
	out.Files = append([]string(nil), c.Files...)
	out.Commands = append([]string(nil), c.Commands...)
	return out
}

// servicesFile is the YAML shape of the catalog:
//
//	services:
//	  nginx:
//	    files: [/etc/nginx/nginx.conf]
//	    commands: ["nginx -t"]
//	  "worker-*": {}
type servicesFile struct {
	Services map[string]serviceEntry `yaml:"services"`
}

type serviceEntry struct {
	Files    []string `yaml:"files"`
	Commands []string `yaml:"commands"`
}

// LoadServices parses the YAML service catalog into a list sorted by pattern.
// IsGlob is derived here, once, from the pattern text.
func LoadServices(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't read services file '%s'", path),
			"Check the path, or run 'sctl init' to create a starter catalog.")
	}

	var file servicesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Services file '%s' isn't valid YAML", path),
			"Expected a top-level 'services:' map of name patterns to files/commands.")
	}

	if len(file.Services) == 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No services defined in '%s'", path),
			"Add entries under 'services:', e.g.\n  services:\n    nginx: {}")
	}

	configs := make([]ServiceConfig, 0, len(file.Services))
	for name, entry := range file.Services {
		configs = append(configs, ServiceConfig{
			NamePattern: name,
			Files:       entry.Files,
			Commands:    entry.Commands,
			IsGlob:      IsGlobPattern(name),
		})
	}

	sort.Slice(configs, func(i, j int) bool {
		return configs[i].NamePattern < configs[j].NamePattern
	})

	return configs, nil
}

// IsGlobPattern reports whether a service name pattern contains shell-style
// wildcard metacharacters.
func IsGlobPattern(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[")
}
