package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"sctl/internal/errors"
)

// Host defines a fleet machine loaded from the inventory file.
// Immutable after load; Address doubles as the SSH session key.
type Host struct {
	Address string
	Group   string
}

// DefaultGroup is assigned to hosts listed before any [group] section.
const DefaultGroup = "ungrouped"

// LoadInventory parses an Ansible-style INI inventory into an ordered host list.
// Each non-comment line under a [group] section names one host; the first
// whitespace-separated token is the address, anything after it (host vars)
// is ignored. File order is preserved because it drives grid row order.
func LoadInventory(path string) ([]Host, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Can't read inventory file '%s'", path),
			"Check the path, or run 'sctl init' to create a starter inventory.")
	}
	defer f.Close()

	var hosts []Host
	group := DefaultGroup

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section := strings.TrimSpace(line[1 : len(line)-1])
			// Skip Ansible meta sections like [web:vars] or [all:children]
			if strings.Contains(section, ":") {
				group = ""
				continue
			}
			group = section
			continue
		}

		// Inside a :vars or :children section, lines are not hosts
		if group == "" {
			continue
		}

		address := strings.Fields(line)[0]
		hosts = append(hosts, Host{Address: address, Group: group})
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("Failed reading inventory file '%s'", path),
			"Check file permissions and encoding.")
	}

	if len(hosts) == 0 {
		return nil, errors.New(errors.ErrConfig,
			fmt.Sprintf("No hosts found in inventory file '%s'", path),
			"Add at least one host, one per line, optionally under [group] headers.")
	}

	return hosts, nil
}
