package grid

import (
	"path"
	"sort"
	"strings"

	"sctl/internal/config"
)

// Runner executes a remote command and returns its standard output.
// session.Pool satisfies it; tests substitute fakes.
type Runner interface {
	Run(host, cmd string) (string, error)
}

// listUnitsCommand retrieves every service unit name on a host.
const listUnitsCommand = "systemctl list-units --type=service --all --no-legend --no-pager"

// Expanded pairs a concrete service name with the catalog entry it came from.
type Expanded struct {
	Name   string
	Config config.ServiceConfig
}

// expandPatterns resolves the catalog's name patterns against one host.
// Literal patterns pass through unchanged. Glob patterns are matched against
// the host's live unit list, fetched with a single remote command; matches
// are sorted lexically for determinism. A failed unit listing degrades to
// globs matching nothing — literals must still come through.
func (b *Builder) expandPatterns(host config.Host, configs []config.ServiceConfig) []Expanded {
	hasGlobs := false
	for _, c := range configs {
		if c.IsGlob {
			hasGlobs = true
			break
		}
	}

	var units []string
	if hasGlobs {
		out, err := b.runner.Run(host.Address, listUnitsCommand)
		if err != nil {
			b.log.Error("glob: listing units on %s: %v", host.Address, err)
		} else {
			units = parseUnitList(out)
			b.log.Debug("glob: %d units on %s", len(units), host.Address)
		}
	}

	var results []Expanded
	for _, c := range configs {
		if !c.IsGlob {
			results = append(results, Expanded{Name: c.NamePattern, Config: c})
			continue
		}

		var matched []string
		for _, unit := range units {
			if ok, err := path.Match(c.NamePattern, unit); err == nil && ok {
				matched = append(matched, unit)
			}
		}
		sort.Strings(matched)

		b.log.Info("glob: %q matched %d services on %s", c.NamePattern, len(matched), host.Address)
		for _, name := range matched {
			results = append(results, Expanded{Name: name, Config: c})
		}
	}

	return results
}

// parseUnitList extracts unit names from `systemctl list-units` output,
// stripping the .service suffix.
func parseUnitList(out string) []string {
	var units []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		units = append(units, strings.TrimSuffix(fields[0], ".service"))
	}
	return units
}
