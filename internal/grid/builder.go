// Package grid builds the host×service status table shown by the dashboard.
// One Build call is one refresh cycle: probe reachability, expand glob
// patterns per host, fetch batched statuses, and assemble a sparse grid with
// unreachable hosts isolated rather than failing the cycle.
package grid

import (
	stderrors "errors"
	"fmt"
	"strings"

	"sctl/internal/config"
	"sctl/internal/errors"
	"sctl/internal/logger"
	"sctl/internal/util"
)

// probeCommand is the no-op used to establish that a host answers at all.
const probeCommand = "true"

// Cell is one host/service entry in the grid. HostAddress and ServiceName
// are denormalized copies of the row/column identity for convenience and
// must stay consistent with the cell's position. Config is a per-cell clone
// with diagnostic commands appended; Status is only ever overwritten by a
// single-cell refresh after an action.
type Cell struct {
	HostAddress string
	ServiceName string
	Config      config.ServiceConfig
	Status      Status
}

// Result is the output of one build cycle. Rows is indexed by host position;
// each row holds cells only for services present on that host (no padding).
// Unreachable maps host index to the failure reason; an unreachable host has
// an empty row.
type Result struct {
	Columns     []string
	Rows        [][]Cell
	Unreachable map[int]string
}

// Builder runs refresh cycles against a Runner (a session pool in
// production, a fake in tests).
type Builder struct {
	runner Runner
	log    logger.Logger
}

// NewBuilder creates a grid builder. A nil logger discards output.
func NewBuilder(runner Runner, log logger.Logger) *Builder {
	if log == nil {
		log = logger.Noop()
	}
	return &Builder{runner: runner, log: log}
}

/// Build assembles the full fleet grid. Failures never abort the cycle: a
// host that fails the probe becomes unreachable with an empty row, and a
// failed status fetch yields Error cells for just that host.
func (b *Builder) Build(hosts []config.Host, configs []config.ServiceConfig) Result {
	b.log.Info("grid: building for %d hosts, %d service configs", len(hosts), len(configs))

	result := Result{
		Rows:        make([][]Cell, len(hosts)),
		Unreachable: make(map[int]string),
	}

	// Reachability probe. Unreachable hosts are skipped in every later step
	// this cycle; the next full refresh retries them implicitly.
	reachable := make([]bool, len(hosts))
	for i, host := range hosts {
		if _, err := b.runner.Run(host.Address, probeCommand); err != nil {
			b.log.Error("grid: probe failed for %s: %v", host.Address, err)
			result.Unreachable[i] = errorReason(err)
			continue
		}
		reachable[i] = true
	}

	// Glob expansion per reachable host; the union of concrete names in
	// first-seen order becomes the fleet-wide column list.
	expanded := make([][]Expanded, len(hosts))
	seen := make(map[string]bool)
	for i, host := range hosts {
		if !reachable[i] {
			continue
		}
		expanded[i] = b.expandPatterns(host, configs)
		for _, e := range expanded[i] {
			if !seen[e.Name] {
				seen[e.Name] = true
				result.Columns = append(result.Columns, e.Name)
			}
		}
	}

	// Batched status fetch and row assembly.
	for i, host := range hosts {
		if !reachable[i] {
			continue
		}

		byName := make(map[string]config.ServiceConfig, len(expanded[i]))
		for _, e := range expanded[i] {
			byName[e.Name] = e.Config
		}

		// Only the columns this host actually has, in column order.
		var names []string
		for _, col := range result.Columns {
			if _, ok := byName[col]; ok {
				names = append(names, col)
			}
		}

		statuses := b.fetchStatuses(host.Address, names)

		row := make([]Cell, 0, len(names))
		for j, name := range names {
			status := statuses[j]
			if status.Kind == StatusNotFound {
				// A host simply doesn't list a service it doesn't have.
				continue
			}

			cfg := byName[name].Clone()
			cfg.Commands = append(cfg.Commands, diagnosticCommands(name)...)

			row = append(row, Cell{
				HostAddress: host.Address,
				ServiceName: name,
				Config:      cfg,
				Status:      status,
			})
		}
		result.Rows[i] = row
	}

	b.log.Info("grid: built %d columns, %d unreachable hosts", len(result.Columns), len(result.Unreachable))
	return result
}

// fetchStatuses queries every named service on a host in a single round
// trip. Short output is padded with Unknown; a failed command produces an
// Error status per requested service instead of failing the cycle.
func (b *Builder) fetchStatuses(host string, names []string) []Status {
	if len(names) == 0 {
		return nil
	}

	units := make([]string, len(names))
	for i, name := range names {
		units[i] = name + ".service"
	}
	cmd := "systemctl is-active " + util.ShellQuoteAll(units)

	out, err := b.runner.Run(host, cmd)
	if err != nil {
		b.log.Error("grid: status fetch on %s: %v", host, err)
		statuses := make([]Status, len(names))
		for i := range statuses {
			statuses[i] = StatusErrorf(errorReason(err))
		}
		return statuses
	}

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	statuses := make([]Status, len(names))
	for i := range names {
		if i < len(lines) {
			statuses[i] = Classify(lines[i])
		} else {
			statuses[i] = Unknown
		}
	}
	return statuses
}

// RefreshCell re-queries the status of a single service on a single host.
// Used after stop/restart actions to report ground truth for one cell.
func (b *Builder) RefreshCell(host, service string) Status {
	b.log.Debug("grid: refreshing %s:%s", host, service)
	statuses := b.fetchStatuses(host, []string{service})
	if len(statuses) == 0 {
		return Unknown
	}
	return statuses[0]
}

// diagnosticCommands are appended to every retained cell so the detail view
// can offer per-service troubleshooting without extra configuration.
func diagnosticCommands(service string) []string {
	return []string{
		fmt.Sprintf("sudo systemctl status %s --no-pager -l", util.ShellQuote(service)),
		fmt.Sprintf("sudo journalctl -u %s -n 100 --no-pager", util.ShellQuote(service)),
	}
}

// errorReason extracts a one-line reason from an error for display in a
// grid cell or unreachable entry.
func errorReason(err error) string {
	var serr *errors.Error
	if stderrors.As(err, &serr) {
		if serr.Cause != nil {
			return serr.Cause.Error()
		}
		return serr.Message
	}
	return err.Error()
}
