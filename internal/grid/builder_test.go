package grid

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sctl/internal/config"
	"sctl/internal/logger"
	"sctl/internal/util"
)

// statusCmd mirrors the batched status query the builder issues.
func statusCmd(names ...string) string {
	units := make([]string, len(names))
	for i, n := range names {
		units[i] = n + ".service"
	}
	return "systemctl is-active " + util.ShellQuoteAll(units)
}

func host(addr string) config.Host {
	return config.Host{Address: addr, Group: "test"}
}

func TestBuild_SingleReachableHost(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", probeCommand, "")
	runner.respond("web1", statusCmd("sshd"), "active\n")

	b := NewBuilder(runner, logger.Noop())
	result := b.Build([]config.Host{host("web1")}, []config.ServiceConfig{svc("sshd")})

	assert.Equal(t, []string{"sshd"}, result.Columns)
	assert.Empty(t, result.Unreachable)

	require.Len(t, result.Rows, 1)
	require.Len(t, result.Rows[0], 1)

	cell := result.Rows[0][0]
	assert.Equal(t, "web1", cell.HostAddress)
	assert.Equal(t, "sshd", cell.ServiceName)
	assert.Equal(t, Active, cell.Status)

	// Catalog entry had no commands; assembly appended exactly the
	// diagnostic commands
	assert.Len(t, cell.Config.Commands, len(diagnosticCommands("sshd")))
}

func TestBuild_UnreachableHostIsolated(t *testing.T) {
	runner := newFakeRunner()
	runner.fail("down1", probeCommand, fmt.Errorf("connection refused"))
	runner.respond("web1", probeCommand, "")
	runner.respond("web1", statusCmd("sshd"), "active\n")

	b := NewBuilder(runner, logger.Noop())
	result := b.Build(
		[]config.Host{host("down1"), host("web1")},
		[]config.ServiceConfig{svc("sshd")},
	)

	require.Contains(t, result.Unreachable, 0)
	assert.Contains(t, result.Unreachable[0], "connection refused")
	assert.Empty(t, result.Rows[0], "unreachable host row stays empty")
	require.Len(t, result.Rows[1], 1)
	assert.Equal(t, Active, result.Rows[1][0].Status)

	// The unreachable host must not be touched after the failed probe
	assert.Equal(t, 0, runner.callCount("down1", statusCmd("sshd")))
	assert.Equal(t, 0, runner.callCount("down1", listUnitsCommand))
}

func TestBuild_BatchedStatusFetch(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", probeCommand, "")
	runner.respond("web1", statusCmd("nginx", "redis", "sshd"), "active\ninactive\nfailed\n")

	b := NewBuilder(runner, logger.Noop())
	result := b.Build(
		[]config.Host{host("web1")},
		[]config.ServiceConfig{svc("nginx"), svc("redis"), svc("sshd")},
	)

	require.Len(t, result.Rows[0], 3)
	assert.Equal(t, Active, result.Rows[0][0].Status)
	assert.Equal(t, Inactive, result.Rows[0][1].Status)
	assert.Equal(t, Failed, result.Rows[0][2].Status)

	// One round trip for all three services, not one per service
	assert.Equal(t, 1, runner.callCount("web1", statusCmd("nginx", "redis", "sshd")))
}

func TestBuild_ShortOutputPaddedWithUnknown(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", probeCommand, "")
	runner.respond("web1", statusCmd("a", "b", "c"), "active\ninactive\n")

	b := NewBuilder(runner, logger.Noop())
	result := b.Build(
		[]config.Host{host("web1")},
		[]config.ServiceConfig{svc("a"), svc("b"), svc("c")},
	)

	require.Len(t, result.Rows[0], 3)
	assert.Equal(t, Active, result.Rows[0][0].Status)
	assert.Equal(t, Inactive, result.Rows[0][1].Status)
	assert.Equal(t, Unknown, result.Rows[0][2].Status)
}

func TestBuild_NotFoundCellsOmitted(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", probeCommand, "")
	runner.respond("web1", statusCmd("nginx", "redis"), "not-found\nactive\n")

	b := NewBuilder(runner, logger.Noop())
	result := b.Build(
		[]config.Host{host("web1")},
		[]config.ServiceConfig{svc("nginx"), svc("redis")},
	)

	// nginx resolved not-found, so the host simply doesn't list it
	require.Len(t, result.Rows[0], 1)
	assert.Equal(t, "redis", result.Rows[0][0].ServiceName)

	// The column union still knows about nginx
	assert.Equal(t, []string{"nginx", "redis"}, result.Columns)
}

func TestBuild_StatusFetchFailureYieldsErrorCells(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", probeCommand, "")
	runner.fail("web1", statusCmd("nginx", "redis"), fmt.Errorf("broken pipe"))

	b := NewBuilder(runner, logger.Noop())
	result := b.Build(
		[]config.Host{host("web1")},
		[]config.ServiceConfig{svc("nginx"), svc("redis")},
	)

	require.Len(t, result.Rows[0], 2)
	for _, cell := range result.Rows[0] {
		assert.Equal(t, StatusError, cell.Status.Kind)
		assert.Contains(t, cell.Status.Text, "broken pipe")
	}
}

func TestBuild_ColumnsUnionFirstSeenOrder(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", probeCommand, "")
	runner.respond("web2", probeCommand, "")
	runner.respond("web1", listUnitsCommand, "zeta.service x\n")
	runner.respond("web2", listUnitsCommand, "alpha.service x\nzeta.service x\n")
	runner.respond("web1", statusCmd("zeta"), "active\n")
	runner.respond("web2", statusCmd("zeta", "alpha"), "active\nactive\n")

	b := NewBuilder(runner, logger.Noop())
	result := b.Build(
		[]config.Host{host("web1"), host("web2")},
		[]config.ServiceConfig{svc("*a")},
	)

	// First-seen order across hosts, not lexical: web1 contributes zeta
	// first, web2 adds alpha
	assert.Equal(t, []string{"zeta", "alpha"}, result.Columns)
}

func TestBuild_GlobExpandsPerHost(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", probeCommand, "")
	runner.respond("web2", probeCommand, "")
	runner.respond("web1", listUnitsCommand, "worker-a.service x\nworker-b.service x\n")
	runner.respond("web2", listUnitsCommand, "worker-a.service x\n")
	runner.respond("web1", statusCmd("worker-a", "worker-b"), "active\nactive\n")
	runner.respond("web2", statusCmd("worker-a"), "active\n")

	b := NewBuilder(runner, logger.Noop())
	result := b.Build(
		[]config.Host{host("web1"), host("web2")},
		[]config.ServiceConfig{svc("worker-*")},
	)

	assert.Equal(t, []string{"worker-a", "worker-b"}, result.Columns)
	assert.Len(t, result.Rows[0], 2)
	// web2 doesn't have worker-b; its row omits that column
	require.Len(t, result.Rows[1], 1)
	assert.Equal(t, "worker-a", result.Rows[1][0].ServiceName)
}

func TestBuild_Idempotent(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", probeCommand, "")
	runner.respond("web1", listUnitsCommand, "nginx.service x\nnginx-extra.service x\n")
	runner.respond("web1", statusCmd("nginx", "nginx-extra"), "active\nfailed\n")

	b := NewBuilder(runner, logger.Noop())
	hosts := []config.Host{host("web1")}
	configs := []config.ServiceConfig{svc("nginx*")}

	first := b.Build(hosts, configs)
	second := b.Build(hosts, configs)

	assert.Equal(t, first.Columns, second.Columns)
	require.Equal(t, len(first.Rows[0]), len(second.Rows[0]))
	for i := range first.Rows[0] {
		assert.Equal(t, first.Rows[0][i].Status, second.Rows[0][i].Status)
	}
}

func TestBuild_DoesNotMutateCatalog(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", probeCommand, "")
	runner.respond("web1", statusCmd("nginx"), "active\n")

	catalog := []config.ServiceConfig{{
		NamePattern: "nginx",
		Commands:    []string{"nginx -t"},
	}}

	b := NewBuilder(runner, logger.Noop())
	result := b.Build([]config.Host{host("web1")}, catalog)

	// Cell got the diagnostics, the shared catalog entry didn't
	assert.Len(t, result.Rows[0][0].Config.Commands, 1+len(diagnosticCommands("nginx")))
	assert.Equal(t, []string{"nginx -t"}, catalog[0].Commands)
}

func TestRefreshCell(t *testing.T) {
	runner := newFakeRunner()
	runner.respond("web1", statusCmd("nginx"), "inactive\n")

	b := NewBuilder(runner, logger.Noop())
	status := b.RefreshCell("web1", "nginx")

	assert.Equal(t, Inactive, status)
}

func TestRefreshCell_FailureIsErrorStatus(t *testing.T) {
	runner := newFakeRunner()
	runner.fail("web1", statusCmd("nginx"), fmt.Errorf("gone"))

	b := NewBuilder(runner, logger.Noop())
	status := b.RefreshCell("web1", "nginx")

	assert.Equal(t, StatusError, status.Kind)
}
