package dashboard

import (
	"time"

	"sctl/internal/action"
	"sctl/internal/config"
	"sctl/internal/grid"
	"sctl/internal/logger"
	"sctl/internal/session"
)

// Backend performs the network work behind the dashboard. Each call opens
// its own session pool and closes it before returning, so concurrent
// operations never share connections.
type Backend interface {
	BuildGrid(hosts []config.Host, configs []config.ServiceConfig) grid.Result
	Apply(host, service string, kind action.Kind) grid.Status
	Capture(host, cmd string) string
}

type sshBackend struct {
	user    string
	timeout time.Duration
	log     logger.Logger
	actions *action.Runner
}

// NewBackend creates the production backend dialing over SSH.
func NewBackend(user string, timeout time.Duration, log logger.Logger) Backend {
	if log == nil {
		log = logger.Noop()
	}
	return &sshBackend{
		user:    user,
		timeout: timeout,
		log:     log,
		actions: action.NewRunner(user, timeout, log),
	}
}

func (b *sshBackend) BuildGrid(hosts []config.Host, configs []config.ServiceConfig) grid.Result {
	pool := session.NewPool(b.user, b.timeout, b.log)
	defer pool.CloseAll()
	return grid.NewBuilder(pool, b.log).Build(hosts, configs)
}

func (b *sshBackend) Apply(host, service string, kind action.Kind) grid.Status {
	return b.actions.Apply(host, service, kind)
}

func (b *sshBackend) Capture(host, cmd string) string {
	return b.actions.Capture(host, cmd)
}
