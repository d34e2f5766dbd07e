// Package action executes operator-triggered commands against a single
// remote unit and reports the resulting ground-truth status.
package action

import (
	"fmt"
	"strings"
	"time"

	"sctl/internal/grid"
	"sctl/internal/logger"
	"sctl/internal/session"
)

// Kind is a control action applied to a remote unit.
type Kind int

const (
	Stop Kind = iota
	Restart
)

func (k Kind) verb() string {
	switch k {
	case Stop:
		return "stop"
	case Restart:
		return "restart"
	}
	return "status"
}

// Pool is the slice of the session pool the runner needs. Each action
// opens a fresh pool and closes it when done; pools are never shared
// with a concurrently running grid build.
type Pool interface {
	Run(host, cmd string) (string, error)
	CloseAll()
}

// Factory opens a fresh pool for a single action.
type Factory func() Pool

// Runner applies stop/restart commands and captures remote output.
type Runner struct {
	pools Factory
	log   logger.Logger
}

// NewRunner creates a runner whose actions dial through session pools
// configured with the given login user and connect timeout.
func NewRunner(user string, timeout time.Duration, log logger.Logger) *Runner {
	if log == nil {
		log = logger.Noop()
	}
	return &Runner{
		pools: func() Pool { return session.NewPool(user, timeout, log) },
		log:   log,
	}
}

// Apply issues the privileged control command for one service on one host,
// then re-queries that unit's status. The command's own success or failure
// is logged but never drives control flow; whatever the unit reports
// afterward is the answer. Act, then verify.
func (r *Runner) Apply(host, service string, kind Kind) grid.Status {
	p := r.pools()
	defer p.CloseAll()

	cmd := fmt.Sprintf("sudo systemctl %s %s", kind.verb(), service)
	if out, err := p.Run(host, cmd); err != nil {
		r.log.Error("action: %s %s on %s: %v", kind.verb(), service, host, err)
	} else {
		r.log.Info("action: %s %s on %s: %s", kind.verb(), service, host, strings.TrimSpace(out))
	}

	return grid.NewBuilder(p, r.log).RefreshCell(host, service)
}

// Capture runs an arbitrary command on a host and returns its output for
// display. A failed run yields the failure text instead so the viewer
// still has something to show.
func (r *Runner) Capture(host, cmd string) string {
	p := r.pools()
	defer p.CloseAll()

	out, err := p.Run(host, cmd)
	if err != nil {
		r.log.Error("action: capture %q on %s: %v", cmd, host, err)
		return "Error: " + err.Error()
	}
	return out
}
