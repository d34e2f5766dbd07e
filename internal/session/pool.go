// Package session manages pooled SSH connections for one logical operation.
// A pool instance belongs to exactly one refresh cycle or one action; it is
// never shared between concurrently running operations, so a wedged host in
// one operation can't contaminate another's connections.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"sctl/internal/errors"
	"sctl/internal/logger"
	"sctl/pkg/sshutil"
)

// DefaultConnectTimeout bounds each connection attempt when the caller
// doesn't specify one. Opening must fail fast so an offline host costs
// seconds, not minutes, per refresh.
const DefaultConnectTimeout = 2 * time.Second

// Dialer opens an SSH connection to a target. Swapped out in tests.
type Dialer func(target string, timeout time.Duration) (sshutil.SSHClient, error)

// defaultDialer adapts sshutil.Dial to the Dialer signature.
func defaultDialer(target string, timeout time.Duration) (sshutil.SSHClient, error) {
	return sshutil.Dial(target, timeout)
}

// Pool caches one SSH connection per host address for the lifetime of a
// single operation. Repeated commands to the same host reuse the connection.
type Pool struct {
	mu      sync.Mutex
	clients map[string]sshutil.SSHClient
	user    string
	timeout time.Duration
	dial    Dialer
	log     logger.Logger
}

// NewPool creates a session pool. user, when non-empty, qualifies every dial
// target as user@host. A zero timeout falls back to DefaultConnectTimeout.
func NewPool(user string, timeout time.Duration, log logger.Logger) *Pool {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	if log == nil {
		log = logger.Noop()
	}
	return &Pool{
		clients: make(map[string]sshutil.SSHClient),
		user:    user,
		timeout: timeout,
		dial:    defaultDialer,
		log:     log,
	}
}

// Target returns the dial target for a host address, qualified with the
// configured user when one is set and the address doesn't already carry one.
func (p *Pool) Target(host string) string {
	if p.user != "" && !strings.Contains(host, "@") {
		return p.user + "@" + host
	}
	return host
}

// Get returns the cached connection for host, opening one on first use.
// A failed open is surfaced as a typed SSH error without retry; the caller
// decides whether that makes the host unreachable.
func (p *Pool) Get(host string) (sshutil.SSHClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients[host]; ok {
		return client, nil
	}

	p.log.Debug("session: dialing %s (timeout %s)", p.Target(host), p.timeout)
	client, err := p.dial(p.Target(host), p.timeout)
	if err != nil {
		return nil, err
	}

	p.clients[host] = client
	return client, nil
}

// Run executes cmd on host and returns its standard output.
//
// Result classification is deliberately lenient: status-query commands like
// `systemctl is-active` use the exit code to signal service state, so a
// non-zero exit that still produced stdout is a success. Only a non-zero exit
// with stderr output, or with nothing on stdout at all, is a hard failure.
func (p *Pool) Run(host, cmd string) (string, error) {
	client, err := p.Get(host)
	if err != nil {
		return "", err
	}

	stdout, stderr, exitCode, err := client.Exec(cmd)
	if err != nil {
		return "", err
	}

	if exitCode != 0 {
		if len(stderr) > 0 {
			return "", errors.New(errors.ErrExec,
				fmt.Sprintf("Command failed on %s: %s", host, strings.TrimSpace(string(stderr))),
				"")
		}
		if len(stdout) == 0 {
			return "", errors.New(errors.ErrExec,
				fmt.Sprintf("Command failed on %s with exit code %d: %s", host, exitCode, cmd),
				"")
		}
	}

	return string(stdout), nil
}

// Size returns the number of cached connections.
func (p *Pool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.clients)
}

// CloseAll releases every cached connection. Individual close failures are
// logged and otherwise ignored; cleanup is best-effort.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for host, client := range p.clients {
		if err := client.Close(); err != nil {
			p.log.Debug("session: closing %s: %v", host, err)
		}
		delete(p.clients, host)
	}
}
