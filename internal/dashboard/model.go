// Package dashboard is the interactive fleet dashboard: a flat
// triage-ordered service list, a per-cell detail screen, and
// suspend-and-shell-out actions against the selected host.
package dashboard

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"sctl/internal/action"
	"sctl/internal/config"
	"sctl/internal/grid"
	"sctl/internal/logger"
)

// screen identifies which of the two screens is showing.
type screen int

const (
	screenMain screen = iota
	screenDetail
)

// gridMsg carries a completed full-fleet refresh result.
type gridMsg grid.Result

// shellDoneMsg signals return from an interactive remote shell.
type shellDoneMsg struct{ err error }

// viewerDoneMsg signals return from the external viewer; the scratch file
// is removed regardless of how the viewer exited.
type viewerDoneMsg struct {
	path string
	err  error
}

// Model is the Bubble Tea model for the fleet dashboard.
type Model struct {
	hosts   []config.Host
	configs []config.ServiceConfig
	backend Backend
	log     logger.Logger

	user   string   // optional remote login user for shell targets
	viewer []string // external read-only viewer argv prefix

	grid   grid.Result
	screen screen
	cursor int

	// Open detail cell, valid only on screenDetail.
	detailHost   int
	detailSvc    int
	detailCursor int

	refreshing bool
	quitting   bool

	width  int
	height int

	viewport      viewport.Model
	viewportReady bool
}

// NewModel creates the dashboard model. An initial full refresh is already
// marked in flight; Init launches it.
func NewModel(backend Backend, hosts []config.Host, configs []config.ServiceConfig, user string, viewer []string, log logger.Logger) Model {
	if log == nil {
		log = logger.Noop()
	}
	if len(viewer) == 0 {
		viewer = []string{"vim", "-R"}
	}
	return Model{
		hosts:      hosts,
		configs:    configs,
		backend:    backend,
		log:        log,
		user:       user,
		viewer:     viewer,
		refreshing: true,
	}
}

// Init launches the initial full-fleet refresh.
func (m Model) Init() tea.Cmd {
	return m.refreshCmd()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		footerHeight := 2
		viewportHeight := m.height - headerHeight - footerHeight
		if viewportHeight < 1 {
			viewportHeight = 1
		}
		if !m.viewportReady {
			m.viewport = viewport.New(m.width, viewportHeight)
			m.viewport.YPosition = headerHeight
			m.viewportReady = true
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = viewportHeight
		}

	case gridMsg:
		// Replace wholesale; a stale result must never crash navigation.
		m.grid = grid.Result(msg)
		m.refreshing = false
		m.clampCursor()
		if m.screen == screenDetail {
			if _, ok := m.detailCell(); !ok {
				m.screen = screenMain
				m.detailCursor = 0
			}
		}

	case shellDoneMsg:
		if msg.err != nil {
			m.log.Warn("dashboard: shell exited: %v", msg.err)
		}

	case viewerDoneMsg:
		if err := os.Remove(msg.path); err != nil {
			m.log.Warn("dashboard: removing scratch file %s: %v", msg.path, err)
		}
		if msg.err != nil {
			m.log.Warn("dashboard: viewer exited: %v", msg.err)
		}
	}

	return m, nil
}

// View renders the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.screen == screenDetail {
		if cell, ok := m.detailCell(); ok {
			return m.renderDetail(cell)
		}
	}
	return m.renderMain()
}

// refreshCmd runs a full grid build off the UI loop and delivers the
// result as a message. The backend opens and closes its own pool.
func (m Model) refreshCmd() tea.Cmd {
	backend, hosts, configs := m.backend, m.hosts, m.configs
	return func() tea.Msg {
		return gridMsg(backend.BuildGrid(hosts, configs))
	}
}

// shellCmd suspends the dashboard and opens an interactive remote shell.
func (m Model) shellCmd(host string) tea.Cmd {
	c := exec.Command("ssh", m.shellTarget(host))
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return shellDoneMsg{err: err}
	})
}

// viewCmd captures remote output into a scratch file and opens it in the
// configured viewer. The capture itself runs inline: operator-initiated,
// expected quick, and racing it against the cell it belongs to is worse.
func (m Model) viewCmd(host, remoteCmd string) tea.Cmd {
	out := m.backend.Capture(host, remoteCmd)

	path := scratchPath(host)
	if err := os.WriteFile(path, []byte(out), 0o600); err != nil {
		m.log.Error("dashboard: writing scratch file %s: %v", path, err)
		return nil
	}

	args := append(append([]string{}, m.viewer[1:]...), path)
	c := exec.Command(m.viewer[0], args...)
	return tea.ExecProcess(c, func(err error) tea.Msg {
		return viewerDoneMsg{path: path, err: err}
	})
}

// applyAction stops or restarts the cell's service and overwrites exactly
// that cell's status with the re-queried ground truth. Blocks the UI loop
// for its duration.
func (m *Model) applyAction(hostIdx, svcIdx int, kind action.Kind) {
	if hostIdx >= len(m.grid.Rows) || svcIdx >= len(m.grid.Rows[hostIdx]) {
		return
	}
	cell := m.grid.Rows[hostIdx][svcIdx]
	status := m.backend.Apply(cell.HostAddress, cell.ServiceName, kind)
	m.grid.Rows[hostIdx][svcIdx].Status = status
}

// entries is the triage-ordered flat view, recomputed on every access so
// ordering always matches the current grid.
func (m Model) entries() []FlatEntry {
	return Flatten(m.grid)
}

// selectedEntry returns the flat entry under the cursor.
func (m Model) selectedEntry() (FlatEntry, bool) {
	entries := m.entries()
	if m.cursor < 0 || m.cursor >= len(entries) {
		return FlatEntry{}, false
	}
	return entries[m.cursor], true
}

// detailCell returns the cell the detail screen is open on.
func (m Model) detailCell() (grid.Cell, bool) {
	if m.detailHost >= len(m.grid.Rows) || m.detailSvc >= len(m.grid.Rows[m.detailHost]) {
		return grid.Cell{}, false
	}
	return m.grid.Rows[m.detailHost][m.detailSvc], true
}

// clampCursor keeps the cursor inside the flat view after it shrinks.
func (m *Model) clampCursor() {
	n := len(m.entries())
	if n == 0 {
		m.cursor = 0
		return
	}
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// shellTarget qualifies a host with the configured login user.
func (m Model) shellTarget(host string) string {
	if m.user != "" {
		return m.user + "@" + host
	}
	return host
}

// scratchPath names the temp file holding captured remote output.
func scratchPath(host string) string {
	name := fmt.Sprintf("sctl-%s-%d.txt", strings.ReplaceAll(host, ".", "_"), time.Now().UnixMilli())
	return filepath.Join(os.TempDir(), name)
}
