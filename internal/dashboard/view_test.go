package dashboard

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"

	"sctl/internal/config"
	"sctl/internal/grid"
)

func init() {
	// Force TrueColor output in tests so rendering is deterministic
	lipgloss.SetColorProfile(termenv.TrueColor)
}

func viewModel() Model {
	m := newTestModel(&fakeBackend{}, testHosts("down1", "web1"))
	m.refreshing = false
	m.grid = grid.Result{
		Columns: []string{"nginx", "redis"},
		Rows: [][]grid.Cell{
			{},
			{
				cell("web1", "nginx", grid.Failed),
				cell("web1", "redis", grid.Active),
			},
		},
		Unreachable: map[int]string{0: "connect timeout"},
	}
	return m
}

func TestView_MainListsTriageFirst(t *testing.T) {
	m := viewModel()
	out := m.View()

	assert.Contains(t, out, "sctl")
	assert.Contains(t, out, "down1")
	assert.Contains(t, out, "unreachable: connect timeout")
	assert.Contains(t, out, "nginx")
	assert.Contains(t, out, "FAILED")
	assert.Contains(t, out, "active")
}

func TestView_RefreshingIndicator(t *testing.T) {
	m := viewModel()
	m.refreshing = true

	assert.Contains(t, m.View(), "refreshing")
}

func TestView_EmptyGridWhileConnecting(t *testing.T) {
	m := newTestModel(&fakeBackend{}, testHosts("web1"))

	assert.Contains(t, m.View(), "connecting to fleet")
}

func TestView_QuittingIsBlank(t *testing.T) {
	m := viewModel()
	m.quitting = true

	assert.Equal(t, "", m.View())
}

func TestView_DetailShowsFilesAndCommands(t *testing.T) {
	m := viewModel()
	m.grid.Rows[1][0].Config = config.ServiceConfig{
		NamePattern: "nginx",
		Files:       []string{"/etc/nginx/nginx.conf"},
		Commands:    []string{"sudo systemctl status nginx --no-pager -l"},
	}
	m.screen = screenDetail
	m.detailHost = 1
	m.detailSvc = 0

	out := m.View()
	assert.Contains(t, out, "web1 : nginx")
	assert.Contains(t, out, "Files")
	assert.Contains(t, out, "/etc/nginx/nginx.conf")
	assert.Contains(t, out, "Commands")
	assert.Contains(t, out, "sudo systemctl status nginx --no-pager -l")
}

func TestView_DetailEmptyConfig(t *testing.T) {
	m := viewModel()
	m.screen = screenDetail
	m.detailHost = 1
	m.detailSvc = 1

	assert.Contains(t, m.View(), "nothing configured")
}

func TestDetailItems(t *testing.T) {
	c := cell("web1", "nginx", grid.Active)
	c.Config = config.ServiceConfig{
		Files:    []string{"/etc/nginx/nginx.conf"},
		Commands: []string{"journalctl -u nginx"},
	}

	items := detailItems(c)
	assert.Len(t, items, 4) // two headers, one file, one command

	assert.Equal(t, itemHeader, items[0].kind)
	assert.Equal(t, "", items[0].remoteCommand())
	assert.Equal(t, "cat '/etc/nginx/nginx.conf'", items[1].remoteCommand())
	assert.Equal(t, "journalctl -u nginx", items[3].remoteCommand())
}
