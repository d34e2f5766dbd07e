package dashboard

import (
	tea "github.com/charmbracelet/bubbletea"

	"sctl/internal/action"
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeyBack        = "esc"
	KeyRefresh     = "r"
	KeyOpen        = "enter"
	KeyStop        = "s"
	KeyRestart     = "t"
	KeyShell       = "c"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
)

// HandleKeyMsg processes keyboard input. Returns true if the key was
// handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if m.screen == screenDetail {
		return m.handleDetailKey(key)
	}
	return m.handleMainKey(key)
}

func (m *Model) handleMainKey(key string) (bool, tea.Cmd) {
	switch key {
	case KeyQuit, KeyQuitAlt, KeyBack:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		if m.refreshing {
			return true, nil
		}
		m.refreshing = true
		return true, m.refreshCmd()

	case KeySelectPrev, KeySelectPrevK:
		if m.cursor > 0 {
			m.cursor--
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.cursor < len(m.entries())-1 {
			m.cursor++
		}
		return true, nil

	case KeyOpen:
		entry, ok := m.selectedEntry()
		if ok && entry.Kind == EntryService {
			m.screen = screenDetail
			m.detailHost = entry.HostIdx
			m.detailSvc = entry.SvcIdx
			m.detailCursor = 0
		}
		return true, nil

	case KeyShell:
		if entry, ok := m.selectedEntry(); ok {
			return true, m.shellCmd(m.hosts[entry.HostIdx].Address)
		}
		return true, nil

	case KeyStop:
		if entry, ok := m.selectedEntry(); ok && entry.Kind == EntryService {
			m.applyAction(entry.HostIdx, entry.SvcIdx, action.Stop)
		}
		return true, nil

	case KeyRestart:
		if entry, ok := m.selectedEntry(); ok && entry.Kind == EntryService {
			m.applyAction(entry.HostIdx, entry.SvcIdx, action.Restart)
		}
		return true, nil
	}

	return false, nil
}

func (m *Model) handleDetailKey(key string) (bool, tea.Cmd) {
	cell, ok := m.detailCell()
	if !ok {
		m.screen = screenMain
		return true, nil
	}
	items := detailItems(cell)

	switch key {
	case KeyQuit, KeyBack:
		m.screen = screenMain
		m.detailCursor = 0
		return true, nil

	case KeyQuitAlt:
		m.quitting = true
		return true, tea.Quit

	case KeyRefresh:
		if m.refreshing {
			return true, nil
		}
		m.refreshing = true
		return true, m.refreshCmd()

	case KeySelectPrev, KeySelectPrevK:
		if m.detailCursor > 0 {
			m.detailCursor--
		}
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		if m.detailCursor < len(items)-1 {
			m.detailCursor++
		}
		return true, nil

	case KeyOpen:
		if m.detailCursor < len(items) {
			if cmd := items[m.detailCursor].remoteCommand(); cmd != "" {
				return true, m.viewCmd(cell.HostAddress, cmd)
			}
		}
		return true, nil

	case KeyShell:
		return true, m.shellCmd(cell.HostAddress)

	case KeyStop:
		m.applyAction(m.detailHost, m.detailSvc, action.Stop)
		return true, nil

	case KeyRestart:
		m.applyAction(m.detailHost, m.detailSvc, action.Restart)
		return true, nil
	}

	return false, nil
}
