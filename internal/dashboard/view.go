package dashboard

import (
	"fmt"
	"strings"
)

// renderMain renders the flat triage-ordered service list.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n\n")
	b.WriteString(m.renderEntries())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())

	return b.String()
}

func (m Model) renderHeader() string {
	title := TitleStyle.Render("sctl")
	stats := StatsStyle.Render(fmt.Sprintf(" | %d hosts | %d services",
		len(m.hosts), len(m.grid.Columns)))

	line := title + stats
	if m.refreshing {
		line += RefreshingStyle.Render("  refreshing…")
	}
	return HeaderStyle.Render(line)
}

func (m Model) renderEntries() string {
	entries := m.entries()
	if len(entries) == 0 {
		if m.refreshing {
			return MutedStyle.Render("  connecting to fleet…")
		}
		return MutedStyle.Render("  no services")
	}

	var b strings.Builder
	for i, entry := range entries {
		line := m.renderEntry(entry)
		if i == m.cursor {
			line = SelectedStyle.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderEntry(entry FlatEntry) string {
	if entry.Kind == EntryUnreachable {
		host := m.hosts[entry.HostIdx].Address
		return fmt.Sprintf("%s %s  %s",
			UnreachableStyle.Render(GlyphUnreachable), HostStyle.Render(host),
			MutedStyle.Render("unreachable: "+entry.Reason))
	}

	cell := m.grid.Rows[entry.HostIdx][entry.SvcIdx]
	style := statusStyle(cell.Status)
	return fmt.Sprintf("%s %s  %s  %s",
		style.Render(statusGlyph(cell.Status)),
		HostStyle.Render(cell.HostAddress),
		LabelStyle.Render(cell.ServiceName),
		style.Render(cell.Status.Display()))
}

func (m Model) renderFooter() string {
	hints := []string{
		"↑↓ select",
		"enter detail",
		"r refresh",
		"s stop",
		"t restart",
		"c shell",
		"q quit",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}
