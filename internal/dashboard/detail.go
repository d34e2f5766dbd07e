package dashboard

import (
	"fmt"
	"strings"

	"sctl/internal/grid"
	"sctl/internal/util"
)

// itemKind discriminates entries in the detail view list.
type itemKind int

const (
	itemHeader itemKind = iota
	itemFile
	itemCommand
)

// detailItem is one selectable (or header) line in the detail view.
type detailItem struct {
	kind itemKind
	text string
}

// detailItems builds the detail list for a cell: its configured files,
// then its commands (including the diagnostics appended at grid build).
func detailItems(cell grid.Cell) []detailItem {
	var items []detailItem

	if len(cell.Config.Files) > 0 {
		items = append(items, detailItem{kind: itemHeader, text: "Files"})
		for _, f := range cell.Config.Files {
			items = append(items, detailItem{kind: itemFile, text: f})
		}
	}

	if len(cell.Config.Commands) > 0 {
		items = append(items, detailItem{kind: itemHeader, text: "Commands"})
		for _, c := range cell.Config.Commands {
			items = append(items, detailItem{kind: itemCommand, text: c})
		}
	}

	return items
}

// remoteCommand is what Enter on an item runs on the remote host. Headers
// run nothing.
func (d detailItem) remoteCommand() string {
	switch d.kind {
	case itemFile:
		return "cat " + util.ShellQuote(d.text)
	case itemCommand:
		return d.text
	}
	return ""
}

// renderDetail renders the detail screen for the cell under the cursor.
func (m Model) renderDetail(cell grid.Cell) string {
	var b strings.Builder

	title := TitleStyle.Render(fmt.Sprintf("%s : %s", cell.HostAddress, cell.ServiceName))
	status := statusStyle(cell.Status).Render(cell.Status.Display())
	b.WriteString(HeaderStyle.Render(title + "  " + status))
	b.WriteString("\n\n")

	items := detailItems(cell)
	if len(items) == 0 {
		b.WriteString(MutedStyle.Render("  nothing configured for this service"))
		b.WriteString("\n")
	}

	var content strings.Builder
	for i, item := range items {
		switch item.kind {
		case itemHeader:
			content.WriteString(LabelStyle.Render(item.text))
		default:
			line := "  " + item.text
			if i == m.detailCursor {
				content.WriteString(SelectedStyle.Render(line))
			} else {
				content.WriteString(line)
			}
		}
		content.WriteString("\n")
	}

	if m.viewportReady {
		m.viewport.SetContent(content.String())
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(content.String())
	}

	b.WriteString("\n")
	b.WriteString(m.renderDetailFooter())
	return b.String()
}

func (m Model) renderDetailFooter() string {
	hints := []string{
		"↑↓ select",
		"enter view",
		"s stop",
		"t restart",
		"c shell",
		"q back",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}
