package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"

	"github.com/sourcepad/sourcepad-cli/pkg/languages"
	"github.com/sourcepad/sourcepad-cli/pkg/models"
	"github.com/sourcepad/sourcepad-cli/pkg/recent"
	"github.com/sourcepad/sourcepad-cli/pkg/templates"
)

type startItemKind int

const (
	itemNewFile startItemKind = iota
	itemOpenFile
	itemTemplate
	itemRecent
)

type startItem struct {
	kind     startItemKind
	label    string
	template string
	recent   models.RecentFile
}

// startPage lists the entry points into the editor
type startPage struct {
	registry *recent.Registry
	cursor   int
	now      func() time.Time
}

func newStartPage(registry *recent.Registry) *startPage {
	return &startPage{registry: registry, now: time.Now}
}

// items is rebuilt on every use so the recent list is always current
func (p *startPage) items() []startItem {
	items := []startItem{
		{kind: itemNewFile, label: "New File"},
		{kind: itemOpenFile, label: "Open File..."},
	}
	for _, kind := range templates.Kinds {
		tmpl, _ := templates.Get(kind)
		items = append(items, startItem{
			kind:     itemTemplate,
			label:    languages.DisplayName(tmpl.Language),
			template: kind,
		})
	}
	if p.registry != nil {
		for entry := range p.registry.List() {
			items = append(items, startItem{kind: itemRecent, label: entry.DisplayName, recent: entry})
		}
	}
	return items
}

func (p *startPage) selected() (startItem, bool) {
	items := p.items()
	p.clamp(len(items))
	if len(items) == 0 {
		return startItem{}, false
	}
	return items[p.cursor], true
}

func (p *startPage) move(delta int) {
	n := len(p.items())
	if n == 0 {
		return
	}
	p.cursor = (p.cursor + delta + n) % n
}

func (p *startPage) clamp(n int) {
	if p.cursor >= n {
		p.cursor = max(n-1, 0)
	}
}

// firstRecent moves the cursor to the top of the recent list
func (p *startPage) firstRecent() {
	for i, item := range p.items() {
		if item.kind == itemRecent {
			p.cursor = i
			return
		}
	}
}

func (p *startPage) View(styles Styles, width int, version string) string {
	items := p.items()
	p.clamp(len(items))

	var b strings.Builder
	b.WriteString(renderLogo(styles, width, version))
	b.WriteString("\n\n")

	section := func(title string) {
		b.WriteString(styles.SectionHeader.Render(title))
		b.WriteString("\n")
	}
	line := func(i int, key, text, detail string) {
		prefix := "  "
		style := styles.Normal
		if i == p.cursor {
			prefix = "▸ "
			style = styles.Selected
		}
		row := prefix + styles.Key.Render(fmt.Sprintf("%-3s", key)) + style.Render(text)
		if detail != "" {
			row += "  " + styles.Description.Render(detail)
		}
		b.WriteString(row)
		b.WriteString("\n")
	}

	section("Start")
	tmplKey := 1
	recentHeader := false
	for i, item := range items {
		switch item.kind {
		case itemNewFile:
			line(i, "n", item.label, "")
		case itemOpenFile:
			line(i, "o", item.label, "")
			b.WriteString("\n")
			section("Templates")
		case itemTemplate:
			line(i, fmt.Sprint(tmplKey), item.label, templateFileName(item.template))
			tmplKey++
		case itemRecent:
			if !recentHeader {
				b.WriteString("\n")
				section("Recent Files")
				recentHeader = true
			}
			room := width - lipgloss.Width(item.label) - 24
			path := truncate.StringWithTail(item.recent.Path, uint(max(room, 10)), "…")
			line(i, "", item.label, path+"  "+recent.RelativeDate(item.recent.LastOpenedAt, p.now()))
		}
	}
	if !recentHeader {
		b.WriteString("\n")
		section("Recent Files")
		b.WriteString(styles.Description.Render("  No recent files"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.Description.Render(truncate.StringWithTail(keys.startHelp(GetOS()), uint(max(width-4, 10)), "…")))
	if tip := TerminalSetupTip(GetOS()); tip != "" {
		b.WriteString("\n")
		b.WriteString(styles.Description.Render(tip))
	}

	return styles.Padding.Render(b.String())
}

func templateFileName(kind string) string {
	tmpl, ok := templates.Get(kind)
	if !ok {
		return ""
	}
	return tmpl.FileName()
}
