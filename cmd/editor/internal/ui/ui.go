// Package ui renders editor state and notifications in a terminal.
package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/gogotex/gogotex/backend/go-editor/internal/editor"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("63")).Bold(true)
	pendingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Italic(true)

	toastStyles = map[editor.Level]lipgloss.Style{
		editor.LevelSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		editor.LevelInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		editor.LevelWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		editor.LevelError:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
	toastIcons = map[editor.Level]string{
		editor.LevelSuccess: "✓",
		editor.LevelInfo:    "ℹ",
		editor.LevelWarning: "⚠",
		editor.LevelError:   "✗",
	}

	statusColors = map[document.Status]lipgloss.Color{
		document.StatusDraft:     lipgloss.Color("39"),
		document.StatusApproved:  lipgloss.Color("214"),
		document.StatusRejected:  lipgloss.Color("196"),
		document.StatusPublished: lipgloss.Color("42"),
	}
)

// Printer writes editor output. It is safe for concurrent use.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func (p *Printer) println(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, s)
}

// Notify renders a notification as a toast line. It implements editor.Notifier.
func (p *Printer) Notify(n editor.Notification) {
	style, ok := toastStyles[n.Level]
	if !ok {
		style = lipgloss.NewStyle()
	}
	p.println(style.Render(fmt.Sprintf("%s %s", toastIcons[n.Level], n.Message)))
}

// Pending shows that a call for intent is in flight.
func (p *Printer) Pending(intent editor.Intent) {
	p.println(pendingStyle.Render(fmt.Sprintf("… %s in progress", intent)))
}

func (p *Printer) Info(msg string) {
	p.println("  " + msg)
}

func (p *Printer) Prompt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, promptStyle.Render("editor> "))
}

// State prints the loaded document and the editable draft.
func (p *Printer) State(st editor.State) {
	var b strings.Builder
	b.WriteString(headerStyle.Render("Blog Post Editor"))
	b.WriteString("\n")
	if st.Loading {
		b.WriteString("  Loading post...\n")
		p.write(b.String())
		return
	}
	if st.Document == nil {
		b.WriteString("  No blog post available to edit.\n")
		p.write(b.String())
		return
	}
	d := st.Document
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("id:     "), d.ID)
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("status: "), StatusBadge(d.Status))
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("updated:"), d.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("title:  "), st.Draft.Title)
	if st.Draft.Title != d.Title || st.Draft.Body != d.Body {
		fmt.Fprintf(&b, "  %s\n", pendingStyle.Render("(unsaved changes)"))
	}
	b.WriteString(labelStyle.Render("  body:"))
	b.WriteString("\n")
	for _, line := range strings.Split(strings.TrimSpace(st.Draft.Body), "\n") {
		b.WriteString("    " + line + "\n")
	}
	if actions := document.Available(d.Status); len(actions) > 0 {
		names := make([]string, len(actions))
		for i, a := range actions {
			names[i] = string(a)
		}
		fmt.Fprintf(&b, "  %s save, %s\n", labelStyle.Render("actions:"), strings.Join(names, ", "))
	} else {
		fmt.Fprintf(&b, "  %s save\n", labelStyle.Render("actions:"))
	}
	p.write(b.String())
}

// Document prints a fetched document without editing context.
func (p *Printer) Document(d *document.Document) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", headerStyle.Render(d.Title), StatusBadge(d.Status))
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("id:     "), d.ID)
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("owner:  "), d.OwnerID)
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("created:"), d.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render("updated:"), d.UpdatedAt.Local().Format("2006-01-02 15:04:05"))
	b.WriteString(strings.TrimSpace(d.Body))
	b.WriteString("\n")
	p.write(b.String())
}

func (p *Printer) write(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprint(p.out, s)
}

// StatusBadge renders a status in its colour.
func StatusBadge(s document.Status) string {
	style := lipgloss.NewStyle().Bold(true)
	if c, ok := statusColors[s]; ok {
		style = style.Foreground(c)
	}
	return style.Render("[" + string(s) + "]")
}
