package bren

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/sokinpui/bren/rename"
)

var (
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	renamedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("78"))
	unchangedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("197"))
)

const noChangeLabel = "no change"

type spinner struct {
	frames []string
	index  int
}

func newSpinner() spinner {
	return spinner{frames: []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}}
}

func (s *spinner) tick() { s.index = (s.index + 1) % len(s.frames) }

func (s spinner) View() string { return s.frames[s.index] }

type TUI struct {
	app         *App
	noAnimation bool
	spinner     spinner
	mu          sync.Mutex
	cur, total  int
}

func NewTUI(app *App, noAnimation bool) *TUI {
	return &TUI{app: app, noAnimation: noAnimation, spinner: newSpinner()}
}

func (t *TUI) Run() error {
	t.app.SetConfirm(func(previews []rename.Preview, plan *ExecutionPlan) (bool, error) {
		fmt.Print(FormatPreview(previews))
		fmt.Println()
		return Confirm(fmt.Sprintf("Rename %d file(s)?", len(plan.Ready())))
	})

	if t.noAnimation {
		summary, err := t.app.Execute()
		if err == nil {
			fmt.Print(FormatSummary(summary))
		}
		return err
	}

	t.app.SetProgressCallback(func(c, tot int) {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.cur, t.total = c, tot
	})

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		for {
			select {
			case <-done:
				return
			case <-time.After(100 * time.Millisecond):
				t.spinner.tick()
				t.renderProgress()
			}
		}
	}()

	summary, err := t.app.Execute()
	close(done)
	<-stopped
	if t.started() {
		fmt.Print("\r\x1b[K")
	}

	if err == nil {
		fmt.Print(FormatSummary(summary))
	}
	return err
}

func (t *TUI) started() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total > 0
}

// renderProgress stays quiet until the app reports a batch, so it never
// draws over the confirmation prompt.
func (t *TUI) renderProgress() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total == 0 {
		return
	}
	fmt.Printf("\r%s Renaming... %d/%d\x1b[K", t.spinner.View(), t.cur, t.total)
}

// FormatPreview renders one line per file: original name, arrow, proposed
// name. Unchanged rows are dimmed and labeled instead of repeating the name.
func FormatPreview(previews []rename.Preview) string {
	width := 0
	for _, p := range previews {
		width = max(width, lipgloss.Width(p.OriginalName))
	}

	var b strings.Builder
	for _, p := range previews {
		pad := strings.Repeat(" ", width-lipgloss.Width(p.OriginalName))
		if !p.Changed {
			b.WriteString(unchangedStyle.Render(fmt.Sprintf("  %s%s  →  %s", p.OriginalName, pad, noChangeLabel)) + "\n")
			continue
		}
		fmt.Fprintf(&b, "  %s%s  →  %s\n", p.OriginalName, pad, renamedStyle.Render(p.ProposedName))
	}
	return b.String()
}

func FormatSummary(s Summary) string {
	var b strings.Builder
	if s.Message != "" {
		b.WriteString(headerStyle.Render(s.Message) + "\n\n")
	}

	if len(s.Previews) > 0 {
		b.WriteString(FormatPreview(s.Previews) + "\n")
	}

	renderList := func(title string, style lipgloss.Style, list []string) {
		if len(list) == 0 {
			return
		}
		b.WriteString(style.Render(title) + "\n")
		for _, f := range list {
			b.WriteString(fmt.Sprintf("  %s\n", f))
		}
	}

	renderList("Renamed:", successStyle, s.Renamed)
	renderList("Failed:", errorStyle, s.Failed)

	if s.Unchanged > 0 {
		b.WriteString(unchangedStyle.Render(fmt.Sprintf("Unchanged: %d", s.Unchanged)) + "\n")
	}

	return b.String()
}
