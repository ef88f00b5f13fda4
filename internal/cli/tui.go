package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/psdrank/pkg/batch"
)

// =============================================================================
// batchModel - Live batch progress
// =============================================================================

// jobMsg reports one completed batch job.
type jobMsg struct {
	done   int
	total  int
	result batch.Result
}

// runDoneMsg reports the end of the whole run.
type runDoneMsg struct {
	results []batch.Result
	err     error
}

// batchModel is the bubbletea model for the batch progress display.
type batchModel struct {
	cancel context.CancelFunc

	done     int
	total    int
	failed   int
	tight    int
	lastName string
	width    int

	results []batch.Result
	err     error
}

// newBatchModel creates a progress model. cancel aborts the underlying run
// when the user quits early.
func newBatchModel(cancel context.CancelFunc) batchModel {
	return batchModel{cancel: cancel, width: 80}
}

func (m batchModel) Init() tea.Cmd {
	return nil
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			// The run notices the cancellation and delivers runDoneMsg with
			// its error; quitting happens there so results are not lost.
			m.cancel()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case jobMsg:
		m.done = msg.done
		m.total = msg.total
		m.lastName = msg.result.Name
		if msg.result.Err != nil {
			m.failed++
		} else if msg.result.Window.Tight() {
			m.tight++
		}
	case runDoneMsg:
		m.results = msg.results
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m batchModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Computing bounds"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n\n")

	b.WriteString("  " + m.bar() + " " + StyleNumber.Render(fmt.Sprintf("%d/%d", m.done, m.total)))
	b.WriteString("\n\n")

	if m.lastName != "" {
		b.WriteString(StyleDim.Render("  last: ") + StyleValue.Render(m.lastName))
		b.WriteString("\n")
	}
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %s exact · %s failed",
		StyleSuccess.Render(fmt.Sprintf("%d", m.tight)),
		StyleWarning.Render(fmt.Sprintf("%d", m.failed)))))
	b.WriteString("\n")

	return b.String()
}

// bar renders the progress bar sized to the terminal width.
func (m batchModel) bar() string {
	width := m.width - 20
	if width < 10 {
		width = 10
	}
	filled := 0
	if m.total > 0 {
		filled = width * m.done / m.total
	}
	return StyleNumber.Render(strings.Repeat("█", filled)) + StyleDim.Render(strings.Repeat("░", width-filled))
}
