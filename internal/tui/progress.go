package tui

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/pybossa/pbs/pkg/pbs"
)

const maxBarWidth = 50

type advanceMsg struct{}

type finishMsg struct{}

// progressModel is the bubbletea model behind ProgressBar.
type progressModel struct {
	bar      progress.Model
	label    string
	total    int
	current  int
	finished bool
}

func newProgressModel(label string, total int) progressModel {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = maxBarWidth
	return progressModel{bar: bar, label: label, total: total}
}

func (m progressModel) Init() tea.Cmd { return nil }

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case advanceMsg:
		if m.current < m.total {
			m.current++
		}
	case finishMsg:
		m.finished = true
		return m, tea.Quit
	case tea.WindowSizeMsg:
		width := msg.Width - len(m.label) - 20
		if width > maxBarWidth {
			width = maxBarWidth
		}
		if width > 10 {
			m.bar.Width = width
		}
	}
	return m, nil
}

func (m progressModel) percent() float64 {
	if m.total <= 0 {
		return 1
	}
	return float64(m.current) / float64(m.total)
}

func (m progressModel) View() string {
	line := fmt.Sprintf("%s %s %s",
		TitleStyle.Render(m.label),
		m.bar.ViewAs(m.percent()),
		MutedStyle.Render(fmt.Sprintf("%d/%d", m.current, m.total)))
	return line + "\n"
}

// ProgressBar renders per-row progress of a bulk operation on a terminal.
// It implements pbs.Progress. Start, Advance and Done must be called from
// one goroutine.
type ProgressBar struct {
	out     io.Writer
	mu      sync.Mutex
	program *tea.Program
	done    chan struct{}
}

// NewProgressBar creates a ProgressBar writing to out.
func NewProgressBar(out io.Writer) *ProgressBar {
	return &ProgressBar{out: out}
}

func (p *ProgressBar) Start(label string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.program != nil {
		return
	}

	// No input: keyboard and Ctrl+C stay with the terminal.
	p.program = tea.NewProgram(newProgressModel(label, total),
		tea.WithOutput(p.out),
		tea.WithInput(nil),
		tea.WithoutSignalHandler())
	p.done = make(chan struct{})

	program, done := p.program, p.done
	go func() {
		defer close(done)
		_, _ = program.Run()
	}()
}

func (p *ProgressBar) Advance() {
	p.mu.Lock()
	program := p.program
	p.mu.Unlock()
	if program != nil {
		program.Send(advanceMsg{})
	}
}

func (p *ProgressBar) Done() {
	p.mu.Lock()
	program, done := p.program, p.done
	p.program, p.done = nil, nil
	p.mu.Unlock()
	if program == nil {
		return
	}
	program.Send(finishMsg{})
	<-done
}

var _ pbs.Progress = (*ProgressBar)(nil)

// NewProgress returns a ProgressBar on out when interactive, otherwise a no-op.
func NewProgress(out io.Writer, interactive bool) pbs.Progress {
	if !interactive {
		return pbs.NopProgress{}
	}
	return NewProgressBar(out)
}
