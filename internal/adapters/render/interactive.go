package render

import (
	"context"
	"errors"
	"io"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bft-labs/runlane/internal/ports"
)

// ViewSource rebuilds a view for a container width and scrolls it to a
// viewport. The app.Timeline satisfies it through a small closure in the CLI.
type ViewSource interface {
	Build(ctx context.Context, width int) (ports.View, error)
	Scroll(v ports.View, offset, height int) ports.View
}

// RefreshMsg asks the interactive model to rebuild its view, e.g. after
// the records file changed.
type RefreshMsg struct{}

type builtMsg struct {
	view ports.View
	err  error
}

// Model is a bubbletea model scrolling a virtualized timeline.
type Model struct {
	ctx    context.Context
	source ViewSource
	text   *Text

	width, height int
	offset        int
	view          ports.View
	loaded        bool
	err           error
}

// NewModel creates an interactive model fed by source.
func NewModel(ctx context.Context, source ViewSource) Model {
	return Model{ctx: ctx, source: source, text: NewText(), view: ports.View{Loading: true}}
}

func (m Model) build() tea.Cmd {
	width := m.width
	return func() tea.Msg {
		v, err := m.source.Build(m.ctx, width)
		return builtMsg{view: v, err: err}
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.build()
	case RefreshMsg:
		if m.width == 0 {
			return m, nil
		}
		return m, m.build()
	case builtMsg:
		m.err = msg.err
		if msg.err == nil {
			m.view = msg.view
			m.loaded = true
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.offset--
		case "down", "j":
			m.offset++
		case "pgup":
			m.offset -= m.pageSize()
		case "pgdown", " ":
			m.offset += m.pageSize()
		case "home", "g":
			m.offset = 0
		case "end", "G":
			m.offset = len(m.view.Rows)
		}
		m.offset = min(max(m.offset, 0), max(len(m.view.Rows)-m.pageSize(), 0))
	}
	return m, nil
}

// pageSize is the number of lanes below the header and above the footer.
func (m Model) pageSize() int {
	return max(m.height-2, 1)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.loaded {
		return m.text.String(ports.View{Loading: true}) + m.footer()
	}
	v := m.source.Scroll(m.view, m.offset, m.pageSize())
	// Keep the frame to exactly the viewport; overscan rows are for the
	// source, not the screen.
	v.Visible = trim(v.Visible, m.offset, m.pageSize())
	return m.text.String(v) + m.footer()
}

func (m Model) footer() string {
	style := lipgloss.NewStyle().Faint(true)
	if m.err != nil {
		return style.Foreground(lipgloss.Color("#ef4444")).Render(m.err.Error())
	}
	return style.Render(Summary(m.view) + "  ↑/↓ scroll · q quit")
}

func trim(items []ports.Item, offset, height int) []ports.Item {
	out := make([]ports.Item, 0, height)
	for _, it := range items {
		if it.Index >= offset && it.Index < offset+height {
			out = append(out, it)
		}
	}
	return out
}

// Run starts the interactive program on in/out until the user quits or ctx
// ends. refresh, when non-nil, triggers a rebuild per receive.
func Run(ctx context.Context, source ViewSource, in io.Reader, out io.Writer, refresh <-chan struct{}) error {
	p := tea.NewProgram(NewModel(ctx, source),
		tea.WithContext(ctx),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithAltScreen(),
	)

	// forward ends with the program, not only with ctx.
	done := make(chan struct{})
	var wg sync.WaitGroup
	if refresh != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			forward(ctx, done, refresh, p.Send)
		}()
	}

	_, err := p.Run()
	close(done)
	wg.Wait()

	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// forward turns each receive on refresh into a RefreshMsg until ctx ends,
// done closes or refresh closes.
func forward(ctx context.Context, done <-chan struct{}, refresh <-chan struct{}, send func(tea.Msg)) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-done:
			return
		case _, ok := <-refresh:
			if !ok {
				return
			}
			send(RefreshMsg{})
		}
	}
}
