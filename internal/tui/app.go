package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/deskcanvas/deskcanvas/internal/canvas"
	"github.com/deskcanvas/deskcanvas/internal/ipc"
)

const refreshInterval = 2 * time.Second

// client is the slice of the IPC client the inspector uses.
type client interface {
	GetStatus() (*ipc.StatusData, error)
	GetState() (*canvas.Canvas, error)
	CreateElement(p ipc.CreateElementPayload) (*canvas.Element, error)
	RemoveElement(elementID string) error
	FocusElement(elementID string) (*canvas.Element, error)
	ModifyElement(p ipc.ModifyElementPayload) (*canvas.Element, error)
}

// stateMsg carries a refreshed canvas snapshot into the model.
type stateMsg struct {
	snap *canvas.Canvas
	err  error
}

type tickMsg time.Time

// model is the root bubbletea model for the inspector.
type model struct {
	client client

	table    table.Model
	elements []canvas.Element
	canvasID string
	lastErr  string

	creating bool
	form     *createForm

	width  int
	height int
}

func newModel(c client) model {
	columns := []table.Column{
		{Title: "ID", Width: 10},
		{Title: "Type", Width: 12},
		{Title: "Source", Width: 36},
		{Title: "Position", Width: 12},
		{Title: "Size", Width: 12},
		{Title: "State", Width: 14},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
	)
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Bold(true).
		Foreground(lipgloss.Color("15")).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true)
	styles.Selected = styles.Selected.
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62"))
	t.SetStyles(styles)

	return model{client: c, table: t}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tea.Batch(m.refreshCmd(), tickCmd())
}

func (m model) refreshCmd() tea.Cmd {
	c := m.client
	return func() tea.Msg {
		snap, err := c.GetState()
		return stateMsg{snap: snap, err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The create form captures all input while active.
	if m.creating {
		return m.updateCreating(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "r":
			return m, m.refreshCmd()
		case "c":
			m.creating = true
			m.form = newCreateForm()
			return m, m.form.Init()
		case "f":
			if id := m.selectedID(); id != "" {
				return m, m.actionCmd(func(c client) error {
					_, err := c.FocusElement(id)
					return err
				})
			}
		case "d":
			if id := m.selectedID(); id != "" {
				return m, m.actionCmd(func(c client) error {
					return c.RemoveElement(id)
				})
			}
		case "m":
			if id := m.selectedID(); id != "" {
				minimized := true
				return m, m.actionCmd(func(c client) error {
					_, err := c.ModifyElement(ipc.ModifyElementPayload{ElementID: id, Minimized: &minimized})
					return err
				})
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table.SetHeight(m.contentHeight())
		return m, nil

	case tickMsg:
		return m, tea.Batch(m.refreshCmd(), tickCmd())

	case stateMsg:
		if msg.err != nil {
			m.lastErr = msg.err.Error()
			return m, nil
		}
		m.lastErr = ""
		m.canvasID = msg.snap.ID
		m.elements = msg.snap.Elements
		m.table.SetRows(elementRows(msg.snap.Elements))
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m model) updateCreating(msg tea.Msg) (tea.Model, tea.Cmd) {
	if km, ok := msg.(tea.KeyMsg); ok {
		switch km.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			m.creating = false
			m.form = nil
			return m, nil
		}
	}
	if ws, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = ws.Width
		m.height = ws.Height
	}

	form, cmd := m.form.Update(msg)
	m.form = form

	if m.form.Done() {
		payload, err := m.form.Payload()
		m.creating = false
		m.form = nil
		if err != nil {
			m.lastErr = err.Error()
			return m, nil
		}
		return m, m.actionCmd(func(c client) error {
			_, err := c.CreateElement(payload)
			return err
		})
	}
	return m, cmd
}

// actionCmd runs a daemon call and refreshes the table afterwards.
func (m model) actionCmd(fn func(client) error) tea.Cmd {
	c := m.client
	return func() tea.Msg {
		if err := fn(c); err != nil {
			return stateMsg{err: err}
		}
		snap, err := c.GetState()
		return stateMsg{snap: snap, err: err}
	}
}

func (m model) selectedID() string {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.elements) {
		return ""
	}
	return m.elements[idx].ID
}

func (m model) contentHeight() int {
	// Status bar + table header + help bar.
	h := m.height - 5
	if h < 3 {
		h = 3
	}
	return h
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	status := renderStatusBar(m.canvasID, len(m.elements), m.lastErr, m.width)
	help := renderHelpBar(m.width)

	var content string
	if m.creating && m.form != nil {
		content = m.form.View()
	} else {
		content = m.table.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, status, content, help)
}

func elementRows(elements []canvas.Element) []table.Row {
	rows := make([]table.Row, 0, len(elements))
	for _, elem := range elements {
		rows = append(rows, table.Row{
			elem.ID,
			elem.Type,
			truncate(elem.Content.Source, 36),
			fmt.Sprintf("%d,%d", elem.Transform.Position.Coordinates[0], elem.Transform.Position.Coordinates[1]),
			fmt.Sprintf("%dx%d", elem.Transform.Size.Dimensions[0], elem.Transform.Size.Dimensions[1]),
			stateLabel(elem.State),
		})
	}
	return rows
}

func stateLabel(st canvas.ElementState) string {
	switch {
	case st.Minimized:
		return "minimized"
	case !st.Visible:
		return "hidden"
	case st.Focused:
		return "focused"
	default:
		return "visible"
	}
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen || maxLen < 4 {
		return s
	}
	return s[:maxLen-3] + "..."
}

func renderStatusBar(canvasID string, count int, lastErr string, width int) string {
	style := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Width(width).
		Padding(0, 1)

	if lastErr != "" {
		errStyle := style.Background(lipgloss.Color("196"))
		return errStyle.Render("deskcanvas | " + lastErr)
	}
	if canvasID == "" {
		return style.Render("deskcanvas | connecting...")
	}
	return style.Render(fmt.Sprintf("deskcanvas | canvas %s | %d element(s)", canvasID, count))
}

func renderHelpBar(width int) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Width(width).
		Padding(0, 1).
		Render("c create · f focus · m minimize · d remove · r refresh · q quit")
}
