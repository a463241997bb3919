package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/deskcanvas/deskcanvas/internal/ipc"
)

// createForm collects the fields for a new element. Geometry is mandatory;
// the form validates it before the request ever reaches the daemon.
type createForm struct {
	form *huh.Form

	elemType string
	source   string
	position string
	size     string
}

func newCreateForm() *createForm {
	f := &createForm{
		elemType: "browser",
		position: "100,100",
		size:     "800,600",
	}

	f.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("browser", "browser"),
					huh.NewOption("window", "window"),
					huh.NewOption("application", "application"),
				).
				Value(&f.elemType),
			huh.NewInput().
				Title("Source").
				Description("URL (example.com) or component URI (apps://notes?note=42)").
				Validate(requireNonEmpty).
				Value(&f.source),
			huh.NewInput().
				Title("Position").
				Description("x,y in pixels").
				Validate(validatePair).
				Value(&f.position),
			huh.NewInput().
				Title("Size").
				Description("width,height in pixels").
				Validate(validatePair).
				Value(&f.size),
		),
	)
	return f
}

func (f *createForm) Init() tea.Cmd {
	return f.form.Init()
}

func (f *createForm) Update(msg tea.Msg) (*createForm, tea.Cmd) {
	form, cmd := f.form.Update(msg)
	if hf, ok := form.(*huh.Form); ok {
		f.form = hf
	}
	return f, cmd
}

func (f *createForm) View() string {
	return f.form.View()
}

func (f *createForm) Done() bool {
	return f.form.State == huh.StateCompleted
}

// Payload builds the create request from the completed form.
func (f *createForm) Payload() (ipc.CreateElementPayload, error) {
	pos, err := parsePair(f.position)
	if err != nil {
		return ipc.CreateElementPayload{}, fmt.Errorf("bad position: %w", err)
	}
	size, err := parsePair(f.size)
	if err != nil {
		return ipc.CreateElementPayload{}, fmt.Errorf("bad size: %w", err)
	}

	return ipc.CreateElementPayload{
		Type:     f.elemType,
		Position: &pos,
		Size:     &size,
		Source:   strings.TrimSpace(f.source),
	}, nil
}

func requireNonEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("required")
	}
	return nil
}

func validatePair(s string) error {
	_, err := parsePair(s)
	return err
}

func parsePair(s string) ([2]int, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != 2 {
		return [2]int{}, fmt.Errorf("expected two comma-separated numbers")
	}
	var out [2]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return [2]int{}, fmt.Errorf("%q is not a number", strings.TrimSpace(p))
		}
		out[i] = n
	}
	return out, nil
}
