package discovery

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"sort"
	"strings"
	"time"

	"github.com/deskcanvas/deskcanvas/internal/platform"
)

const defaultAdoptPoll = 150 * time.Millisecond

// LaunchSpec describes one host process to start and adopt.
type LaunchSpec struct {
	Command string
	Args    []string
	Env     []string
	Timeout time.Duration
}

// process abstracts the started child so tests can fake it.
type process interface {
	Pid() int
	Kill() error
}

type osProcess struct {
	cmd *exec.Cmd
}

func (p *osProcess) Pid() int { return p.cmd.Process.Pid }

func (p *osProcess) Kill() error { return p.cmd.Process.Kill() }

// Launcher starts host processes and adopts the window they map, matched by
// process id.
type Launcher struct {
	backend platform.Backend
	logger  *slog.Logger

	pollInterval time.Duration
	startFn      func(spec LaunchSpec) (process, error)
}

// NewLauncher returns a launcher spawning real OS processes.
func NewLauncher(backend platform.Backend, logger *slog.Logger) *Launcher {
	l := &Launcher{
		backend:      backend,
		logger:       logger,
		pollInterval: defaultAdoptPoll,
	}
	l.startFn = l.startProcess
	return l
}

func (l *Launcher) startProcess(spec LaunchSpec) (process, error) {
	cmd := exec.Command(spec.Command, spec.Args...)
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	// Reap the child when it eventually exits. The process is long-lived and
	// its lifetime is managed through the window, not the handle.
	go cmd.Wait()
	return &osProcess{cmd: cmd}, nil
}

// Launch starts the process described by spec and waits for a top-level
// window owned by it. On timeout or context cancellation the child is killed
// and an error is returned; no half-adopted window survives.
func (l *Launcher) Launch(ctx context.Context, spec LaunchSpec) (platform.WindowID, int, error) {
	if strings.TrimSpace(spec.Command) == "" {
		return 0, 0, fmt.Errorf("empty launch command")
	}
	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	proc, err := l.startFn(spec)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to start %s: %w", spec.Command, err)
	}
	pid := proc.Pid()
	l.logger.Debug("process started", "command", spec.Command, "pid", pid)

	deadline := time.Now().Add(timeout)
	ticker := time.NewTicker(l.pollInterval)
	defer ticker.Stop()

	for {
		win, found, err := l.backend.FindWindowByPID(pid)
		if err == nil && found {
			l.logger.Debug("window adopted", "pid", pid, "window", win)
			return win, pid, nil
		}

		if time.Now().After(deadline) {
			proc.Kill()
			return 0, 0, fmt.Errorf("no window from pid %d after %s", pid, timeout)
		}

		select {
		case <-ctx.Done():
			proc.Kill()
			return 0, 0, ctx.Err()
		case <-ticker.C:
		}
	}
}

// ExpandArgs substitutes {placeholder} tokens in args. Used for the browser
// command's {url} slot.
func ExpandArgs(args []string, vars map[string]string) []string {
	out := make([]string, len(args))
	for i, a := range args {
		for key, val := range vars {
			a = strings.ReplaceAll(a, "{"+key+"}", val)
		}
		out[i] = a
	}
	return out
}

// ParamArgs renders component parameters as command-line arguments. With a
// paramFlag each pair becomes "flag key=value"; without one each pair becomes
// "--key=value". Keys are rendered in sorted order so repeated launches get
// identical argv.
func ParamArgs(paramFlag string, params map[string]string) []string {
	if len(params) == 0 {
		return nil
	}
	var out []string
	for _, k := range sortedKeys(params) {
		pair := k + "=" + params[k]
		if paramFlag != "" {
			out = append(out, paramFlag, pair)
		} else {
			out = append(out, "--"+pair)
		}
	}
	return out
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// EncodeParams renders parameters as a stable query-string form, used when
// forwarding parameters to an already-running component via a window
// property.
func EncodeParams(params map[string]string) string {
	if len(params) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, k := range sortedKeys(params) {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(k)
		sb.WriteByte('=')
		sb.WriteString(params[k])
	}
	return sb.String()
}
