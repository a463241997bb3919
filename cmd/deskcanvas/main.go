package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/deskcanvas/deskcanvas/internal/config"
	"github.com/deskcanvas/deskcanvas/internal/daemon"
	"github.com/deskcanvas/deskcanvas/internal/ipc"
	"github.com/deskcanvas/deskcanvas/internal/tui"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: deskcanvas daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: deskcanvas daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "state":
		os.Exit(runState(os.Args[2:]))
	case "history":
		os.Exit(runHistory(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "clear":
		os.Exit(runClear(os.Args[2:]))
	case "element":
		os.Exit(runElement(os.Args[2:]))
	case "components":
		os.Exit(runComponents(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: deskcanvas <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the deskcanvas daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  state               Print the reconciled canvas as JSON")
	fmt.Fprintln(w, "  history             Print the recorded operation history")
	fmt.Fprintln(w, "  monitors            List connected displays")
	fmt.Fprintln(w, "  clear               Remove every element from the canvas")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  element create      Create an element (URL or component URI)")
	fmt.Fprintln(w, "  element modify      Modify an element's geometry or state")
	fmt.Fprintln(w, "  element remove      Remove an element")
	fmt.Fprintln(w, "  element focus       Focus an element's window")
	fmt.Fprintln(w, "  element list        List elements on the canvas")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  components          List the internal component catalog")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print effective configuration")
	fmt.Fprintln(w, "  config path         Print the config file path")
	fmt.Fprintln(w, "  config reload       Ask the daemon to reload its config")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  tui                 Open the interactive canvas inspector")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'deskcanvas <command> --help' for command-specific options.")
}

func runDaemon() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	cfgPath, err := config.Path()
	if err != nil {
		cfgPath = ""
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	if err := daemon.Run(context.Background(), daemon.Options{
		Config:     cfg,
		ConfigPath: cfgPath,
		Logger:     logger,
	}); err != nil {
		log.Fatalf("Daemon failed: %v", err)
	}
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("Daemon:   running\n")
	fmt.Printf("Canvas:   %s\n", status.CanvasID)
	fmt.Printf("Elements: %d\n", status.ElementCount)
	fmt.Printf("Uptime:   %ds\n", status.UptimeSeconds)

	if bounds, err := client.GetBoundaries(); err == nil {
		fmt.Printf("Bounds:   %dx%d at %d,%d\n",
			bounds.Width, bounds.Height, bounds.OriginX, bounds.OriginY)
	}
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas monitors")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List connected displays as the daemon sees them.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, m := range data.Monitors {
		fmt.Printf("%d: %-12s %dx%d at %d,%d\n", m.ID, m.Name, m.Width, m.Height, m.X, m.Y)
	}
	return 0
}

func runState(args []string) int {
	fs := flag.NewFlagSet("state", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas state")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Force a reconciliation pass and print the canvas as JSON.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	snap, err := client.GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	out, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(string(out))
	return 0
}

func runHistory(args []string) int {
	fs := flag.NewFlagSet("history", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas history")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	ops, err := client.GetHistory()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(ops) == 0 {
		fmt.Println("No operations recorded.")
		return 0
	}
	for _, op := range ops {
		fmt.Printf("%s  %-6s  %s\n", op.Timestamp.Format("15:04:05"), op.Type, op.ElementID)
	}
	return 0
}

func runClear(args []string) int {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas clear")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Remove every element from the canvas, closing all managed windows.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	if err := client.Clear(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println("Canvas cleared.")
	return 0
}

func runComponents(args []string) int {
	fs := flag.NewFlagSet("components", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas components")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List internal components available for apps:// and widgets:// sources.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()
	comps, err := client.ListComponents()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	for _, c := range comps {
		mark := " "
		if c.Configured {
			mark = "*"
		}
		fmt.Printf("%s %-12s %s\n", mark, c.Name, c.Description)
	}
	fmt.Println("\n* = command configured; others need a command in the config file")
	return 0
}

func runConfig(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas config <validate|print|path|reload>")
		return 2
	}

	switch args[0] {
	case "validate":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration invalid: %v\n", err)
			return 1
		}
		fmt.Printf("Configuration valid (%d components in catalog)\n", len(cfg.Components))
		return 0
	case "print":
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		out, err := config.Print(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(out)
		return 0
	case "path":
		path, err := config.Path()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(path)
		return 0
	case "reload":
		if err := ipc.NewClient().Reload(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("Reload requested.")
		return 0
	case "help", "-h", "--help":
		fmt.Fprintln(os.Stdout, "Usage: deskcanvas config <validate|print|path|reload>")
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stdout, "Usage: deskcanvas tui")
		fmt.Fprintln(os.Stdout, "")
		fmt.Fprintln(os.Stdout, "Open the interactive canvas inspector (requires a running daemon).")
		return 0
	}

	if err := tui.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
