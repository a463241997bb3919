package main

import (
	"context"
	"fmt"
	"os"

	"github.com/deskcanvas/deskcanvas/internal/ipc"
	"github.com/deskcanvas/deskcanvas/internal/mcp"
)

func runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(os.Stderr)
		return 2
	}
}

func printMCPUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: deskcanvas mcp serve")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Start an MCP server on stdio exposing canvas tools to an agent.")
	fmt.Fprintln(w, "Requires a running deskcanvas daemon; the server forwards every")
	fmt.Fprintln(w, "tool call to it over the control socket.")
}

func runMCPServe(args []string) int {
	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		printMCPUsage(os.Stdout)
		return 0
	}
	if len(args) > 0 {
		fmt.Fprintln(os.Stderr, "mcp serve takes no arguments")
		printMCPUsage(os.Stderr)
		return 2
	}

	server := mcp.NewServer(ipc.NewClient())
	if err := server.Run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}
