package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/deskcanvas/deskcanvas/internal/ipc"
)

func runElement(args []string) int {
	if len(args) == 0 {
		printElementUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "create":
		return runElementCreate(args[1:])
	case "modify":
		return runElementModify(args[1:])
	case "remove":
		return runElementRemove(args[1:])
	case "focus":
		return runElementFocus(args[1:])
	case "list":
		return runElementList(args[1:])
	case "help", "-h", "--help":
		printElementUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown element command: %s\n\n", args[0])
		printElementUsage(os.Stderr)
		return 2
	}
}

func printElementUsage(w *os.File) {
	fmt.Fprintln(w, "Usage: deskcanvas element <create|modify|remove|focus|list> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  create    Create an element from a URL or component URI")
	fmt.Fprintln(w, "  modify    Change an element's geometry or state")
	fmt.Fprintln(w, "  remove    Remove an element and close its window")
	fmt.Fprintln(w, "  focus     Raise and focus an element's window")
	fmt.Fprintln(w, "  list      List elements on the canvas")
}

// parsePair parses "x,y" into two ints.
func parsePair(flagName, raw string) (*[2]int, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if len(parts) != 2 {
		return nil, fmt.Errorf("--%s must be two comma-separated integers, got %q", flagName, raw)
	}
	a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil, fmt.Errorf("--%s: %q is not an integer", flagName, parts[0])
	}
	b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("--%s: %q is not an integer", flagName, parts[1])
	}
	return &[2]int{a, b}, nil
}

func parseMetadata(raw string) (map[string]any, error) {
	if raw == "" {
		return nil, nil
	}
	meta := make(map[string]any)
	for _, pair := range strings.Split(raw, ",") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("--metadata entries must be key=value, got %q", pair)
		}
		meta[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return meta, nil
}

func runElementCreate(args []string) int {
	fs := flag.NewFlagSet("element create", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	elemType := fs.String("type", "window", "Element type (window, browser, application)")
	position := fs.String("position", "", "Position as \"x,y\" in canvas pixels (required)")
	size := fs.String("size", "", "Size as \"width,height\" in pixels (required)")
	metadata := fs.String("metadata", "", "Metadata as comma-separated key=value pairs")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas element create --position x,y --size w,h [options] <source>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Source is a URL (https://..., bare hosts get https) or a component URI")
		fmt.Fprintln(os.Stderr, "(apps://notes, widgets://weather?city=Oslo, system://settings).")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "element create requires exactly one source argument")
		fs.Usage()
		return 2
	}

	pos, err := parsePair("position", *position)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	sz, err := parsePair("size", *size)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	meta, err := parseMetadata(*metadata)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	elem, err := client.CreateElement(ipc.CreateElementPayload{
		Type:     *elemType,
		Position: pos,
		Size:     sz,
		Source:   fs.Arg(0),
		Metadata: meta,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Created element %s (%s) at %d,%d size %dx%d\n",
		elem.ID, elem.Type,
		elem.Transform.Position.Coordinates[0], elem.Transform.Position.Coordinates[1],
		elem.Transform.Size.Dimensions[0], elem.Transform.Size.Dimensions[1])
	return 0
}

func runElementModify(args []string) int {
	fs := flag.NewFlagSet("element modify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	position := fs.String("position", "", "New position as \"x,y\"")
	size := fs.String("size", "", "New size as \"width,height\"")
	visible := fs.String("visible", "", "Set visibility (true or false)")
	minimized := fs.String("minimized", "", "Set minimized state (true or false)")
	focused := fs.Bool("focus", false, "Focus the element's window")
	metadata := fs.String("metadata", "", "Metadata as comma-separated key=value pairs")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas element modify [options] <element-id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Only the provided fields change; everything else is preserved.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "element modify requires exactly one element-id argument")
		fs.Usage()
		return 2
	}

	payload := ipc.ModifyElementPayload{ElementID: fs.Arg(0)}

	var err error
	if payload.Position, err = parsePair("position", *position); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if payload.Size, err = parsePair("size", *size); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if payload.Metadata, err = parseMetadata(*metadata); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if payload.Visible, err = parseBoolFlag("visible", *visible); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if payload.Minimized, err = parseBoolFlag("minimized", *minimized); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}
	if *focused {
		v := true
		payload.Focused = &v
	}

	client := ipc.NewClient()
	elem, err := client.ModifyElement(payload)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Modified element %s\n", elem.ID)
	return 0
}

func parseBoolFlag(flagName, raw string) (*bool, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s must be true or false, got %q", flagName, raw)
	}
	return &v, nil
}

func runElementRemove(args []string) int {
	fs := flag.NewFlagSet("element remove", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas element remove <element-id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if err := ipc.NewClient().RemoveElement(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Removed element %s\n", fs.Arg(0))
	return 0
}

func runElementFocus(args []string) int {
	fs := flag.NewFlagSet("element focus", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas element focus <element-id>")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	if _, err := ipc.NewClient().FocusElement(fs.Arg(0)); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("Focused element %s\n", fs.Arg(0))
	return 0
}

func runElementList(args []string) int {
	fs := flag.NewFlagSet("element list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: deskcanvas element list")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	snap, err := ipc.NewClient().GetState()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if len(snap.Elements) == 0 {
		fmt.Println("No elements on the canvas.")
		return 0
	}

	fmt.Printf("%-10s %-12s %-9s %-11s %s\n", "ID", "TYPE", "POSITION", "SIZE", "SOURCE")
	for _, elem := range snap.Elements {
		pos := elem.Transform.Position.Coordinates
		dim := elem.Transform.Size.Dimensions
		fmt.Printf("%-10s %-12s %-9s %-11s %s\n",
			elem.ID, elem.Type,
			fmt.Sprintf("%d,%d", pos[0], pos[1]),
			fmt.Sprintf("%dx%d", dim[0], dim[1]),
			elem.Content.Source)
	}
	return 0
}
