package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/mominos/mominos/internal/ipc"
	"github.com/mominos/mominos/internal/wm"
)

func printWindowUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mominos window list [--json]")
	fmt.Fprintln(w, "  mominos window open <app>")
	fmt.Fprintln(w, "  mominos window focus <id>")
	fmt.Fprintln(w, "  mominos window move-focus <up|down|left|right|next|prev>")
	fmt.Fprintln(w, "  mominos window minimize <id>")
	fmt.Fprintln(w, "  mominos window maximize <id>")
	fmt.Fprintln(w, "  mominos window close <id>")
	fmt.Fprintln(w, "  mominos window snap <id> <left|right|max>")
	fmt.Fprintln(w, "  mominos window drag [--dx N] [--dy N] [--to X,Y] [--steps N] <id>")
	fmt.Fprintln(w, "  mominos window resize [--dx N] [--dy N] [--steps N] <id> <handle>")
	fmt.Fprintln(w, "  mominos window arrange <tile|cascade>")
	fmt.Fprintln(w, "")
	fmt.Fprintf(w, "Handles: %s\n", handleNames())
}

func handleNames() string {
	names := make([]string, len(wm.Handles))
	for i, h := range wm.Handles {
		names[i] = string(h)
	}
	return strings.Join(names, ", ")
}

func runWindow(args []string) int {
	if len(args) == 0 {
		printWindowUsage(os.Stderr)
		return 2
	}

	client := ipc.NewClient()
	switch args[0] {
	case "list":
		return runWindowList(client, args[1:])
	case "open":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: mominos window open <app>")
			return 2
		}
		return printWindowResult(client.OpenApp(args[1]))
	case "focus":
		return windowIDCommand("focus", args[1:], client.Focus)
	case "move-focus":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: mominos window move-focus <up|down|left|right|next|prev>")
			return 2
		}
		return printWindowResult(client.FocusMove(args[1]))
	case "minimize":
		return windowIDCommand("minimize", args[1:], client.Minimize)
	case "maximize":
		return windowIDCommand("maximize", args[1:], client.ToggleMaximize)
	case "close":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: mominos window close <id>")
			return 2
		}
		if err := client.Close(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("closed %s\n", args[1])
		return 0
	case "snap":
		if len(args) != 3 {
			fmt.Fprintln(os.Stderr, "Usage: mominos window snap <id> <left|right|max>")
			return 2
		}
		return printWindowResult(client.Snap(args[1], args[2]))
	case "drag":
		return runWindowDrag(client, args[1:])
	case "resize":
		return runWindowResize(client, args[1:])
	case "arrange":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: mominos window arrange <tile|cascade>")
			return 2
		}
		windows, err := client.Arrange(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		printWindowTable(os.Stdout, windows)
		return 0
	case "help", "-h", "--help":
		printWindowUsage(os.Stdout)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Unknown window subcommand: %s\n\n", args[0])
		printWindowUsage(os.Stderr)
		return 2
	}
}

func windowIDCommand(verb string, args []string, op func(id string) (*ipc.WindowInfo, error)) int {
	if len(args) != 1 {
		fmt.Fprintf(os.Stderr, "Usage: mominos window %s <id>\n", verb)
		return 2
	}
	return printWindowResult(op(args[0]))
}

func printWindowResult(w *ipc.WindowInfo, err error) int {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Println(formatWindow(*w))
	return 0
}

func runWindowList(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("window list", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	windows, err := client.ListWindows()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(windows)
	}
	if len(windows) == 0 {
		fmt.Println("No windows open.")
		return 0
	}
	printWindowTable(os.Stdout, windows)
	return 0
}

func printWindowTable(w io.Writer, windows []ipc.WindowInfo) {
	for _, win := range windows {
		fmt.Fprintln(w, formatWindow(win))
	}
}

// formatWindow renders one window as a single listing line.
func formatWindow(w ipc.WindowInfo) string {
	var flags []string
	if w.Focused {
		flags = append(flags, "focused")
	}
	if w.Minimized {
		flags = append(flags, "minimized")
	}
	if w.Maximized {
		flags = append(flags, "maximized")
	}
	if w.Snapped != "" {
		flags = append(flags, "snapped:"+w.Snapped)
	}
	line := fmt.Sprintf("%-5s %-11s %-12s %5d,%-5d %5dx%-5d", w.ID, w.App, w.Title, w.X, w.Y, w.Width, w.Height)
	if len(flags) > 0 {
		line += " [" + strings.Join(flags, " ") + "]"
	}
	return strings.TrimRight(line, " ")
}

// parsePoint parses "X,Y".
func parsePoint(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("invalid point %q (want X,Y)", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return x, y, nil
}

func runWindowDrag(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("window drag", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dx := fs.Int("dx", 0, "Horizontal distance")
	dy := fs.Int("dy", 0, "Vertical distance")
	to := fs.String("to", "", "Release point X,Y instead of a relative move")
	steps := fs.Int("steps", 0, "Pointer moves to split the drag into")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mominos window drag [--dx N] [--dy N] [--to X,Y] [--steps N] <id>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Drag a window by its title bar. Releasing near a screen edge snaps it.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
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
	id := fs.Arg(0)

	if *to != "" {
		x, y, err := parsePoint(*to)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		return printWindowResult(client.DragTo(id, x, y, *steps))
	}
	return printWindowResult(client.Drag(id, *dx, *dy, *steps))
}

func runWindowResize(client *ipc.Client, args []string) int {
	fs := flag.NewFlagSet("window resize", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	dx := fs.Int("dx", 0, "Horizontal distance")
	dy := fs.Int("dy", 0, "Vertical distance")
	steps := fs.Int("steps", 0, "Pointer moves to split the resize into")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mominos window resize [--dx N] [--dy N] [--steps N] <id> <handle>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Handles: %s\n", handleNames())
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}
	return printWindowResult(client.Resize(fs.Arg(0), fs.Arg(1), *dx, *dy, *steps))
}

func runApps(args []string) int {
	fs := flag.NewFlagSet("apps", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	jsonOut := fs.Bool("json", false, "Output as JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: mominos apps [--json]")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	data, err := ipc.NewClient().ListApps()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if *jsonOut {
		return printJSON(data.Apps)
	}
	for _, app := range data.Apps {
		single := ""
		if app.Singleton {
			single = " (single window)"
		}
		fmt.Printf("%-11s %s %-11s %s%s\n", app.ID, app.Icon, app.Name, app.Description, single)
	}
	return 0
}
