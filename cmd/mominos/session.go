package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"

	"github.com/mominos/mominos/internal/ipc"
	"github.com/mominos/mominos/internal/session"
)

func printSessionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mominos session save <name>     Save the running desktop's layout")
	fmt.Fprintln(w, "  mominos session load <name>     Replace the open windows with a saved layout")
	fmt.Fprintln(w, "  mominos session list            List saved layouts")
	fmt.Fprintln(w, "  mominos session delete <name>   Delete a saved layout")
}

func runSession(args []string) int {
	if len(args) == 0 {
		printSessionUsage(os.Stderr)
		return 2
	}

	switch args[0] {
	case "save", "load":
		if len(args) != 2 {
			fmt.Fprintf(os.Stderr, "Usage: mominos session %s <name>\n", args[0])
			return 2
		}
		client := ipc.NewClient()
		op := client.SaveSession
		verb := "saved"
		if args[0] == "load" {
			op = client.LoadSession
			verb = "loaded"
		}
		data, err := op(args[1])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("%s session %q (%d windows)\n", verb, data.Name, data.Windows)
		return 0

	case "list":
		if len(args) != 1 {
			fmt.Fprintln(os.Stderr, "session list takes no arguments")
			return 2
		}
		summaries, err := session.Summaries()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if len(summaries) == 0 {
			fmt.Println("No saved sessions.")
			return 0
		}
		for _, s := range summaries {
			fmt.Printf("%-20s %2d windows  saved %-16s %s\n",
				s.Name, s.Windows, humanize.Time(s.SavedAt), humanize.Bytes(uint64(s.Size)))
		}
		return 0

	case "delete":
		if len(args) != 2 {
			fmt.Fprintln(os.Stderr, "Usage: mominos session delete <name>")
			return 2
		}
		if err := session.Delete(args[1]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("deleted session %q\n", args[1])
		return 0

	case "help", "-h", "--help":
		printSessionUsage(os.Stdout)
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown session subcommand: %s\n\n", args[0])
		printSessionUsage(os.Stderr)
		return 2
	}
}
