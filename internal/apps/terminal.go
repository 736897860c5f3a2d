package apps

import (
	"fmt"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Version is the desktop release reported by uname and the about app.
const Version = "1.0.0"

const maxScrollback = 500

// Shell runs terminal commands against the sandboxed file tree.
type Shell struct {
	env     Env
	fs      *FS
	cwd     string
	history []string
}

type command struct {
	help string
	run  func(s *Shell, args []string) []string
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"help":    {"list commands", (*Shell).help},
		"echo":    {"print arguments", func(_ *Shell, args []string) []string { return []string{strings.Join(args, " ")} }},
		"date":    {"print the current time", func(s *Shell, _ []string) []string { return []string{s.env.now().Format(time.RFC1123)} }},
		"whoami":  {"print the user name", func(s *Shell, _ []string) []string { return []string{s.env.user()} }},
		"uname":   {"print system information", (*Shell).uname},
		"pwd":     {"print the working directory", func(s *Shell, _ []string) []string { return []string{s.cwd} }},
		"ls":      {"list a directory", (*Shell).ls},
		"cd":      {"change directory", (*Shell).cd},
		"cat":     {"print a file", (*Shell).cat},
		"open":    {"open an app", (*Shell).open},
		"history": {"show previous commands", (*Shell).showHistory},
		"clear":   {"clear the screen", nil},
	}
}

// NewShell returns a shell in the home directory of a fresh file tree.
func NewShell(env Env) *Shell {
	fs := DefaultFS(env.now())
	return &Shell{env: env, fs: fs, cwd: fs.Home}
}

// Cwd returns the working directory.
func (s *Shell) Cwd() string { return s.cwd }

// History returns the commands run so far, oldest first.
func (s *Shell) History() []string { return append([]string(nil), s.history...) }

// Exec runs one command line. clear reports that the screen should be wiped.
func (s *Shell) Exec(line string) (out []string, clear bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, false
	}
	s.history = append(s.history, strings.TrimSpace(line))

	name, args := fields[0], fields[1:]
	cmd, ok := commands[name]
	if !ok {
		return []string{name + ": command not found"}, false
	}
	if cmd.run == nil {
		return nil, true
	}
	return cmd.run(s, args), false
}

func (s *Shell) help(_ []string) []string {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	out := []string{"Available commands:"}
	for _, name := range names {
		out = append(out, fmt.Sprintf("  %-8s %s", name, commands[name].help))
	}
	return out
}

func (s *Shell) uname(args []string) []string {
	if len(args) > 0 && args[0] == "-a" {
		return []string{fmt.Sprintf("MominOS %s %s %s/%s", s.env.host(), Version, runtime.GOOS, runtime.GOARCH)}
	}
	return []string{"MominOS"}
}

func (s *Shell) ls(args []string) []string {
	target := s.cwd
	if len(args) > 0 {
		target = s.fs.Resolve(s.cwd, args[0])
	}
	n, err := s.fs.Lookup(target)
	if err != nil {
		return []string{"ls: " + err.Error()}
	}
	if !n.Dir {
		return []string{n.Name}
	}
	var names []string
	for _, c := range n.Sorted() {
		if c.Dir {
			names = append(names, c.Name+"/")
		} else {
			names = append(names, c.Name)
		}
	}
	if len(names) == 0 {
		return nil
	}
	return []string{strings.Join(names, "  ")}
}

func (s *Shell) cd(args []string) []string {
	arg := ""
	if len(args) > 0 {
		arg = args[0]
	}
	target := s.fs.Resolve(s.cwd, arg)
	n, err := s.fs.Lookup(target)
	if err != nil {
		return []string{"cd: " + err.Error()}
	}
	if !n.Dir {
		return []string{"cd: " + target + ": not a directory"}
	}
	s.cwd = target
	return nil
}

func (s *Shell) cat(args []string) []string {
	if len(args) == 0 {
		return []string{"cat: missing file operand"}
	}
	var out []string
	for _, arg := range args {
		n, err := s.fs.Lookup(s.fs.Resolve(s.cwd, arg))
		if err != nil {
			out = append(out, "cat: "+err.Error())
			continue
		}
		if n.Dir {
			out = append(out, "cat: "+arg+": is a directory")
			continue
		}
		out = append(out, strings.Split(strings.TrimSuffix(n.Content, "\n"), "\n")...)
	}
	return out
}

func (s *Shell) open(args []string) []string {
	if len(args) == 0 {
		return []string{"open: usage: open <app>"}
	}
	if s.env.Open == nil {
		return []string{"open: no desktop attached"}
	}
	if err := s.env.Open(args[0]); err != nil {
		return []string{"open: " + err.Error()}
	}
	return []string{"opened " + args[0]}
}

func (s *Shell) showHistory(_ []string) []string {
	out := make([]string, len(s.history))
	for i, line := range s.history {
		out[i] = fmt.Sprintf("%4d  %s", i+1, line)
	}
	return out
}

// Terminal is the interactive window around a Shell.
type Terminal struct {
	shell      *Shell
	input      textinput.Model
	scrollback []string
	recall     int
}

// NewTerminal creates a terminal app.
func NewTerminal(env Env) App {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.Focus()

	return &Terminal{
		shell:      NewShell(env),
		input:      ti,
		scrollback: []string{"MominOS terminal " + Version + ". Type 'help' for commands."},
		recall:     -1,
	}
}

// Shell exposes the terminal's shell.
func (t *Terminal) Shell() *Shell { return t.shell }

// Scrollback returns the lines printed so far.
func (t *Terminal) Scrollback() []string { return append([]string(nil), t.scrollback...) }

func (t *Terminal) prompt() string {
	cwd := t.shell.cwd
	if cwd == t.shell.fs.Home {
		cwd = "~"
	} else if strings.HasPrefix(cwd, t.shell.fs.Home+"/") {
		cwd = "~" + strings.TrimPrefix(cwd, t.shell.fs.Home)
	}
	return t.shell.env.user() + "@" + t.shell.env.host() + ":" + cwd + "$ "
}

// Run executes a line as if it were typed and entered.
func (t *Terminal) Run(line string) {
	t.scrollback = append(t.scrollback, t.prompt()+line)
	out, clear := t.shell.Exec(line)
	if clear {
		t.scrollback = nil
	} else {
		t.scrollback = append(t.scrollback, out...)
	}
	if n := len(t.scrollback); n > maxScrollback {
		t.scrollback = t.scrollback[n-maxScrollback:]
	}
	t.recall = -1
}

// Update implements App.
func (t *Terminal) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.Type {
		case tea.KeyEnter:
			line := t.input.Value()
			t.input.Reset()
			t.Run(line)
			return nil
		case tea.KeyUp:
			t.recallHistory(1)
			return nil
		case tea.KeyDown:
			t.recallHistory(-1)
			return nil
		}
	}
	var cmd tea.Cmd
	t.input, cmd = t.input.Update(msg)
	return cmd
}

func (t *Terminal) recallHistory(step int) {
	hist := t.shell.history
	if len(hist) == 0 {
		return
	}
	t.recall += step
	if t.recall < 0 {
		t.recall = -1
		t.input.SetValue("")
		return
	}
	if t.recall >= len(hist) {
		t.recall = len(hist) - 1
	}
	t.input.SetValue(hist[len(hist)-1-t.recall])
	t.input.CursorEnd()
}

var terminalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

// View implements App.
func (t *Terminal) View(width, height int) string {
	if height <= 0 {
		return ""
	}
	lines := append(append([]string(nil), t.scrollback...), t.prompt()+t.input.View())
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return terminalStyle.Width(width).MaxWidth(width).Render(strings.Join(lines, "\n"))
}
