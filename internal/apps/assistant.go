package apps

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type rule struct {
	pattern *regexp.Regexp
	reply   func(a *Assistant, m []string) string
}

var assistantRules = []rule{
	{regexp.MustCompile(`(?i)^\s*(hi|hello|hey)\b`), func(a *Assistant, _ []string) string {
		return "Hello, " + a.env.user() + ". Ask me to open an app, or ask how windows work."
	}},
	{regexp.MustCompile(`(?i)\b(open|launch|start)\s+(?:the\s+|an?\s+)?([a-z]+)`), func(a *Assistant, m []string) string {
		if a.env.Open == nil {
			return "I can't open apps from here."
		}
		if err := a.env.Open(m[2]); err != nil {
			return "I couldn't open " + m[2] + ": " + err.Error()
		}
		return "Opening " + m[2] + "."
	}},
	{regexp.MustCompile(`(?i)\bsnap`), func(*Assistant, []string) string {
		return "Drag a window's title bar to the left or right edge to snap it to that half, or to the top edge to maximize it."
	}},
	{regexp.MustCompile(`(?i)\bresiz`), func(*Assistant, []string) string {
		return "Grab any edge or corner of a window and drag. Windows never shrink below their minimum size."
	}},
	{regexp.MustCompile(`(?i)\b(minimi[sz]e|taskbar|restore)`), func(*Assistant, []string) string {
		return "The first title bar button minimizes a window. Click its taskbar entry to bring it back."
	}},
	{regexp.MustCompile(`(?i)\bmaximi[sz]e`), func(*Assistant, []string) string {
		return "The middle title bar button maximizes a window; press it again to restore the previous size."
	}},
	{regexp.MustCompile(`(?i)\bhow many windows\b`), func(a *Assistant, _ []string) string {
		if a.env.WindowCount == nil {
			return "I can't see the desktop from here."
		}
		n := a.env.WindowCount()
		if n == 1 {
			return "There is 1 window open."
		}
		return fmt.Sprintf("There are %d windows open.", n)
	}},
	{regexp.MustCompile(`(?i)\b(time|date|today)\b`), func(a *Assistant, _ []string) string {
		return "It is " + a.env.now().Format("Monday, 2 January 2006 15:04") + "."
	}},
	{regexp.MustCompile(`(?i)\b(calc|calculate|what is)\s+(-?\d+(?:\.\d+)?)\s*([-+*/x])\s*(-?\d+(?:\.\d+)?)`), func(_ *Assistant, m []string) string {
		return m[2] + " " + m[3] + " " + m[4] + " = " + Evaluate(m[2], m[3], m[4])
	}},
	{regexp.MustCompile(`(?i)\b(help|what can you do)\b`), func(*Assistant, []string) string {
		return "Try: 'open terminal', 'how do I snap?', 'how many windows', 'what time is it', 'calc 6 * 7'."
	}},
}

// Assistant answers questions with a fixed set of keyword rules.
type Assistant struct {
	env        Env
	input      textinput.Model
	transcript []string
}

// NewAssistant creates an assistant app.
func NewAssistant(env Env) App {
	ti := textinput.New()
	ti.Placeholder = "Ask something..."
	ti.CharLimit = 200
	ti.Focus()
	return &Assistant{
		env:        env,
		input:      ti,
		transcript: []string{"assistant: Hi! Type 'help' to see what I can do."},
	}
}

// Reply returns the answer to a question without recording it.
func (a *Assistant) Reply(question string) string {
	for _, r := range assistantRules {
		if m := r.pattern.FindStringSubmatch(question); m != nil {
			return r.reply(a, m)
		}
	}
	return "Sorry, I don't know about that yet. Type 'help' for ideas."
}

// Ask records a question and its answer in the transcript.
func (a *Assistant) Ask(question string) string {
	question = strings.TrimSpace(question)
	if question == "" {
		return ""
	}
	answer := a.Reply(question)
	a.transcript = append(a.transcript, "you: "+question, "assistant: "+answer)
	a.env.logger().Debug("assistant answered", "question", question, "at", a.env.now().Format(time.TimeOnly))
	return answer
}

// Transcript returns the conversation so far.
func (a *Assistant) Transcript() []string { return append([]string(nil), a.transcript...) }

// Update implements App.
func (a *Assistant) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok && key.Type == tea.KeyEnter {
		a.Ask(a.input.Value())
		a.input.Reset()
		return nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return cmd
}

var (
	assistantYouStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	assistantBotStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

// View implements App.
func (a *Assistant) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	wrap := lipgloss.NewStyle().Width(width)
	var lines []string
	for _, entry := range a.transcript {
		style := assistantBotStyle
		if strings.HasPrefix(entry, "you: ") {
			style = assistantYouStyle
		}
		lines = append(lines, strings.Split(wrap.Render(style.Render(entry)), "\n")...)
	}
	a.input.Width = width - 3
	lines = append(lines, "> "+a.input.View())
	if len(lines) > height {
		lines = lines[len(lines)-height:]
	}
	return strings.Join(lines, "\n")
}
