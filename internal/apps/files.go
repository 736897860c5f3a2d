package apps

import (
	"path"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

// fileItem is a list item for one directory entry.
type fileItem struct {
	node *Node
}

func (i fileItem) Title() string {
	if i.node.Dir {
		return i.node.Name + "/"
	}
	return i.node.Name
}

func (i fileItem) Description() string {
	modified := humanize.Time(i.node.ModTime)
	if i.node.Dir {
		return humanize.Comma(int64(len(i.node.Children))) + " items, " + modified
	}
	return humanize.Bytes(uint64(i.node.Size())) + ", " + modified
}

func (i fileItem) FilterValue() string { return i.node.Name }

// Files browses the sandboxed file tree.
type Files struct {
	fs      *FS
	cwd     string
	list    list.Model
	preview *Node
	status  string
}

// NewFiles creates a file browser opened at the home directory.
func NewFiles(env Env) App {
	fs := DefaultFS(env.now())

	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Foreground(lipgloss.Color("15")).
		BorderForeground(lipgloss.Color("62"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.
		Foreground(lipgloss.Color("250")).
		BorderForeground(lipgloss.Color("62"))

	l := list.New(nil, delegate, 0, 0)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.KeyMap.Quit.SetEnabled(false)
	l.Styles.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("62")).
		Padding(0, 1)

	f := &Files{fs: fs, list: l}
	f.Chdir(fs.Home)
	return f
}

// Cwd returns the directory being shown.
func (f *Files) Cwd() string { return f.cwd }

// Entries returns the names shown in the current directory.
func (f *Files) Entries() []string {
	var out []string
	for _, it := range f.list.Items() {
		out = append(out, it.(fileItem).node.Name)
	}
	return out
}

// Chdir switches to an absolute directory path.
func (f *Files) Chdir(p string) bool {
	n, err := f.fs.Lookup(p)
	if err != nil || !n.Dir {
		if err != nil {
			f.status = err.Error()
		}
		return false
	}
	f.cwd = path.Clean(p)
	f.preview = nil
	f.status = ""

	children := n.Sorted()
	items := make([]list.Item, len(children))
	for i, c := range children {
		items[i] = fileItem{node: c}
	}
	f.list.SetItems(items)
	f.list.Select(0)
	f.list.Title = f.cwd
	return true
}

// Open enters the selected directory or previews the selected file.
func (f *Files) Open() {
	it, ok := f.list.SelectedItem().(fileItem)
	if !ok {
		return
	}
	if it.node.Dir {
		f.Chdir(path.Join(f.cwd, it.node.Name))
		return
	}
	f.preview = it.node
}

// Up moves to the parent directory.
func (f *Files) Up() {
	if f.preview != nil {
		f.preview = nil
		return
	}
	if f.cwd == "/" {
		return
	}
	f.Chdir(path.Dir(f.cwd))
}

// Update implements App.
func (f *Files) Update(msg tea.Msg) tea.Cmd {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "right", "l":
			f.Open()
			return nil
		case "backspace", "left", "h":
			f.Up()
			return nil
		}
	}
	if f.preview != nil {
		return nil
	}
	var cmd tea.Cmd
	f.list, cmd = f.list.Update(msg)
	return cmd
}

var filesDimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

// View implements App.
func (f *Files) View(width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	if f.preview != nil {
		header := lipgloss.NewStyle().Bold(true).Render(f.preview.Name) +
			filesDimStyle.Render("  "+humanize.Bytes(uint64(f.preview.Size()))+"  (backspace to close)")
		body := strings.Split(strings.TrimSuffix(f.preview.Content, "\n"), "\n")
		lines := append([]string{header, ""}, body...)
		if len(lines) > height {
			lines = lines[:height]
		}
		return lipgloss.NewStyle().MaxWidth(width).Render(strings.Join(lines, "\n"))
	}

	listHeight := height
	if f.status != "" {
		listHeight--
	}
	f.list.SetSize(width, listHeight)
	out := f.list.View()
	if f.status != "" {
		out += "\n" + filesDimStyle.Render(f.status)
	}
	return out
}
