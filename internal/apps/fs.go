package apps

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// Node is an entry in the sandboxed in-memory file tree shared by the
// terminal and files apps. Nothing here touches the real filesystem.
type Node struct {
	Name     string
	Dir      bool
	Content  string
	ModTime  time.Time
	Children map[string]*Node
}

// Size is the content length for files and the summed size for directories.
func (n *Node) Size() int64 {
	if !n.Dir {
		return int64(len(n.Content))
	}
	var total int64
	for _, c := range n.Children {
		total += c.Size()
	}
	return total
}

// Sorted returns the children, directories first, then by name.
func (n *Node) Sorted() []*Node {
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Dir != out[j].Dir {
			return out[i].Dir
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// FS is a rooted tree with a home directory.
type FS struct {
	Root *Node
	Home string
}

func dir(name string, mod time.Time, children ...*Node) *Node {
	n := &Node{Name: name, Dir: true, ModTime: mod, Children: make(map[string]*Node)}
	for _, c := range children {
		n.Children[c.Name] = c
	}
	return n
}

func file(name string, mod time.Time, content string) *Node {
	return &Node{Name: name, Content: content, ModTime: mod}
}

// DefaultFS returns the sample tree every new terminal and files window starts from.
func DefaultFS(now time.Time) *FS {
	day := 24 * time.Hour
	root := dir("", now.Add(-30*day),
		dir("home", now.Add(-30*day),
			dir("guest", now.Add(-2*day),
				dir("Documents", now.Add(-3*day),
					file("readme.txt", now.Add(-3*day), "Welcome to MominOS.\nDrag a title bar to move a window.\nDrag it to the left or right edge to snap it.\n"),
					file("todo.md", now.Add(-26*time.Hour), "- try the calculator\n- snap two windows side by side\n- ask the assistant for help\n"),
				),
				dir("Pictures", now.Add(-10*day),
					file("wallpaper.txt", now.Add(-10*day), strings.Repeat(". ", 512)),
				),
				dir("Projects", now.Add(-day),
					file("main.go", now.Add(-5*time.Hour), "package main\n\nfunc main() {\n\tprintln(\"hello from mominos\")\n}\n"),
					file("notes.txt", now.Add(-90*time.Minute), "window manager: drag, resize, snap, focus\n"),
				),
				file(".profile", now.Add(-30*day), "export PS1='$ '\n"),
			),
		),
		dir("etc", now.Add(-30*day),
			file("hostname", now.Add(-30*day), "mominos\n"),
			file("motd", now.Add(-30*day), "Have a nice day.\n"),
		),
		dir("tmp", now),
	)
	return &FS{Root: root, Home: "/home/guest"}
}

// Resolve turns arg into an absolute, cleaned path relative to cwd. A leading
// ~ expands to the home directory.
func (fs *FS) Resolve(cwd, arg string) string {
	switch {
	case arg == "" || arg == "~":
		return fs.Home
	case strings.HasPrefix(arg, "~/"):
		return path.Join(fs.Home, arg[2:])
	case strings.HasPrefix(arg, "/"):
		return path.Clean(arg)
	default:
		return path.Join(cwd, arg)
	}
}

// Lookup finds the node at an absolute path.
func (fs *FS) Lookup(p string) (*Node, error) {
	p = path.Clean("/" + p)
	n := fs.Root
	if p == "/" {
		return n, nil
	}
	for _, part := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if !n.Dir {
			return nil, fmt.Errorf("%s: not a directory", p)
		}
		child, ok := n.Children[part]
		if !ok {
			return nil, fmt.Errorf("%s: no such file or directory", p)
		}
		n = child
	}
	return n, nil
}
