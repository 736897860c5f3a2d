package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// SourceKind says where an effective preference value came from.
type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceBuiltin SourceKind = "builtin"
	SourceFile    SourceKind = "file"
)

// Source locates a preference value. File sources carry the position of the
// value node; builtin sources name the geometry profile that supplied it.
type Source struct {
	Kind   SourceKind
	Name   string
	File   string
	Line   int
	Column int
}

// LoadResult is a loaded preferences file together with what `config explain`
// needs to report it.
type LoadResult struct {
	Config *Config
	// Path is the preferences file that was asked for.
	Path string
	// Sources maps a dotted key such as "geometries.wide.min_width" to the
	// file position that last set it.
	Sources map[string]Source
	// GeometryBases maps each custom geometry profile to the builtin
	// profile it extends.
	GeometryBases map[string]string
	// Files lists every file merged, included files before their includer.
	Files []string
}

// DefaultConfigPath is ~/.config/mominos/config.yaml.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".config", "mominos", "config.yaml"), nil
}

// Load returns the validated preferences from the default path.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load keeping the per-key sources.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath merges path with everything it includes, layers the result
// over the defaults and validates it. A missing file is not an error: the
// desktop starts on defaults until the settings app writes one.
func LoadFromPath(path string) (*LoadResult, error) {
	l := &loader{seen: map[string]bool{}, sources: map[string]Source{}}

	var raw RawConfig
	if _, err := os.Stat(path); err == nil {
		if raw, err = l.load(path, nil); err != nil {
			return nil, err
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	cfg, bases, err := BuildEffectiveConfig(raw)
	if err == nil {
		err = cfg.Validate()
	}
	if err != nil {
		return nil, attachSourceContext(err, l.sources)
	}
	return &LoadResult{
		Config:        cfg,
		Path:          path,
		Sources:       l.sources,
		GeometryBases: bases,
		Files:         l.files,
	}, nil
}

// loader walks one include tree. A file reached twice through different
// includes is merged once; a file that includes one of its own ancestors is
// an error.
type loader struct {
	seen    map[string]bool
	sources map[string]Source
	files   []string
}

// load returns the merge of path's includes, in order, overlaid by path
// itself. chain holds the files currently being loaded.
func (l *loader) load(path string, chain []string) (RawConfig, error) {
	file := resolveFile(path)
	if slices.Contains(chain, file) {
		return RawConfig{}, fmt.Errorf("include cycle detected: %s -> %s", strings.Join(chain, " -> "), file)
	}
	if l.seen[file] {
		return RawConfig{}, nil
	}
	l.seen[file] = true

	data, err := os.ReadFile(file)
	if err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to read: %w", file, err)
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, fmt.Errorf("%s: failed to parse yaml: %w", file, err)
	}
	var own RawConfig
	if err := decodeStrict(data, &own); err != nil {
		return RawConfig{}, fmt.Errorf("%s: %w", file, err)
	}

	root := topMapping(&doc)
	var merged RawConfig
	for _, inc := range includes(root, file) {
		targets, err := expandInclude(file, inc.Value)
		if err != nil {
			return RawConfig{}, fmt.Errorf("%s:%d:%d: include %q: %w", file, inc.Source.Line, inc.Source.Column, inc.Value, err)
		}
		for _, target := range targets {
			sub, err := l.load(target, append(chain, file))
			if err != nil {
				return RawConfig{}, err
			}
			merged = merged.merge(sub)
		}
	}

	// Keys set here win over anything the includes set.
	recordPositions(root, file, "", l.sources)
	l.files = append(l.files, file)
	return merged.merge(own), nil
}

// decodeStrict rejects unknown keys.
func decodeStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// resolveFile returns path made absolute with symlinks followed, or just
// absolute when the links cannot be resolved.
func resolveFile(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

// expandInclude resolves an include entry against the including file. A
// directory expands to its *.yaml and *.yml files in name order.
func expandInclude(from, entry string) ([]string, error) {
	if entry == "" {
		return nil, fmt.Errorf("path is empty")
	}
	if entry == "~" || strings.HasPrefix(entry, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		entry = filepath.Join(home, strings.TrimPrefix(entry[1:], "/"))
	}
	if !filepath.IsAbs(entry) {
		entry = filepath.Join(filepath.Dir(from), entry)
	}

	info, err := os.Stat(entry)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{entry}, nil
	}
	dir, err := os.ReadDir(entry)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range dir {
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yaml", ".yml":
			if !e.IsDir() {
				out = append(out, filepath.Join(entry, e.Name()))
			}
		}
	}
	slices.Sort(out)
	return out, nil
}

// topMapping returns the document's root mapping, or nil for an empty or
// non-mapping document.
func topMapping(doc *yaml.Node) *yaml.Node {
	n := doc
	if n.Kind == yaml.DocumentNode {
		if len(n.Content) == 0 {
			return nil
		}
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil
	}
	return n
}

func fileSource(file string, n *yaml.Node) Source {
	return Source{Kind: SourceFile, File: file, Line: n.Line, Column: n.Column}
}

// recordPositions stores the position of every key under node, keyed by its
// dotted path. Sequences are recorded as a whole.
func recordPositions(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if prefix != "" {
			key = prefix + "." + key
		}
		out[key] = fileSource(file, val)
		recordPositions(val, file, key, out)
	}
}

type includeEntry struct {
	Value  string
	Source Source
}

// includes reads the top-level include key, which is either one path or a
// list of paths.
func includes(root *yaml.Node, file string) []includeEntry {
	if root == nil {
		return nil
	}
	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != "include" {
			continue
		}
		val := root.Content[i+1]
		items := []*yaml.Node{val}
		if val.Kind == yaml.SequenceNode {
			items = val.Content
		}
		var out []includeEntry
		for _, item := range items {
			if item.Kind == yaml.ScalarNode {
				out = append(out, includeEntry{Value: item.Value, Source: fileSource(file, item)})
			}
		}
		return out
	}
	return nil
}

// attachSourceContext fills in the file position of every validation error
// whose key was set by a preferences file.
func attachSourceContext(err error, sources map[string]Source) error {
	for _, verr := range ValidationErrors(err) {
		if src, ok := sources[verr.Path]; ok && verr.Path != "" {
			verr.Source = src
		}
	}
	return err
}
