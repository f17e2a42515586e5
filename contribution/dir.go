package contribution

import (
	"bytes"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
)

type document struct {
	Contributor string      `yaml:"contributor"`
	Extensions  []pointSpec `yaml:"extensions"`
}

type pointSpec struct {
	Point    string    `yaml:"point"`
	Elements []element `yaml:"elements"`
}

type element struct {
	Name       string         `yaml:"name"`
	Attributes map[string]any `yaml:"attributes"`
	Children   []element      `yaml:"children"`
}

func (el element) entry(point, contributor string, base *url.URL) extension.Entry {
	e := extension.Entry{
		Point:       point,
		Contributor: contributor,
		Name:        el.Name,
		Attributes:  el.Attributes,
		Base:        base,
	}
	if e.Attributes == nil {
		e.Attributes = map[string]any{}
	}
	for _, c := range el.Children {
		e.Children = append(e.Children, c.entry(point, contributor, base))
	}
	return e
}

// Parse decodes one contribution document. Entries keep document order.
// A document without a contributor takes fallbackContributor.
func Parse(r io.Reader, fallbackContributor string, base *url.URL) ([]extension.Entry, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, errors.ContributionInvalid(fallbackContributor, err.Error()).WithCause(err)
	}

	contributor := doc.Contributor
	if contributor == "" {
		contributor = fallbackContributor
	}
	var out []extension.Entry
	for i, ext := range doc.Extensions {
		if ext.Point == "" {
			return nil, errors.ContributionInvalid(contributor, fmt.Sprintf("extensions[%d]: point is required", i))
		}
		for j, el := range ext.Elements {
			if el.Name == "" {
				return nil, errors.ContributionInvalid(contributor, fmt.Sprintf("extensions[%d].elements[%d]: name is required", i, j))
			}
			out = append(out, el.entry(ext.Point, contributor, base))
		}
	}
	return out, nil
}

type parsedFile struct {
	modTime time.Time
	size    int64
	entries []extension.Entry
}

// Dir is a Source backed by a directory of YAML contribution files. Files
// are read in name order; a file that fails to parse is logged and skipped.
// Parsed files are cached until their size or modification time changes.
type Dir struct {
	path string
	base *url.URL
	log  *logger.Logger

	mu    sync.Mutex
	files map[string]parsedFile
}

// NewDir returns a source reading *.yaml and *.yml files in path. A nil
// log uses the "contribution" logger.
func NewDir(path string, log *logger.Logger) (*Dir, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.InvalidInput("contributions.dir", err.Error())
	}
	if log == nil {
		log = logger.Get("contribution")
	}
	return &Dir{
		path:  abs,
		base:  &url.URL{Scheme: "file", Path: filepath.ToSlash(abs) + "/"},
		log:   log,
		files: make(map[string]parsedFile),
	}, nil
}

// Path returns the absolute directory path.
func (d *Dir) Path() string { return d.path }

// Invalidate drops every parsed file so the next read starts fresh.
func (d *Dir) Invalidate() {
	d.mu.Lock()
	d.files = make(map[string]parsedFile)
	d.mu.Unlock()
}

// Entries implements extension.Source.
func (d *Dir) Entries(point string) ([]extension.Entry, error) {
	names, err := d.list()
	if err != nil {
		return nil, err
	}
	var out []extension.Entry
	for _, name := range names {
		entries, err := d.load(name)
		if err != nil {
			d.log.Error("skipping contribution file", logger.MergeWithError(
				logger.Fields("file", name), err))
			continue
		}
		for _, e := range entries {
			if e.Point == point {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

// Points returns every extension point mentioned by any readable file,
// sorted.
func (d *Dir) Points() ([]string, error) {
	names, err := d.list()
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	for _, name := range names {
		entries, err := d.load(name)
		if err != nil {
			continue
		}
		for _, e := range entries {
			seen[e.Point] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for p := range seen {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func (d *Dir) list() ([]string, error) {
	dirEntries, err := os.ReadDir(d.path)
	if err != nil {
		return nil, fmt.Errorf("reading contribution dir %s: %w", d.path, err)
	}
	var names []string
	for _, de := range dirEntries {
		if de.IsDir() || !IsContributionFile(de.Name()) {
			continue
		}
		names = append(names, de.Name())
	}
	return names, nil
}

func (d *Dir) load(name string) ([]extension.Entry, error) {
	full := filepath.Join(d.path, name)
	info, err := os.Stat(full)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	cached, ok := d.files[name]
	d.mu.Unlock()
	if ok && cached.modTime.Equal(info.ModTime()) && cached.size == info.Size() {
		return cached.entries, nil
	}

	data, err := os.ReadFile(full)
	if err != nil {
		return nil, err
	}
	contributor := strings.TrimSuffix(name, filepath.Ext(name))
	entries, err := Parse(bytes.NewReader(data), contributor, d.base)
	if err != nil {
		return nil, err
	}

	d.mu.Lock()
	d.files[name] = parsedFile{modTime: info.ModTime(), size: info.Size(), entries: entries}
	d.mu.Unlock()
	return entries, nil
}

// IsContributionFile reports whether name has a YAML extension.
func IsContributionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
