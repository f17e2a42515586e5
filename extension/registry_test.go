package extension_test

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
)

type theme struct{ name string }

// fakeSource serves fixed entries and counts reads.
type fakeSource struct {
	entries []extension.Entry
	err     error
	reads   int
}

func (s *fakeSource) Entries(point string) ([]extension.Entry, error) {
	s.reads++
	if s.err != nil {
		return nil, s.err
	}
	var out []extension.Entry
	for _, e := range s.entries {
		if e.Point == point {
			out = append(out, e)
		}
	}
	return out, nil
}

func factoryEntry(id, name string, prio int) extension.Entry {
	return extension.Entry{
		Point:       "themes",
		Contributor: id + ".yaml",
		Name:        "factory",
		Attributes:  map[string]any{"id": id, "name": name, "priority": prio},
	}
}

func collectionEntry(name string, ids ...string) extension.Entry {
	return extension.Entry{
		Point:       "themes",
		Contributor: name + ".yaml",
		Name:        "collection",
		Attributes:  map[string]any{"name": name, "members": strings.Join(ids, ",")},
	}
}

func buildTheme(e extension.Entry) (extension.Factory[*theme], error) {
	if e.Name != "factory" {
		return nil, nil
	}
	if e.Attr("id") == "broken" {
		return nil, errors.New("broken contribution")
	}
	if e.Attr("id") == "panics" {
		panic("builder panic")
	}
	info := e.Info()
	return extension.NewFactory(info, func() (*theme, error) {
		return &theme{name: info.DisplayName()}, nil
	}), nil
}

func buildThemeCollection(e extension.Entry) (extension.Collection[*theme], error) {
	if e.Name != "collection" {
		return nil, nil
	}
	var members []extension.Factory[*theme]
	for _, id := range strings.Split(e.Attr("members"), ",") {
		members = append(members, extension.Value(extension.Describe(id, strings.ToUpper(id)), &theme{name: id}))
	}
	return extension.NewFixedCollection(e.Attr("name"), members...), nil
}

func newTestRegistry(src extension.Source, opts ...extension.Option[*theme]) *extension.Registry[*theme] {
	opts = append([]extension.Option[*theme]{
		extension.WithLogger[*theme](logger.Nop()),
		extension.WithCollections(buildThemeCollection),
	}, opts...)
	return extension.NewRegistry("themes", src, buildTheme, opts...)
}

func TestRegistryFactoriesSorted(t *testing.T) {
	src := &fakeSource{entries: []extension.Entry{
		factoryEntry("light", "Light", 0),
		factoryEntry("dark", "Dark", 0),
		factoryEntry("contrast", "Contrast", -1),
		collectionEntry("extra", "solar", "mono"),
	}}
	reg := newTestRegistry(src)

	got := extension.IDs(reg.Factories(nil))
	want := []string{"contrast", "dark", "light", "mono", "solar"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Errorf("Factories() = %v, want %v", got, want)
	}
}

func TestRegistryFilter(t *testing.T) {
	src := &fakeSource{entries: []extension.Entry{
		factoryEntry("light", "Light", 0),
		factoryEntry("dark", "Dark", 0),
		collectionEntry("extra", "solar", "mono"),
	}}
	reg := newTestRegistry(src)

	tests := []struct {
		name   string
		filter extension.Filter[*theme]
		want   []string
	}{
		{"nil filter", nil, []string{"dark", "light", "mono", "solar"}},
		{"standalone only", extension.Standalone[*theme](), []string{"dark", "light"}},
		{"by id across collections", extension.OnlyIDs[*theme]("solar", "light"), []string{"light", "solar"}},
		{
			"collection rejection short-circuits members",
			extension.FilterFuncs[*theme]{
				Factory:    func(extension.Factory[*theme]) bool { return true },
				Collection: func(c extension.Collection[*theme]) bool { return c.Name() != "extra" },
			},
			[]string{"dark", "light"},
		},
		{
			"member filter inside accepted collection",
			extension.FilterFuncs[*theme]{
				Factory: func(f extension.Factory[*theme]) bool { return f.ID() != "mono" },
			},
			[]string{"dark", "light", "solar"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := extension.IDs(reg.Factories(tt.filter))
			if fmt.Sprint(got) != fmt.Sprint(tt.want) {
				t.Errorf("Factories() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRegistryFailureIsolation(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(&logger.Config{Level: "debug", Format: logger.FormatJSON, Writer: &buf}, "test")

	src := &fakeSource{entries: []extension.Entry{
		factoryEntry("light", "Light", 0),
		factoryEntry("broken", "Broken", 0),
		factoryEntry("panics", "Panics", 0),
		factoryEntry("dark", "Dark", 0),
	}}
	reg := newTestRegistry(src, extension.WithLogger[*theme](log))

	got := extension.IDs(reg.Factories(nil))
	if fmt.Sprint(got) != "[dark light]" {
		t.Fatalf("expected broken entries skipped, got %v", got)
	}
	out := buf.String()
	if strings.Count(out, "failed to create extension object factory") != 2 {
		t.Errorf("expected two logged failures, got:\n%s", out)
	}
	if !strings.Contains(out, `"contributor":"broken.yaml"`) || !strings.Contains(out, `"contributor":"panics.yaml"`) {
		t.Errorf("expected contributor fields, got:\n%s", out)
	}
}

func TestRegistrySourceError(t *testing.T) {
	reg := newTestRegistry(&fakeSource{err: errors.New("unavailable")})
	if got := reg.Factories(nil); len(got) != 0 {
		t.Errorf("expected empty enumeration, got %v", extension.IDs(got))
	}
	if got := reg.Collections(); len(got) != 0 {
		t.Errorf("expected no collections, got %d", len(got))
	}
}

func TestRegistryFactoryLookup(t *testing.T) {
	src := &fakeSource{entries: []extension.Entry{factoryEntry("dark", "Dark", 0)}}
	reg := newTestRegistry(src)

	f, ok := reg.Factory("dark")
	if !ok || f.ID() != "dark" {
		t.Fatalf("expected dark, got %v %v", f, ok)
	}
	if src.reads != 1 {
		t.Errorf("expected one enumeration on miss, got %d", src.reads)
	}

	if _, ok := reg.Factory("dark"); !ok {
		t.Fatal("expected cached lookup")
	}
	if src.reads != 1 {
		t.Errorf("cached lookup must not enumerate, got %d reads", src.reads)
	}

	if _, ok := reg.Factory("missing"); ok {
		t.Error("expected missing factory")
	}
	if src.reads != 2 {
		t.Errorf("expected a retry enumeration for a miss, got %d", src.reads)
	}
}

func TestRegistryFilteredEnumerationCachesAccepted(t *testing.T) {
	src := &fakeSource{entries: []extension.Entry{
		factoryEntry("light", "Light", 0),
		factoryEntry("dark", "Dark", 0),
	}}
	reg := newTestRegistry(src)
	reg.Factories(extension.OnlyIDs[*theme]("light"))

	src.entries = nil
	if _, ok := reg.Factory("light"); !ok {
		t.Error("accepted factory should be cached")
	}
	if _, ok := reg.Factory("dark"); ok {
		t.Error("rejected factory should not be cached")
	}
}

func TestRegistryReset(t *testing.T) {
	src := &fakeSource{entries: []extension.Entry{factoryEntry("dark", "Dark", 0)}}
	reg := newTestRegistry(src)
	reg.Factories(nil)

	src.entries = nil
	reg.Reset()
	if _, ok := reg.Factory("dark"); ok {
		t.Error("expected cache cleared by Reset")
	}
}

func TestRegistryCollections(t *testing.T) {
	src := &fakeSource{entries: []extension.Entry{
		collectionEntry("second", "b"),
		factoryEntry("dark", "Dark", 0),
		collectionEntry("first", "a"),
	}}
	reg := newTestRegistry(src)

	var names []string
	for _, c := range reg.Collections() {
		names = append(names, c.Name())
	}
	if fmt.Sprint(names) != "[second first]" {
		t.Errorf("expected source order, got %v", names)
	}
}

func TestRegistryCollectionFailureSkipped(t *testing.T) {
	src := &fakeSource{entries: []extension.Entry{
		collectionEntry("good", "a"),
		collectionEntry("bad", "b"),
	}}
	reg := extension.NewRegistry("themes", src, buildTheme,
		extension.WithLogger[*theme](logger.Nop()),
		extension.WithCollections(func(e extension.Entry) (extension.Collection[*theme], error) {
			if e.Attr("name") == "bad" {
				panic("bad collection")
			}
			return buildThemeCollection(e)
		}),
	)

	if got := reg.Collections(); len(got) != 1 || got[0].Name() != "good" {
		t.Errorf("expected only the good collection, got %d", len(got))
	}
}

func TestRegistryWithoutCollections(t *testing.T) {
	src := &fakeSource{entries: []extension.Entry{collectionEntry("extra", "a")}}
	reg := extension.NewRegistry("themes", src, buildTheme, extension.WithLogger[*theme](logger.Nop()))
	if reg.Collections() != nil {
		t.Error("expected nil collections without a collection builder")
	}
	if reg.Point() != "themes" {
		t.Errorf("unexpected point %q", reg.Point())
	}
}
