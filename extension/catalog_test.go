package extension_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/extkit/extension"
)

type command struct {
	id    string
	label string
}

func (c command) ID() string { return c.id }

func buildCommand(e extension.Entry) (command, bool, error) {
	switch e.Attr("id") {
	case "":
		return command{}, false, nil
	case "bad":
		return command{}, false, errors.New("bad command")
	}
	return command{id: e.Attr("id"), label: e.Attr("label")}, true, nil
}

func commandSource() *fakeSource {
	mk := func(id, label string) extension.Entry {
		return extension.Entry{Point: "commands", Attributes: map[string]any{"id": id, "label": label}}
	}
	return &fakeSource{entries: []extension.Entry{
		mk("save", "Save"), mk("bad", ""), mk("open", "Open"), mk("", "no id"),
	}}
}

func TestCatalogGet(t *testing.T) {
	src := commandSource()
	cat := extension.NewCatalog("commands", src, buildCommand)

	c, ok := cat.Get("open")
	if !ok || c.label != "Open" {
		t.Fatalf("Get(open) = %v, %v", c, ok)
	}
	if _, ok := cat.Get("open"); !ok || src.reads != 1 {
		t.Errorf("expected cached lookup, reads=%d", src.reads)
	}
	if _, ok := cat.Get("bad"); ok {
		t.Error("failing element must not be returned")
	}
}

func TestCatalogElements(t *testing.T) {
	src := commandSource()
	cat := extension.NewCatalog("commands", src, buildCommand,
		extension.OrderBy(func(a, b command) int { return strings.Compare(a.label, b.label) }),
	)

	got := cat.Elements()
	if len(got) != 2 || got[0].id != "open" || got[1].id != "save" {
		t.Fatalf("unexpected elements %v", got)
	}

	cat.Elements()
	if src.reads != 1 {
		t.Errorf("expected cached element list, reads=%d", src.reads)
	}

	cat.Reset()
	cat.Elements()
	if src.reads != 2 {
		t.Errorf("expected rebuild after Reset, reads=%d", src.reads)
	}
}

func TestCatalogWithoutElementCache(t *testing.T) {
	src := commandSource()
	cat := extension.NewCatalog("commands", src, buildCommand, extension.WithoutElementCache[command]())
	cat.Elements()
	cat.Elements()
	if src.reads != 2 {
		t.Errorf("expected two reads, got %d", src.reads)
	}
	if _, ok := cat.Get("save"); !ok || src.reads != 2 {
		t.Errorf("elements should populate the id index, reads=%d", src.reads)
	}
}
