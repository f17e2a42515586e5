package exclusive_test

import (
	"fmt"
	"strings"
	"testing"

	"pgregory.net/rapid"

	"github.com/kbukum/extkit/exclusive"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/logger"
)

func initialOf(f extension.Factory[*object]) exclusive.InitialFunc[*object] {
	return func() extension.Factory[*object] { return f }
}

func newController(j *journal, initial extension.Factory[*object], opts ...exclusive.Option) (*exclusive.Controller[*object], *staticExt[*object]) {
	ext := newExt[*object](j.factory("a", 0), j.factory("b", 1), j.failing("broken"))
	if initial == nil {
		initial = ext.factories[0]
	}
	opts = append([]exclusive.Option{exclusive.WithLogger(logger.Nop())}, opts...)
	c := exclusive.New[*object](ext, initialOf(initial), opts...)
	c.AddListener(func(o *object, def extension.Factory[*object]) {
		j.add("notify:%s", o)
	})
	return c, ext
}

func TestLazyInitialization(t *testing.T) {
	j := &journal{}
	c, _ := newController(j, nil)

	if len(j.events) != 0 {
		t.Fatalf("expected no activity before first access, got %v", j.events)
	}
	if got := c.Current(); got == nil || got.id != "a" {
		t.Fatalf("expected initial a, got %v", got)
	}
	if fmt.Sprint(j.events) != "[create:a#1 notify:a#1]" {
		t.Errorf("unexpected events %v", j.events)
	}
	c.Current()
	if len(j.events) != 2 {
		t.Errorf("initialization must happen once, got %v", j.events)
	}
}

func TestSetCurrentDisposesAfterNotify(t *testing.T) {
	j := &journal{}
	c, ext := newController(j, nil)
	c.Current()

	if !c.SetCurrent(ext.factories[1]) {
		t.Fatal("expected switch to b")
	}
	want := "[create:a#1 notify:a#1 create:b#2 notify:b#2 dispose:a#1]"
	if fmt.Sprint(j.events) != want {
		t.Errorf("events = %v, want %v", j.events, want)
	}
	if c.LastDefinition().ID() != "a" {
		t.Errorf("expected last definition a, got %v", c.LastDefinition())
	}
	if c.CurrentID() != "b" {
		t.Errorf("expected current b, got %q", c.CurrentID())
	}
}

func TestNoOpReactivation(t *testing.T) {
	j := &journal{}
	c, ext := newController(j, nil)
	before := c.Current()

	if !c.SetCurrent(ext.factories[0]) {
		t.Fatal("expected true for current factory")
	}
	if c.Current() != before {
		t.Error("instance must be retained")
	}
	if len(j.events) != 2 {
		t.Errorf("expected no further activity, got %v", j.events)
	}
}

func TestAllowReactivation(t *testing.T) {
	j := &journal{}
	c, ext := newController(j, nil, exclusive.WithAllowReactivation())
	before := c.Current()

	if !c.SetCurrent(ext.factories[0]) {
		t.Fatal("expected reactivation")
	}
	if c.Current() == before {
		t.Error("expected a new instance")
	}
	if j.events[len(j.events)-1] != "dispose:a#1" {
		t.Errorf("expected old instance disposed last, got %v", j.events)
	}
}

func TestFailedSwitchKeepsState(t *testing.T) {
	j := &journal{}
	c, ext := newController(j, nil)
	before := c.Current()

	if c.SetCurrent(ext.factories[2]) {
		t.Fatal("expected false for failing factory")
	}
	if c.Current() != before || c.CurrentID() != "a" {
		t.Error("previous instance must stay current")
	}
	if c.LastDefinition() != nil {
		t.Error("last definition must be untouched")
	}
	if fmt.Sprint(j.events) != "[create:a#1 notify:a#1 fail:broken]" {
		t.Errorf("unexpected events %v", j.events)
	}
}

func TestFailingInitialLeavesEmpty(t *testing.T) {
	j := &journal{}
	broken := j.failing("broken")
	c, _ := newController(j, broken)

	if c.Current() != nil || c.CurrentDefinition() != nil {
		t.Error("expected empty controller")
	}
	if !c.RepresentsCurrent(nil) {
		t.Error("nil must represent the empty state")
	}
	if c.RepresentsCurrent(broken) {
		t.Error("broken must not be current")
	}
}

func TestNilInitial(t *testing.T) {
	ext := newExt[*object]()
	c := exclusive.New[*object](ext, nil, exclusive.WithLogger(logger.Nop()))
	if c.Current() != nil || c.CurrentID() != "" {
		t.Error("expected empty controller")
	}
	if c.SetCurrent(nil) {
		t.Error("nil factory cannot be activated")
	}
}

func TestListenerPanicIsolated(t *testing.T) {
	j := &journal{}
	c, ext := newController(j, nil)
	c.AddListener(func(*object, extension.Factory[*object]) { panic("bad listener") })
	var seen []string
	c.AddListener(func(o *object, _ extension.Factory[*object]) { seen = append(seen, o.id) })

	c.Current()
	if !c.SetCurrent(ext.factories[1]) {
		t.Fatal("listener panic must not fail the switch")
	}
	if fmt.Sprint(seen) != "[a b]" {
		t.Errorf("later listener must still run, got %v", seen)
	}
	if c.CurrentID() != "b" {
		t.Error("state change must not be rolled back")
	}
}

func TestListenerReentry(t *testing.T) {
	j := &journal{}
	c, ext := newController(j, nil)
	var observed []string
	c.AddListener(func(o *object, def extension.Factory[*object]) {
		observed = append(observed, c.CurrentID())
		if c.Current() != o {
			t.Error("listener must observe the new instance")
		}
	})
	c.Current()
	c.SetCurrent(ext.factories[1])
	if fmt.Sprint(observed) != "[a b]" {
		t.Errorf("unexpected observations %v", observed)
	}
}

func TestSetCurrentID(t *testing.T) {
	j := &journal{}
	c, _ := newController(j, nil)
	c.Current()

	if c.SetCurrentID("missing") {
		t.Error("unknown id must return false")
	}
	if len(j.events) != 2 {
		t.Errorf("unknown id must have no side effects, got %v", j.events)
	}
	if !c.SetCurrentID("b") || c.CurrentID() != "b" {
		t.Error("expected switch by id")
	}
}

func TestRemoveCurrentReturnsToInitial(t *testing.T) {
	j := &journal{}
	c, _ := newController(j, nil)
	c.SetCurrentID("b")

	if !c.RemoveCurrent() {
		t.Fatal("expected RemoveCurrent to succeed")
	}
	if c.CurrentID() != "a" {
		t.Errorf("expected initial factory a, got %q", c.CurrentID())
	}
	if c.Current() == nil {
		t.Error("RemoveCurrent must not leave the controller empty")
	}
}

func TestAdoptReplaysToListeners(t *testing.T) {
	ext := newExt[*object]()
	initialCalled := false
	c := exclusive.New[*object](ext, func() extension.Factory[*object] {
		initialCalled = true
		return nil
	}, exclusive.WithLogger(logger.Nop()))

	adopted := &object{id: "pre"}
	c.Adopt(extension.Value(extension.Describe("pre", "Pre"), adopted), adopted)

	var seen []*object
	c.AddListener(func(o *object, _ extension.Factory[*object]) { seen = append(seen, o) })

	if c.Current() != adopted {
		t.Fatal("expected adopted instance")
	}
	c.Current()
	if len(seen) != 1 || seen[0] != adopted {
		t.Errorf("expected a single replay, got %v", seen)
	}
	if initialCalled {
		t.Error("initial factory must not be consulted when a pair exists")
	}
}

func TestAdoptAfterInitNotifiesAndDisposes(t *testing.T) {
	j := &journal{}
	c, _ := newController(j, nil)
	c.Current()

	adopted := &object{id: "pre", seq: 99}
	def := extension.NewFactory(extension.Describe("pre", "Pre"),
		func() (*object, error) { return adopted, nil },
		extension.WithDispose(func(o *object) { j.add("dispose:%s", o) }))
	c.Adopt(def, adopted)

	if c.Current() != adopted || c.CurrentID() != "pre" {
		t.Fatalf("expected adopted instance, got %v", c.Current())
	}
	want := "[create:a#1 notify:a#1 notify:pre#99 dispose:a#1]"
	if fmt.Sprint(j.events) != want {
		t.Errorf("expected %s, got %v", want, j.events)
	}
	if c.LastDefinition() == nil || c.LastDefinition().ID() != "a" {
		t.Error("expected a recorded as last definition")
	}
}

func TestReloadAndConfigure(t *testing.T) {
	j := &journal{}
	stale := true
	cfg := extension.NewFactory(extension.Describe("cfg", "Cfg"),
		func() (*object, error) { j.seq++; return &object{id: "cfg", seq: j.seq}, nil },
		extension.WithConfigure[*object](func() bool { return stale }),
		extension.WithDispose(func(o *object) { j.add("dispose:%s", o) }),
	)
	c := exclusive.New[*object](newExt[*object](cfg), initialOf(cfg), exclusive.WithLogger(logger.Nop()))
	first := c.Current()

	if !c.Configure(cfg) {
		t.Fatal("expected reload after stale configuration")
	}
	if c.Current() == first {
		t.Error("expected a recreated instance")
	}

	stale = false
	second := c.Current()
	if c.Configure(cfg) || c.Current() != second {
		t.Error("fresh configuration must keep the instance")
	}

	if !c.Reload() || c.Current() == second {
		t.Error("Reload must always recreate")
	}
	if strings.Count(fmt.Sprint(j.events), "dispose:") != 2 {
		t.Errorf("expected two disposals, got %v", j.events)
	}
}

func TestReloadWithoutCurrent(t *testing.T) {
	c := exclusive.New[*object](newExt[*object](), nil, exclusive.WithLogger(logger.Nop()))
	if c.Reload() {
		t.Error("nothing to reload")
	}
}

// Any sequence of switches leaves exactly one instance live, and every
// superseded instance is disposed exactly once after its successor was
// announced.
func TestExclusiveAtMostOne(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		j := &journal{}
		allow := rapid.Bool().Draw(rt, "allowReactivation")
		var opts []exclusive.Option
		if allow {
			opts = append(opts, exclusive.WithAllowReactivation())
		}
		c, ext := newController(j, nil, opts...)

		live := map[string]bool{}
		c.AddListener(func(o *object, _ extension.Factory[*object]) { live[o.String()] = true })
		c.Current()

		steps := rapid.SliceOf(rapid.IntRange(0, len(ext.factories)-1)).Draw(rt, "steps")
		for _, i := range steps {
			before := c.Current()
			ok := c.SetCurrent(ext.factories[i])
			if ext.factories[i].ID() == "broken" {
				if ok || c.Current() != before {
					rt.Fatalf("failed switch changed state")
				}
			}
		}

		disposed := map[string]int{}
		for _, e := range j.events {
			if name, inst, _ := strings.Cut(e, ":"); name == "dispose" {
				disposed[inst]++
			}
		}
		for inst, n := range disposed {
			if n != 1 {
				rt.Fatalf("%s disposed %d times", inst, n)
			}
		}
		if cur := c.Current().String(); disposed[cur] != 0 {
			rt.Fatalf("current instance %s was disposed", cur)
		}
		if len(live)-len(disposed) != 1 {
			rt.Fatalf("expected exactly one live instance, live=%d disposed=%d", len(live), len(disposed))
		}
		// each disposal follows the notification of the next instance
		for idx, e := range j.events {
			if !strings.HasPrefix(e, "dispose:") {
				continue
			}
			if idx == 0 || !strings.HasPrefix(j.events[idx-1], "notify:") {
				rt.Fatalf("dispose at %d not preceded by notification: %v", idx, j.events)
			}
		}
	})
}
