package host

import (
	"strings"
	"sync"

	"github.com/kbukum/extkit/action"
	"github.com/kbukum/extkit/contribution"
	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/exclusive"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/selective"
)

type menu interface {
	Items() []*action.Action
	Dispose()
}

// Point is one managed extension point. Exactly one of Exclusive and
// Selective is set, according to the configured mode.
type Point struct {
	Config    PointConfig
	Registry  *extension.Registry[*contribution.Instance]
	Exclusive *exclusive.Controller[*contribution.Instance]
	Selective *selective.Controller[*contribution.Instance]

	menuOnce sync.Once
	menu     menu
	newMenu  func() menu
}

// ID returns the point id.
func (p *Point) ID() string { return p.Config.ID }

// Mode returns the activation policy.
func (p *Point) Mode() Mode { return p.Config.Mode }

// Factories returns the sorted factories contributed to the point.
func (p *Point) Factories() []extension.Factory[*contribution.Instance] {
	return p.Registry.Factories(nil)
}

// ActiveIDs returns the current factory id of an exclusive point (empty or
// one element) or the active ids of a selective point.
func (p *Point) ActiveIDs() []string {
	if p.Exclusive != nil {
		if id := p.Exclusive.CurrentID(); id != "" {
			return []string{id}
		}
		return []string{}
	}
	ids := p.Selective.ActiveIDs()
	if ids == nil {
		ids = []string{}
	}
	return ids
}

// Menu builds the action model of the point.
func (p *Point) Menu() []*action.Action {
	p.menuOnce.Do(func() { p.menu = p.newMenu() })
	return p.menu.Items()
}

// RunAction runs the menu action at path, a list of action ids from the top
// level down.
func (p *Point) RunAction(path ...string) error {
	a, ok := action.Find(p.Menu(), path...)
	if !ok {
		return apperrors.NotFound("action", strings.Join(path, "/"))
	}
	if a.Style() == action.StyleDropDown || !a.Enabled() {
		return apperrors.InvalidInput("path", "action "+strings.Join(path, "/")+" cannot be run")
	}
	a.Run()
	return nil
}

func (p *Point) dispose() {
	if p.menu != nil {
		p.menu.Dispose()
	}
}

func (p *Point) factory(id string) (extension.Factory[*contribution.Instance], error) {
	f, ok := p.Registry.Factory(id)
	if !ok {
		return nil, apperrors.FactoryNotFound(p.ID(), id)
	}
	return f, nil
}

func (p *Point) requireMode(m Mode) error {
	if p.Config.Mode != m {
		return apperrors.InvalidInput("mode", "point "+p.ID()+" is "+string(p.Config.Mode))
	}
	return nil
}

// SetCurrent makes the factory with the given id current on an exclusive
// point.
func (p *Point) SetCurrent(id string) error {
	if err := p.requireMode(ModeExclusive); err != nil {
		return err
	}
	f, err := p.factory(id)
	if err != nil {
		return err
	}
	if !p.Exclusive.SetCurrent(f) {
		return apperrors.ConstructionFailed(id, nil)
	}
	return nil
}

// RemoveCurrent returns an exclusive point to its initial factory. The
// previous instance stays current when that factory cannot be created.
func (p *Point) RemoveCurrent() error {
	if err := p.requireMode(ModeExclusive); err != nil {
		return err
	}
	p.Exclusive.CurrentDefinition()
	if !p.Exclusive.RemoveCurrent() {
		return apperrors.ConstructionFailed(p.ID(), nil)
	}
	return nil
}

// Activate activates a factory of a selective point. The stored selection
// is restored first so it is never shadowed by an explicit activation.
func (p *Point) Activate(id string) error {
	if err := p.requireMode(ModeSelective); err != nil {
		return err
	}
	f, err := p.factory(id)
	if err != nil {
		return err
	}
	p.Selective.ActiveIDs()
	if !p.Selective.Activate(f) {
		return apperrors.ConstructionFailed(id, nil)
	}
	return nil
}

// Deactivate deactivates a factory of a selective point. Deactivating an
// inactive known factory is not an error.
func (p *Point) Deactivate(id string) error {
	if err := p.requireMode(ModeSelective); err != nil {
		return err
	}
	f, err := p.factory(id)
	if err != nil {
		return err
	}
	p.Selective.ActiveIDs()
	p.Selective.Deactivate(f)
	return nil
}

// Toggle flips a factory of a selective point and reports whether it is
// active afterwards.
func (p *Point) Toggle(id string) (bool, error) {
	if err := p.requireMode(ModeSelective); err != nil {
		return false, err
	}
	f, err := p.factory(id)
	if err != nil {
		return false, err
	}
	if p.Selective.IsActive(f) {
		p.Selective.Deactivate(f)
		return false, nil
	}
	if !p.Selective.Activate(f) {
		return false, apperrors.ConstructionFailed(id, nil)
	}
	return true, nil
}
