package api

import (
	"slices"

	"github.com/kbukum/extkit/action"
	"github.com/kbukum/extkit/component"
	"github.com/kbukum/extkit/contribution"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/host"
)

// PointView describes a managed extension point.
type PointView struct {
	ID     string    `json:"id"`
	Mode   host.Mode `json:"mode"`
	Active []string  `json:"active"`
}

// FactoryView describes one factory definition.
type FactoryView struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Priority     int    `json:"priority"`
	Icon         string `json:"icon,omitempty"`
	Configurable bool   `json:"configurable"`
	Active       bool   `json:"active"`
}

// CollectionView describes a contributed collection.
type CollectionView struct {
	Name      string   `json:"name"`
	Addable   bool     `json:"addable"`
	Removable bool     `json:"removable"`
	Members   []string `json:"members"`
}

// ActionView is the wire form of an action.Action.
type ActionView struct {
	ID       string       `json:"id,omitempty"`
	Label    string       `json:"label,omitempty"`
	Icon     string       `json:"icon,omitempty"`
	Style    string       `json:"style"`
	Checked  bool         `json:"checked,omitempty"`
	Enabled  bool         `json:"enabled"`
	Children []ActionView `json:"children,omitempty"`
}

// CurrentView is the state of an exclusive point. ID is empty when nothing
// is current.
type CurrentView struct {
	ID string `json:"id"`
}

// ActiveView is the state of a selective point.
type ActiveView struct {
	IDs []string `json:"ids"`
}

// HealthView is the /health body.
type HealthView struct {
	Status     component.HealthStatus `json:"status"`
	Components []component.Health     `json:"components"`
}

type setCurrentRequest struct {
	ID string `json:"id" binding:"required"`
}

type runActionRequest struct {
	Path []string `json:"path" binding:"required,min=1"`
}

func factoryView(f extension.Factory[*contribution.Instance], active bool) FactoryView {
	v := FactoryView{
		ID:           f.ID(),
		Name:         f.DisplayName(),
		Priority:     f.Priority(),
		Configurable: f.AllowConfigure(),
		Active:       active,
	}
	if u := f.IconURL(); u != nil {
		v.Icon = u.String()
	}
	return v
}

// PointViews describes every point of h in configuration order.
func PointViews(h *host.Host) []PointView {
	points := h.Points()
	out := make([]PointView, 0, len(points))
	for _, p := range points {
		out = append(out, pointView(p))
	}
	return out
}

func pointView(p *host.Point) PointView {
	return PointView{ID: p.ID(), Mode: p.Mode(), Active: p.ActiveIDs()}
}

// FactoryViews describes the factories of p in priority order, flagging
// the active ones.
func FactoryViews(p *host.Point) []FactoryView {
	factories := p.Factories()
	active := p.ActiveIDs()
	out := make([]FactoryView, 0, len(factories))
	for _, f := range factories {
		out = append(out, factoryView(f, slices.Contains(active, f.ID())))
	}
	return out
}

// ActionViews converts a menu, descending into dropdowns.
func ActionViews(items []*action.Action) []ActionView {
	out := make([]ActionView, 0, len(items))
	for _, a := range items {
		v := ActionView{
			ID:      a.ID(),
			Label:   a.Label(),
			Style:   a.Style().String(),
			Checked: a.Checked(),
			Enabled: a.Enabled(),
		}
		if u := a.Icon(); u != nil {
			v.Icon = u.String()
		}
		if a.Style() == action.StyleDropDown {
			v.Children = ActionViews(a.Children())
		}
		out = append(out, v)
	}
	return out
}
