package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/extkit/component"
	"github.com/kbukum/extkit/contribution"
	apperrors "github.com/kbukum/extkit/errors"
	"github.com/kbukum/extkit/extension"
	"github.com/kbukum/extkit/host"
	"github.com/kbukum/extkit/logger"
	"github.com/kbukum/extkit/preference"
)

func factoryEntry(point, id string, prio int, class string) extension.Entry {
	return extension.Entry{
		Point: point, Contributor: "test", Name: contribution.ElementFactory,
		Attributes: map[string]any{"id": id, "name": strings.ToUpper(id), "class": class, "priority": prio},
	}
}

type fixture struct {
	router *gin.Engine
	store  *preference.Memory
	host   *host.Host
}

func newFixture(t *testing.T, components *component.Registry, opts ...Option) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	src := contribution.NewStatic(
		factoryEntry("renderer", "osm", 10, contribution.ClassAttributes),
		factoryEntry("renderer", "satellite", 20, contribution.ClassAttributes),
		factoryEntry("renderer", "offline", 30, "failing"),
		factoryEntry("layers", "roads", 1, contribution.ClassAttributes),
		factoryEntry("layers", "rivers", 2, contribution.ClassAttributes),
		extension.Entry{
			Point: "renderer", Contributor: "test", Name: contribution.ElementCollection,
			Attributes: map[string]any{"name": "Custom", "class": contribution.ClassAttributes, "addable": true, "removable": true},
			Children:   []extension.Entry{factoryEntry("renderer", "local", 40, contribution.ClassAttributes)},
		},
	)
	builder := contribution.InstanceBuilder(contribution.WithClass[*contribution.Instance]("failing",
		func(extension.Entry) (*contribution.Instance, error) { return nil, errors.New("offline") }))
	store := preference.NewMemory(nil)

	h, err := host.New(src, store, []host.PointConfig{
		{ID: "renderer", Mode: host.ModeExclusive},
		{ID: "layers", Mode: host.ModeSelective},
	}, host.WithLogger(logger.Nop()), host.WithBuilder(builder))
	if err != nil {
		t.Fatalf("host.New: %v", err)
	}
	t.Cleanup(h.Close)

	r := gin.New()
	handler := New(h, components, logger.Nop(), opts...)
	t.Cleanup(handler.Close)
	handler.Register(r)
	return &fixture{router: r, store: store, host: h}
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var env struct {
		Data T `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid body %q: %v", rr.Body.String(), err)
	}
	return env.Data
}

func errorCode(t *testing.T, rr *httptest.ResponseRecorder) apperrors.ErrorCode {
	t.Helper()
	var body apperrors.ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid error body %q: %v", rr.Body.String(), err)
	}
	return body.Error.Code
}

func TestListPoints(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.do(t, http.MethodGet, "/points", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	points := decode[[]PointView](t, rr)
	if len(points) != 2 || points[0].ID != "renderer" || points[0].Mode != host.ModeExclusive {
		t.Fatalf("unexpected points %+v", points)
	}
	if len(points[0].Active) != 1 || points[0].Active[0] != "osm" {
		t.Fatalf("expected osm active, got %v", points[0].Active)
	}
	if points[1].Active == nil || len(points[1].Active) != 0 {
		t.Fatalf("expected empty selective set, got %v", points[1].Active)
	}
}

func TestListFactories(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.do(t, http.MethodGet, "/points/renderer/factories", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	var ids []string
	for _, v := range decode[[]FactoryView](t, rr) {
		ids = append(ids, v.ID)
		if v.Active != (v.ID == "osm") {
			t.Errorf("%s: active = %v", v.ID, v.Active)
		}
	}
	if strings.Join(ids, ",") != "osm,satellite,offline,local" {
		t.Fatalf("factories not sorted by priority: %v", ids)
	}

	rr = f.do(t, http.MethodGet, "/points/nope/factories", nil)
	if rr.Code != http.StatusNotFound || errorCode(t, rr) != apperrors.ErrCodeNotFound {
		t.Fatalf("expected 404 NOT_FOUND, got %d %s", rr.Code, rr.Body.String())
	}
}

func TestListCollections(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.do(t, http.MethodGet, "/points/renderer/collections", nil)
	cols := decode[[]CollectionView](t, rr)
	if len(cols) != 1 || cols[0].Name != "Custom" || !cols[0].Addable || !cols[0].Removable {
		t.Fatalf("unexpected collections %+v", cols)
	}
	if strings.Join(cols[0].Members, ",") != "local" {
		t.Fatalf("unexpected members %v", cols[0].Members)
	}

	rr = f.do(t, http.MethodGet, "/points/layers/collections", nil)
	if cols := decode[[]CollectionView](t, rr); cols == nil || len(cols) != 0 {
		t.Fatalf("expected empty list, got %v", cols)
	}
}

func TestExclusiveEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	rr := f.do(t, http.MethodGet, "/exclusive/renderer", nil)
	if cur := decode[CurrentView](t, rr); cur.ID != "osm" {
		t.Fatalf("expected osm, got %q", cur.ID)
	}

	rr = f.do(t, http.MethodPut, "/exclusive/renderer", map[string]string{"id": "satellite"})
	if rr.Code != http.StatusOK || decode[CurrentView](t, rr).ID != "satellite" {
		t.Fatalf("PUT: %d %s", rr.Code, rr.Body.String())
	}
	if v, _ := f.store.GetString("extkit.renderer"); v != "satellite" {
		t.Fatalf("not persisted: %q", v)
	}

	tests := []struct {
		name   string
		body   any
		status int
		code   apperrors.ErrorCode
	}{
		{"unknown id", map[string]string{"id": "nope"}, http.StatusNotFound, apperrors.ErrCodeNotFound},
		{"construction failure", map[string]string{"id": "offline"}, http.StatusUnprocessableEntity, apperrors.ErrCodeConstructionFailed},
		{"missing id", map[string]string{}, http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
		{"malformed", "{", http.StatusBadRequest, apperrors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := f.do(t, http.MethodPut, "/exclusive/renderer", tt.body)
			if rr.Code != tt.status || errorCode(t, rr) != tt.code {
				t.Fatalf("expected %d %s, got %d %s", tt.status, tt.code, rr.Code, rr.Body.String())
			}
		})
	}
	if id := f.do(t, http.MethodGet, "/exclusive/renderer", nil); decode[CurrentView](t, id).ID != "satellite" {
		t.Fatal("failed requests must not change the current factory")
	}

	rr = f.do(t, http.MethodDelete, "/exclusive/renderer", nil)
	if rr.Code != http.StatusOK || decode[CurrentView](t, rr).ID != "osm" {
		t.Fatalf("DELETE: %d %s", rr.Code, rr.Body.String())
	}

	rr = f.do(t, http.MethodGet, "/exclusive/layers", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("exclusive endpoint on selective point: expected 400, got %d", rr.Code)
	}
}

func TestSelectiveEndpoints(t *testing.T) {
	f := newFixture(t, nil)

	rr := f.do(t, http.MethodPut, "/selective/layers/rivers", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("PUT: %d %s", rr.Code, rr.Body.String())
	}
	rr = f.do(t, http.MethodPut, "/selective/layers/roads", nil)
	if ids := decode[ActiveView](t, rr).IDs; strings.Join(ids, ",") != "rivers,roads" {
		t.Fatalf("unexpected active ids %v", ids)
	}
	if v, _ := f.store.GetString("extkit.layers"); v != "rivers,roads" {
		t.Fatalf("not persisted: %q", v)
	}

	rr = f.do(t, http.MethodDelete, "/selective/layers/rivers", nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("DELETE: expected 204, got %d", rr.Code)
	}
	rr = f.do(t, http.MethodGet, "/selective/layers", nil)
	if ids := decode[ActiveView](t, rr).IDs; strings.Join(ids, ",") != "roads" {
		t.Fatalf("unexpected active ids %v", ids)
	}

	rr = f.do(t, http.MethodPut, "/selective/layers/nope", nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown id: expected 404, got %d", rr.Code)
	}
	rr = f.do(t, http.MethodPut, "/selective/renderer/osm", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("selective endpoint on exclusive point: expected 400, got %d", rr.Code)
	}
}

func TestMenu(t *testing.T) {
	f := newFixture(t, nil)

	rr := f.do(t, http.MethodGet, "/points/renderer/menu", nil)
	items := decode[[]ActionView](t, rr)
	var styles []string
	for _, a := range items {
		styles = append(styles, a.Style)
	}
	if strings.Join(styles, ",") != "radio,radio,radio,radio,separator,dropdown" {
		t.Fatalf("unexpected menu shape %v", styles)
	}
	if !items[0].Checked || items[1].Checked {
		t.Fatal("only the current factory is checked")
	}
	if col := items[5]; col.ID != "collection:Custom" || len(col.Children) == 0 || col.Children[0].ID != "add-new" {
		t.Fatalf("unexpected collection item %+v", col)
	}

	rr = f.do(t, http.MethodPost, "/points/renderer/menu", map[string]any{"path": []string{"satellite"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("run: %d %s", rr.Code, rr.Body.String())
	}
	if items := decode[[]ActionView](t, rr); !items[1].Checked || items[0].Checked {
		t.Fatalf("menu not updated after run: %+v", items[:2])
	}
	if id := f.host.Points()[0].Exclusive.CurrentID(); id != "satellite" {
		t.Fatalf("expected satellite current, got %q", id)
	}

	rr = f.do(t, http.MethodPost, "/points/renderer/menu", map[string]any{"path": []string{}})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("empty path: expected 400, got %d", rr.Code)
	}
	rr = f.do(t, http.MethodPost, "/points/renderer/menu", map[string]any{"path": []string{"ghost"}})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("unknown action: expected 404, got %d", rr.Code)
	}
}

type stubComponent struct {
	name   string
	status component.HealthStatus
}

func (s stubComponent) Name() string                { return s.name }
func (s stubComponent) Start(context.Context) error { return nil }
func (s stubComponent) Stop(context.Context) error  { return nil }
func (s stubComponent) Health(context.Context) component.Health {
	return component.Health{Name: s.name, Status: s.status}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		status component.HealthStatus
		code   int
	}{
		{"healthy", component.StatusHealthy, http.StatusOK},
		{"degraded", component.StatusDegraded, http.StatusOK},
		{"unhealthy", component.StatusUnhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := component.NewRegistry(logger.Nop())
			if err := reg.Register(stubComponent{name: "watcher", status: tt.status}); err != nil {
				t.Fatal(err)
			}
			f := newFixture(t, reg)
			rr := f.do(t, http.MethodGet, "/health", nil)
			if rr.Code != tt.code {
				t.Fatalf("expected %d, got %d", tt.code, rr.Code)
			}
			var body HealthView
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body.Status != tt.status || len(body.Components) != 1 {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}

	f := newFixture(t, nil)
	if rr := f.do(t, http.MethodGet, "/health", nil); rr.Code != http.StatusOK {
		t.Fatalf("no components: expected 200, got %d", rr.Code)
	}
}

func TestVersion(t *testing.T) {
	f := newFixture(t, nil)
	rr := f.do(t, http.MethodGet, "/version", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), `"version"`) {
		t.Fatalf("unexpected version response %d %s", rr.Code, rr.Body.String())
	}
}
