package errors

import (
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	e := New(ErrCodePersistenceFailed, "store down", "key", "extkit.renderer", "dangling")
	if e.HTTPStatus != http.StatusServiceUnavailable || !e.Retryable {
		t.Errorf("status and retryability must follow the code, got %d %v", e.HTTPStatus, e.Retryable)
	}
	if len(e.Details) != 1 || e.Details["key"] != "extkit.renderer" {
		t.Errorf("unexpected details %v", e.Details)
	}
	if New(ErrCodeNotFound, "gone").Details != nil {
		t.Error("no pairs, no details")
	}
	if unknown := New("TEAPOT", "?"); unknown.HTTPStatus != http.StatusInternalServerError || unknown.Retryable {
		t.Errorf("unknown codes are non-retryable 500s, got %+v", unknown)
	}
}

func TestConstructors(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name      string
		err       *AppError
		code      ErrorCode
		status    int
		retryable bool
		details   map[string]any
	}{
		{"FactoryNotFound", FactoryNotFound("maps", "osm"), ErrCodeNotFound, http.StatusNotFound, false,
			map[string]any{"resource": "factory", "id": "osm", "point": "maps"}},
		{"NotFound without id", NotFound("factory", ""), ErrCodeNotFound, http.StatusNotFound, false,
			map[string]any{"resource": "factory"}},
		{"PointNotFound", PointNotFound("maps"), ErrCodeNotFound, http.StatusNotFound, false,
			map[string]any{"resource": "extension point", "id": "maps"}},
		{"InvalidInput", InvalidInput("id", "empty"), ErrCodeInvalidInput, http.StatusBadRequest, false,
			map[string]any{"field": "id"}},
		{"Validation", Validation("id: is required"), ErrCodeInvalidInput, http.StatusBadRequest, false, nil},
		{"ConstructionFailed", ConstructionFailed("osm", cause), ErrCodeConstructionFailed, http.StatusUnprocessableEntity, false,
			map[string]any{"factory": "osm"}},
		{"ContributionInvalid", ContributionInvalid("org.example", "id missing"), ErrCodeContributionInvalid, http.StatusUnprocessableEntity, false,
			map[string]any{"contributor": "org.example"}},
		{"UnknownClass", UnknownClass("tiles"), ErrCodeUnknownClass, http.StatusUnprocessableEntity, false,
			map[string]any{"class": "tiles"}},
		{"PersistenceFailed", PersistenceFailed("read", "renderer", cause), ErrCodePersistenceFailed, http.StatusServiceUnavailable, true,
			map[string]any{"operation": "read", "key": "renderer"}},
		{"ServiceUnavailable", ServiceUnavailable("event hub"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable, true,
			map[string]any{"service": "event hub"}},
		{"Internal", Internal(cause), ErrCodeInternal, http.StatusInternalServerError, false, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code || tt.err.HTTPStatus != tt.status || tt.err.Retryable != tt.retryable {
				t.Errorf("got %s/%d/%v, want %s/%d/%v",
					tt.err.Code, tt.err.HTTPStatus, tt.err.Retryable, tt.code, tt.status, tt.retryable)
			}
			if len(tt.err.Details) != len(tt.details) {
				t.Fatalf("details = %v, want %v", tt.err.Details, tt.details)
			}
			for k, v := range tt.details {
				if tt.err.Details[k] != v {
					t.Errorf("details[%s] = %v, want %v", k, tt.err.Details[k], v)
				}
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	tests := []struct {
		err  *AppError
		want string
	}{
		{PointNotFound("maps"), "NOT_FOUND: The requested extension point was not found."},
		{ConstructionFailed("osm", fmt.Errorf("tile server down")),
			"CONSTRUCTION_FAILED: Creating the object for osm failed. (cause: tile server down)"},
		{UnknownClass("tiles"), `UNKNOWN_CLASS: No constructor registered for class "tiles".`},
	}
	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestChain(t *testing.T) {
	root := fmt.Errorf("connection reset")
	wrapped := fmt.Errorf("set active: %w", PersistenceFailed("write", "k", root))

	got, ok := AsAppError(wrapped)
	if !ok || got.Code != ErrCodePersistenceFailed {
		t.Fatalf("AsAppError = %v, %v", got, ok)
	}
	if got.Unwrap() != root {
		t.Error("Unwrap must return the cause")
	}
	if !HasCode(wrapped, ErrCodePersistenceFailed) || HasCode(wrapped, ErrCodeNotFound) {
		t.Error("HasCode must match the code in the chain only")
	}
	if !IsRetryable(wrapped) || IsRetryable(root) || IsRetryable(InvalidInput("", "x")) {
		t.Error("IsRetryable must follow the AppError flag")
	}
	if _, ok := AsAppError(root); ok {
		t.Error("plain errors are not AppErrors")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("Wrap(nil) should return nil")
	}
	orig := FactoryNotFound("maps", "osm")
	if Wrap(fmt.Errorf("ctx: %w", orig)) != orig {
		t.Error("Wrap must return the AppError from the chain")
	}
	plain := fmt.Errorf("disk full")
	if got := Wrap(plain); got.Code != ErrCodeInternal || got.Cause != plain {
		t.Errorf("expected internal error wrapping the cause, got %+v", got)
	}
}

func TestToResponse(t *testing.T) {
	resp := PersistenceFailed("read", "extkit.renderer", fmt.Errorf("secret dsn")).ToResponse()
	if resp.Error.Code != ErrCodePersistenceFailed || !resp.Error.Retryable {
		t.Errorf("unexpected body %+v", resp.Error)
	}
	if resp.Error.Details["key"] != "extkit.renderer" {
		t.Errorf("details must be carried over, got %v", resp.Error.Details)
	}
	if strings.Contains(resp.Error.Message, "secret") {
		t.Error("the cause must not leak into the response")
	}
}
