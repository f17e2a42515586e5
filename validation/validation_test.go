package validation

import (
	"strings"
	"testing"

	"github.com/kbukum/extkit/errors"
)

func TestValidatorRequired(t *testing.T) {
	v := New()
	v.Required("name", "OpenStreetMap")
	if v.HasErrors() {
		t.Error("expected no errors for valid input")
	}

	v2 := New()
	v2.Required("name", "")
	if !v2.HasErrors() {
		t.Error("expected error for empty required field")
	}

	v3 := New()
	v3.Required("name", "   ")
	if !v3.HasErrors() {
		t.Error("expected error for whitespace-only required field")
	}
}

func TestIsIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"osm", true},
		{"org.example.renderer", true},
		{"osm-tiles_2", true},
		{"", false},
		{".hidden", false},
		{"has space", false},
		{"a,b", false},
	}
	for _, tt := range tests {
		if got := IsIdentifier(tt.in); got != tt.want {
			t.Errorf("IsIdentifier(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestValidatorIdentifier(t *testing.T) {
	v := New().Identifier("id", "")
	if len(v.Errors()) != 1 || v.Errors()[0].Message != "is required" {
		t.Errorf("expected required error, got %v", v.Errors())
	}

	v2 := New().Identifier("id", "a,b")
	if len(v2.Errors()) != 1 || v2.Errors()[0].Message != "must be a dotted identifier" {
		t.Errorf("expected identifier error, got %v", v2.Errors())
	}

	if New().Identifier("id", "org.example").HasErrors() {
		t.Error("expected dotted id to pass")
	}
}

func TestValidatorUnique(t *testing.T) {
	v := New().Unique("points", []string{"a", "b", "a", "a", "c", "b"})
	if len(v.Errors()) != 2 {
		t.Fatalf("expected one error per duplicated value, got %v", v.Errors())
	}
	if !strings.Contains(v.Errors()[0].Message, `"a"`) {
		t.Errorf("expected first duplicate to be a, got %q", v.Errors()[0].Message)
	}
}

func TestValidatorOneOf(t *testing.T) {
	modes := []string{"exclusive", "selective"}
	if New().OneOf("mode", "exclusive", modes).HasErrors() {
		t.Error("expected no error for allowed value")
	}
	if New().OneOf("mode", "", modes).HasErrors() {
		t.Error("expected empty value to be skipped")
	}
	v := New().OneOf("mode", "multiple", modes)
	if !v.HasErrors() {
		t.Fatal("expected error for disallowed value")
	}
	if !strings.Contains(v.Errors()[0].Message, "exclusive, selective") {
		t.Errorf("expected allowed values in message, got %q", v.Errors()[0].Message)
	}
}

func TestValidatorCustom(t *testing.T) {
	if New().Custom(true, "field", "msg").HasErrors() {
		t.Error("expected no error for true condition")
	}
	v := New().Custom(false, "field", "custom error")
	if !v.HasErrors() || v.Errors()[0].Message != "custom error" {
		t.Errorf("expected custom error, got %v", v.Errors())
	}
}

func TestValidatorValidate(t *testing.T) {
	if New().Required("name", "osm").Validate() != nil {
		t.Error("expected nil for valid input")
	}

	appErr := New().Required("name", "").Identifier("id", "").Validate()
	if appErr == nil {
		t.Fatal("expected error")
	}
	if appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
	}
	if appErr.Details == nil {
		t.Fatal("expected details in error")
	}
	if !strings.Contains(appErr.Message, "name") || !strings.Contains(appErr.Message, "id") {
		t.Errorf("expected both fields in message, got %q", appErr.Message)
	}
}

func TestValidatorChaining(t *testing.T) {
	v := New()
	result := v.Required("name", "osm").Identifier("id", "osm").OneOf("mode", "exclusive", []string{"exclusive"}).Unique("ids", []string{"a", "b"})
	if result != v {
		t.Error("expected chaining to return same validator")
	}
	if v.HasErrors() {
		t.Error("expected no errors for valid chained validation")
	}
}

type factoryInput struct {
	ID    string `json:"id" validate:"required,extid"`
	Name  string `json:"name" validate:"required"`
	Class string `json:"class" validate:"required"`
}

func TestStructValidateValid(t *testing.T) {
	err := Validate(factoryInput{ID: "osm", Name: "OpenStreetMap", Class: "tiles"})
	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

func TestStructValidateInvalid(t *testing.T) {
	err := Validate(factoryInput{ID: "bad id", Name: ""})
	if err == nil {
		t.Fatal("expected validation error")
	}
	msg := err.Error()
	for _, want := range []string{"id: must be a dotted identifier", "name: is required", "class: is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("expected %q in %q", want, msg)
		}
	}
	if !errors.HasCode(err, errors.ErrCodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT code, got %v", err)
	}
}

func TestStructValidateNestedPath(t *testing.T) {
	type redis struct {
		Addr string `mapstructure:"addr" validate:"required"`
	}
	type prefs struct {
		Redis redis `mapstructure:"redis"`
	}
	type cfg struct {
		Preferences prefs `mapstructure:"preferences"`
	}

	err := Validate(cfg{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "preferences.redis.addr: is required") {
		t.Errorf("expected nested path in %q", err.Error())
	}
}
