package redicalsearch

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

func TestBuildAddArgs_Minimal(t *testing.T) {
	got, err := buildAddArgs("shakespeare", "adocid", []FieldValue{
		{Name: "foo", Value: "bar baz"},
		{Name: "secret", Value: "squirrel"},
	}, AddDocumentOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"FT.ADD", "shakespeare", "adocid", "1.0",
		"FIELDS", "foo", "'bar baz'", "secret", "squirrel",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestBuildAddArgs_AllOptions(t *testing.T) {
	got, err := buildAddArgs("idx", "doc1", []FieldValue{
		{Name: "title", Value: "Hamlet"},
	}, AddDocumentOptions{
		Score:       0.5,
		NoSave:      true,
		Replace:     ReplacePartial | ReplaceNoCreate,
		Language:    LanguageItalian,
		Payload:     "pl",
		IfCondition: "@timestamp < 23323234234",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"FT.ADD", "idx", "doc1", "0.5",
		"NOSAVE",
		"REPLACE", "PARTIAL", "NOCREATE",
		"LANGUAGE", "italian",
		"PAYLOAD", "pl",
		"IF", "'@timestamp < 23323234234'",
		"FIELDS", "title", "Hamlet",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestBuildAddArgs_ReplaceDefault(t *testing.T) {
	got, err := buildAddArgs("idx", "doc1", []FieldValue{
		{Name: "f", Value: "v"},
	}, AddDocumentOptions{Replace: ReplaceDefault})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"FT.ADD", "idx", "doc1", "1.0", "REPLACE", "FIELDS", "f", "v"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestBuildAddArgs_NoFields(t *testing.T) {
	_, err := buildAddArgs("idx", "doc1", nil, AddDocumentOptions{})
	if !errors.Is(err, errNoFields) {
		t.Fatalf("expected errNoFields, got %v", err)
	}
}

func TestBuildAddArgs_ValueStringification(t *testing.T) {
	when := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	got, err := buildAddArgs("idx", "doc1", []FieldValue{
		{Name: "count", Value: 42},
		{Name: "ratio", Value: 2.5},
		{Name: "whole", Value: 3.0},
		{Name: "active", Value: true},
		{Name: "disabled", Value: false},
		{Name: "loc", Value: Geo{Latitude: 51.5, Longitude: -0.12}},
		{Name: "at", Value: when},
	}, AddDocumentOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"FT.ADD", "idx", "doc1", "1.0", "FIELDS",
		"count", "42",
		"ratio", "2.5",
		"whole", "3.0",
		"active", "1",
		"disabled", "0",
		"loc", "-0.12,51.5",
		"at", "1577934245000",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestBuildGetArgs(t *testing.T) {
	got := buildGetArgs("idx", "doc1")
	want := []string{"FT.GET", "idx", "doc1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("args = %v, want %v", got, want)
	}
}

func TestGeoString(t *testing.T) {
	g := Geo{Latitude: 51.5074, Longitude: -0.1278}
	if got, want := g.String(), "-0.1278,51.5074"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
