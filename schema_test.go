package redicalsearch

import (
	"reflect"
	"strings"
	"testing"
)

func TestFieldEncode_TokenOrder(t *testing.T) {
	tests := []struct {
		name  string
		field Field
		want  []string
	}{
		{
			name:  "plain text",
			field: Field{Name: "title", Type: FieldText},
			want:  []string{"title", "TEXT"},
		},
		{
			name:  "text with everything",
			field: Field{Name: "title", Type: FieldText, Flags: Sortable | NoStem, Weight: 2.5, Phonetic: PhoneticEnglish},
			want:  []string{"title", "TEXT", "NOSTEM", "WEIGHT", "2.5", "PHONETIC", "dm:en", "SORTABLE"},
		},
		{
			name:  "tag with separator",
			field: Field{Name: "genres", Type: FieldTag, Separator: "|"},
			want:  []string{"genres", "TAG", "SEPARATOR", "|"},
		},
		{
			name:  "sortable numeric",
			field: Field{Name: "year", Type: FieldNumeric, Flags: Sortable},
			want:  []string{"year", "NUMERIC", "SORTABLE"},
		},
		{
			name:  "geo",
			field: Field{Name: "loc", Type: FieldGeo},
			want:  []string{"loc", "GEO"},
		},
		{
			name:  "sortable noindex",
			field: Field{Name: "sku", Type: FieldTag, Flags: Sortable | NoIndex},
			want:  []string{"sku", "TAG", "SORTABLE", "NOINDEX"},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.field.encode()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("encode() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestFieldEncode_Errors(t *testing.T) {
	tests := []struct {
		name    string
		field   Field
		wantSub string
	}{
		{
			name:    "noindex without sortable",
			field:   Field{Name: "f", Type: FieldText, Flags: NoIndex},
			wantSub: "must be sortable or be indexed",
		},
		{
			name:    "multi-rune separator",
			field:   Field{Name: "f", Type: FieldTag, Separator: "||"},
			wantSub: "separator",
		},
		{
			name:    "invalid phonetic",
			field:   Field{Name: "f", Type: FieldText, Phonetic: "dm:xx"},
			wantSub: "phonetic",
		},
		{
			name:    "weight on numeric",
			field:   Field{Name: "f", Type: FieldNumeric, Weight: 2},
			wantSub: "only valid on text fields",
		},
		{
			name:    "negative weight",
			field:   Field{Name: "f", Type: FieldText, Weight: -1},
			wantSub: "weight must be positive",
		},
		{
			name:    "separator on text",
			field:   Field{Name: "f", Type: FieldText, Separator: ","},
			wantSub: "only valid on tag fields",
		},
		{
			name:    "nostem on tag",
			field:   Field{Name: "f", Type: FieldTag, Flags: NoStem},
			wantSub: "only valid on text fields",
		},
		{
			name:    "unknown type",
			field:   Field{Name: "f", Type: "VECTOR"},
			wantSub: "field type",
		},
		{
			name:    "empty name",
			field:   Field{Type: FieldText},
			wantSub: "name",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.field.encode()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantSub) {
				t.Errorf("error %q does not mention %q", err, tc.wantSub)
			}
		})
	}
}

func TestSchemaBuilder(t *testing.T) {
	schema := NewSchema().
		TextWithOpts("title", Sortable, TextFieldOptions{Weight: 5}).
		Tag("genres", 0).
		TagWithSeparator("authors", 0, ";").
		Numeric("year", Sortable).
		Geo("loc", 0)

	got, err := schema.encode()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{
		"title", "TEXT", "WEIGHT", "5.0", "SORTABLE",
		"genres", "TAG",
		"authors", "TAG", "SEPARATOR", ";",
		"year", "NUMERIC", "SORTABLE",
		"loc", "GEO",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encode() = %v, want %v", got, want)
	}
}

func TestSchemaEncode_DuplicateName(t *testing.T) {
	_, err := NewSchema().Text("f", 0).Numeric("f", 0).encode()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "duplicate field name") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestSchemaEncode_Empty(t *testing.T) {
	if _, err := NewSchema().encode(); err == nil {
		t.Fatal("expected error")
	}
}
