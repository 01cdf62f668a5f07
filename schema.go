package redicalsearch

import (
	"fmt"
	"unicode/utf8"
)

// FieldType enumerates the index field types supported by the server.
type FieldType string

const (
	// FieldGeo indexes geographic "lon,lat" points.
	FieldGeo FieldType = "GEO"
	// FieldNumeric indexes numeric values for range filtering and sorting.
	FieldNumeric FieldType = "NUMERIC"
	// FieldTag indexes exact-match tags split on a separator character.
	FieldTag FieldType = "TAG"
	// FieldText indexes tokenized full-text content.
	FieldText FieldType = "TEXT"
)

// FieldFlags is a composable set of per-field schema options. Tokens are
// emitted in the protocol's fixed order regardless of how flags were combined.
type FieldFlags uint8

const (
	// Sortable retains field values in a form that allows ordering results
	// by this field. Adds memory overhead, avoid on large text fields.
	Sortable FieldFlags = 1 << iota
	// NoIndex excludes the field from the index. Only useful together with
	// Sortable: a field that is neither indexed nor sortable is ignored by
	// the server.
	NoIndex
	// NoStem disables stemming on a text field, restricting it to exact
	// word-for-word matches.
	NoStem
)

// PhoneticMatcher selects a sound-alike matching algorithm for a text field.
type PhoneticMatcher string

const (
	PhoneticEnglish    PhoneticMatcher = "dm:en"
	PhoneticFrench     PhoneticMatcher = "dm:fr"
	PhoneticPortuguese PhoneticMatcher = "dm:pt"
	PhoneticSpanish    PhoneticMatcher = "dm:es"
)

func (p PhoneticMatcher) valid() bool {
	switch p {
	case PhoneticEnglish, PhoneticFrench, PhoneticPortuguese, PhoneticSpanish:
		return true
	}
	return false
}

// Field describes a single column of an index schema.
type Field struct {
	Name  string
	Type  FieldType
	Flags FieldFlags

	// Separator overrides how TAG field content is split into individual
	// tags. Must be exactly one character; empty means the server default
	// (comma).
	Separator string

	// Weight is the TEXT relevance multiplier. Zero means unset (server
	// default 1).
	Weight float64

	// Phonetic enables phonetic matching on a TEXT field.
	Phonetic PhoneticMatcher
}

// encode emits the field's schema tokens:
// name, type keyword, type-specific options, SORTABLE, NOINDEX, in that
// order. The server parses positionally, so the order is load-bearing.
func (f Field) encode() ([]string, error) {
	if f.Name == "" {
		return nil, fmt.Errorf("redicalsearch: field name is required")
	}
	if f.Flags&NoIndex != 0 && f.Flags&Sortable == 0 {
		return nil, fmt.Errorf("redicalsearch: field %q must be sortable or be indexed", f.Name)
	}

	args := []string{f.Name, string(f.Type)}

	switch f.Type {
	case FieldGeo, FieldNumeric:
		if err := f.rejectTextOptions(); err != nil {
			return nil, err
		}
		if f.Separator != "" {
			return nil, fmt.Errorf("redicalsearch: separator is only valid on tag fields, not %q", f.Name)
		}
	case FieldTag:
		if err := f.rejectTextOptions(); err != nil {
			return nil, err
		}
		if f.Separator != "" {
			if utf8.RuneCountInString(f.Separator) > 1 {
				return nil, fmt.Errorf("redicalsearch: separator longer than one character: %q", f.Separator)
			}
			args = append(args, "SEPARATOR", f.Separator)
		}
	case FieldText:
		if f.Separator != "" {
			return nil, fmt.Errorf("redicalsearch: separator is only valid on tag fields, not %q", f.Name)
		}
		if f.Flags&NoStem != 0 {
			args = append(args, "NOSTEM")
		}
		if f.Weight < 0 {
			return nil, fmt.Errorf("redicalsearch: weight must be positive on field %q", f.Name)
		}
		if f.Weight != 0 {
			args = append(args, "WEIGHT", formatFloat(f.Weight))
		}
		if f.Phonetic != "" {
			if !f.Phonetic.valid() {
				return nil, fmt.Errorf("redicalsearch: invalid phonetic matcher: %q", f.Phonetic)
			}
			args = append(args, "PHONETIC", string(f.Phonetic))
		}
	default:
		return nil, fmt.Errorf("redicalsearch: unknown field type %q", f.Type)
	}

	if f.Flags&Sortable != 0 {
		args = append(args, "SORTABLE")
	}
	if f.Flags&NoIndex != 0 {
		args = append(args, "NOINDEX")
	}
	return args, nil
}

func (f Field) rejectTextOptions() error {
	if f.Flags&NoStem != 0 {
		return fmt.Errorf("redicalsearch: NoStem is only valid on text fields, not %q", f.Name)
	}
	if f.Weight != 0 {
		return fmt.Errorf("redicalsearch: weight is only valid on text fields, not %q", f.Name)
	}
	if f.Phonetic != "" {
		return fmt.Errorf("redicalsearch: phonetic matcher is only valid on text fields, not %q", f.Name)
	}
	return nil
}

// TextFieldOptions carries the TEXT-only schema options for
// Schema.TextWithOpts.
type TextFieldOptions struct {
	Weight   float64
	Phonetic PhoneticMatcher
}

// Schema is an ordered list of field definitions, built explicitly. Field
// order is preserved: it is the order the schema tokens are emitted in.
type Schema struct {
	fields []Field
}

// NewSchema starts building an index schema.
func NewSchema() *Schema {
	return &Schema{}
}

// Text adds a TEXT field. Pass 0 for no flags.
func (s *Schema) Text(name string, flags FieldFlags) *Schema {
	return s.Add(Field{Name: name, Type: FieldText, Flags: flags})
}

// TextWithOpts adds a TEXT field with a custom weight and/or phonetic
// matcher.
func (s *Schema) TextWithOpts(name string, flags FieldFlags, opts TextFieldOptions) *Schema {
	return s.Add(Field{
		Name:     name,
		Type:     FieldText,
		Flags:    flags,
		Weight:   opts.Weight,
		Phonetic: opts.Phonetic,
	})
}

// Tag adds a TAG field with the default separator.
func (s *Schema) Tag(name string, flags FieldFlags) *Schema {
	return s.Add(Field{Name: name, Type: FieldTag, Flags: flags})
}

// TagWithSeparator adds a TAG field split on a custom single-character
// separator.
func (s *Schema) TagWithSeparator(name string, flags FieldFlags, separator string) *Schema {
	return s.Add(Field{Name: name, Type: FieldTag, Flags: flags, Separator: separator})
}

// Numeric adds a NUMERIC field.
func (s *Schema) Numeric(name string, flags FieldFlags) *Schema {
	return s.Add(Field{Name: name, Type: FieldNumeric, Flags: flags})
}

// Geo adds a GEO field.
func (s *Schema) Geo(name string, flags FieldFlags) *Schema {
	return s.Add(Field{Name: name, Type: FieldGeo, Flags: flags})
}

// Add appends explicitly constructed fields.
func (s *Schema) Add(fields ...Field) *Schema {
	s.fields = append(s.fields, fields...)
	return s
}

// Fields returns the fields in declaration order.
func (s *Schema) Fields() []Field {
	return s.fields
}

// encode concatenates each field's tokens in declaration order. Validation
// errors surface here so they are reported before any command is sent.
func (s *Schema) encode() ([]string, error) {
	if s == nil || len(s.fields) == 0 {
		return nil, fmt.Errorf("redicalsearch: schema requires at least one field")
	}
	seen := make(map[string]bool, len(s.fields))
	var args []string
	for _, f := range s.fields {
		if seen[f.Name] {
			return nil, fmt.Errorf("redicalsearch: duplicate field name: %q", f.Name)
		}
		seen[f.Name] = true
		enc, err := f.encode()
		if err != nil {
			return nil, err
		}
		args = append(args, enc...)
	}
	return args, nil
}
