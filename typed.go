package redicalsearch

import (
	"context"
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

const tagKey = "redical"

// Index is a typed wrapper over Client. T is a struct whose fields carry
// `redical:"name,kind"` tags mapping them onto schema fields:
//
//	type Play struct {
//		ID     string  `redical:"docid,id"`
//		Title  string  `redical:"title,text,sortable"`
//		Genre  string  `redical:"genre,tag"`
//		Year   int     `redical:"year,numeric,sortable"`
//		Where  Geo     `redical:"location,geo"`
//	}
//
// Kinds are id, text, numeric, tag and geo. The optional trailing flags
// are sortable, noindex and nostem.
type Index[T any] struct {
	client *Client
	meta   *schemaMeta
}

// NewIndex parses T's tags and returns a typed index over client.
func NewIndex[T any](client *Client) (*Index[T], error) {
	meta, err := parseSchema[T]()
	if err != nil {
		return nil, err
	}
	return &Index[T]{client: client, meta: meta}, nil
}

// Client exposes the underlying untyped client.
func (ix *Index[T]) Client() *Client { return ix.client }

// Create creates the index with the schema derived from T's tags.
func (ix *Index[T]) Create(ctx context.Context, opts CreateIndexOptions) error {
	return ix.client.CreateIndex(ctx, ix.meta.schema(), opts)
}

// Add indexes item under the id taken from its id-tagged field.
func (ix *Index[T]) Add(ctx context.Context, item T, opts AddDocumentOptions) error {
	id, fields, err := ix.meta.toFields(item)
	if err != nil {
		return err
	}
	return ix.client.AddDocument(ctx, id, fields, opts)
}

// Get fetches the document stored under id and decodes it into T.
func (ix *Index[T]) Get(ctx context.Context, id string) (T, error) {
	var zero T
	doc, err := ix.client.GetDocument(ctx, id)
	if err != nil {
		return zero, err
	}
	return ix.meta.fromFields(doc.ID, doc.Fields).(T), nil
}

// TypedSearchResult is one page of decoded search hits.
type TypedSearchResult[T any] struct {
	Total  int
	Offset int
	Limit  int
	Items  []T
}

// Search runs a query and decodes each hit into T. Hits without content
// (NoContent searches) decode to items carrying only the id field.
func (ix *Index[T]) Search(ctx context.Context, query string, opts SearchOptions) (*TypedSearchResult[T], error) {
	res, err := ix.client.Search(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	out := &TypedSearchResult[T]{
		Total:  res.Total,
		Offset: res.Offset,
		Limit:  res.Limit,
		Items:  make([]T, 0, len(res.Documents)),
	}
	for _, doc := range res.Documents {
		out.Items = append(out.Items, ix.meta.fromFields(doc.ID, doc.Fields).(T))
	}
	return out, nil
}

// schemaMeta holds parsed struct tag metadata, cached per Index.
type schemaMeta struct {
	typ reflect.Type // struct type for reconstruction
	ptr bool         // T is a pointer to the struct

	idIdx int

	// Schema fields for index creation.
	fields []Field

	// Mapping from document field name to struct field index.
	byName []fieldMapping
}

type fieldMapping struct {
	structIdx int
	name      string
	typ       FieldType
}

// parseSchema reflects on T and extracts redical struct tag metadata.
func parseSchema[T any]() (*schemaMeta, error) {
	var zero T
	t := reflect.TypeOf(zero)
	ptr := t.Kind() == reflect.Pointer
	if ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("redicalsearch: type %s is not a struct", t)
	}

	meta := &schemaMeta{typ: t, ptr: ptr, idIdx: -1}

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get(tagKey)
		if tag == "" || tag == "-" {
			continue
		}
		if err := applyTag(meta, i, f, tag); err != nil {
			return nil, err
		}
	}

	if meta.idIdx == -1 {
		return nil, fmt.Errorf("redicalsearch: no field with `redical:\"...,id\"` tag in %s", t)
	}
	if len(meta.fields) == 0 {
		return nil, fmt.Errorf("redicalsearch: no indexed fields in %s", t)
	}
	return meta, nil
}

// applyTag processes a single struct field's redical tag.
func applyTag(meta *schemaMeta, idx int, sf reflect.StructField, tag string) error {
	parts := strings.Split(tag, ",")
	if len(parts) < 2 {
		return fmt.Errorf("redicalsearch: tag on field %s needs a kind, e.g. `redical:\"%s,text\"`", sf.Name, parts[0])
	}
	name, kind := parts[0], parts[1]

	var flags FieldFlags
	for _, flag := range parts[2:] {
		switch flag {
		case "sortable":
			flags |= Sortable
		case "noindex":
			flags |= NoIndex
		case "nostem":
			flags |= NoStem
		default:
			return fmt.Errorf("redicalsearch: unknown flag %q on field %s", flag, sf.Name)
		}
	}

	var typ FieldType
	switch kind {
	case "id":
		if meta.idIdx != -1 {
			return fmt.Errorf("redicalsearch: duplicate id tag on field %s", sf.Name)
		}
		if sf.Type.Kind() != reflect.String {
			return fmt.Errorf("redicalsearch: id field %s must be a string", sf.Name)
		}
		meta.idIdx = idx
		return nil
	case "text":
		typ = FieldText
	case "numeric":
		typ = FieldNumeric
	case "tag":
		typ = FieldTag
	case "geo":
		typ = FieldGeo
	default:
		return fmt.Errorf("redicalsearch: unknown kind %q on field %s", kind, sf.Name)
	}

	meta.fields = append(meta.fields, Field{Name: name, Type: typ, Flags: flags})
	meta.byName = append(meta.byName, fieldMapping{structIdx: idx, name: name, typ: typ})
	return nil
}

// schema builds the Schema for index creation from the parsed tags.
func (m *schemaMeta) schema() *Schema {
	return NewSchema().Add(m.fields...)
}

// toFields converts a typed struct into the id and field/value pairs for
// indexing.
func (m *schemaMeta) toFields(item any) (string, []FieldValue, error) {
	v := reflect.ValueOf(item)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, fmt.Errorf("redicalsearch: nil document")
		}
		v = v.Elem()
	}

	id := v.Field(m.idIdx).String()
	if id == "" {
		return "", nil, fmt.Errorf("redicalsearch: empty document id")
	}

	fields := make([]FieldValue, 0, len(m.byName))
	for _, fm := range m.byName {
		fields = append(fields, FieldValue{Name: fm.name, Value: v.Field(fm.structIdx).Interface()})
	}
	return id, fields, nil
}

// fromFields reconstructs a typed struct from a decoded document. The
// returned value matches the index's type parameter, so a pointer index
// gets a pointer back.
func (m *schemaMeta) fromFields(id string, doc map[string]string) any {
	p := reflect.New(m.typ)
	v := p.Elem()

	v.Field(m.idIdx).SetString(id)
	for _, fm := range m.byName {
		val, ok := doc[fm.name]
		if !ok {
			continue
		}
		setFieldValue(v.Field(fm.structIdx), fm.typ, val)
	}
	if m.ptr {
		return p.Interface()
	}
	return v.Interface()
}

func setFieldValue(v reflect.Value, typ FieldType, val string) {
	if typ == FieldGeo && v.Type() == reflect.TypeOf(Geo{}) {
		if g, err := parseGeo(val); err == nil {
			v.Set(reflect.ValueOf(g))
		}
		return
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(val)
	case reflect.Bool:
		v.SetBool(val == "1" || val == "true")
	case reflect.Float32, reflect.Float64:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			v.SetFloat(f)
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			v.SetInt(int64(f))
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			v.SetUint(uint64(f))
		}
	}
}

// parseGeo reads the "lon,lat" form the server stores geo points in.
func parseGeo(s string) (Geo, error) {
	lon, lat, ok := strings.Cut(s, ",")
	if !ok {
		return Geo{}, fmt.Errorf("redicalsearch: malformed geo point %q", s)
	}
	lonF, err := strconv.ParseFloat(strings.TrimSpace(lon), 64)
	if err != nil {
		return Geo{}, fmt.Errorf("redicalsearch: malformed geo point %q", s)
	}
	latF, err := strconv.ParseFloat(strings.TrimSpace(lat), 64)
	if err != nil {
		return Geo{}, fmt.Errorf("redicalsearch: malformed geo point %q", s)
	}
	return Geo{Longitude: lonF, Latitude: latF}, nil
}
