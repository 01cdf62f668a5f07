package redicalsearch

import (
	"context"
	"reflect"
	"testing"

	"github.com/redis/rueidis/mock"
	"go.uber.org/mock/gomock"
)

type book struct {
	ID     string  `redical:"docid,id"`
	Title  string  `redical:"title,text,sortable"`
	Genre  string  `redical:"genre,tag"`
	Year   int     `redical:"year,numeric,sortable"`
	Rating float64 `redical:"rating,numeric"`
	Where  Geo     `redical:"loc,geo"`
	Note   string  `redical:"-"`
}

func TestParseSchema(t *testing.T) {
	meta, err := parseSchema[book]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []Field{
		{Name: "title", Type: FieldText, Flags: Sortable},
		{Name: "genre", Type: FieldTag},
		{Name: "year", Type: FieldNumeric, Flags: Sortable},
		{Name: "rating", Type: FieldNumeric},
		{Name: "loc", Type: FieldGeo},
	}
	if !reflect.DeepEqual(meta.fields, want) {
		t.Errorf("fields = %+v, want %+v", meta.fields, want)
	}
}

func TestParseSchema_Errors(t *testing.T) {
	type noID struct {
		Title string `redical:"title,text"`
	}
	if _, err := parseSchema[noID](); err == nil {
		t.Error("expected error for missing id tag")
	}

	type noKind struct {
		ID    string `redical:"docid,id"`
		Title string `redical:"title"`
	}
	if _, err := parseSchema[noKind](); err == nil {
		t.Error("expected error for tag without kind")
	}

	type badKind struct {
		ID string `redical:"docid,id"`
		V  []byte `redical:"v,vector"`
	}
	if _, err := parseSchema[badKind](); err == nil {
		t.Error("expected error for unknown kind")
	}

	type badFlag struct {
		ID    string `redical:"docid,id"`
		Title string `redical:"title,text,fancy"`
	}
	if _, err := parseSchema[badFlag](); err == nil {
		t.Error("expected error for unknown flag")
	}

	type intID struct {
		ID    int    `redical:"docid,id"`
		Title string `redical:"title,text"`
	}
	if _, err := parseSchema[intID](); err == nil {
		t.Error("expected error for non-string id")
	}

	type onlyID struct {
		ID string `redical:"docid,id"`
	}
	if _, err := parseSchema[onlyID](); err == nil {
		t.Error("expected error for no indexed fields")
	}

	if _, err := parseSchema[string](); err == nil {
		t.Error("expected error for non-struct type")
	}
}

func TestSchemaMeta_RoundTrip(t *testing.T) {
	meta, err := parseSchema[book]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := book{
		ID:     "b1",
		Title:  "Dune",
		Genre:  "scifi",
		Year:   1965,
		Rating: 4.5,
		Where:  Geo{Latitude: 51.5, Longitude: -0.12},
	}
	id, fields, err := meta.toFields(in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "b1" {
		t.Errorf("id = %q", id)
	}

	doc := make(map[string]string, len(fields))
	for _, fv := range fields {
		doc[fv.Name] = stringify(fv.Value)
	}
	out := meta.fromFields(id, doc).(book)
	if out != in {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
}

func TestSchemaMeta_EmptyID(t *testing.T) {
	meta, err := parseSchema[book]()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, _, err := meta.toFields(book{}); err == nil {
		t.Fatal("expected error for empty id")
	}
}

func TestIndex_CreateAddSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mock.NewClient(ctrl)
	c := NewWithClient(conn, "books")

	ix, err := NewIndex[book](c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conn.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.CREATE", "books", "SCHEMA",
			"title", "TEXT", "SORTABLE",
			"genre", "TAG",
			"year", "NUMERIC", "SORTABLE",
			"rating", "NUMERIC",
			"loc", "GEO",
		)).
		Return(mock.Result(mock.RedisString("OK")))
	if err := ix.Create(context.Background(), CreateIndexOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conn.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.ADD", "books", "b1", "1.0", "FIELDS",
			"title", "Dune",
			"genre", "scifi",
			"year", "1965",
			"rating", "4.5",
			"loc", "-0.12,51.5",
		)).
		Return(mock.Result(mock.RedisString("OK")))
	err = ix.Add(context.Background(), book{
		ID: "b1", Title: "Dune", Genre: "scifi", Year: 1965, Rating: 4.5,
		Where: Geo{Latitude: 51.5, Longitude: -0.12},
	}, AddDocumentOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conn.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "books", "'dune'", "LIMIT", "0", "10")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("b1"),
			mock.RedisArray(
				mock.RedisString("title"), mock.RedisString("Dune"),
				mock.RedisString("year"), mock.RedisString("1965"),
			),
		)))
	res, err := ix.Search(context.Background(), "dune", SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 1 || len(res.Items) != 1 {
		t.Fatalf("Total = %d, Items = %d", res.Total, len(res.Items))
	}
	got := res.Items[0]
	if got.ID != "b1" || got.Title != "Dune" || got.Year != 1965 {
		t.Errorf("item = %+v", got)
	}
}

func TestIndex_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mock.NewClient(ctrl)
	c := NewWithClient(conn, "books")

	ix, err := NewIndex[book](c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conn.EXPECT().
		Do(gomock.Any(), mock.Match("FT.GET", "books", "b1")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisString("title"), mock.RedisString("Dune"),
			mock.RedisString("genre"), mock.RedisString("scifi"),
			mock.RedisString("loc"), mock.RedisString("-0.12,51.5"),
		)))

	got, err := ix.Get(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := book{
		ID: "b1", Title: "Dune", Genre: "scifi",
		Where: Geo{Latitude: 51.5, Longitude: -0.12},
	}
	if got != want {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}

func TestIndex_PointerType(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mock.NewClient(ctrl)
	c := NewWithClient(conn, "books")

	ix, err := NewIndex[*book](c)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	conn.EXPECT().
		Do(gomock.Any(), mock.Match("FT.GET", "books", "b1")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisString("title"), mock.RedisString("Dune"),
			mock.RedisString("year"), mock.RedisString("1965"),
		)))
	got, err := ix.Get(context.Background(), "b1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil {
		t.Fatal("Get returned nil")
	}
	if got.ID != "b1" || got.Title != "Dune" || got.Year != 1965 {
		t.Errorf("Get = %+v", *got)
	}

	conn.EXPECT().
		Do(gomock.Any(), mock.Match("FT.SEARCH", "books", "'dune'", "LIMIT", "0", "10")).
		Return(mock.Result(mock.RedisArray(
			mock.RedisInt64(1),
			mock.RedisString("b1"),
			mock.RedisArray(mock.RedisString("title"), mock.RedisString("Dune")),
		)))
	res, err := ix.Search(context.Background(), "dune", SearchOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Items) != 1 || res.Items[0].Title != "Dune" {
		t.Errorf("Items = %+v", res.Items)
	}

	conn.EXPECT().
		Do(gomock.Any(), mock.Match(
			"FT.ADD", "books", "b1", "1.0", "FIELDS",
			"title", "Dune",
			"genre", "",
			"year", "0",
			"rating", "0.0",
			"loc", "0.0,0.0",
		)).
		Return(mock.Result(mock.RedisString("OK")))
	if err := ix.Add(context.Background(), &book{ID: "b1", Title: "Dune"}, AddDocumentOptions{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := ix.Add(context.Background(), nil, AddDocumentOptions{}); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestParseGeo(t *testing.T) {
	g, err := parseGeo("-0.12,51.5")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if g.Longitude != -0.12 || g.Latitude != 51.5 {
		t.Errorf("parseGeo = %+v", g)
	}
	for _, bad := range []string{"", "1.0", "x,y"} {
		if _, err := parseGeo(bad); err == nil {
			t.Errorf("parseGeo(%q): expected error", bad)
		}
	}
}
