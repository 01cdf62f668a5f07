// Package redicalsearch provides a Go client for the RediSearch full-text
// search module, built on rueidis.
//
// The client translates typed option structs into the positional argument
// sequences the FT.* commands expect, and decodes the flat reply arrays back
// into structured results. Indexing, tokenization, ranking and storage all
// live in the server; this package is strictly a command/response layer.
//
// # Low-level API: explicit schemas
//
//	client, _ := redicalsearch.New(redicalsearch.Config{Addrs: []string{"localhost:6379"}}, "books")
//	schema := redicalsearch.NewSchema().
//	    Text("title", redicalsearch.Sortable).
//	    Tag("genres", 0).
//	    Numeric("year", redicalsearch.Sortable)
//	_ = client.CreateIndex(ctx, schema, redicalsearch.CreateIndexOptions{
//	    On:       redicalsearch.StructureHash,
//	    Prefixes: []string{"book:"},
//	})
//	res, _ := client.Search(ctx, "dune", redicalsearch.SearchOptions{Limit: 5})
//
// # High-level API: schema-first with Go generics
//
//	type Book struct {
//	    ID    string  `redical:"id,id"`
//	    Title string  `redical:"title,text,sortable"`
//	    Genre string  `redical:"genre,tag"`
//	    Year  float64 `redical:"year,numeric,sortable"`
//	}
//
//	idx, _ := redicalsearch.NewIndex[Book](client)
//	_ = idx.Create(ctx, redicalsearch.CreateIndexOptions{})
//	_ = idx.Add(ctx, Book{ID: "b1", Title: "Dune", Genre: "scifi", Year: 1965}, redicalsearch.AddDocumentOptions{})
//	hits, _ := idx.Search(ctx, "dune", redicalsearch.SearchOptions{})
package redicalsearch
