package redicalsearch

import (
	"reflect"
	"testing"

	"github.com/redis/rueidis"
	"github.com/redis/rueidis/mock"
)

func TestDecodeSearchResult_Plain(t *testing.T) {
	raw := []rueidis.RedisMessage{
		mock.RedisInt64(2),
		mock.RedisString("doc1"),
		mock.RedisArray(mock.RedisString("title"), mock.RedisString("Hamlet")),
		mock.RedisString("doc2"),
		mock.RedisArray(mock.RedisString("title"), mock.RedisString("Macbeth")),
	}
	res, err := decodeSearchResult(raw, 0, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("Total = %d, want 2", res.Total)
	}
	if res.Count() != 2 {
		t.Errorf("Count() = %d, want 2", res.Count())
	}
	want := []Document{
		{ID: "doc1", Fields: map[string]string{"title": "Hamlet"}},
		{ID: "doc2", Fields: map[string]string{"title": "Macbeth"}},
	}
	if !reflect.DeepEqual(res.Documents, want) {
		t.Errorf("Documents = %v, want %v", res.Documents, want)
	}
}

func TestDecodeSearchResult_NoContent(t *testing.T) {
	raw := []rueidis.RedisMessage{
		mock.RedisInt64(3),
		mock.RedisString("doc1"),
		mock.RedisString("doc2"),
		mock.RedisString("doc3"),
	}
	res, err := decodeSearchResult(raw, NoContent, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Count() != 3 {
		t.Fatalf("Count() = %d, want 3", res.Count())
	}
	for i, id := range []string{"doc1", "doc2", "doc3"} {
		if res.Documents[i].ID != id {
			t.Errorf("Documents[%d].ID = %q, want %q", i, res.Documents[i].ID, id)
		}
		if res.Documents[i].Fields != nil {
			t.Errorf("Documents[%d].Fields = %v, want nil", i, res.Documents[i].Fields)
		}
	}
}

func TestDecodeSearchResult_WithScoresAndPayloads(t *testing.T) {
	raw := []rueidis.RedisMessage{
		mock.RedisInt64(1),
		mock.RedisString("doc1"),
		mock.RedisString("1.5"),
		mock.RedisString("some payload"),
		mock.RedisArray(mock.RedisString("title"), mock.RedisString("Hamlet")),
	}
	res, err := decodeSearchResult(raw, WithScores|WithPayloads, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc := res.Documents[0]
	if doc.Score != 1.5 {
		t.Errorf("Score = %v, want 1.5", doc.Score)
	}
	if doc.Payload != "some payload" {
		t.Errorf("Payload = %q", doc.Payload)
	}
	if doc.Fields["title"] != "Hamlet" {
		t.Errorf("Fields = %v", doc.Fields)
	}
}

func TestDecodeSearchResult_NilPayload(t *testing.T) {
	raw := []rueidis.RedisMessage{
		mock.RedisInt64(1),
		mock.RedisString("doc1"),
		mock.RedisNil(),
		mock.RedisArray(),
	}
	res, err := decodeSearchResult(raw, WithPayloads, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Documents[0].Payload != "" {
		t.Errorf("Payload = %q, want empty", res.Documents[0].Payload)
	}
}

func TestDecodeSearchResult_Empty(t *testing.T) {
	res, err := decodeSearchResult([]rueidis.RedisMessage{mock.RedisInt64(0)}, 0, 0, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 0 || res.Count() != 0 {
		t.Errorf("Total = %d, Count = %d, want 0, 0", res.Total, res.Count())
	}
}

func TestDecodeSearchResult_Paging(t *testing.T) {
	raw := []rueidis.RedisMessage{
		mock.RedisInt64(100),
		mock.RedisString("doc11"),
		mock.RedisArray(),
	}
	res, err := decodeSearchResult(raw, 0, 10, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 100 || res.Offset != 10 || res.Limit != 1 {
		t.Errorf("Total/Offset/Limit = %d/%d/%d, want 100/10/1", res.Total, res.Offset, res.Limit)
	}
}

func TestFoldPairs_OddTail(t *testing.T) {
	pairs := []rueidis.RedisMessage{
		mock.RedisString("a"), mock.RedisString("1"),
		mock.RedisString("dangling"),
	}
	got := foldPairs(pairs)
	want := map[string]string{"a": "1"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("foldPairs = %v, want %v", got, want)
	}
}
