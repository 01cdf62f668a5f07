package redicalsearch

import (
	"errors"
	"strings"

	"github.com/redis/rueidis"
)

// Sentinel errors returned by Client operations. Server error strings are
// classified into these so callers can branch with errors.Is instead of
// matching message text.
var (
	ErrIndexExists      = errors.New("redicalsearch: index already exists")
	ErrUnknownIndex     = errors.New("redicalsearch: unknown index name")
	ErrDocumentExists   = errors.New("redicalsearch: document already exists")
	ErrDocumentNotFound = errors.New("redicalsearch: document not found")
)

// Op constants map to the command names used for error context.
const (
	OpCreateIndex = "FT.CREATE"
	OpAlterIndex  = "FT.ALTER"
	OpDropIndex   = "FT.DROP"
	OpAddDocument = "FT.ADD"
	OpGetDocument = "FT.GET"
	OpIndexInfo   = "FT.INFO"
	OpSearch      = "FT.SEARCH"
	OpPing        = "PING"
)

// CommandError wraps an underlying error with the command name for
// diagnostics.
type CommandError struct {
	Command string
	Err     error
}

func (e *CommandError) Error() string { return e.Command + ": " + e.Err.Error() }
func (e *CommandError) Unwrap() error { return e.Err }

// classify maps a server error reply onto a sentinel. Matching is
// case-insensitive on message substrings since the server's casing has
// varied across releases. Non-server errors pass through unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if ret, ok := rueidis.IsRedisErr(err); ok {
		msg := strings.ToLower(ret.Error())
		switch {
		case strings.Contains(msg, "index already exists"):
			return ErrIndexExists
		case strings.Contains(msg, "document already exists"):
			return ErrDocumentExists
		case strings.Contains(msg, "unknown index name"):
			return ErrUnknownIndex
		}
	}
	return err
}
