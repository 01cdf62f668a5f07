package redicalsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// Config holds connection parameters for a search client.
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Option configures a Client.
type Option func(*Client)

// WithLogger attaches a structured logger. Commands are logged at debug
// level before dispatch.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.log = log }
}

// Client issues search commands against a single index.
type Client struct {
	client rueidis.Client
	index  string
	log    *zap.Logger

	// ownsConn is set when New created the connection, so Close knows
	// whether to shut it down.
	ownsConn bool
}

// New connects to the server and returns a client bound to the named
// index. The index does not have to exist yet.
func New(cfg Config, index string, opts ...Option) (*Client, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}
	if index == "" {
		return nil, fmt.Errorf("index name is required")
	}

	conn, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
		AlwaysRESP2:  true, // reply decoding expects RESP2 array format
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	c := newClient(conn, index, opts...)
	c.ownsConn = true
	return c, nil
}

// NewWithClient wraps an existing rueidis connection. Close leaves the
// connection open; the caller keeps ownership.
func NewWithClient(conn rueidis.Client, index string, opts ...Option) *Client {
	return newClient(conn, index, opts...)
}

func newClient(conn rueidis.Client, index string, opts ...Option) *Client {
	c := &Client{client: conn, index: index, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Index returns the index name this client is bound to.
func (c *Client) Index() string { return c.index }

// Close shuts down the underlying connection if this client created it.
func (c *Client) Close() {
	if c.ownsConn {
		c.client.Close()
	}
}

// Ping checks connectivity.
func (c *Client) Ping(ctx context.Context) error {
	cmd := c.client.B().Ping().Build()
	if err := c.client.Do(ctx, cmd).Error(); err != nil {
		return &CommandError{Command: OpPing, Err: err}
	}
	return nil
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (c *Client) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for server: %w", ctx.Err())
		case <-ticker.C:
			if err := c.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// CreateIndex creates the index with the given schema. Returns
// ErrIndexExists if an index by this name is already defined.
func (c *Client) CreateIndex(ctx context.Context, schema *Schema, opts CreateIndexOptions) error {
	args, err := buildCreateArgs(c.index, schema, opts)
	if err != nil {
		return err
	}
	if err := c.do(ctx, args).Error(); err != nil {
		return &CommandError{Command: OpCreateIndex, Err: classify(err)}
	}
	return nil
}

// AlterSchemaAdd appends new fields to the index schema. Existing
// documents are not reindexed for the new fields.
func (c *Client) AlterSchemaAdd(ctx context.Context, fields ...Field) error {
	args, err := buildAlterArgs(c.index, NewSchema().Add(fields...))
	if err != nil {
		return err
	}
	if err := c.do(ctx, args).Error(); err != nil {
		return &CommandError{Command: OpAlterIndex, Err: classify(err)}
	}
	return nil
}

// DropIndex deletes the index. Returns ErrUnknownIndex if it does not
// exist.
func (c *Client) DropIndex(ctx context.Context) error {
	args := []string{"FT.DROP", c.index}
	if err := c.do(ctx, args).Error(); err != nil {
		return &CommandError{Command: OpDropIndex, Err: classify(err)}
	}
	return nil
}

// AddDocument indexes a document under docID. With the zero-valued
// options an existing document causes ErrDocumentExists; set Replace to
// overwrite instead.
func (c *Client) AddDocument(ctx context.Context, docID string, fields []FieldValue, opts AddDocumentOptions) error {
	args, err := buildAddArgs(c.index, docID, fields, opts)
	if err != nil {
		return err
	}
	if err := c.do(ctx, args).Error(); err != nil {
		return &CommandError{Command: OpAddDocument, Err: classify(err)}
	}
	return nil
}

// GetDocument fetches a document's indexed fields by id. Returns
// ErrDocumentNotFound when no document exists under docID.
func (c *Client) GetDocument(ctx context.Context, docID string) (*Document, error) {
	args := buildGetArgs(c.index, docID)
	raw, err := c.do(ctx, args).ToArray()
	if err != nil {
		if rueidis.IsRedisNil(err) {
			return nil, &CommandError{Command: OpGetDocument, Err: ErrDocumentNotFound}
		}
		return nil, &CommandError{Command: OpGetDocument, Err: classify(err)}
	}
	return &Document{ID: docID, Fields: foldPairs(raw)}, nil
}

// Info reports the index definition and statistics. Returns
// ErrUnknownIndex if the index does not exist.
func (c *Client) Info(ctx context.Context) (*IndexInfo, error) {
	args := []string{"FT.INFO", c.index}
	raw, err := c.do(ctx, args).ToArray()
	if err != nil {
		return nil, &CommandError{Command: OpIndexInfo, Err: classify(err)}
	}
	return decodeIndexInfo(raw)
}

// Search runs a query and returns one page of hits.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResult, error) {
	args, limit, err := buildSearchArgs(c.index, query, opts)
	if err != nil {
		return nil, err
	}
	raw, err := c.do(ctx, args).ToArray()
	if err != nil {
		return nil, &CommandError{Command: OpSearch, Err: classify(err)}
	}
	return decodeSearchResult(raw, opts.Flags, opts.Offset, limit)
}

// Count returns the number of documents matching query without fetching
// any of them.
func (c *Client) Count(ctx context.Context, query string) (int, error) {
	args := []string{"FT.SEARCH", c.index, quote(query), "LIMIT", "0", "0"}
	raw, err := c.do(ctx, args).ToArray()
	if err != nil {
		return 0, &CommandError{Command: OpSearch, Err: classify(err)}
	}
	if len(raw) == 0 {
		return 0, nil
	}
	total, err := raw[0].AsInt64()
	if err != nil {
		return 0, fmt.Errorf("parse count: %w", err)
	}
	return int(total), nil
}

func (c *Client) do(ctx context.Context, args []string) rueidis.RedisResult {
	c.log.Debug("dispatching command",
		zap.String("command", args[0]),
		zap.Int("tokens", len(args)))
	cmd := c.client.B().Arbitrary(args[0]).Args(args[1:]...).Build()
	return c.client.Do(ctx, cmd)
}
