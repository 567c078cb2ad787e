package store

import (
	"context"

	"github.com/nexusai/billing/internal/logger"
)

type txKey struct{}

// tx buffers writes until the surrounding WithTx returns
type tx struct {
	writes []Write
	index  map[string]int
}

func (t *tx) put(w Write) {
	key := w.Collection + "/" + w.ID
	if i, ok := t.index[key]; ok {
		t.writes[i] = w
		return
	}
	t.index[key] = len(t.writes)
	t.writes = append(t.writes, w)
}

func (t *tx) get(collection, id string) ([]byte, bool) {
	if i, ok := t.index[collection+"/"+id]; ok {
		return t.writes[i].Data, true
	}
	return nil, false
}

// Client is what repositories talk to. Outside WithTx every Put goes
// straight to the backend; inside WithTx puts are buffered and committed
// atomically when fn returns nil.
type Client struct {
	backend Backend
	logger  *logger.Logger
}

func NewClient(backend Backend, logger *logger.Logger) *Client {
	return &Client{
		backend: backend,
		logger:  logger,
	}
}

// WithTx runs fn with a write buffer in the context. Nested calls join the
// outermost transaction. Reads inside fn see buffered writes for Get only.
func (c *Client) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	t := &tx{index: make(map[string]int)}
	txCtx := context.WithValue(ctx, txKey{}, t)

	if err := fn(txCtx); err != nil {
		c.logger.Debugw("discarding buffered writes", "writes", len(t.writes), "error", err)
		return err
	}

	if len(t.writes) == 0 {
		return nil
	}

	if err := c.backend.Commit(ctx, t.writes); err != nil {
		c.logger.Errorw("committing transaction", "writes", len(t.writes), "error", err)
		return err
	}

	c.logger.Debugw("committed transaction", "writes", len(t.writes))
	return nil
}

func txFromContext(ctx context.Context) (*tx, bool) {
	t, ok := ctx.Value(txKey{}).(*tx)
	return t, ok
}

func (c *Client) Get(ctx context.Context, collection, id string) ([]byte, error) {
	if t, ok := txFromContext(ctx); ok {
		if data, ok := t.get(collection, id); ok {
			return data, nil
		}
	}
	return c.backend.Get(ctx, collection, id)
}

func (c *Client) List(ctx context.Context, collection string) ([][]byte, error) {
	return c.backend.List(ctx, collection)
}

func (c *Client) Put(ctx context.Context, collection, id string, data []byte) error {
	if t, ok := txFromContext(ctx); ok {
		t.put(Write{Collection: collection, ID: id, Data: data})
		return nil
	}
	return c.backend.Put(ctx, collection, id, data)
}

func (c *Client) ReplaceAll(ctx context.Context, collection string, docs map[string][]byte) error {
	return c.backend.ReplaceAll(ctx, collection, docs)
}

func (c *Client) Backend() Backend {
	return c.backend
}
