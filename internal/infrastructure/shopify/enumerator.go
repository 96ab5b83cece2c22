package shopify

import (
	"context"
	"encoding/json"
	"fmt"
)

// Batch is one page of nodes together with the cursor that ends it.
type Batch struct {
	Nodes     []json.RawMessage
	EndCursor string
}

type pageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

type connection struct {
	Nodes    []json.RawMessage `json:"nodes"`
	PageInfo pageInfo          `json:"pageInfo"`
}

// EnumeratorConfig describes one paginated query: the document, the path
// to its connection object, the page size, and optionally a search
// filter and a cursor to resume after.
type EnumeratorConfig struct {
	Query  string
	Path   []string
	Limit  int
	Search string
	After  string
}

// QueryEnumerator lazily walks a paginated query one page per pull. It
// is finite per invocation but the underlying collection is unbounded;
// termination comes from the remote hasNextPage flag, never from batch
// size. The enumerator does not retry: client errors propagate to the
// job layer, and a retried job resumes by constructing a new enumerator
// with the last persisted cursor.
type QueryEnumerator struct {
	client *Client
	cfg    EnumeratorConfig
	cursor string
	done   bool
}

// NewQueryEnumerator builds an enumerator positioned after cfg.After.
func NewQueryEnumerator(client *Client, cfg EnumeratorConfig) *QueryEnumerator {
	return &QueryEnumerator{client: client, cfg: cfg, cursor: cfg.After}
}

// Next fetches pages until one yields nodes or the remote signals the
// end. It returns ok=false once exhausted. The internal cursor advances
// to the last observed end-cursor even for an empty page, so an API
// quirk returning an empty page with hasNextPage=true still makes
// forward progress instead of looping.
func (e *QueryEnumerator) Next(ctx context.Context) (Batch, bool, error) {
	for !e.done {
		variables := map[string]any{"limit": e.cfg.Limit}
		if e.cursor != "" {
			variables["after"] = e.cursor
		}
		if e.cfg.Search != "" {
			variables["query"] = e.cfg.Search
		}

		data, err := e.client.Execute(ctx, e.cfg.Query, variables)
		if err != nil {
			return Batch{}, false, err
		}

		raw, err := data.Dig(e.cfg.Path...)
		if err != nil {
			return Batch{}, false, err
		}
		var conn connection
		if err := json.Unmarshal(raw, &conn); err != nil {
			return Batch{}, false, fmt.Errorf("failed to decode connection at %v: %w", e.cfg.Path, err)
		}

		if conn.PageInfo.EndCursor != "" {
			e.cursor = conn.PageInfo.EndCursor
		}
		if !conn.PageInfo.HasNextPage {
			e.done = true
		}

		if len(conn.Nodes) > 0 {
			return Batch{Nodes: conn.Nodes, EndCursor: e.cursor}, true, nil
		}
	}
	return Batch{}, false, nil
}
