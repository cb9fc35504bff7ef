package notion

import (
	"context"
	"errors"

	"github.com/jomei/notionapi"

	"github.com/sells-group/leadclean/internal/resilience"
)

// WithRetry wraps c so that calls failing with a transient Notion or
// network error are retried with backoff.
func WithRetry(c Client, cfg resilience.RetryConfig) Client {
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = IsTransient
	}
	return &retryClient{next: c, cfg: cfg}
}

type retryClient struct {
	next Client
	cfg  resilience.RetryConfig
}

func (r *retryClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	cfg := r.cfg
	cfg.OnRetry = resilience.RetryLogger("notion", "query_database")
	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (*notionapi.DatabaseQueryResponse, error) {
		return r.next.QueryDatabase(ctx, dbID, req)
	})
}

func (r *retryClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	cfg := r.cfg
	cfg.OnRetry = resilience.RetryLogger("notion", "create_page")
	return resilience.DoVal(ctx, cfg, func(ctx context.Context) (*notionapi.Page, error) {
		return r.next.CreatePage(ctx, req)
	})
}

// IsTransient reports whether a Notion call is worth retrying: an API
// error with a retryable status, or a transport failure.
func IsTransient(err error) bool {
	var apiErr *notionapi.Error
	if errors.As(err, &apiErr) {
		return resilience.IsTransientHTTPStatus(apiErr.Status)
	}
	return resilience.IsTransient(err)
}
