package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadclean/internal/resilience"
)

// MockClient implements Client for testing.
type MockClient struct {
	mock.Mock
}

func (m *MockClient) QueryDatabase(ctx context.Context, dbID string, req *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	args := m.Called(ctx, dbID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.DatabaseQueryResponse), args.Error(1)
}

func (m *MockClient) CreatePage(ctx context.Context, req *notionapi.PageCreateRequest) (*notionapi.Page, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notionapi.Page), args.Error(1)
}

func TestMockClientSatisfiesInterface(t *testing.T) {
	t.Parallel()
	var _ Client = (*MockClient)(nil)
}

func unwrap(t *testing.T, c Client) *notionClient {
	t.Helper()
	rc, ok := c.(*retryClient)
	require.True(t, ok)
	nc, ok := rc.next.(*notionClient)
	require.True(t, ok)
	return nc
}

func TestNewClient_DefaultRateLimit(t *testing.T) {
	c := unwrap(t, NewClient("secret"))
	require.NotNil(t, c.limiter)
	assert.Equal(t, rate.Limit(3), c.limiter.Limit())
}

func TestWithRetryConfig(t *testing.T) {
	c := NewClient("secret", WithRetryConfig(resilience.RetryConfig{MaxAttempts: 7}))
	assert.Equal(t, 7, c.(*retryClient).cfg.MaxAttempts)
	assert.NotNil(t, c.(*retryClient).cfg.ShouldRetry)
}

func TestWithRateLimit(t *testing.T) {
	c := unwrap(t, NewClient("secret", WithRateLimit(10)))
	require.NotNil(t, c.limiter)
	assert.Equal(t, rate.Limit(10), c.limiter.Limit())
	assert.Equal(t, 10, c.limiter.Burst())

	c = unwrap(t, NewClient("secret", WithRateLimit(0)))
	assert.Nil(t, c.limiter)
	assert.NoError(t, c.wait(context.Background()))
}

func TestWait_Cancelled(t *testing.T) {
	c := unwrap(t, NewClient("secret", WithRateLimit(0.001)))
	// Drain the single burst token so the next wait must block.
	require.NoError(t, c.wait(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.Error(t, c.wait(ctx))
}
