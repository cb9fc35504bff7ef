package notion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadclean/internal/resilience"
)

func fastRetry() resilience.RetryConfig {
	return resilience.RetryConfig{MaxAttempts: 3, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(eris.Wrap(&notionapi.Error{Status: 502, Message: "bad gateway"}, "notion: create page")))
	assert.True(t, IsTransient(&notionapi.Error{Status: 429}))
	assert.False(t, IsTransient(&notionapi.Error{Status: 400, Message: "validation_error"}))
	assert.False(t, IsTransient(&notionapi.Error{Status: 404}))
	assert.True(t, IsTransient(errors.New("read tcp: connection reset by peer")))
	assert.False(t, IsTransient(errors.New("boom")))
}

func TestRetryClient_CreatePageRetriesTransient(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()
	req := &notionapi.PageCreateRequest{}

	mc.On("CreatePage", ctx, req).Return(nil, &notionapi.Error{Status: 503}).Once()
	mc.On("CreatePage", ctx, req).Return(&notionapi.Page{ID: "p1"}, nil).Once()

	page, err := WithRetry(mc, fastRetry()).CreatePage(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, notionapi.ObjectID("p1"), page.ID)
	mc.AssertExpectations(t)
}

func TestRetryClient_PermanentErrorNotRetried(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("CreatePage", ctx, mock.Anything).Return(nil, &notionapi.Error{Status: 400}).Once()

	_, err := WithRetry(mc, fastRetry()).CreatePage(ctx, &notionapi.PageCreateRequest{})
	require.Error(t, err)
	mc.AssertNumberOfCalls(t, "CreatePage", 1)
}

func TestRetryClient_QueryDatabaseGivesUp(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.Anything).Return(nil, &notionapi.Error{Status: 500})

	err := CheckDatabase(ctx, WithRetry(mc, fastRetry()), "db-1")
	require.Error(t, err)
	mc.AssertNumberOfCalls(t, "QueryDatabase", 3)
}
