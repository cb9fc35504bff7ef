package notion

import (
	"context"
	"testing"

	"github.com/jomei/notionapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadclean/internal/model"
)

func testLeads() []model.NormalizedLead {
	return []model.NormalizedLead{
		{Name: "Asha", Email: "asha@acme.in", Phone: "9876543210", Score: 4, Tier: model.TierHot, Rationale: "valid email, valid phone, business email, buying intent"},
		{Name: "Ravi", Email: "ravi@gmail.com", Phone: "9123456780", Score: 2, Tier: model.TierWarm, Rationale: "valid email, valid phone"},
	}
}

func TestLeadProperties(t *testing.T) {
	props := LeadProperties(testLeads()[0])

	title, ok := props[PropName].(notionapi.TitleProperty)
	require.True(t, ok)
	assert.Equal(t, "Asha", title.Title[0].Text.Content)

	assert.Equal(t, "asha@acme.in", props[PropEmail].(notionapi.EmailProperty).Email)
	assert.Equal(t, "9876543210", props[PropPhone].(notionapi.PhoneNumberProperty).PhoneNumber)
	assert.Equal(t, float64(4), props[PropScore].(notionapi.NumberProperty).Number)
	assert.Equal(t, "HOT", props[PropStatus].(notionapi.SelectProperty).Select.Name)
	assert.Contains(t, props[PropReason].(notionapi.RichTextProperty).RichText[0].Text.Content, "buying intent")
}

func TestPushLeads(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("CreatePage", ctx, mock.MatchedBy(func(req *notionapi.PageCreateRequest) bool {
		return req.Parent.DatabaseID == "db-1" && req.Parent.Type == notionapi.ParentTypeDatabaseID
	})).Return(&notionapi.Page{ID: "new"}, nil).Times(2)

	n, err := PushLeads(ctx, mc, "db-1", testLeads())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	mc.AssertExpectations(t)
}

func TestPushLeads_StopsOnError(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("CreatePage", ctx, mock.Anything).Return(&notionapi.Page{ID: "new"}, nil).Once()
	mc.On("CreatePage", ctx, mock.Anything).Return(nil, assert.AnError).Once()

	n, err := PushLeads(ctx, mc, "db-1", testLeads())
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "ravi@gmail.com")
	mc.AssertExpectations(t)
}

func TestPushLeads_Cancelled(t *testing.T) {
	mc := new(MockClient)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := PushLeads(ctx, mc, "db-1", testLeads())
	require.Error(t, err)
	assert.Equal(t, 0, n)
	mc.AssertNotCalled(t, "CreatePage", mock.Anything, mock.Anything)
}

func TestPushLeads_Empty(t *testing.T) {
	mc := new(MockClient)
	n, err := PushLeads(context.Background(), mc, "db-1", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestCheckDatabase(t *testing.T) {
	mc := new(MockClient)
	ctx := context.Background()

	mc.On("QueryDatabase", ctx, "db-1", mock.MatchedBy(func(req *notionapi.DatabaseQueryRequest) bool {
		return req.PageSize == 1
	})).Return(&notionapi.DatabaseQueryResponse{}, nil).Once()
	mc.On("QueryDatabase", ctx, "db-bad", mock.Anything).Return(nil, assert.AnError).Once()

	require.NoError(t, CheckDatabase(ctx, mc, "db-1"))

	err := CheckDatabase(ctx, mc, "db-bad")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check database")

	require.Error(t, CheckDatabase(ctx, mc, ""))
	mc.AssertExpectations(t)
}
