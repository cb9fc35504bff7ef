package pipeline

import (
	"context"
	"fmt"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadclean/internal/config"
	"github.com/sells-group/leadclean/internal/dedup"
	"github.com/sells-group/leadclean/internal/detect"
	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/scorer"
)

func newTestPipeline(mode dedup.Mode) *Pipeline {
	return NewWith(detect.New(0), scorer.New(scorer.DefaultConfig()), mode, 2)
}

func buildRows(headers []string, data ...[]string) []model.RawRow {
	out := make([]model.RawRow, len(data))
	for i, d := range data {
		out[i] = model.NewRawRow(headers, d)
	}
	return out
}

var leadHeaders = []string{"Contact", "Email Address", "Cell"}

func TestRun_EndToEnd(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	rows := buildRows(leadHeaders,
		[]string{"Asha Rao", "asha@acme.in", "+91 98765 43210"},
		[]string{"Asha Again", "ASHA@acme.in", "9123456780"},
		[]string{"Vikram", "vikram@globex.com", "12345"},
	)

	res, err := p.Run(context.Background(), rows, leadHeaders, nil)
	require.NoError(t, err)

	assert.Equal(t, model.RunModeAuto, res.Mode)
	assert.Equal(t, model.ColumnAssignment{Name: "Contact", Email: "Email Address", Phone: "Cell"}, res.Assignment)

	require.Len(t, res.Cleaned, 1)
	assert.Equal(t, model.NormalizedLead{
		Name:      "Asha Rao",
		Email:     "asha@acme.in",
		Phone:     "9876543210",
		Score:     3,
		Tier:      model.TierHot,
		Rationale: "valid email, valid phone, business email",
	}, res.Cleaned[0])

	require.Len(t, res.Rejected, 2)
	assert.Equal(t, model.RejectedLead{
		Name: "Asha Again", RawEmail: "ASHA@acme.in", RawPhone: "9123456780", Reason: model.ReasonDuplicateEmail,
	}, res.Rejected[0])
	assert.Equal(t, model.RejectedLead{
		Name: "Vikram", RawEmail: "vikram@globex.com", RawPhone: "12345", Reason: model.ReasonInvalidPhone,
	}, res.Rejected[1])

	assert.Equal(t, 3, res.Summary.Total)
	assert.Equal(t, 1, res.Summary.Valid)
	assert.Equal(t, 1, res.Summary.Invalid)
	assert.Equal(t, 1, res.Summary.Duplicates)
}

func TestRun_EmptyBatch(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)

	res, err := p.Run(context.Background(), nil, leadHeaders, nil)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, eris.Is(err, ErrEmptyBatch))
	assert.True(t, IsBatchError(err))
}

func TestRun_ManualOverride(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	headers := []string{"a", "b", "c"}
	rows := buildRows(headers, []string{"x@biz.com", "Meera", "9876543210"})

	override := &model.ColumnAssignment{Name: "b", Email: "a", Phone: "c"}
	res, err := p.Run(context.Background(), rows, headers, override)
	require.NoError(t, err)
	assert.Equal(t, model.RunModeManual, res.Mode)
	assert.Equal(t, *override, res.Assignment)
	require.Len(t, res.Cleaned, 1)
	assert.Equal(t, "Meera", res.Cleaned[0].Name)
}

func TestRun_ManualOverrideMissingColumn(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	rows := buildRows(leadHeaders, []string{"Asha", "asha@acme.in", "9876543210"})

	override := &model.ColumnAssignment{Name: "Contact", Email: "E-mail", Phone: "Cell"}
	res, err := p.Run(context.Background(), rows, leadHeaders, override)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.True(t, eris.Is(err, ErrMissingRequiredColumn))
	assert.Contains(t, err.Error(), "E-mail")
}

func TestRun_PartialOverrideFallsBackToDetection(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	rows := buildRows(leadHeaders, []string{"Asha", "asha@acme.in", "9876543210"})

	// Only email given: detection is used for all three columns.
	override := &model.ColumnAssignment{Email: "Contact"}
	res, err := p.Run(context.Background(), rows, leadHeaders, override)
	require.NoError(t, err)
	assert.Equal(t, model.RunModeAuto, res.Mode)
	assert.Equal(t, "Email Address", res.Assignment.Email)
}

func TestRun_MessageColumn(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	headers := []string{"Contact", "Email Address", "Cell", "Notes"}
	rows := buildRows(headers,
		[]string{"Asha", "asha@gmail.com", "9876543210", "send pricing please"},
		[]string{"Ravi", "ravi@gmail.com", "9123456780", "just browsing"},
	)

	res, err := p.Run(context.Background(), rows, headers, &model.ColumnAssignment{Message: "Notes"})
	require.NoError(t, err)
	require.Len(t, res.Cleaned, 2)
	assert.Equal(t, "Notes", res.Assignment.Message)
	assert.Equal(t, model.TierHot, res.Cleaned[0].Tier)
	assert.Equal(t, "valid email, valid phone, buying intent", res.Cleaned[0].Rationale)
	assert.Equal(t, model.TierWarm, res.Cleaned[1].Tier)
}

func TestRun_MessageColumnMissing(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	rows := buildRows(leadHeaders, []string{"Asha", "asha@acme.in", "9876543210"})

	_, err := p.Run(context.Background(), rows, leadHeaders, &model.ColumnAssignment{Message: "Notes"})
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrMissingRequiredColumn))
}

func TestProcess_InvalidEmailCheckedFirst(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	a := model.ColumnAssignment{Name: "Contact", Email: "Email Address", Phone: "Cell"}
	rows := buildRows(leadHeaders, []string{"Bad", "nope", "123"})

	res, err := p.Process(context.Background(), rows, a)
	require.NoError(t, err)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, model.ReasonInvalidEmail, res.Rejected[0].Reason)
}

func TestProcess_DuplicatePhone(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	a := model.ColumnAssignment{Name: "Contact", Email: "Email Address", Phone: "Cell"}
	rows := buildRows(leadHeaders,
		[]string{"A", "a@acme.in", "9876543210"},
		[]string{"B", "b@acme.in", "+91 98765-43210"},
	)

	res, err := p.Process(context.Background(), rows, a)
	require.NoError(t, err)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, model.ReasonDuplicatePhone, res.Rejected[0].Reason)
}

func TestProcess_LeadMode(t *testing.T) {
	p := newTestPipeline(dedup.ModeLead)
	a := model.ColumnAssignment{Email: "Email Address", Phone: "Cell"}
	rows := buildRows(leadHeaders,
		[]string{"A", "a@acme.in", "9876543210"},
		[]string{"B", "a@acme.in", "9123456780"},
	)

	res, err := p.Process(context.Background(), rows, a)
	require.NoError(t, err)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, model.ReasonDuplicateLead, res.Rejected[0].Reason)
	// No name column: names come through empty.
	assert.Equal(t, "", res.Cleaned[0].Name)
}

func TestProcess_PartitionTotalityAndOrder(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	a := model.ColumnAssignment{Name: "Contact", Email: "Email Address", Phone: "Cell"}

	var data [][]string
	for i := range 200 {
		email := fmt.Sprintf("user%d@acme.in", i%150)
		phone := fmt.Sprintf("98%08d", i)
		if i%7 == 0 {
			phone = "123"
		}
		data = append(data, []string{fmt.Sprintf("User %d", i), email, phone})
	}
	rows := buildRows(leadHeaders, data...)

	res, err := p.Process(context.Background(), rows, a)
	require.NoError(t, err)

	assert.Equal(t, len(rows), len(res.Cleaned)+len(res.Rejected))
	assert.Equal(t, res.Summary.Total, res.Summary.Valid+res.Summary.Invalid+res.Summary.Duplicates)

	// Stable partition: names in each output keep their input order.
	prev := -1
	for _, l := range res.Cleaned {
		var n int
		_, err := fmt.Sscanf(l.Name, "User %d", &n)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
	prev = -1
	for _, r := range res.Rejected {
		var n int
		_, err := fmt.Sscanf(r.Name, "User %d", &n)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestProcess_CancelledContext(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := buildRows(leadHeaders, []string{"A", "a@acme.in", "9876543210"})
	res, err := p.Process(ctx, rows, model.ColumnAssignment{Email: "Email Address", Phone: "Cell"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
	assert.False(t, IsBatchError(err))
}

func TestProcess_CancelledContextManyRows(t *testing.T) {
	p := newTestPipeline(dedup.ModeField)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	vals := make([][]string, 50)
	for i := range vals {
		vals[i] = []string{"A", "a@acme.in", "9876543210"}
	}
	_, err := p.Process(ctx, buildRows(leadHeaders, vals...), model.ColumnAssignment{Email: "Email Address", Phone: "Cell"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_FromConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Pipeline.DedupMode = "lead"
	cfg.Pipeline.Concurrency = 3
	cfg.Detect.SampleSize = 10

	p, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, dedup.ModeLead, p.dedupMode)
	assert.Equal(t, 3, p.concurrency)
	assert.NotNil(t, p.Scorer())

	cfg.Pipeline.DedupMode = "bogus"
	_, err = New(cfg)
	assert.Error(t, err)
}

func TestRowsFromRecords(t *testing.T) {
	columns, rows := RowsFromRecords([]map[string]string{
		{"phone": "9876543210", "email": "a@b.com"},
		{"name": "Asha", "email": "c@d.com"},
	})
	assert.Equal(t, []string{"email", "name", "phone"}, columns)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[0].Get("name"))
	assert.Equal(t, "Asha", rows[1].Get("name"))
}

func TestDefaultOverride(t *testing.T) {
	assert.Equal(t,
		&model.ColumnAssignment{Name: "name", Email: "email", Phone: "phone"},
		DefaultOverride([]string{"email", "name", "phone", "extra"}),
	)
	assert.Nil(t, DefaultOverride([]string{"email", "phone"}))
}
