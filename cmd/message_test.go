package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadclean/internal/model"
	"github.com/sells-group/leadclean/internal/store"
)

func TestRunMessage_Stdin(t *testing.T) {
	c := testConfig(t)
	text := "Hi, my name is Priya. Please quote for 200 units. priya@acme.in, 9876543210\n\nThis is Karan, karan@gmail.com"

	var out bytes.Buffer
	res, err := runMessage(context.Background(), c, "-", strings.NewReader(text), &out)
	require.NoError(t, err)
	require.Len(t, res.Leads, 2)
	assert.Equal(t, model.TierHot, res.Leads[0].Tier)

	records, err := csv.NewReader(&out).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Priya", records[1][0])
	assert.Equal(t, "Karan", records[2][0])
	assert.Equal(t, "COLD", records[2][4])

	st, err := store.NewSQLite(c.Store.DatabaseURL)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck
	runs, err := st.ListRuns(context.Background(), store.RunFilter{Mode: model.RunModeMessage})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "stdin", runs[0].Source)
}

func TestRunMessage_File(t *testing.T) {
	c := testConfig(t)
	c.Store.Driver = "none"
	path := writeInput(t, "msgs.txt", "call me on 9123456780")

	var out bytes.Buffer
	res, err := runMessage(context.Background(), c, path, nil, &out)
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Equal(t, "9123456780", res.Leads[0].Phone)
}

func TestRunMessage_Empty(t *testing.T) {
	c := testConfig(t)
	_, err := runMessage(context.Background(), c, "-", strings.NewReader("\n\n"), &bytes.Buffer{})
	require.Error(t, err)
}

func TestRunMessage_RecordFailureKeepsOutput(t *testing.T) {
	useStore(t, &failingStore{}, nil)

	var out bytes.Buffer
	res, err := runMessage(context.Background(), testConfig(t), "-", strings.NewReader("This is Karan, karan@gmail.com"), &out)
	require.NoError(t, err)
	require.Len(t, res.Leads, 1)
	assert.Contains(t, out.String(), "Karan")
}
