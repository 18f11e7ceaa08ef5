package report

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/mailgroom/internal/pipeline"
)

func TestWriteCSV(t *testing.T) {
	actions := []pipeline.ActionRecord{
		{
			Step: pipeline.StepValidate,
			Outcomes: []pipeline.Outcome{
				{
					Field:  pipeline.FieldTo,
					Entry:  "good@example.com",
					Status: pipeline.StatusValid,
				},
				{
					Field:      pipeline.FieldTo,
					Entry:      "user@gmial.com",
					Status:     pipeline.StatusWarning,
					Reason:     "possible domain typo",
					Suggestion: "user@gmail.com",
				},
				{
					Field:  pipeline.FieldCc,
					Entry:  "@example.com",
					Status: pipeline.StatusError,
					Reason: "empty local or domain part",
				},
			},
			Removed: []pipeline.Removal{
				{
					Field:  pipeline.FieldCc,
					Entry:  "@example.com",
					Reason: "empty local or domain part",
				},
			},
		},
		{
			Step: pipeline.StepDedupe,
			Removed: []pipeline.Removal{
				{
					Field:  pipeline.FieldTo,
					Entry:  "good@example.com",
					Reason: "duplicate of an earlier to entry",
				},
			},
		},
		{Step: pipeline.StepSort},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, actions))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)

	require.Len(t, rows, 5)
	assert.Equal(t, csvHeader, rows[0])
	assert.Equal(t, []string{
		"validate", "to", "good@example.com", "valid", "", "",
	}, rows[1])
	assert.Equal(t, []string{
		"validate", "to", "user@gmial.com", "warning",
		"possible domain typo", "user@gmail.com",
	}, rows[2])
	assert.Equal(t, []string{
		"validate", "cc", "@example.com", "error",
		"empty local or domain part", "",
	}, rows[3])
	// Validate removals are not duplicated; dedupe removals are rows.
	assert.Equal(t, []string{
		"dedupe", "to", "good@example.com", "removed",
		"duplicate of an earlier to entry", "",
	}, rows[4])
}

func TestWriteCSVEmptyActions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, csvHeader, rows[0])
}
