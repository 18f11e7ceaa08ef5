package pipeline

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunExecutesStepsInRequestedOrder(t *testing.T) {
	req := Request{
		To: []string{
			"Bob <bob@CORP.com>",
			"bob@corp.com",
			"zed@external.com",
		},
		EnabledSteps:    []string{"dedupe", "sort", "prioritizeInternal"},
		InternalDomains: []string{"corp.com"},
	}

	result, err := Run(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"Bob <bob@CORP.com>", "zed@external.com"}, result.To)
	assert.Equal(t, 3, result.Summary.TotalProcessed)
	assert.Equal(t, 2, result.Summary.TotalRemaining)
	assert.Equal(t, 3, result.Summary.StepsExecuted)

	require.Len(t, result.Actions, 3)
	assert.Equal(t, StepDedupe, result.Actions[0].Step)
	assert.Equal(t, StepSort, result.Actions[1].Step)
	assert.Equal(t, StepPrioritize, result.Actions[2].Step)

	// Each record's input is the previous record's output.
	assert.Equal(t, result.Actions[0].Output, result.Actions[1].Input)
	assert.Equal(t, result.Actions[1].Output, result.Actions[2].Input)
}

func TestRunIsDeterministic(t *testing.T) {
	req := Request{
		To:  []string{"c@x.com", "B@corp.com", "a@x.com", "b@CORP.com"},
		Cc:  []string{"b@corp.com", "d@other.org"},
		Bcc: []string{"d@other.org", "user@gmial.com"},
		EnabledSteps: []string{
			"dedupe", "validate", "sort", "prioritizeInternal", "flagExt",
		},
		InternalDomains: []string{"corp.com"},
		OrgDomain:       "corp.com",
	}

	first, err := Run(req)
	require.NoError(t, err)
	second, err := Run(req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRunSkipsUnknownSteps(t *testing.T) {
	req := Request{
		To:           []string{"b@x.com", "a@x.com"},
		EnabledSteps: []string{"shuffle", "sort", "frobnicate"},
	}

	result, err := Run(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"a@x.com", "b@x.com"}, result.To)
	assert.Equal(t, 1, result.Summary.StepsExecuted)
	require.Len(t, result.Actions, 1)
	assert.Equal(t, StepSort, result.Actions[0].Step)
}

func TestRunWithNoStepsPassesListsThrough(t *testing.T) {
	req := Request{
		To: []string{"b@x.com", "a@x.com", "b@x.com"},
	}

	result, err := Run(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"b@x.com", "a@x.com", "b@x.com"}, result.To)
	assert.Equal(t, 3, result.Summary.TotalProcessed)
	assert.Equal(t, 3, result.Summary.TotalRemaining)
	assert.Equal(t, 0, result.Summary.StepsExecuted)
	assert.Empty(t, result.Actions)
}

func TestRunDoesNotMutateRequest(t *testing.T) {
	to := []string{"c@x.com", "a@x.com", "b@x.com"}
	req := Request{
		To:           to,
		EnabledSteps: []string{"sort", "dedupe"},
	}

	_, err := Run(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"c@x.com", "a@x.com", "b@x.com"}, to)
}

func TestRunWrapsStepFailures(t *testing.T) {
	boom := errors.New("boom")
	stepRegistry["explode"] = func(in lists, _ config) (lists, ActionRecord, error) {
		return in, ActionRecord{}, boom
	}
	t.Cleanup(func() { delete(stepRegistry, "explode") })

	_, err := Run(Request{
		To:           []string{"a@x.com"},
		EnabledSteps: []string{"sort", "explode"},
	})

	require.Error(t, err)
	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "explode", stepErr.Step)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, "step explode: boom", err.Error())
}

func TestRunCleansInternalDomainList(t *testing.T) {
	req := Request{
		To:           []string{"x@external.com", "a@corp.com"},
		EnabledSteps: []string{"removeExternal"},
		InternalDomains: []string{
			" corp.com ", "", "CORP.COM", "yourcompany.com",
		},
	}

	result, err := Run(req)
	require.NoError(t, err)

	assert.Equal(t, []string{"a@corp.com"}, result.To)
	assert.False(t, result.Actions[0].Skipped)
}

func TestRunRemoveExternalWithOnlyPlaceholderDomainsIsSkipped(t *testing.T) {
	req := Request{
		To:              []string{"x@external.com"},
		EnabledSteps:    []string{"removeExternal"},
		InternalDomains: []string{"yourcompany.com", "  "},
	}

	result, err := Run(req)
	require.NoError(t, err)

	// The cleaned list is empty, so nothing is removed.
	assert.Equal(t, []string{"x@external.com"}, result.To)
	assert.True(t, result.Actions[0].Skipped)
}
