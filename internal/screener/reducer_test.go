package screener

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceDoesNotMutateInput(t *testing.T) {
	s := NewState(0)
	next, err := Reduce(s, Action{Type: ActionEditResume, Index: 0, Text: "changed"})
	require.NoError(t, err)
	assert.Equal(t, "", s.Form.Resumes[0])
	assert.Equal(t, "changed", next.Form.Resumes[0])
}

func TestReduceSubmitLifecycle(t *testing.T) {
	s := NewState(0)
	s, err := Reduce(s, Action{Type: ActionSubmitStart})
	require.NoError(t, err)
	assert.Equal(t, PhaseAwaiting, s.Phase)
	assert.Equal(t, uint64(1), s.Token)

	s, err = Reduce(s, Action{Type: ActionSubmitSuccess, Token: 1, Results: []RankedResult{{ResumeIndex: 0, SimilarityScore: 0.4}}})
	require.NoError(t, err)
	assert.Equal(t, PhaseDisplaying, s.Phase)
	assert.Len(t, s.Results, 1)

	s, err = Reduce(s, Action{Type: ActionSubmitStart})
	require.NoError(t, err)
	assert.Empty(t, s.Results)
	assert.Empty(t, s.Error)
	assert.Equal(t, uint64(2), s.Token)
}

func TestReduceRejectsStaleOutcome(t *testing.T) {
	s := NewState(0)
	s, _ = Reduce(s, Action{Type: ActionSubmitStart})
	s, _ = Reduce(s, Action{Type: ActionSubmitStart})

	for _, typ := range []ActionType{ActionSubmitSuccess, ActionSubmitFailure, ActionSubmitInvalid} {
		out, err := Reduce(s, Action{Type: typ, Token: 1, Message: "old"})
		require.ErrorIs(t, err, ErrStale, typ)
		assert.Equal(t, s, out)
	}
}

func TestReduceUnknownAction(t *testing.T) {
	_, err := Reduce(NewState(0), Action{Type: "RESET"})
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestValidateOrder(t *testing.T) {
	assert.Equal(t, MsgJobDescriptionRequired, Validate(FormState{JobDescription: "  ", Resumes: []string{""}}))
	assert.Equal(t, MsgResumesRequired, Validate(FormState{JobDescription: "x", Resumes: []string{"a", "\t"}}))
	assert.Equal(t, "", Validate(FormState{JobDescription: "x", Resumes: []string{"a"}}))
}
