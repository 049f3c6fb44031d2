package screener

import (
	"fmt"
	"strings"
)

// ActionType names a state transition.
type ActionType string

const (
	ActionEditJobDescription ActionType = "EDIT_JOB_DESCRIPTION"
	ActionAddResume          ActionType = "ADD_RESUME"
	ActionEditResume         ActionType = "EDIT_RESUME"
	ActionSubmitStart        ActionType = "SUBMIT_START"
	ActionSubmitInvalid      ActionType = "SUBMIT_INVALID"
	ActionSubmitSuccess      ActionType = "SUBMIT_SUCCESS"
	ActionSubmitFailure      ActionType = "SUBMIT_FAILURE"
)

// Action carries the inputs of one transition. Only the fields relevant to
// Type are read.
type Action struct {
	Type    ActionType
	Text    string
	Index   int
	Token   uint64
	Message string
	Results []RankedResult
}

// Reduce applies a to s and returns the next state. The input is never
// mutated. Submit outcomes tagged with a token other than s.Token return
// ErrStale and leave the state untouched.
func Reduce(s State, a Action) (State, error) {
	next := s.Clone()
	switch a.Type {
	case ActionEditJobDescription:
		next.Form.JobDescription = a.Text

	case ActionAddResume:
		if s.MaxResumes > 0 && len(s.Form.Resumes) >= s.MaxResumes {
			return s, fmt.Errorf("%w: max %d", ErrResumeLimit, s.MaxResumes)
		}
		next.Form.Resumes = append(next.Form.Resumes, "")

	case ActionEditResume:
		if a.Index < 0 || a.Index >= len(s.Form.Resumes) {
			return s, fmt.Errorf("%w: %d", ErrIndexOutOfRange, a.Index)
		}
		next.Form.Resumes[a.Index] = a.Text

	case ActionSubmitStart:
		next.Token = s.Token + 1
		next.Error = ""
		next.Results = []RankedResult{}
		next.Phase = PhaseAwaiting

	case ActionSubmitInvalid, ActionSubmitFailure:
		if a.Token != s.Token {
			return s, ErrStale
		}
		next.Error = a.Message
		next.Results = []RankedResult{}
		next.Phase = PhaseDisplaying

	case ActionSubmitSuccess:
		if a.Token != s.Token {
			return s, ErrStale
		}
		next.Error = ""
		next.Results = append([]RankedResult{}, a.Results...)
		next.Phase = PhaseDisplaying

	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownAction, a.Type)
	}
	return next, nil
}

// Validate returns the user-facing message for the first failing check, or
// "" when the form can be submitted. The job description is checked first.
func Validate(form FormState) string {
	if strings.TrimSpace(form.JobDescription) == "" {
		return MsgJobDescriptionRequired
	}
	for _, r := range form.Resumes {
		if strings.TrimSpace(r) == "" {
			return MsgResumesRequired
		}
	}
	return ""
}
