package screener

import (
	"resume-screener/internal/ranking"
)

// Messages shown in the form's error region.
const (
	MsgJobDescriptionRequired = "Job description is required"
	MsgResumesRequired        = "All resumes must have text"
	MsgSubmitFailed           = "Something went wrong while sending data to the backend."
)

// Phase is the orchestrator's position in the submit cycle.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseAwaiting   Phase = "awaiting"
	PhaseDisplaying Phase = "displaying"
)

// RankedResult is one row of the ranking service's answer.
type RankedResult = ranking.RankedResume

// FormState is the user's input. Resumes always holds at least one slot.
type FormState struct {
	JobDescription string   `json:"jobDescription"`
	Resumes        []string `json:"resumes"`
}

// State is everything the form renders from.
type State struct {
	Form    FormState      `json:"form"`
	Phase   Phase          `json:"phase"`
	Error   string         `json:"error,omitempty"`
	Results []RankedResult `json:"results"`
	// Token identifies the most recently started submit.
	Token uint64 `json:"token"`
	// MaxResumes caps the resume slots; zero means unbounded.
	MaxResumes int `json:"maxResumes,omitempty"`
}

// NewState returns the mount-time state: empty job description, one empty resume.
func NewState(maxResumes int) State {
	if maxResumes < 0 {
		maxResumes = 0
	}
	return State{
		Form:       FormState{Resumes: []string{""}},
		Phase:      PhaseIdle,
		Results:    []RankedResult{},
		MaxResumes: maxResumes,
	}
}

// Clone returns a deep copy so callers can't alias the store's slices.
func (s State) Clone() State {
	out := s
	out.Form.Resumes = append([]string(nil), s.Form.Resumes...)
	out.Results = append([]RankedResult{}, s.Results...)
	return out
}

// Row is one line of the results table.
type Row struct {
	Rank            int     `json:"rank" yaml:"rank"`
	ResumeIndex     int     `json:"resumeIndex" yaml:"resume_index"`
	SimilarityScore float64 `json:"similarityScore" yaml:"similarity_score"`
	ResumeText      string  `json:"resumeText" yaml:"resume_text"`
}

// Rows builds the results table. Resume text is read from the current form,
// so edits made after a submit show up in the table.
func (s State) Rows() []Row {
	rows := make([]Row, 0, len(s.Results))
	for i, res := range s.Results {
		text := ""
		if res.ResumeIndex >= 0 && res.ResumeIndex < len(s.Form.Resumes) {
			text = s.Form.Resumes[res.ResumeIndex]
		}
		rows = append(rows, Row{
			Rank:            i + 1,
			ResumeIndex:     res.ResumeIndex,
			SimilarityScore: res.SimilarityScore,
			ResumeText:      text,
		})
	}
	return rows
}
