package screener

// StateResponse is the JSON view of a session's form.
type StateResponse struct {
	JobDescription string         `json:"jobDescription"`
	Resumes        []string       `json:"resumes"`
	Phase          Phase          `json:"phase"`
	Error          string         `json:"error,omitempty"`
	RankedResumes  []RankedResult `json:"rankedResumes"`
	Rows           []Row          `json:"rows"`
	SubmitToken    uint64         `json:"submitToken"`
	MaxResumes     int            `json:"maxResumes,omitempty"`
}

func toResponse(s State) StateResponse {
	return StateResponse{
		JobDescription: s.Form.JobDescription,
		Resumes:        s.Form.Resumes,
		Phase:          s.Phase,
		Error:          s.Error,
		RankedResumes:  s.Results,
		Rows:           s.Rows(),
		SubmitToken:    s.Token,
		MaxResumes:     s.MaxResumes,
	}
}

type textRequest struct {
	Text *string `json:"text" binding:"required"`
}
