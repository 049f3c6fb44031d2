package screener

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/extract"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
	"resume-screener/internal/shared/telemetry"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded page templates for gin's HTML renderer.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}).ParseFS(templateFS, "templates/*.tmpl"))
}

var notices = map[string]string{
	"resume_limit":       "The maximum number of resumes has been reached.",
	"import_unsupported": "That file type can't be imported. Use PDF, DOCX, HTML or plain text.",
	"import_empty":       "No text was found in that file.",
	"import_failed":      "The file could not be imported.",
	"import_missing":     "Choose a file to import first.",
}

type pageData struct {
	JobDescription string
	Resumes        []string
	Error          string
	Notice         string
	Rows           []Row
	CanAddResume   bool
}

// RegisterPages attaches the HTML form routes. Every POST first applies the
// edits carried by the form, then performs its own action.
func (h *Handler) RegisterPages(r gin.IRoutes) {
	r.GET("/", h.page)
	r.POST("/", h.save)
	r.POST("/add", h.addPage)
	r.POST("/submit", h.submitPage)
	r.POST("/import/:index", h.importPage)
}

func (h *Handler) page(c *gin.Context) {
	form, err := h.Forms.Get(middleware.SessionIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "session_not_found", "session expired, reload to start over", nil)
		return
	}
	s := form.State()
	respond.HTML(c, http.StatusOK, "index.tmpl", pageData{
		JobDescription: s.Form.JobDescription,
		Resumes:        s.Form.Resumes,
		Error:          s.Error,
		Notice:         notices[c.Query("notice")],
		Rows:           s.Rows(),
		CanAddResume:   s.MaxResumes == 0 || len(s.Form.Resumes) < s.MaxResumes,
	})
}

// applyEdits copies the posted fields into the form. A nil result means the
// session is gone and the caller has already redirected.
func (h *Handler) applyEdits(c *gin.Context) *Orchestrator {
	form, err := h.Forms.Get(middleware.SessionIDFromContext(c))
	if err != nil {
		respond.SeeOther(c, "/")
		return nil
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, extract.MaxFileSize+(1<<20))

	form.UpdateJobDescription(c.PostForm("job_description"))
	for i, text := range c.PostFormArray("resumes") {
		if _, err := form.UpdateResumeText(i, text); err != nil {
			// The page was rendered before slots changed; keep what fits.
			break
		}
	}
	return form
}

func (h *Handler) save(c *gin.Context) {
	if form := h.applyEdits(c); form == nil {
		return
	}
	respond.SeeOther(c, "/")
}

func (h *Handler) addPage(c *gin.Context) {
	form := h.applyEdits(c)
	if form == nil {
		return
	}
	if _, err := form.AddResumeSlot(); errors.Is(err, ErrResumeLimit) {
		respond.SeeOther(c, "/?notice=resume_limit")
		return
	}
	respond.SeeOther(c, "/")
}

func (h *Handler) submitPage(c *gin.Context) {
	form := h.applyEdits(c)
	if form == nil {
		return
	}
	s, _ := form.Submit(submitContext(c))
	c.Set("submitToken", s.Token)
	c.Set("statusTransition", "awaiting->"+string(s.Phase))
	if len(s.Results) > 0 {
		respond.SeeOther(c, "/#results")
		return
	}
	respond.SeeOther(c, "/")
}

func (h *Handler) importPage(c *gin.Context) {
	form := h.applyEdits(c)
	if form == nil {
		return
	}
	if notice := h.importSlot(c, form, c.Param("index")); notice != "" {
		respond.SeeOther(c, "/?notice="+notice)
		return
	}
	respond.SeeOther(c, "/")
}

func (h *Handler) importSlot(c *gin.Context, form *Orchestrator, rawIndex string) string {
	index, err := strconv.Atoi(rawIndex)
	if err != nil {
		return "import_failed"
	}
	text, err := textFromUpload(c, "resume_file_"+strconv.Itoa(index))
	if err != nil {
		telemetry.Warn("import.failed", map[string]any{
			"session_id": middleware.SessionIDFromContext(c),
			"index":      index,
			"error":      err,
		})
		switch {
		case errors.Is(err, errNoUpload):
			return "import_missing"
		case errors.Is(err, extract.ErrUnsupported):
			return "import_unsupported"
		case errors.Is(err, extract.ErrEmpty):
			return "import_empty"
		default:
			return "import_failed"
		}
	}
	if _, err := form.UpdateResumeText(index, text); err != nil {
		return "import_failed"
	}
	return ""
}
