package screener

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"resume-screener/internal/extract"
	"resume-screener/internal/shared/server/middleware"
	"resume-screener/internal/shared/server/respond"
	"resume-screener/internal/shared/util"
)

// FormLookup finds the orchestrator bound to a session.
type FormLookup interface {
	Get(sessionID string) (*Orchestrator, error)
}

// Handler wires HTTP handlers to session orchestrators.
type Handler struct {
	Forms FormLookup
}

// NewHandler constructs a Handler.
func NewHandler(forms FormLookup) *Handler {
	return &Handler{Forms: forms}
}

// RegisterRoutes attaches the JSON API to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/screener")
	g.GET("/state", h.state)
	g.PUT("/job-description", h.editJobDescription)
	g.POST("/resumes", h.addResume)
	g.PUT("/resumes/:index", h.editResume)
	g.POST("/resumes/:index/import", h.importResume)
	g.POST("/submit", h.submit)
}

func (h *Handler) form(c *gin.Context) (*Orchestrator, bool) {
	form, err := h.Forms.Get(middleware.SessionIDFromContext(c))
	if err != nil {
		respond.Error(c, http.StatusNotFound, "session_not_found", "session expired, reload to start over", nil)
		return nil, false
	}
	return form, true
}

func (h *Handler) state(c *gin.Context) {
	form, ok := h.form(c)
	if !ok {
		return
	}
	respond.OK(c, toResponse(form.State()))
}

func (h *Handler) editJobDescription(c *gin.Context) {
	form, ok := h.form(c)
	if !ok {
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}
	respond.OK(c, toResponse(form.UpdateJobDescription(*req.Text)))
}

func (h *Handler) addResume(c *gin.Context) {
	form, ok := h.form(c)
	if !ok {
		return
	}
	s, err := form.AddResumeSlot()
	if err != nil {
		writeFormError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, toResponse(s))
}

func (h *Handler) editResume(c *gin.Context) {
	form, ok := h.form(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "text is required", nil)
		return
	}
	s, err := form.UpdateResumeText(index, *req.Text)
	if err != nil {
		writeFormError(c, err)
		return
	}
	respond.OK(c, toResponse(s))
}

func (h *Handler) importResume(c *gin.Context) {
	form, ok := h.form(c)
	if !ok {
		return
	}
	index, ok := indexParam(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, extract.MaxFileSize+(1<<20))
	text, err := textFromUpload(c, "file")
	if err != nil {
		writeImportError(c, err)
		return
	}
	s, err := form.UpdateResumeText(index, text)
	if err != nil {
		writeFormError(c, err)
		return
	}
	respond.OK(c, toResponse(s))
}

func (h *Handler) submit(c *gin.Context) {
	form, ok := h.form(c)
	if !ok {
		return
	}
	s, err := form.Submit(submitContext(c))
	c.Set("submitToken", s.Token)
	c.Set("statusTransition", "awaiting->"+string(s.Phase))
	switch {
	case err == nil:
		respond.OK(c, toResponse(s))
	case errors.Is(err, ErrValidation):
		respond.Error(c, http.StatusUnprocessableEntity, "validation_error", s.Error, toResponse(s))
	case errors.Is(err, ErrStale):
		respond.Error(c, http.StatusConflict, "superseded", "a newer submit replaced this one", toResponse(s))
	default:
		respond.Error(c, http.StatusBadGateway, "ranking_failed", MsgSubmitFailed, toResponse(s))
	}
}

// submitContext keeps request values but drops cancellation: an in-flight
// ranking call completes even if the client goes away, so the outcome is
// there on the next render.
func submitContext(c *gin.Context) context.Context {
	return context.WithoutCancel(c.Request.Context())
}

func indexParam(c *gin.Context) (int, bool) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "index must be an integer", nil)
		return 0, false
	}
	return index, true
}

func textFromUpload(c *gin.Context, field string) (string, error) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		return "", fmt.Errorf("%w: file is required", errNoUpload)
	}
	if fileHeader.Size > extract.MaxFileSize {
		return "", fmt.Errorf("%w: file too large", errNoUpload)
	}
	name, err := util.CleanFileName(fileHeader.Filename)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errNoUpload, err)
	}
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("%w: unable to read file", errNoUpload)
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, extract.MaxFileSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: unable to read file", errNoUpload)
	}
	return extract.TextFromBytes(c.Request.Context(), data, fileHeader.Header.Get("Content-Type"), name)
}

var errNoUpload = errors.New("upload rejected")

func writeImportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errNoUpload):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.Is(err, extract.ErrUnsupported):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_file", "file type is not supported", nil)
	case errors.Is(err, extract.ErrEmpty):
		respond.Error(c, http.StatusUnprocessableEntity, "empty_file", "no text found in file", nil)
	default:
		respond.Error(c, http.StatusUnprocessableEntity, "extract_failed", "unable to read text from file", nil)
	}
}

func writeFormError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrIndexOutOfRange):
		respond.Error(c, http.StatusNotFound, "not_found", "resume slot not found", nil)
	case errors.Is(err, ErrResumeLimit):
		respond.Error(c, http.StatusConflict, "resume_limit", "resume limit reached", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update form", nil)
	}
}
