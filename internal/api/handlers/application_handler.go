package handlers

import (
	"bytes"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hiredesk/hiredesk/internal/models"
	"github.com/hiredesk/hiredesk/internal/services"
	"github.com/hiredesk/hiredesk/internal/utils"
)

const maxResumeSize = 10 << 20 // 10MB

type ApplicationHandler struct {
	apps    services.ApplicationService
	resumes services.ResumeService
}

func NewApplicationHandler(apps services.ApplicationService, resumes services.ResumeService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, resumes: resumes}
}

// Submit takes one multipart form: contact fields, the job snapshot
// the client applied against, and the resume PDF. The resume is stored
// first; the application then references it by id.
func (h *ApplicationHandler) Submit(c *gin.Context) {
	const op = "ApplicationHandler.Submit"

	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	contact := models.Contact{
		FullName: c.PostForm("full_name"),
		Phone:    c.PostForm("phone"),
		Email:    c.PostForm("email"),
	}
	job := models.JobSnapshot{
		Title:       c.PostForm("job_title"),
		Company:     c.PostForm("company"),
		Location:    c.PostForm("location"),
		Description: c.PostForm("description"),
	}

	fh, err := c.FormFile("resume")
	if err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "missing multipart field 'resume'", err))
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext != ".pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "only .pdf is allowed", nil))
		return
	}
	if fh.Size <= 0 || fh.Size > maxResumeSize {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "file too large (max 10MB)", nil))
		return
	}

	file, err := fh.Open()
	if err != nil {
		writeError(c, utils.E(utils.CodeInternal, op, "failed to open upload", err))
		return
	}
	defer file.Close()

	// sniff content type (read 512 bytes)
	head := make([]byte, 512)
	n, _ := file.Read(head)
	head = head[:n]
	if ct := http.DetectContentType(head); ct != "application/pdf" {
		writeError(c, utils.E(utils.CodeInvalidArgument, op, "invalid content type (must be pdf)", nil))
		return
	}

	// re-compose stream: head + remaining file
	r := &readJoin{a: bytes.NewReader(head), b: file}

	resume, err := h.resumes.Upload(c.Request.Context(), userID, fh.Filename, int(fh.Size), "application/pdf", r)
	if err != nil {
		writeError(c, err)
		return
	}

	app, err := h.apps.Submit(c.Request.Context(), userID, callerRole(c), contact, job, resume.ID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, app)
}

func (h *ApplicationHandler) ListOwn(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	apps, err := h.apps.ListOwn(c.Request.Context(), userID, callerRole(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

func (h *ApplicationHandler) ListAll(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}

	apps, err := h.apps.ListAll(c.Request.Context(), callerRole(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

type DecideRequest struct {
	Status models.ApplicationStatus `json:"status" binding:"required"`
}

func (h *ApplicationHandler) Decide(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, utils.E(utils.CodeInvalidArgument, "ApplicationHandler.Decide", "invalid request body", err))
		return
	}

	app, err := h.apps.Decide(c.Request.Context(), userID, callerRole(c), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, app)
}

// ResumeURL hands the reviewing admin a short-lived download link for
// the resume attached to an application.
func (h *ApplicationHandler) ResumeURL(c *gin.Context) {
	if _, ok := requireUserID(c); !ok {
		return
	}
	role := callerRole(c)

	app, err := h.apps.GetForReview(c.Request.Context(), role, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}

	url, err := h.resumes.SignedURL(c.Request.Context(), role, app.ResumeFileID)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

type readJoin struct {
	a *bytes.Reader
	b io.Reader
}

func (r *readJoin) Read(p []byte) (int, error) {
	if r.a != nil && r.a.Len() > 0 {
		return r.a.Read(p)
	}
	return r.b.Read(p)
}
