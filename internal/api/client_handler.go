package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ClientHandler serves a member's own data under /me. The client ID always
// comes from the token, never from the path.
type ClientHandler struct {
	clientService service.ClientService
}

func NewClientHandler(clientService service.ClientService) *ClientHandler {
	return &ClientHandler{clientService: clientService}
}

// --- DTOs ---

type LogSessionRequest struct {
	Title           string                `json:"title"`
	PerformedAt     time.Time             `json:"performedAt"`
	DurationMinutes int                   `json:"durationMinutes"`
	Entries         []domain.SessionEntry `json:"entries"`
	Notes           string                `json:"notes"`
}

type RequestUploadURLRequest struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
}

type ConfirmUploadRequest struct {
	ObjectKey   string `json:"objectKey"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType"`
}

// self returns the caller's identity and client ID.
func self(c *gin.Context) (*domain.Identity, string) {
	identity := identityFrom(c)
	if identity == nil {
		return nil, ""
	}
	return identity, identity.UserID
}

// --- Sessions ---

// LogSession godoc
// @Summary Log a performed workout
// @Tags Client
// @Security BearerAuth
// @Param session body LogSessionRequest true "Workout"
// @Success 201 {object} domain.WorkoutSession
// @Failure 400 {object} ErrorResponse "Validation error"
// @Router /me/sessions [post]
func (h *ClientHandler) LogSession(c *gin.Context) {
	var req LogSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, clientID := self(c)
	session, err := h.clientService.LogSession(c.Request.Context(), identity, clientID, service.LogSessionInput{
		Title:           req.Title,
		PerformedAt:     req.PerformedAt,
		DurationMinutes: req.DurationMinutes,
		Entries:         req.Entries,
		Notes:           req.Notes,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, session)
}

func (h *ClientHandler) ListMySessions(c *gin.Context) {
	identity, clientID := self(c)
	sessions, err := h.clientService.ListMySessions(c.Request.Context(), identity, clientID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *ClientHandler) GetMySession(c *gin.Context) {
	identity, clientID := self(c)
	detail, err := h.clientService.GetMySession(c.Request.Context(), identity, clientID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *ClientHandler) CommentOnMySession(c *gin.Context) {
	var req CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, clientID := self(c)
	comment, err := h.clientService.CommentOnMySession(c.Request.Context(), identity, clientID, c.Param("id"), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// --- Media ---

// RequestUploadURL godoc
// @Summary Request a pre-signed URL to upload media for a session
// @Description Client requests a temporary URL to upload a form-check video or photo directly to S3.
// @Tags Client
// @Security BearerAuth
// @Param id path string true "Session ID"
// @Param uploadRequest body RequestUploadURLRequest true "File name and content type"
// @Success 200 {object} service.UploadURLResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Failure 502 {object} ErrorResponse "Storage unavailable"
// @Router /me/sessions/{id}/media/upload-url [post]
func (h *ClientHandler) RequestUploadURL(c *gin.Context) {
	var req RequestUploadURLRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, clientID := self(c)
	resp, err := h.clientService.RequestMediaUpload(c.Request.Context(), identity, clientID, c.Param("id"), req.FileName, req.ContentType)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ConfirmUpload records an object uploaded with a URL from RequestUploadURL.
func (h *ClientHandler) ConfirmUpload(c *gin.Context) {
	var req ConfirmUploadRequest
	if !bindJSON(c, &req) {
		return
	}
	identity, clientID := self(c)
	media, err := h.clientService.ConfirmMediaUpload(c.Request.Context(), identity, clientID, c.Param("id"), service.ConfirmUploadInput{
		ObjectKey:   req.ObjectKey,
		FileName:    req.FileName,
		ContentType: req.ContentType,
		Size:        req.FileSize,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, media)
}

func (h *ClientHandler) MediaURL(c *gin.Context) {
	identity, clientID := self(c)
	url, err := h.clientService.MyMediaURL(c.Request.Context(), identity, clientID, c.Param("id"), c.Param("mediaId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, url)
}

// --- Planned sessions ---

func (h *ClientHandler) ListMyPlannedSessions(c *gin.Context) {
	identity, clientID := self(c)
	plans, err := h.clientService.ListMyPlannedSessions(c.Request.Context(), identity, clientID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

func (h *ClientHandler) AcceptPlannedSession(c *gin.Context) { h.respondToPlan(c, true) }

func (h *ClientHandler) RejectPlannedSession(c *gin.Context) { h.respondToPlan(c, false) }

func (h *ClientHandler) respondToPlan(c *gin.Context, accept bool) {
	identity, clientID := self(c)
	plan, err := h.clientService.RespondToPlannedSession(c.Request.Context(), identity, clientID, c.Param("id"), accept)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

// --- Routines ---

func (h *ClientHandler) ListMyProposals(c *gin.Context) {
	identity, clientID := self(c)
	proposals, err := h.clientService.ListMyProposals(c.Request.Context(), identity, clientID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

// AcceptProposal adopts a pending proposal and returns the new routine.
func (h *ClientHandler) AcceptProposal(c *gin.Context) {
	identity, clientID := self(c)
	routine, err := h.clientService.AcceptProposal(c.Request.Context(), identity, clientID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, routine)
}

func (h *ClientHandler) RejectProposal(c *gin.Context) {
	identity, clientID := self(c)
	proposal, err := h.clientService.RejectProposal(c.Request.Context(), identity, clientID, c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposal)
}

func (h *ClientHandler) ListMyRoutines(c *gin.Context) {
	identity, clientID := self(c)
	routines, err := h.clientService.ListMyRoutines(c.Request.Context(), identity, clientID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, routines)
}
