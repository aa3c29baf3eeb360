package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// CoachHandler serves a trainer's consent-gated access to one client's data.
// Every route sits under /coach/clients/:clientId.
type CoachHandler struct {
	coachService   service.CoachService
	consentService service.ConsentService
}

func NewCoachHandler(coachService service.CoachService, consentService service.ConsentService) *CoachHandler {
	return &CoachHandler{coachService: coachService, consentService: consentService}
}

// --- DTOs ---

type CommentRequest struct {
	Body string `json:"body"`
}

type PlannedSessionRequest struct {
	Title       string                      `json:"title"`
	Description string                      `json:"description"`
	ScheduledAt *time.Time                  `json:"scheduledAt"`
	Items       []domain.PlannedItem        `json:"items"`
	Status      domain.PlannedSessionStatus `json:"status"`
	Note        string                      `json:"note"`
}

type PlannedSessionPatchRequest struct {
	Title       *string                      `json:"title"`
	Description *string                      `json:"description"`
	ScheduledAt OptionalTime                 `json:"scheduledAt"`
	Items       *[]domain.PlannedItem        `json:"items"`
	Status      *domain.PlannedSessionStatus `json:"status"`
	Note        string                       `json:"note"`
}

type ProposalRequest struct {
	Name  string              `json:"name"`
	Notes string              `json:"notes"`
	Days  []domain.RoutineDay `json:"days"`
}

// --- Grants ---

// ListMyGrants godoc
// @Summary List the clients whose consent the caller currently holds
// @Tags Coach
// @Security BearerAuth
// @Success 200 {array} domain.Consent
// @Router /coach/consents [get]
func (h *CoachHandler) ListMyGrants(c *gin.Context) {
	consents, err := h.consentService.ListActiveForTrainer(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, consents)
}

// --- Sessions ---

// ListSessions godoc
// @Summary List a client's logged sessions
// @Description Requires an effective consent with the sessions:read scope.
// @Tags Coach
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Success 200 {array} domain.WorkoutSession
// @Failure 403 {object} ErrorResponse "access denied"
// @Router /coach/clients/{clientId}/sessions [get]
func (h *CoachHandler) ListSessions(c *gin.Context) {
	sessions, err := h.coachService.ListSessions(c.Request.Context(), identityFrom(c), c.Param("clientId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (h *CoachHandler) GetSession(c *gin.Context) {
	detail, err := h.coachService.GetSession(c.Request.Context(), identityFrom(c), c.Param("clientId"), c.Param("sessionId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (h *CoachHandler) ListComments(c *gin.Context) {
	comments, err := h.coachService.ListComments(c.Request.Context(), identityFrom(c), c.Param("clientId"), c.Param("sessionId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

func (h *CoachHandler) CommentOnSession(c *gin.Context) {
	var req CommentRequest
	if !bindJSON(c, &req) {
		return
	}
	comment, err := h.coachService.CommentOnSession(c.Request.Context(), identityFrom(c), c.Param("clientId"), c.Param("sessionId"), req.Body)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// SessionMediaURL returns a short-lived download URL for a client's upload.
func (h *CoachHandler) SessionMediaURL(c *gin.Context) {
	url, err := h.coachService.SessionMediaURL(c.Request.Context(), identityFrom(c),
		c.Param("clientId"), c.Param("sessionId"), c.Param("mediaId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, url)
}

// --- Planned sessions ---

func (h *CoachHandler) ListPlannedSessions(c *gin.Context) {
	plans, err := h.coachService.ListPlannedSessions(c.Request.Context(), identityFrom(c), c.Param("clientId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plans)
}

// CreatePlannedSession godoc
// @Summary Plan a session for a client
// @Description Requires the sessions:write scope. New plans start at version 1.
// @Tags Coach
// @Security BearerAuth
// @Param clientId path string true "Client ID"
// @Param plan body PlannedSessionRequest true "Planned session"
// @Success 201 {object} domain.PlannedSession
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 403 {object} ErrorResponse "access denied"
// @Router /coach/clients/{clientId}/planned-sessions [post]
func (h *CoachHandler) CreatePlannedSession(c *gin.Context) {
	var req PlannedSessionRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.coachService.CreatePlannedSession(c.Request.Context(), identityFrom(c), c.Param("clientId"), service.PlannedSessionInput{
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt,
		Items:       req.Items,
		Status:      req.Status,
		Note:        req.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plan)
}

func (h *CoachHandler) UpdatePlannedSession(c *gin.Context) {
	var req PlannedSessionPatchRequest
	if !bindJSON(c, &req) {
		return
	}
	plan, err := h.coachService.UpdatePlannedSession(c.Request.Context(), identityFrom(c), c.Param("clientId"), c.Param("planId"), service.PlannedSessionPatch{
		Title:       req.Title,
		Description: req.Description,
		ScheduledAt: req.ScheduledAt.toService(),
		Items:       req.Items,
		Status:      req.Status,
		Note:        req.Note,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, plan)
}

func (h *CoachHandler) DeletePlannedSession(c *gin.Context) {
	if err := h.coachService.DeletePlannedSession(c.Request.Context(), identityFrom(c), c.Param("clientId"), c.Param("planId")); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- Progress ---

func (h *CoachHandler) Progress(c *gin.Context) {
	summary, err := h.coachService.Progress(c.Request.Context(), identityFrom(c), c.Param("clientId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *CoachHandler) PersonalRecords(c *gin.Context) {
	records, err := h.coachService.PersonalRecords(c.Request.Context(), identityFrom(c), c.Param("clientId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// --- Routines ---

func (h *CoachHandler) ListRoutines(c *gin.Context) {
	routines, err := h.coachService.ListRoutines(c.Request.Context(), identityFrom(c), c.Param("clientId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, routines)
}

func (h *CoachHandler) ListProposals(c *gin.Context) {
	proposals, err := h.coachService.ListProposals(c.Request.Context(), identityFrom(c), c.Param("clientId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, proposals)
}

func (h *CoachHandler) ProposeRoutine(c *gin.Context) {
	var req ProposalRequest
	if !bindJSON(c, &req) {
		return
	}
	proposal, err := h.coachService.ProposeRoutine(c.Request.Context(), identityFrom(c), c.Param("clientId"), service.ProposalInput{
		Name:  req.Name,
		Notes: req.Notes,
		Days:  req.Days,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, proposal)
}

// --- Catalog & billing ---

func (h *CoachHandler) ExerciseCatalog(c *gin.Context) {
	exercises, err := h.coachService.ExerciseCatalog(c.Request.Context(), identityFrom(c), c.Param("clientId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, exercises)
}

func (h *CoachHandler) Membership(c *gin.Context) {
	membership, err := h.coachService.Membership(c.Request.Context(), identityFrom(c), c.Param("clientId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, membership)
}
