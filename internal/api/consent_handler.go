package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// ConsentHandler serves a client's management of their consent grants.
type ConsentHandler struct {
	consentService service.ConsentService
	clientService  service.ClientService
}

func NewConsentHandler(consentService service.ConsentService, clientService service.ClientService) *ConsentHandler {
	return &ConsentHandler{consentService: consentService, clientService: clientService}
}

type CreateConsentRequest struct {
	TrainerID string         `json:"trainerId"`
	Scopes    []domain.Scope `json:"scopes"`
	ExpiresAt *time.Time     `json:"expiresAt"`
}

// UpdateConsentRequest is a partial update. An explicit null expiresAt
// removes the expiry; an absent one leaves it unchanged.
type UpdateConsentRequest struct {
	Scopes    *[]domain.Scope `json:"scopes"`
	ExpiresAt OptionalTime    `json:"expiresAt"`
}

// ListConsents godoc
// @Summary List the caller's consents
// @Tags Consents
// @Security BearerAuth
// @Param includeHidden query bool false "Include hidden consents"
// @Success 200 {array} service.ConsentView
// @Router /consents [get]
func (h *ConsentHandler) ListConsents(c *gin.Context) {
	includeHidden, _ := strconv.ParseBool(c.Query("includeHidden"))
	consents, err := h.consentService.ListForClient(c.Request.Context(), identityFrom(c), includeHidden)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, consents)
}

// CreateConsent godoc
// @Summary Grant a trainer access to the caller's data
// @Tags Consents
// @Security BearerAuth
// @Param consent body CreateConsentRequest true "Trainer, scopes and optional expiry"
// @Success 201 {object} domain.Consent
// @Failure 400 {object} ErrorResponse "Validation error"
// @Failure 409 {object} ErrorResponse "An active consent already exists"
// @Router /consents [post]
func (h *ConsentHandler) CreateConsent(c *gin.Context) {
	var req CreateConsentRequest
	if !bindJSON(c, &req) {
		return
	}
	consent, err := h.consentService.Create(c.Request.Context(), identityFrom(c), service.CreateConsentInput{
		TrainerID: req.TrainerID,
		Scopes:    req.Scopes,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, consent)
}

func (h *ConsentHandler) UpdateConsent(c *gin.Context) {
	var req UpdateConsentRequest
	if !bindJSON(c, &req) {
		return
	}
	consent, err := h.consentService.Update(c.Request.Context(), identityFrom(c), c.Param("id"), service.UpdateConsentInput{
		Scopes:    req.Scopes,
		ExpiresAt: req.ExpiresAt.toService(),
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, consent)
}

func (h *ConsentHandler) RevokeConsent(c *gin.Context) {
	h.transition(c, h.consentService.Revoke)
}

func (h *ConsentHandler) HideConsent(c *gin.Context) {
	h.transition(c, h.consentService.Hide)
}

func (h *ConsentHandler) RestoreConsent(c *gin.Context) {
	h.transition(c, h.consentService.Restore)
}

type consentTransition func(ctx context.Context, actor *domain.Identity, id string) (*domain.Consent, error)

func (h *ConsentHandler) transition(c *gin.Context, fn consentTransition) {
	consent, err := fn(c.Request.Context(), identityFrom(c), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, consent)
}

// ListTrainers returns the trainer directory a member grants consent from.
func (h *ConsentHandler) ListTrainers(c *gin.Context) {
	trainers, err := h.clientService.ListTrainers(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, trainers)
}
