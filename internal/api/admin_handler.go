package api

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService service.AdminService
}

func NewAdminHandler(adminService service.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type MembershipRequest struct {
	Plan            string                  `json:"plan"`
	Status          domain.MembershipStatus `json:"status"`
	MonthlyFeeCents int64                   `json:"monthlyFeeCents"`
	RenewsAt        *time.Time              `json:"renewsAt"`
}

func (h *AdminHandler) ListMembers(c *gin.Context) {
	members, err := h.adminService.ListMembers(c.Request.Context(), identityFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

func (h *AdminHandler) SetMembership(c *gin.Context) {
	var req MembershipRequest
	if !bindJSON(c, &req) {
		return
	}
	membership, err := h.adminService.SetMembership(c.Request.Context(), identityFrom(c), c.Param("clientId"), service.MembershipInput{
		Plan:            req.Plan,
		Status:          req.Status,
		MonthlyFeeCents: req.MonthlyFeeCents,
		RenewsAt:        req.RenewsAt,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, membership)
}
