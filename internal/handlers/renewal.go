// internal/handlers/renewal.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cantonapps/licensing-backend/internal/models"
	"github.com/cantonapps/licensing-backend/internal/services"
	"github.com/cantonapps/licensing-backend/internal/utils"
)

type RenewalHandler struct {
	renewals *services.LicenseRenewalService
	workflow *services.WorkflowService
}

func NewRenewalHandler(renewals *services.LicenseRenewalService, workflow *services.WorkflowService) *RenewalHandler {
	return &RenewalHandler{
		renewals: renewals,
		workflow: workflow,
	}
}

// GET /license-renewal-requests
func (h *RenewalHandler) List(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	requests := h.renewals.List()
	visible := make([]models.LicenseRenewalRequest, 0, len(requests))
	for _, req := range requests {
		if req.User == party || req.Provider == party {
			visible = append(visible, req)
		}
	}

	utils.SuccessResponse(c, visible)
}

// POST /license-renewal-requests/:contractId/complete
func (h *RenewalHandler) Complete(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	newLicenseID, err := h.workflow.CompleteLicenseRenewal(c.Request.Context(), party, c.Param("contractId"))
	if err != nil {
		utils.WorkflowErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"licenseId": newLicenseID})
}
