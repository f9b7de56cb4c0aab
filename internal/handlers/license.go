// internal/handlers/license.go
package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cantonapps/licensing-backend/internal/models"
	"github.com/cantonapps/licensing-backend/internal/services"
	"github.com/cantonapps/licensing-backend/internal/utils"
)

type LicenseHandler struct {
	licenses *services.LicenseService
	workflow *services.WorkflowService
}

func NewLicenseHandler(licenses *services.LicenseService, workflow *services.WorkflowService) *LicenseHandler {
	return &LicenseHandler{
		licenses: licenses,
		workflow: workflow,
	}
}

type renewLicenseBody struct {
	Description string `json:"description" binding:"required"`
}

type expireLicenseBody struct {
	Description string `json:"description" binding:"required"`
}

// licenseView adds the derived expiry flag callers render next to the grant.
type licenseView struct {
	models.License
	IsExpired bool `json:"isExpired"`
}

// GET /licenses
func (h *LicenseHandler) List(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	now := time.Now()
	licenses := h.licenses.List()
	visible := make([]licenseView, 0, len(licenses))
	for _, license := range licenses {
		if license.User == party || license.Provider == party {
			visible = append(visible, licenseView{License: license, IsExpired: license.IsExpired(now)})
		}
	}

	utils.SuccessResponse(c, visible)
}

// POST /licenses/:contractId/renew
//
// Fee, extension and payment window are provider policy, not caller input;
// only the description comes from the request.
func (h *LicenseHandler) Renew(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var body renewLicenseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.workflow.InitiateLicenseRenewal(c.Request.Context(), party, c.Param("contractId"), body.Description)
	if err != nil {
		utils.WorkflowErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"renewalRequestId": result.RenewalRequestID,
		"paymentRequestId": result.PaymentRequestID,
	})
}

// POST /licenses/:contractId/expire
func (h *LicenseHandler) Expire(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var body expireLicenseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.workflow.InitiateLicenseExpiration(c.Request.Context(), party, c.Param("contractId"), body.Description); err != nil {
		utils.WorkflowErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "License expired successfully"})
}
