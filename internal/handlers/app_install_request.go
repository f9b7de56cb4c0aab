// internal/handlers/app_install_request.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cantonapps/licensing-backend/internal/models"
	"github.com/cantonapps/licensing-backend/internal/services"
	"github.com/cantonapps/licensing-backend/internal/utils"
)

type AppInstallRequestHandler struct {
	requests *services.AppInstallRequestService
	installs *services.AppInstallService
}

func NewAppInstallRequestHandler(requests *services.AppInstallRequestService, installs *services.AppInstallService) *AppInstallRequestHandler {
	return &AppInstallRequestHandler{
		requests: requests,
		installs: installs,
	}
}

type acceptAppInstallRequestBody struct {
	InstallMeta models.Metadata `json:"installMeta"`
	Meta        models.Metadata `json:"meta"`
}

type metaBody struct {
	Meta models.Metadata `json:"meta"`
}

// GET /app-install-requests
func (h *AppInstallRequestHandler) List(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	requests := h.requests.List()
	visible := make([]models.AppInstallRequest, 0, len(requests))
	for _, req := range requests {
		if req.User == party || req.Provider == party {
			visible = append(visible, req)
		}
	}

	utils.SuccessResponse(c, visible)
}

// POST /app-install-requests/:contractId/accept
func (h *AppInstallRequestHandler) Accept(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var body acceptAppInstallRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	installID, err := h.requests.Accept(c.Request.Context(), party, c.Param("contractId"),
		models.NewMetadata(body.InstallMeta.Data), models.NewMetadata(body.Meta.Data))
	if err != nil {
		utils.WorkflowErrorResponse(c, err)
		return
	}

	// Pull installs forward so the accepted install is immediately listable
	if refreshErr := h.installs.Refresh(c.Request.Context()); refreshErr == nil {
		for _, install := range h.installs.List() {
			if install.ContractID == installID {
				utils.CreatedResponse(c, install)
				return
			}
		}
	}

	utils.CreatedResponse(c, gin.H{"installId": installID})
}

// POST /app-install-requests/:contractId/reject
func (h *AppInstallRequestHandler) Reject(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var body metaBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.requests.Reject(c.Request.Context(), party, c.Param("contractId"), models.NewMetadata(body.Meta.Data)); err != nil {
		utils.WorkflowErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "AppInstallRequest rejected"})
}

// POST /app-install-requests/:contractId/cancel
func (h *AppInstallRequestHandler) Cancel(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var body metaBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	if err := h.requests.Cancel(c.Request.Context(), party, c.Param("contractId"), models.NewMetadata(body.Meta.Data)); err != nil {
		utils.WorkflowErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "AppInstallRequest cancelled"})
}
