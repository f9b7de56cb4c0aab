// internal/handlers/app_install.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cantonapps/licensing-backend/internal/models"
	"github.com/cantonapps/licensing-backend/internal/services"
	"github.com/cantonapps/licensing-backend/internal/utils"
)

type AppInstallHandler struct {
	installs *services.AppInstallService
	workflow *services.WorkflowService
}

func NewAppInstallHandler(installs *services.AppInstallService, workflow *services.WorkflowService) *AppInstallHandler {
	return &AppInstallHandler{
		installs: installs,
		workflow: workflow,
	}
}

type createLicenseBody struct {
	Params struct {
		Meta models.Metadata `json:"meta"`
	} `json:"params"`
}

// GET /app-installs
func (h *AppInstallHandler) List(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	installs := h.installs.List()
	visible := make([]models.AppInstall, 0, len(installs))
	for _, install := range installs {
		// The coordinating authority sees every install it oversees
		if install.User == party || install.Provider == party || install.DSO == party {
			visible = append(visible, install)
		}
	}

	utils.SuccessResponse(c, visible)
}

// POST /app-installs/:contractId/cancel
func (h *AppInstallHandler) Cancel(c *gin.Context) {
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

	if err := h.installs.Cancel(c.Request.Context(), party, c.Param("contractId"), models.NewMetadata(body.Meta.Data)); err != nil {
		utils.WorkflowErrorResponse(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"message": "AppInstall cancelled"})
}

// POST /app-installs/:contractId/create-license
func (h *AppInstallHandler) CreateLicense(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var body createLicenseBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid request body", err.Error())
		return
	}

	result, err := h.workflow.CreateLicenseFromAppInstall(c.Request.Context(), party, c.Param("contractId"),
		models.NewMetadata(body.Params.Meta.Data))
	if err != nil {
		utils.WorkflowErrorResponse(c, err)
		return
	}

	utils.CreatedResponse(c, result)
}
