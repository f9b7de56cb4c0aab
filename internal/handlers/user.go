// internal/handlers/user.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/cantonapps/licensing-backend/internal/utils"
)

type UserHandler struct{}

func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// GET /user
func (h *UserHandler) GetAuthenticatedUser(c *gin.Context) {
	party, exists := utils.GetPartyFromContext(c)
	if !exists {
		utils.UnauthorizedResponse(c, "")
		return
	}

	roles, _ := c.Get("roles")

	utils.SuccessResponse(c, gin.H{
		"party": party,
		"roles": roles,
	})
}
