package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"carelink/internal/models/db_models"
	"carelink/pkg/utils"
)

// currentUserID pulls the authenticated account id set by the JWT middleware.
// Aborts with 401 when it is missing or malformed.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw := c.GetString("user_id")
	if raw == "" {
		utils.RespondError(c, http.StatusUnauthorized, "Missing authentication")
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil {
		utils.RespondError(c, http.StatusUnauthorized, "Invalid authentication")
		return uuid.Nil, false
	}
	return id, true
}

func currentRole(c *gin.Context) db_models.Role {
	return db_models.Role(c.GetString("Role"))
}
