package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourname/focustracker/internal/service"
)

func RegisterUser(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}

		if err := service.ValidateRegisterUserRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed: "+err.Error())
			return
		}

		userID, err := service.RegisterUser(c.Request.Context(), app.Store(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to register user")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"user_id": userID})
	}
}
