package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourname/focustracker/internal"
	"github.com/yourname/focustracker/internal/service"
)

func StartSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.StartSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}

		if err := service.ValidateStartSessionRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed: "+err.Error())
			return
		}

		session, err := service.StartSession(c.Request.Context(), app.Store(), &req)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to start session")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"session_id": session.ID, "status": session.Status})
	}
}

func RecordActivity(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.ActivityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}

		if err := service.ValidateActivityRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed: "+err.Error())
			return
		}

		allowed, err := app.Limiter().Allow(c.Request.Context(), req.SessionID)
		if err != nil {
			app.Logger().Warnf("rate limiter unavailable, allowing request: %v", err)
		}
		if !allowed {
			HandleError(c, app.Logger(), errors.New("rate limit exceeded"), http.StatusTooManyRequests, "Too many activity reports for this session")
			return
		}

		decision, reason, err := service.RecordActivity(c.Request.Context(), app.Store(), app.Store(), &req)
		if err != nil {
			sessionError(c, app, err, "Failed to record activity")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"decision": decision, "reason": reason})
	}
}

func EndSession(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.EndSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Invalid JSON: "+err.Error())
			return
		}

		if err := service.ValidateEndSessionRequest(&req); err != nil {
			HandleError(c, app.Logger(), err, http.StatusBadRequest, "Validation failed: "+err.Error())
			return
		}

		if err := service.EndSession(c.Request.Context(), app.Store(), req.SessionID); err != nil {
			sessionError(c, app, err, "Failed to end session")
			return
		}

		HandleSuccess(c, app.Logger(), gin.H{"status": internal.StatusEnded})
	}
}

func SessionSummary(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.Param("user_id")

		summary, err := service.Summarize(c.Request.Context(), app.Store(), userID)
		if err != nil {
			HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Failed to summarize sessions")
			return
		}

		HandleSuccess(c, app.Logger(), summary)
	}
}

// sessionError maps service failures onto the status codes the API promises.
func sessionError(c *gin.Context, app App, err error, fallback string) {
	switch {
	case errors.Is(err, internal.ErrNotFound):
		HandleError(c, app.Logger(), err, http.StatusNotFound, "Session not found")
	case errors.Is(err, internal.ErrStoreUnavailable):
		HandleError(c, app.Logger(), err, http.StatusInternalServerError, "Store unavailable")
	default:
		HandleError(c, app.Logger(), err, http.StatusInternalServerError, fallback)
	}
}
