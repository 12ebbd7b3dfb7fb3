package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourname/focustracker/internal"
	"github.com/yourname/focustracker/internal/response"
)

func HandleError(c *gin.Context, logger internal.Logger, err error, status int, msg string) {
	requestID := c.GetString("request_id")
	logger.Errorf("[request_id=%s] %s: %v", requestID, msg, err)
	var resp *internal.AppError
	switch status {
	case http.StatusBadRequest:
		resp = response.BadRequest(msg)
	case http.StatusNotFound:
		resp = response.NotFound(msg)
	case http.StatusTooManyRequests:
		resp = response.TooManyRequests(msg)
	case http.StatusInternalServerError:
		resp = response.InternalError(msg)
	default:
		resp = response.Error(status, msg)
	}
	c.JSON(status, resp)
}

func HandleSuccess(c *gin.Context, logger internal.Logger, body interface{}) {
	requestID := c.GetString("request_id")
	logger.Infof("[request_id=%s] Success", requestID)
	c.JSON(http.StatusOK, body)
}
