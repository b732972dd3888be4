package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hxuan190/liquidity-router/internal/common"
)

type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Code    string      `json:"code,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func Error(c *gin.Context, err *common.HttpError) {
	c.AbortWithStatusJSON(err.StatusCode, Response{
		Success: false,
		Error:   err.Message,
		Code:    err.Code,
	})
}

func BadRequest(c *gin.Context, msg string) {
	Error(c, common.HTTPErrorBadRequest(msg))
}

func NotFound(c *gin.Context, msg string) {
	Error(c, common.HTTPErrorNotFound(msg))
}

func InternalError(c *gin.Context, msg string) {
	Error(c, common.HTTPErrorInternalError(msg))
}
