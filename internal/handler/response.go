package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/myevertour/guide-server-go/internal/httperror"
	"github.com/myevertour/guide-server-go/internal/middleware"
)

// writeError 는 통일된 에러 응답을 작성한다.
func writeError(c *gin.Context, err error) {
	if c == nil {
		return
	}
	status, payload := httperror.Response(err, middleware.GetRequestID(c))
	c.JSON(status, payload)
}

// bindJSON 는 요청 본문을 JSON 으로 파싱하고 검증한다.
func bindJSON(c *gin.Context, out any) bool {
	if c == nil {
		return false
	}
	if err := c.ShouldBindJSON(out); err != nil {
		writeError(c, httperror.NewValidationError(err))
		return false
	}
	return true
}
