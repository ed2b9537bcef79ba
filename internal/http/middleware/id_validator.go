package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/response"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

// IDValidator проверяет, что параметр - положительный целый идентификатор.
// Использование: router.GET("/listings/:id", IDValidator("id"), handler.Get)
func IDValidator(paramName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param(paramName), 10, 64)
		if err != nil || id <= 0 {
			response.Abort(c, apperror.New(apperror.ErrCodeBadRequest, "параметр "+paramName+" должен быть положительным целым числом"))
			return
		}
		c.Next()
	}
}
