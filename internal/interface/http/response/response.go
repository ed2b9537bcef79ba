package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

// ErrorKey - ключ gin.Context, под которым остаётся AppError запроса (читают метрики).
const ErrorKey = "app_error"

// ErrorBody - тело ответа с ошибкой. Детали AppError выводятся как есть.
type ErrorBody struct {
	Error  string `json:"error"`
	Code   string `json:"code"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
	From   string `json:"from,omitempty"`
	Event  string `json:"event,omitempty"`
	Hint   string `json:"hint,omitempty"`
}

type ListingsPage struct {
	Meta     valueobject.Page `json:"meta"`
	Listings interface{}      `json:"listings"`
}

type DataPage struct {
	Meta valueobject.Page `json:"meta"`
	Data interface{}      `json:"data"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Listings(c *gin.Context, page valueobject.Page, listings interface{}) {
	c.JSON(http.StatusOK, ListingsPage{Meta: page, Listings: listings})
}

func Paginated(c *gin.Context, page valueobject.Page, data interface{}) {
	c.JSON(http.StatusOK, DataPage{Meta: page, Data: data})
}

// Error пишет ошибку. Неизвестные ошибки логируются и маскируются.
func Error(c *gin.Context, err error) {
	appErr := toAppError(c, err)
	c.Set(ErrorKey, appErr)
	c.JSON(appErr.HTTPStatus, body(appErr))
}

// Abort - то же, что Error, но прерывает цепочку middleware.
func Abort(c *gin.Context, err error) {
	appErr := toAppError(c, err)
	c.Set(ErrorKey, appErr)
	c.AbortWithStatusJSON(appErr.HTTPStatus, body(appErr))
}

func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.New(apperror.ErrCodeBadRequest, message))
}

func toAppError(c *gin.Context, err error) *apperror.AppError {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logError(c, err)
			return apperror.New(appErr.Code, "внутренняя ошибка сервера")
		}
		return appErr
	}
	logError(c, err)
	return apperror.New(apperror.ErrCodeInternal, "внутренняя ошибка сервера")
}

func logError(c *gin.Context, err error) {
	logger.WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).WithError(err).Error("request error")
}

func body(appErr *apperror.AppError) ErrorBody {
	b := ErrorBody{
		Error: appErr.Message,
		Code:  string(appErr.Code),
	}
	if appErr.Details != nil {
		b.Field = appErr.Details["field"]
		b.Reason = appErr.Details["reason"]
		b.From = appErr.Details["from"]
		b.Event = appErr.Details["event"]
	}
	switch appErr.Code {
	case apperror.ErrCodeNotFound, apperror.ErrCodeConflict:
		b.Hint = apperror.RetryHint
	}
	return b
}
