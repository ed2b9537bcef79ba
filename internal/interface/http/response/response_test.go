package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

func errorResponse(t *testing.T, err error) (int, ErrorBody) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	Error(c, err)

	var b ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	return w.Code, b
}

func TestError_Validation(t *testing.T) {
	code, b := errorResponse(t, apperror.Validation("make", "обязательное поле"))
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	assert.Equal(t, "VALIDATION_ERROR", b.Code)
	assert.Equal(t, "make", b.Field)
	assert.Equal(t, "обязательное поле", b.Reason)
	assert.Empty(t, b.Hint)
}

func TestError_InvalidTransition(t *testing.T) {
	code, b := errorResponse(t, apperror.InvalidTransition("published", "approve"))
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "published", b.From)
	assert.Equal(t, "approve", b.Event)
}

func TestError_NotFoundAndConflictCarryHint(t *testing.T) {
	_, b := errorResponse(t, apperror.ErrListingNotFound)
	assert.Equal(t, apperror.RetryHint, b.Hint)

	_, b = errorResponse(t, apperror.ErrVersionConflict)
	assert.Equal(t, apperror.RetryHint, b.Hint)
}

func TestError_MasksInternal(t *testing.T) {
	code, b := errorResponse(t, errors.New("pq: connection refused"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "INTERNAL_ERROR", b.Code)
	assert.NotContains(t, b.Error, "pq")

	code, b = errorResponse(t, apperror.Wrap(errors.New("pq: syntax error"), apperror.ErrCodeDatabaseError, "select listings"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "DATABASE_ERROR", b.Code)
	assert.NotContains(t, b.Error, "select")
}
