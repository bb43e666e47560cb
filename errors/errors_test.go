package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/Bill-Pill/sunglasses-io/errors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestIs_MatchesOnKind(t *testing.T) {
	err := apperrors.ErrInvalidProduct.WithPayload(map[string]string{"id": "p1"})

	assert.True(t, stderrors.Is(err, apperrors.ErrInvalidProduct))
	assert.False(t, stderrors.Is(err, apperrors.ErrNotFound))
}

func TestIs_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("remove from cart: %w", apperrors.ErrNotFound)

	assert.True(t, stderrors.Is(err, apperrors.ErrNotFound))
	assert.Equal(t, http.StatusNotFound, apperrors.From(err).Code)
}

func TestWithPayload_DoesNotMutateSentinel(t *testing.T) {
	_ = apperrors.ErrInvalidProduct.WithPayload("x")
	assert.Nil(t, apperrors.ErrInvalidProduct.Payload)
}

func TestFrom_UnknownErrorIsInternal(t *testing.T) {
	appErr := apperrors.From(stderrors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, appErr.Code)
	assert.Equal(t, apperrors.KindInternal, appErr.Kind)
	assert.Contains(t, appErr.Error(), "boom")
}

func TestErrorMiddleware_RendersLastError(t *testing.T) {
	r := gin.New()
	r.Use(apperrors.ErrorMiddleware())
	r.GET("/x", func(c *gin.Context) {
		_ = c.Error(apperrors.ErrQuantityTooHigh)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/x", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"kind":"QuantityTooHigh","error":"quantity must not exceed 30"}`, w.Body.String())
}
