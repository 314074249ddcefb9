package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestStatusOf(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusOf(New(ErrApplicationNotFound, "not found")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(New(ErrAlreadyProcessed, "already processed")))
	assert.Equal(t, http.StatusBadRequest, StatusOf(fmt.Errorf("wrapped: %w", New(ErrNotVerified, "x"))))
	assert.Equal(t, http.StatusInternalServerError, StatusOf(fmt.Errorf("boom")))
}

func TestIs(t *testing.T) {
	err := fmt.Errorf("outer: %w", Wrap(ErrDatabase, "query failed", fmt.Errorf("driver")))
	assert.True(t, Is(err, ErrDatabase))
	assert.False(t, Is(err, ErrInternal))
	assert.False(t, Is(nil, ErrInternal))
}

func TestHandleErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleError(c, Wrap(ErrDatabase, "Failed to load feed", fmt.Errorf("dial tcp 10.0.0.1:3306")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Failed to load feed", body["message"])
	assert.NotContains(t, w.Body.String(), "10.0.0.1")
}

func TestHandleSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleSuccess(c, gin.H{"id": 1}, "ok")

	assert.Equal(t, http.StatusOK, w.Code)
	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "ok", body["message"])
}
