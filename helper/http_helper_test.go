package helper

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-penelitian/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestGetStatusCode(t *testing.T) {
	h := NewHTTPHelper()

	tests := []struct {
		err  error
		want int
	}{
		{nil, http.StatusOK},
		{models.ErrNotFound, http.StatusNotFound},
		{fmt.Errorf("laporan 3: %w", models.ErrNotFound), http.StatusNotFound},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrorConflict{Message: "dup"}, http.StatusConflict},
		{fmt.Errorf("status: %w", models.ErrInvalidStatus), http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, h.GetStatusCode(tt.err), fmt.Sprint(tt.err))
	}
}

func TestSendErrorFor_HidesInternalErrors(t *testing.T) {
	h := NewHTTPHelper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)

	require.NoError(t, h.SendErrorFor(c, errors.New("dsn password=secret")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "secret")
}

type sample struct {
	Title string `json:"judul" validate:"required"`
}

func TestBindJSON_ValidationKeyedByJSONName(t *testing.T) {
	h := NewHTTPHelper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"judul": ""}`))
	c.Request.Header.Set("Content-Type", "application/json")

	var req sample
	assert.False(t, h.BindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body struct {
		CodeType    string              `json:"code_type"`
		CodeMessage map[string][]string `json:"code_message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "validationError", body.CodeType)
	assert.Contains(t, body.CodeMessage, "judul")
}

func TestGeneratePaging(t *testing.T) {
	h := NewHTTPHelper()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "http://localhost/api/v1/laporan?status=draft&page=2&limit=10", nil)

	paging := h.GeneratePaging(c, 0, 0, 10, 2, 35)

	assert.Equal(t, 4, paging["total_pages"])
	links := paging["links"].(map[string]interface{})
	assert.Equal(t, "http://localhost/api/v1/laporan?limit=10&page=3&status=draft", links["next"])
	assert.Equal(t, "http://localhost/api/v1/laporan?limit=10&page=1&status=draft", links["previous"])
	assert.Equal(t, "http://localhost/api/v1/laporan?limit=10&page=4&status=draft", links["last"])
}
