package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindTarget struct {
	Title string `json:"title" binding:"required,notblank,min=5"`
	Email string `json:"email" binding:"omitempty,email"`
}

func bindRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	RegisterValidators()

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var req bindTarget
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondBindError(c, err)
			return
		}
		RespondCreated(c, req)
	})
	return r
}

func TestRespondBindError(t *testing.T) {
	r := bindRouter()

	tests := []struct {
		name    string
		body    string
		status  int
		message string
	}{
		{"valid", `{"title":"Hello world"}`, http.StatusCreated, ""},
		{"missing title", `{}`, http.StatusBadRequest, "Title is required"},
		{"blank title", `{"title":"       "}`, http.StatusBadRequest, "Title must not be blank"},
		{"short title", `{"title":"abc"}`, http.StatusBadRequest, "Title must be at least 5 characters"},
		{"bad email", `{"title":"Hello world","email":"nope"}`, http.StatusBadRequest, "Email must be a valid email address"},
		{"malformed json", `{"title":`, http.StatusBadRequest, "Invalid request body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			r.ServeHTTP(w, req)

			require.Equal(t, tt.status, w.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			if tt.status == http.StatusCreated {
				assert.Equal(t, StatusSuccess, resp.Status)
				return
			}
			assert.Equal(t, StatusError, resp.Status)
			assert.Contains(t, resp.Msg, tt.message)
		})
	}
}

func TestFormatBindError_PlainError(t *testing.T) {
	assert.Equal(t, "Invalid request body: boom", FormatBindError(errors.New("boom")))
}

func TestRespondErrorAbort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	reached := false
	r.GET("/", func(c *gin.Context) {
		RespondErrorAbort(c, http.StatusForbidden, "nope")
	}, func(c *gin.Context) {
		reached = true
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.False(t, reached)
	assert.JSONEq(t, `{"status":"error","msg":"nope"}`, w.Body.String())
}
