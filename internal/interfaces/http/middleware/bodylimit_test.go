package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("allows request within limit", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(1024))
		router.POST("/public/quotes", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		body := strings.NewReader(`{"name":"Carlos","phone":"11987654321"}`)
		req := httptest.NewRequest("POST", "/public/quotes", body)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("rejects request exceeding declared Content-Length", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(100))
		router.POST("/public/quotes", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		body := strings.NewReader(strings.Repeat("x", 200))
		req := httptest.NewRequest("POST", "/public/quotes", body)
		req.ContentLength = 200
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
		assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
	})

	t.Run("allows bodyless GET requests", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(10))
		router.GET("/public/services", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})

		req := httptest.NewRequest("GET", "/public/services", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("caps chunked uploads during read", func(t *testing.T) {
		router := gin.New()
		router.Use(BodyLimit(50))
		router.POST("/public/quotes", func(c *gin.Context) {
			buf := make([]byte, 200)
			if _, err := c.Request.Body.Read(buf); err != nil {
				c.String(http.StatusBadRequest, "body too large")
				return
			}
			c.String(http.StatusOK, "ok")
		})

		// No Content-Length, so the up-front check cannot catch this one
		body := strings.NewReader(strings.Repeat("x", 100))
		req := httptest.NewRequest("POST", "/public/quotes", body)
		req.ContentLength = -1
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
