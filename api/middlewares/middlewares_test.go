package middlewares

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type staticAuth struct{}

func (staticAuth) Authorized(user, pass string) bool { return user == "admin" && pass == "pw" }

func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAdmin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	reached := 0
	router.POST("/clearwall", RequireAdmin(staticAuth{}), func(c *gin.Context) {
		reached++
		c.String(http.StatusOK, "ok")
	})

	for _, form := range []url.Values{
		{},
		{"user": {"admin"}},
		{"pass": {"pw"}},
		{"user": {"admin"}, "pass": {"nope"}},
		{"user": {"root"}, "pass": {"pw"}},
	} {
		w := postForm(router, "/clearwall", form)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, ForbiddenBody, w.Body.String())
	}
	assert.Zero(t, reached)

	w := postForm(router, "/clearwall", url.Values{"user": {"admin"}, "pass": {"pw"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, reached)
}

func TestRequestLoggerSetsHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)
}

func TestClientLimiter(t *testing.T) {
	disabled := NewClientLimiter(0, 5)
	assert.Nil(t, disabled)
	for i := 0; i < 100; i++ {
		assert.True(t, disabled.Allow("10.0.0.2"))
	}

	l := NewClientLimiter(0.001, 2)
	assert.True(t, l.Allow("10.0.0.2"))
	assert.True(t, l.Allow("10.0.0.2"))
	assert.False(t, l.Allow("10.0.0.2"))
	assert.True(t, l.Allow("10.0.0.3"))
}
