package utils

import (
	"deathcert-service/internal/pkg/constvars"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractSessionToken(t *testing.T) {
	t.Run("bearer header wins", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Bearer header-token")
		req.AddCookie(&http.Cookie{Name: constvars.SessionCookieName, Value: "cookie-token"})

		assert.Equal(t, "header-token", ExtractSessionToken(req))
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: constvars.SessionCookieName, Value: "cookie-token"})

		assert.Equal(t, "cookie-token", ExtractSessionToken(req))
	})

	t.Run("none", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(constvars.HeaderAuthorization, "Basic abc")

		assert.Empty(t, ExtractSessionToken(req))
	})
}
