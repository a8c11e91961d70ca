package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func serveCORS(method, origin string) *httptest.ResponseRecorder {
	h := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	req := httptest.NewRequest(method, "/games", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsLoopbackOrigins(t *testing.T) {
	for _, origin := range []string{"http://localhost:5173", "http://127.0.0.1:3000", "https://[::1]:8443"} {
		rec := serveCORS(http.MethodGet, origin)
		assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"), origin)
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"), origin)
		assert.Equal(t, http.StatusTeapot, rec.Code)
	}

	rec := serveCORS(http.MethodOptions, "http://localhost:5173")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCORSIgnoresOtherOrigins(t *testing.T) {
	for _, origin := range []string{"", "https://evil.example", "http://localhost.evil.example", "null", "file://localhost"} {
		rec := serveCORS(http.MethodGet, origin)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"), origin)
		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"), origin)
		assert.Equal(t, http.StatusTeapot, rec.Code, origin)
	}

	rec := serveCORS(http.MethodOptions, "https://evil.example")
	assert.Equal(t, http.StatusTeapot, rec.Code, "preflight from a foreign origin is not answered")
}
