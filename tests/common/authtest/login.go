//go:build e2e

package authtest

import (
	"net/http"
	"testing"

	"opportune/internal/handler/dto/request"
	"opportune/internal/handler/dto/response"
	"opportune/tests/common/httptest"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// LoginUser authenticates through the API and returns the bearer token.
func LoginUser(t *testing.T, router *gin.Engine, email, password string) string {
	t.Helper()

	w := httptest.PerformRequest(t, router, http.MethodPost, "/api/auth/login",
		request.LoginRequest{Email: email, Password: password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body response.LoginResponse
	httptest.DecodeResponseBody(t, w.Body, &body)
	require.NotEmpty(t, body.Token, "login response did not contain a token")

	return body.Token
}
