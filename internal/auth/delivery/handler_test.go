package delivery

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	authdomain "cpsheet-backend/internal/auth/domain"
	authdto "cpsheet-backend/internal/auth/dto"
	"cpsheet-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubOAuthUsecase struct {
	usecase.AuthUsecase
	completeCalled bool
	completeErr    error
}

func (s *stubOAuthUsecase) CompleteOAuth(ctx context.Context, code string) (*authdto.TokenResponse, error) {
	s.completeCalled = true
	if s.completeErr != nil {
		return nil, s.completeErr
	}
	return &authdto.TokenResponse{
		AccessToken:  "new-access",
		RefreshToken: "new-refresh",
		User:         &authdomain.User{ID: "user-1"},
	}, nil
}

func callbackRouter(stub *stubOAuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewAuthHandler(stub)
	r.GET("/api/v1/oauth/callback/google", handler.GoogleCallback)
	return r
}

func TestGoogleCallbackWithoutCodeNeverReachesExchange(t *testing.T) {
	stub := &stubOAuthUsecase{}
	r := callbackRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback/google", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, oauthFailureRedirect, w.Header().Get("Location"))
	assert.False(t, stub.completeCalled, "exchange must not run without a code")
}

func TestGoogleCallbackStateMismatchFailsGenerically(t *testing.T) {
	stub := &stubOAuthUsecase{}
	r := callbackRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback/google?code=abc&state=evil", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "expected"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, oauthFailureRedirect, w.Header().Get("Location"))
	assert.False(t, stub.completeCalled)
}

func TestGoogleCallbackExchangeFailureRedirectsGenerically(t *testing.T) {
	stub := &stubOAuthUsecase{completeErr: usecase.ErrOAuthFailed}
	r := callbackRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback/google?code=abc&state=expected", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "expected"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, oauthFailureRedirect, w.Header().Get("Location"))
	assert.True(t, stub.completeCalled)
}

func TestGoogleCallbackSuccessSetsCookiesAndRedirectsHome(t *testing.T) {
	stub := &stubOAuthUsecase{}
	r := callbackRouter(stub)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/oauth/callback/google?code=abc&state=expected", nil)
	req.AddCookie(&http.Cookie{Name: oauthStateCookie, Value: "expected"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	var gotAccess, gotRefresh bool
	for _, cookie := range cookies {
		switch cookie.Name {
		case accessTokenCookie:
			if cookie.Value == "new-access" {
				gotAccess = true
				assert.True(t, cookie.HttpOnly)
				assert.True(t, cookie.Secure)
			}
		case refreshTokenCookie:
			if cookie.Value == "new-refresh" {
				gotRefresh = true
				assert.True(t, cookie.HttpOnly)
				assert.True(t, cookie.Secure)
			}
		}
	}
	require.True(t, gotAccess, "access token cookie must be set")
	require.True(t, gotRefresh, "refresh token cookie must be set")
}
