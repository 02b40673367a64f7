package delivery

import (
	"net/http"
	"net/http/httptest"
	"testing"

	authdomain "cpsheet-backend/internal/auth/domain"
	"cpsheet-backend/internal/auth/usecase"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// stubAuthUsecase accepts exactly one token value; everything else is
// rejected. Unimplemented interface methods panic via the embedded nil.
type stubAuthUsecase struct {
	usecase.AuthUsecase
	user       *authdomain.User
	validToken string
}

func (s *stubAuthUsecase) ValidateAccessToken(token string) (*authdomain.User, error) {
	if token == s.validToken {
		return s.user, nil
	}
	return nil, usecase.ErrInvalidToken
}

func newStub() *stubAuthUsecase {
	return &stubAuthUsecase{
		user:       &authdomain.User{ID: "user-1", Username: "alice", Email: "alice@example.com"},
		validToken: "good-token",
	}
}

func strictRouter(stub *stubAuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(stub), func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "user missing from context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": user.ID})
	})
	return r
}

func TestStrictGuardRejectsMissingToken(t *testing.T) {
	r := strictRouter(newStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStrictGuardRejectsInvalidToken(t *testing.T) {
	r := strictRouter(newStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "expired-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStrictGuardAcceptsCookieToken(t *testing.T) {
	r := strictRouter(newStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "good-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "user-1")
}

func TestStrictGuardAcceptsBearerHeader(t *testing.T) {
	r := strictRouter(newStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func softRouter(stub *stubAuthUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/session", SoftAuthMiddleware(stub), func(c *gin.Context) {
		if user, ok := CurrentUser(c); ok {
			c.JSON(http.StatusOK, gin.H{"authenticated": true, "user_id": user.ID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
	})
	return r
}

func TestSoftGuardFallsBackToAnonymous(t *testing.T) {
	r := softRouter(newStub())

	for _, cookie := range []*http.Cookie{nil, {Name: accessTokenCookie, Value: "bad-token"}} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/session", nil)
		if cookie != nil {
			req.AddCookie(cookie)
		}
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, "soft guard must never reject")
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	}
}

func TestSoftGuardAttachesAuthenticatedUser(t *testing.T) {
	r := softRouter(newStub())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/session", nil)
	req.AddCookie(&http.Cookie{Name: accessTokenCookie, Value: "good-token"})
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
	assert.Contains(t, w.Body.String(), "user-1")
}
