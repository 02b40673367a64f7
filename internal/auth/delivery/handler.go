package delivery

import (
	"log"
	"net/http"

	authdto "cpsheet-backend/internal/auth/dto"
	"cpsheet-backend/internal/auth/usecase"
	"cpsheet-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

const (
	accessTokenCookie  = "accessToken"
	refreshTokenCookie = "refreshToken"
	oauthStateCookie   = "oauthState"

	oauthFailureRedirect = "/login?error=oauth_failed"
)

type AuthHandler struct {
	authUsecase usecase.AuthUsecase
}

func NewAuthHandler(authUsecase usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req authdto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("all fields are required"))
		return
	}

	user, err := h.authUsecase.Register(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusCreated, user, "user registered successfully")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req authdto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("username or email and password are required"))
		return
	}

	tokens, err := h.authUsecase.Login(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	respond(c, http.StatusOK, tokens, "user logged in successfully")
}

func (h *AuthHandler) Logout(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	if err := h.authUsecase.Logout(user.ID); err != nil {
		respondError(c, err)
		return
	}

	h.clearTokenCookies(c)
	respond(c, http.StatusOK, gin.H{}, "user logged out")
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req authdto.RefreshRequest
	_ = c.ShouldBindJSON(&req)

	token := req.RefreshToken
	if token == "" {
		token, _ = c.Cookie(refreshTokenCookie)
	}
	if token == "" {
		respondError(c, apperror.Unauthorized("refresh token is required"))
		return
	}

	tokens, err := h.authUsecase.Refresh(token)
	if err != nil {
		respondError(c, err)
		return
	}

	h.setTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	respond(c, http.StatusOK, tokens, "token refreshed successfully")
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	var req authdto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("old and new passwords are required"))
		return
	}

	if err := h.authUsecase.ChangePassword(user.ID, &req); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{}, "password changed successfully")
}

func (h *AuthHandler) UpdateAccount(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	var req authdto.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("full name is required"))
		return
	}

	updated, err := h.authUsecase.UpdateAccount(user.ID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, updated, "account details updated successfully")
}

func (h *AuthHandler) ChangeEmail(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	var req authdto.ChangeEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("email is required"))
		return
	}

	if err := h.authUsecase.RequestEmailChange(user.ID, req.Email); err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"email": req.Email}, "OTP sent to your email, please verify within 10 minutes")
}

func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}

	var req authdto.VerifyEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperror.Validation("OTP is required"))
		return
	}

	updated, err := h.authUsecase.VerifyEmailChange(user.ID, req.OTP)
	if err != nil {
		respondError(c, err)
		return
	}

	respond(c, http.StatusOK, updated, "email updated successfully")
}

func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respondError(c, apperror.Unauthorized("authentication required"))
		return
	}
	respond(c, http.StatusOK, user, "current user fetched successfully")
}

// Session reports who (if anyone) the request is authenticated as. It sits
// behind the soft guard, so it answers for anonymous visitors too.
func (h *AuthHandler) Session(c *gin.Context) {
	user, ok := CurrentUser(c)
	if !ok {
		respond(c, http.StatusOK, gin.H{"authenticated": false}, "anonymous session")
		return
	}
	respond(c, http.StatusOK, gin.H{"authenticated": true, "user": user}, "authenticated session")
}

func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	url, state, err := h.authUsecase.StartOAuth()
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(oauthStateCookie, state, 600, "/", "", true, true)
	c.Redirect(http.StatusFound, url)
}

// GoogleCallback finishes the authorization-code flow. Every failure branch
// funnels to the same generic redirect; provider detail stays in the logs.
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	wantState, _ := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", true, true)

	if code == "" {
		log.Printf("[WARN] google callback without authorization code")
		c.Redirect(http.StatusFound, oauthFailureRedirect)
		return
	}
	if wantState == "" || state != wantState {
		log.Printf("[WARN] google callback state mismatch")
		c.Redirect(http.StatusFound, oauthFailureRedirect)
		return
	}

	tokens, err := h.authUsecase.CompleteOAuth(c.Request.Context(), code)
	if err != nil {
		log.Printf("[WARN] google sign-in failed: %v", err)
		c.Redirect(http.StatusFound, oauthFailureRedirect)
		return
	}

	h.setTokenCookies(c, tokens.AccessToken, tokens.RefreshToken)
	c.Redirect(http.StatusFound, "/")
}

func (h *AuthHandler) setTokenCookies(c *gin.Context, accessToken, refreshToken string) {
	c.SetCookie(accessTokenCookie, accessToken, 0, "/", "", true, true)
	c.SetCookie(refreshTokenCookie, refreshToken, 0, "/", "", true, true)
}

func (h *AuthHandler) clearTokenCookies(c *gin.Context) {
	c.SetCookie(accessTokenCookie, "", -1, "/", "", true, true)
	c.SetCookie(refreshTokenCookie, "", -1, "/", "", true, true)
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, gin.H{
		"statusCode": status,
		"data":       data,
		"message":    message,
		"success":    true,
	})
}

func respondError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		log.Printf("[ERROR] %v", err)
	}
	c.JSON(status, gin.H{
		"statusCode": status,
		"message":    apperror.UserMessage(err),
		"success":    false,
	})
}
