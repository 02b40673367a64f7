package usecase

import (
	"context"

	authdomain "cpsheet-backend/internal/auth/domain"
	authdto "cpsheet-backend/internal/auth/dto"
)

type AuthUsecase interface {
	Register(req *authdto.RegisterRequest) (*authdomain.User, error)
	Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	Logout(userID string) error
	Refresh(refreshToken string) (*authdto.TokenResponse, error)
	ChangePassword(userID string, req *authdto.ChangePasswordRequest) error
	UpdateAccount(userID string, req *authdto.UpdateAccountRequest) (*authdomain.User, error)

	// ValidateAccessToken resolves a bearer token to its user. Any
	// signature, expiry or lookup failure is Unauthorized; callers treat
	// it as "no identity", never as a fatal error.
	ValidateAccessToken(token string) (*authdomain.User, error)

	StartOAuth() (url string, state string, err error)
	CompleteOAuth(ctx context.Context, code string) (*authdto.TokenResponse, error)

	RequestEmailChange(userID, newEmail string) error
	VerifyEmailChange(userID, otp string) (*authdomain.User, error)
}
