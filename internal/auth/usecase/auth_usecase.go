package usecase

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	authdomain "cpsheet-backend/internal/auth/domain"
	authdto "cpsheet-backend/internal/auth/dto"
	"cpsheet-backend/internal/auth/repository"
	"cpsheet-backend/pkg/apperror"
	"cpsheet-backend/pkg/config"
	"cpsheet-backend/pkg/mailer"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ErrInvalidCredentials covers both unknown identifier and wrong password so
// responses don't reveal which accounts exist.
var ErrInvalidCredentials = apperror.Unauthorized("invalid user credentials")

var ErrInvalidToken = apperror.Unauthorized("invalid or expired token")

// authUsecase implements AuthUsecase
type authUsecase struct {
	userRepo        repository.UserRepository
	emailChangeRepo repository.EmailChangeRepository
	mail            mailer.Mailer
	config          *config.Config

	// overridable for tests
	googleEndpoint   oauth2.Endpoint
	userinfoEndpoint string
}

func NewAuthUsecase(userRepo repository.UserRepository, emailChangeRepo repository.EmailChangeRepository, mail mailer.Mailer, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo:        userRepo,
		emailChangeRepo: emailChangeRepo,
		mail:            mail,
		config:          cfg,
		googleEndpoint:  google.Endpoint,
	}
}

func (u *authUsecase) Register(req *authdto.RegisterRequest) (*authdomain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if fullName == "" || email == "" || username == "" || req.Password == "" {
		return nil, apperror.Validation("all fields are required")
	}
	if !emailPattern.MatchString(email) {
		return nil, apperror.Validation("invalid email format")
	}

	if existing, err := u.userRepo.FindByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperror.Conflict("user with email or username already exists")
	}
	if existing, err := u.userRepo.FindByUsername(username); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, apperror.Conflict("user with email or username already exists")
	}

	hashedPassword, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		Username: username,
		Email:    email,
		Password: hashedPassword,
		FullName: fullName,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, translateDuplicate(err)
	}

	return user, nil
}

func (u *authUsecase) Login(req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	identifier := strings.ToLower(strings.TrimSpace(req.Username))
	if identifier == "" {
		return nil, apperror.Validation("username or email is required")
	}
	if req.Password == "" {
		return nil, apperror.Validation("password is required")
	}

	user, err := u.userRepo.FindByUsernameOrEmail(identifier)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if !repository.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	return u.issueTokenPair(user)
}

func (u *authUsecase) Logout(userID string) error {
	return u.userRepo.UpdateRefreshToken(userID, "")
}

func (u *authUsecase) Refresh(refreshToken string) (*authdto.TokenResponse, error) {
	userID, err := u.parseToken(refreshToken, u.config.RefreshTokenSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	// The stored token is the only live one; logout or a newer login
	// clears/overwrites it and old tokens stop working here.
	if user == nil || user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return nil, ErrInvalidToken
	}

	return u.issueTokenPair(user)
}

func (u *authUsecase) ChangePassword(userID string, req *authdto.ChangePasswordRequest) error {
	if req.NewPassword == "" {
		return apperror.Validation("new password is required")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidCredentials
	}

	if !repository.CheckPasswordHash(req.OldPassword, user.Password) {
		return apperror.Unauthorized("invalid old password")
	}

	hashedPassword, err := repository.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}

	user.Password = hashedPassword
	return u.userRepo.Update(user)
}

func (u *authUsecase) UpdateAccount(userID string, req *authdto.UpdateAccountRequest) (*authdomain.User, error) {
	fullName := strings.TrimSpace(req.FullName)
	if fullName == "" {
		return nil, apperror.Validation("full name is required")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	user.FullName = fullName
	if err := u.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

func (u *authUsecase) ValidateAccessToken(token string) (*authdomain.User, error) {
	userID, err := u.parseToken(token, u.config.AccessTokenSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidToken
	}

	return user, nil
}

// issueTokenPair signs a new access/refresh pair and persists the refresh
// token onto the user row before returning; the caller never receives a pair
// whose refresh token failed to persist.
func (u *authUsecase) issueTokenPair(user *authdomain.User) (*authdto.TokenResponse, error) {
	now := time.Now()

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"exp":     now.Add(u.config.AccessTokenExpiry).Unix(),
		"iat":     now.Unix(),
	}).SignedString([]byte(u.config.AccessTokenSecret))
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"exp":      now.Add(u.config.RefreshTokenExpiry).Unix(),
		"iat":      now.Unix(),
	}).SignedString([]byte(u.config.RefreshTokenSecret))
	if err != nil {
		return nil, err
	}

	if err := u.userRepo.UpdateRefreshToken(user.ID, refreshToken); err != nil {
		return nil, err
	}
	user.RefreshToken = refreshToken

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) parseToken(tokenString, secret string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", ErrInvalidToken
	}
	return userID, nil
}
