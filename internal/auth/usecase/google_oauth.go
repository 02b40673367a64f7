package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	authdomain "cpsheet-backend/internal/auth/domain"
	authdto "cpsheet-backend/internal/auth/dto"
	"cpsheet-backend/internal/auth/repository"
	"cpsheet-backend/pkg/apperror"

	"golang.org/x/oauth2"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"
	"gorm.io/gorm"
)

// Provider errors are flattened to this one message so the browser never sees
// Google's internal error vocabulary; detail goes to the server log only.
var ErrOAuthFailed = apperror.New(apperror.KindUpstream, "google sign-in failed")

const oauthCallTimeout = 10 * time.Second

func (u *authUsecase) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     u.config.GoogleClientID,
		ClientSecret: u.config.GoogleClientSecret,
		RedirectURL:  u.config.GoogleRedirectURI,
		Scopes: []string{
			"https://www.googleapis.com/auth/userinfo.profile",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: u.googleEndpoint,
	}
}

func (u *authUsecase) StartOAuth() (string, string, error) {
	state, err := randomToken(16)
	if err != nil {
		return "", "", err
	}

	url := u.oauthConfig().AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
	return url, state, nil
}

func (u *authUsecase) CompleteOAuth(ctx context.Context, code string) (*authdto.TokenResponse, error) {
	if code == "" {
		return nil, ErrOAuthFailed
	}

	conf := u.oauthConfig()

	exchangeCtx, cancel := context.WithTimeout(ctx, oauthCallTimeout)
	defer cancel()

	token, err := conf.Exchange(exchangeCtx, code)
	if err != nil {
		log.Printf("[WARN] google token exchange failed: %v", err)
		return nil, ErrOAuthFailed
	}

	profile, err := u.fetchProfile(ctx, conf, token)
	if err != nil {
		log.Printf("[WARN] google profile fetch failed: %v", err)
		return nil, ErrOAuthFailed
	}
	if profile.Email == "" {
		log.Printf("[WARN] google profile has no email")
		return nil, ErrOAuthFailed
	}

	user, err := u.resolveOAuthUser(profile)
	if err != nil {
		return nil, err
	}

	return u.issueTokenPair(user)
}

func (u *authUsecase) fetchProfile(ctx context.Context, conf *oauth2.Config, token *oauth2.Token) (*oauth2api.Userinfo, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, oauthCallTimeout)
	defer cancel()

	opts := []option.ClientOption{option.WithHTTPClient(conf.Client(fetchCtx, token))}
	if u.userinfoEndpoint != "" {
		opts = append(opts, option.WithEndpoint(u.userinfoEndpoint))
	}

	svc, err := oauth2api.NewService(fetchCtx, opts...)
	if err != nil {
		return nil, err
	}

	return svc.Userinfo.Get().Context(fetchCtx).Do()
}

// resolveOAuthUser maps a verified Google profile to a local account. An
// existing account (by email) is reused as-is; otherwise a new one is created
// with a username derived from the email's local part and an unusable random
// password, since the schema always requires a password hash.
func (u *authUsecase) resolveOAuthUser(profile *oauth2api.Userinfo) (*authdomain.User, error) {
	email := strings.ToLower(profile.Email)

	user, err := u.userRepo.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	username, err := u.deriveUsername(email)
	if err != nil {
		return nil, err
	}

	throwaway, err := randomToken(20)
	if err != nil {
		return nil, err
	}
	hashedPassword, err := repository.HashPassword(throwaway)
	if err != nil {
		return nil, err
	}

	user = &authdomain.User{
		Username:  username,
		Email:     email,
		Password:  hashedPassword,
		FullName:  profile.Name,
		AvatarURL: profile.Picture,
	}

	if err := u.userRepo.Create(user); err != nil {
		return nil, translateDuplicate(err)
	}
	return user, nil
}

// deriveUsername lowercases the email local part and appends an incrementing
// numeric suffix until no existing user collides.
func (u *authUsecase) deriveUsername(email string) (string, error) {
	base := strings.ToLower(strings.Split(email, "@")[0])
	username := base

	for suffix := 1; ; suffix++ {
		existing, err := u.userRepo.FindByUsername(username)
		if err != nil {
			return "", err
		}
		if existing == nil {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, suffix)
	}
}

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func translateDuplicate(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.Conflict("user with email or username already exists")
	}
	return err
}
