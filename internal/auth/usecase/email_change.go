package usecase

import (
	"strings"
	"time"

	authdomain "cpsheet-backend/internal/auth/domain"
	"cpsheet-backend/pkg/apperror"
	"cpsheet-backend/pkg/mailer"
)

var (
	ErrNoPendingChange = apperror.NotFound("no pending email change request found, please request a new OTP")
	ErrOTPExpired      = apperror.Expired("OTP has expired, please request a new one")
	ErrOTPMismatch     = apperror.Unauthorized("invalid OTP")
	ErrEmailTaken      = apperror.Conflict("email is already in use by another user")
)

// RequestEmailChange starts (or restarts) the one-time-code flow for userID.
// Only the most recent request is valid: the pending record is keyed by user
// and upserted, so a second request replaces the first code.
func (u *authUsecase) RequestEmailChange(userID, newEmail string) error {
	email := strings.ToLower(strings.TrimSpace(newEmail))

	if email == "" {
		return apperror.Validation("email is required")
	}
	if !emailPattern.MatchString(email) {
		return apperror.Validation("invalid email format")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFound("user not found")
	}
	if user.Email == email {
		return apperror.Validation("this is already your current email")
	}

	if other, err := u.userRepo.FindByEmail(email); err != nil {
		return err
	} else if other != nil && other.ID != userID {
		return ErrEmailTaken
	}

	otp, err := mailer.GenerateOTP()
	if err != nil {
		return err
	}

	change := &authdomain.EmailChange{
		UserID:    userID,
		Email:     email,
		OTP:       otp,
		ExpiresAt: time.Now().Add(u.config.EmailChangeTTL),
	}
	if err := u.emailChangeRepo.Upsert(change); err != nil {
		return err
	}

	if err := u.mail.SendOTP(email, otp); err != nil {
		// Roll back so the user isn't left with a pending request they
		// can never complete.
		_ = u.emailChangeRepo.DeleteByUserID(userID)
		return apperror.Wrap(apperror.KindDelivery, "failed to send verification email, please try again", err)
	}

	return nil
}

// VerifyEmailChange checks the supplied code against the pending request.
// Every terminal outcome that consumes the record deletes it; a wrong code
// leaves the record in place until it expires or is replaced.
func (u *authUsecase) VerifyEmailChange(userID, otp string) (*authdomain.User, error) {
	if otp == "" {
		return nil, apperror.Validation("OTP is required")
	}

	change, err := u.emailChangeRepo.FindByUserID(userID)
	if err != nil {
		return nil, err
	}
	if change == nil {
		return nil, ErrNoPendingChange
	}

	if time.Now().After(change.ExpiresAt) {
		if err := u.emailChangeRepo.DeleteByUserID(userID); err != nil {
			return nil, err
		}
		return nil, ErrOTPExpired
	}

	if change.OTP != otp {
		return nil, ErrOTPMismatch
	}

	// The address may have been taken since the request was made.
	if other, err := u.userRepo.FindByEmail(change.Email); err != nil {
		return nil, err
	} else if other != nil && other.ID != userID {
		if err := u.emailChangeRepo.DeleteByUserID(userID); err != nil {
			return nil, err
		}
		return nil, apperror.Conflict("email is no longer available, please try a different one")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.NotFound("user not found")
	}

	user.Email = change.Email
	if err := u.userRepo.Update(user); err != nil {
		return nil, translateDuplicate(err)
	}

	if err := u.emailChangeRepo.DeleteByUserID(userID); err != nil {
		return nil, err
	}

	return user, nil
}
