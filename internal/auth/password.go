package auth

import (
	"context"

	"github.com/angelmondragon/labstock-backend/internal/otp"
	"github.com/angelmondragon/labstock-backend/internal/users"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
	"github.com/angelmondragon/labstock-backend/pkg/security"
)

func (s *accountService) VerifyEmail(ctx context.Context, req VerifyEmailRequest) error {
	mail := normalizeMail(req.Mail)
	if mail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	if _, err := s.users.FindByMail(ctx, mail); err != nil {
		if users.IsNotFound(err) {
			return ErrMailNotFound
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup mail")
	}
	return nil
}

// ResetPassword requires a verified reset code for the mail; the marker is
// spent by a successful reset.
func (s *accountService) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	mail := normalizeMail(req.Mail)
	if mail == "" || req.NewPassword == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Email and new password are required")
	}
	if err := security.CheckPasswordLength(req.NewPassword, s.passwordCfg); err != nil {
		return pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	verified, err := s.codes.IsVerified(ctx, otp.PurposeReset, mail)
	if err != nil {
		return err
	}
	if !verified {
		return ErrMailNotVerified
	}

	hash, err := security.HashPassword(req.NewPassword, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	updated, err := s.users.UpdatePasswordByMail(ctx, mail, hash)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update password")
	}
	if !updated {
		return ErrMailNotFound
	}

	_, err = s.codes.ConsumeVerified(ctx, otp.PurposeReset, mail)
	return err
}
