package auth

import (
	"context"

	"github.com/angelmondragon/labstock-backend/internal/otp"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
)

func (s *accountService) SendOTP(ctx context.Context, req SendOTPRequest) error {
	mail := normalizeMail(req.Mail)
	if mail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Email is required")
	}
	purpose, err := parsePurpose(req.Purpose)
	if err != nil {
		return err
	}

	switch purpose {
	case otp.PurposeSignup:
		if !s.mailPattern.MatchString(mail) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Please use your college email address")
		}
		registered, err := s.users.ExistsByMail(ctx, mail)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check mail")
		}
		if registered {
			return pkgerrors.New(pkgerrors.CodeConflict, "Email already registered")
		}
	case otp.PurposeReset:
		registered, err := s.users.ExistsByMail(ctx, mail)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check mail")
		}
		if !registered {
			return ErrMailNotFound
		}
	}

	code, err := s.codes.Issue(ctx, purpose, mail)
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, otp.CodeMessage(mail, code, purpose, s.codes.TTL())); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "Failed to send OTP")
	}
	return nil
}

func (s *accountService) VerifyOTP(ctx context.Context, req VerifyOTPRequest) error {
	mail := normalizeMail(req.Mail)
	if mail == "" || req.OTP == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "Email and OTP are required")
	}
	purpose, err := parsePurpose(req.Purpose)
	if err != nil {
		return err
	}
	return s.codes.Verify(ctx, purpose, mail, req.OTP)
}

func parsePurpose(p otp.Purpose) (otp.Purpose, error) {
	switch p {
	case "", otp.PurposeSignup:
		return otp.PurposeSignup, nil
	case otp.PurposeReset:
		return otp.PurposeReset, nil
	default:
		return "", pkgerrors.New(pkgerrors.CodeValidation, "purpose must be signup or reset")
	}
}
