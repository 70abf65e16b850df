package auth

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/labstock-backend/internal/otp"
	"github.com/angelmondragon/labstock-backend/internal/users"
	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/angelmondragon/labstock-backend/pkg/db"
	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"github.com/angelmondragon/labstock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
	"github.com/angelmondragon/labstock-backend/pkg/mailer"
	"github.com/angelmondragon/labstock-backend/pkg/security"
)

var (
	ErrMailNotVerified = pkgerrors.New(pkgerrors.CodeValidation, "Email not verified")
	ErrMailNotFound    = pkgerrors.New(pkgerrors.CodeNotFound, "Email not found")
)

// AccountService covers the unauthenticated account flows: one-time codes,
// signup and password reset.
type AccountService interface {
	SendOTP(ctx context.Context, req SendOTPRequest) error
	VerifyOTP(ctx context.Context, req VerifyOTPRequest) error
	Signup(ctx context.Context, req SignupRequest) (*users.UserDTO, error)
	VerifyEmail(ctx context.Context, req VerifyEmailRequest) error
	ResetPassword(ctx context.Context, req ResetPasswordRequest) error
}

type accountUsers interface {
	Create(ctx context.Context, dto users.CreateUserDTO) (*models.User, error)
	FindByMail(ctx context.Context, mail string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByMail(ctx context.Context, mail string) (bool, error)
	UpdatePasswordByMail(ctx context.Context, mail, passwordHash string) (bool, error)
}

type codeStore interface {
	Issue(ctx context.Context, purpose otp.Purpose, mail string) (string, error)
	Verify(ctx context.Context, purpose otp.Purpose, mail, code string) error
	IsVerified(ctx context.Context, purpose otp.Purpose, mail string) (bool, error)
	ConsumeVerified(ctx context.Context, purpose otp.Purpose, mail string) (bool, error)
	TTL() time.Duration
}

// AccountServiceParams packages the dependencies for the account flows.
type AccountServiceParams struct {
	UserRepo       accountUsers
	Codes          codeStore
	Mailer         mailer.Sender
	PasswordConfig config.PasswordConfig
	OTPConfig      config.OTPConfig
}

type accountService struct {
	users       accountUsers
	codes       codeStore
	mailer      mailer.Sender
	passwordCfg config.PasswordConfig
	mailPattern *regexp.Regexp
}

// NewAccountService builds the account service.
func NewAccountService(params AccountServiceParams) (AccountService, error) {
	if params.UserRepo == nil {
		return nil, errors.New("user repository required")
	}
	if params.Codes == nil {
		return nil, errors.New("otp store required")
	}
	if params.Mailer == nil {
		return nil, errors.New("mailer required")
	}
	pattern, err := params.OTPConfig.MailRegexp()
	if err != nil {
		return nil, err
	}
	return &accountService{
		users:       params.UserRepo,
		codes:       params.Codes,
		mailer:      params.Mailer,
		passwordCfg: params.PasswordConfig,
		mailPattern: pattern,
	}, nil
}

func (s *accountService) Signup(ctx context.Context, req SignupRequest) (*users.UserDTO, error) {
	dto := users.CreateUserDTO{
		Username:   strings.TrimSpace(req.Username),
		Fullname:   strings.TrimSpace(req.Fullname),
		Mail:       normalizeMail(req.Mail),
		Rollno:     strings.TrimSpace(req.Rollno),
		Department: strings.TrimSpace(req.Department),
		Role:       enums.UserRoleUser,
	}
	if dto.Username == "" || req.Password == "" || dto.Fullname == "" || dto.Mail == "" || dto.Rollno == "" || dto.Department == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "All fields are required")
	}
	if err := security.CheckPasswordLength(req.Password, s.passwordCfg); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	verified, err := s.codes.IsVerified(ctx, otp.PurposeSignup, dto.Mail)
	if err != nil {
		return nil, err
	}
	if !verified {
		return nil, ErrMailNotVerified
	}

	taken, err := s.users.ExistsByUsername(ctx, dto.Username)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
	}
	if taken {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Username already exists")
	}
	registered, err := s.users.ExistsByMail(ctx, dto.Mail)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check mail")
	}
	if registered {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "Email already registered")
	}

	dto.PasswordHash, err = security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.users.Create(ctx, dto)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "Username or email already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
	}

	if _, err := s.codes.ConsumeVerified(ctx, otp.PurposeSignup, dto.Mail); err != nil {
		return nil, err
	}
	return users.FromModel(user), nil
}

func normalizeMail(mail string) string {
	return strings.ToLower(strings.TrimSpace(mail))
}
