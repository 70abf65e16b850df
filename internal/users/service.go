package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/angelmondragon/labstock-backend/pkg/db"
	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"github.com/angelmondragon/labstock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
	"github.com/angelmondragon/labstock-backend/pkg/security"
	"github.com/angelmondragon/labstock-backend/pkg/types"
)

// firstUploadRow numbers user upload rows from one.
const firstUploadRow = 1

var ErrUserNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "User not found")

type usersRepository interface {
	Create(ctx context.Context, dto CreateUserDTO) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByMail(ctx context.Context, mail string) (bool, error)
	ListMembers(ctx context.Context) ([]models.User, error)
	UpdateFullname(ctx context.Context, username, fullname string) (bool, error)
	UpdateByUsername(ctx context.Context, username string, values map[string]any) (bool, error)
	Delete(ctx context.Context, username string) (bool, error)
	SetRoleByMail(ctx context.Context, mail string, role enums.UserRole) (bool, error)
}

// Service manages member profiles and administrative user operations.
type Service interface {
	Profile(ctx context.Context, actor Actor, username string) (*UserDTO, error)
	UpdateProfile(ctx context.Context, actor Actor, username string, input ProfileUpdateInput) error
	List(ctx context.Context) ([]UserDTO, error)
	AdminUpdate(ctx context.Context, oldUsername string, input AdminUpdateInput) (*UserDTO, error)
	AdminDelete(ctx context.Context, username string) error
	Upload(ctx context.Context, rows []UploadRow) (types.UploadSummary, error)
	EnsureAdmin(ctx context.Context, cfg config.AdminConfig) (bool, error)
	PromoteByMail(ctx context.Context, mail string) error
}

type service struct {
	repo        usersRepository
	passwordCfg config.PasswordConfig
}

// NewService wires the users service.
func NewService(repo usersRepository, passwordCfg config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, passwordCfg: passwordCfg}, nil
}

func (s *service) Profile(ctx context.Context, actor Actor, username string) (*UserDTO, error) {
	username = strings.TrimSpace(username)
	if !actor.CanAccess(username) {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "cannot view another user's profile")
	}
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			return nil, ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load profile")
	}
	return FromModel(user), nil
}

func (s *service) UpdateProfile(ctx context.Context, actor Actor, username string, input ProfileUpdateInput) error {
	username = strings.TrimSpace(username)
	if !actor.CanAccess(username) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "cannot edit another user's profile")
	}
	fullname := strings.TrimSpace(input.Fullname)
	if fullname == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "fullname is required")
	}
	updated, err := s.repo.UpdateFullname(ctx, username, fullname)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.ListMembers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) AdminUpdate(ctx context.Context, oldUsername string, input AdminUpdateInput) (*UserDTO, error) {
	oldUsername = strings.TrimSpace(oldUsername)
	fullname := strings.TrimSpace(input.Fullname)
	mail := NormalizeMail(input.Mail)
	rollno := strings.TrimSpace(input.Rollno)
	department := strings.TrimSpace(input.Department)
	if fullname == "" || mail == nil || rollno == "" || department == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Required fields: fullname, mail, rollno, department")
	}

	current, err := s.repo.FindByUsername(ctx, oldUsername)
	if err != nil {
		if IsNotFound(err) {
			return nil, pkgerrors.Newf(pkgerrors.CodeNotFound, "User not found: %s", oldUsername)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}

	finalUsername := strings.TrimSpace(input.Username)
	if finalUsername == "" {
		finalUsername = oldUsername
	}
	if finalUsername != oldUsername {
		taken, err := s.repo.ExistsByUsername(ctx, finalUsername)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check username")
		}
		if taken {
			return nil, pkgerrors.Newf(pkgerrors.CodeConflict, "Username already exists: %s", finalUsername)
		}
	}
	if current.Mail == nil || *current.Mail != *mail {
		taken, err := s.repo.ExistsByMail(ctx, *mail)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check mail")
		}
		if taken {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "mail already registered")
		}
	}

	values := map[string]any{
		"username":   finalUsername,
		"fullname":   fullname,
		"mail":       *mail,
		"rollno":     rollno,
		"department": department,
	}
	if password := strings.TrimSpace(input.Password); password != "" {
		hash, err := s.hash(password)
		if err != nil {
			return nil, err
		}
		values["password_hash"] = hash
	}

	updated, err := s.repo.UpdateByUsername(ctx, oldUsername, values)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "username or mail already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update user")
	}
	if !updated {
		return nil, ErrUserNotFound
	}

	user, err := s.repo.FindByUsername(ctx, finalUsername)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload user")
	}
	return FromModel(user), nil
}

func (s *service) AdminDelete(ctx context.Context, username string) error {
	deleted, err := s.repo.Delete(ctx, strings.TrimSpace(username))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete user")
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}

// Upload creates one member per row. Existing usernames are reported as row
// failures and never overwritten.
func (s *service) Upload(ctx context.Context, rows []UploadRow) (types.UploadSummary, error) {
	if len(rows) == 0 {
		return types.UploadSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "Users array is empty")
	}

	var summary types.UploadSummary
	var rowErrs types.RowErrors
	for i, row := range rows {
		if err := s.uploadRow(ctx, row); err != nil {
			rowErrs.Add(i+firstUploadRow, err)
			summary.Failed++
			continue
		}
		summary.Created++
	}
	summary.Errors = rowErrs.Messages()

	if summary.Created == 0 {
		return summary, pkgerrors.New(pkgerrors.CodeValidation, "No users were uploaded").WithDetails(summary)
	}
	return summary, nil
}

func (s *service) uploadRow(ctx context.Context, row UploadRow) error {
	if row.Username.Empty() || row.Password.Empty() {
		return errors.New("missing required fields (username or password)")
	}
	username := row.Username.String()

	exists, err := s.repo.ExistsByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("lookup failed: %w", err)
	}
	if exists {
		return fmt.Errorf("username already exists: %s", username)
	}

	hash, err := security.HashPassword(row.Password.String(), s.passwordCfg)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	_, err = s.repo.Create(ctx, CreateUserDTO{
		Username:     username,
		PasswordHash: hash,
		Fullname:     row.Fullname.String(),
		Mail:         row.Mail.String(),
		Rollno:       row.Rollno.String(),
		Department:   row.Department.String(),
		Role:         enums.UserRoleUser,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return errors.New("username or mail already exists")
		}
		return fmt.Errorf("insert failed: %w", err)
	}
	return nil
}

// EnsureAdmin creates the configured admin account when it does not exist.
// It reports whether an account was created.
func (s *service) EnsureAdmin(ctx context.Context, cfg config.AdminConfig) (bool, error) {
	if !cfg.SeedEnabled() {
		return false, nil
	}
	exists, err := s.repo.ExistsByUsername(ctx, cfg.SeedUsername)
	if err != nil {
		return false, fmt.Errorf("check admin: %w", err)
	}
	if exists {
		return false, nil
	}
	hash, err := security.HashPassword(cfg.SeedPassword, s.passwordCfg)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}
	if _, err := s.repo.Create(ctx, CreateUserDTO{
		Username:     cfg.SeedUsername,
		PasswordHash: hash,
		Fullname:     "Administrator",
		Mail:         cfg.SeedMail,
		Role:         enums.UserRoleAdmin,
	}); err != nil {
		if db.IsUniqueViolation(err, "") {
			return false, nil
		}
		return false, fmt.Errorf("create admin: %w", err)
	}
	return true, nil
}

func (s *service) PromoteByMail(ctx context.Context, mail string) error {
	if NormalizeMail(mail) == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "mail is required")
	}
	updated, err := s.repo.SetRoleByMail(ctx, mail, enums.UserRoleAdmin)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "promote user")
	}
	if !updated {
		return ErrUserNotFound
	}
	return nil
}

func (s *service) hash(password string) (string, error) {
	if err := security.CheckPasswordLength(password, s.passwordCfg); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeValidation, err, err.Error())
	}
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	return hash, nil
}
