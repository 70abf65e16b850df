package users

import (
	"strings"
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"github.com/angelmondragon/labstock-backend/pkg/enums"
	"github.com/angelmondragon/labstock-backend/pkg/types"
)

// UserDTO is the transport shape that omits sensitive credentials.
type UserDTO struct {
	ID          int64          `json:"id"`
	Username    string         `json:"username"`
	Fullname    string         `json:"fullname"`
	Mail        *string        `json:"mail"`
	Rollno      string         `json:"rollno"`
	Department  string         `json:"department"`
	Role        enums.UserRole `json:"role"`
	LastLoginAt *time.Time     `json:"last_login_at,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	Username     string
	PasswordHash string
	Fullname     string
	Mail         string
	Rollno       string
	Department   string
	Role         enums.UserRole
}

// Actor is the authenticated caller of a user operation.
type Actor struct {
	Username string
	Role     enums.UserRole
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool {
	return a.Role == enums.UserRoleAdmin
}

// CanAccess reports whether the actor may read or write username's profile.
func (a Actor) CanAccess(username string) bool {
	return a.IsAdmin() || (a.Username != "" && a.Username == username)
}

// AdminUpdateInput is the admin edit form. An empty Username keeps the
// current one and an empty Password keeps the stored hash.
type AdminUpdateInput struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Fullname   string `json:"fullname" validate:"required"`
	Mail       string `json:"mail" validate:"required,email"`
	Rollno     string `json:"rollno" validate:"required"`
	Department string `json:"department" validate:"required"`
}

// ProfileUpdateInput is the self-service profile form.
type ProfileUpdateInput struct {
	Fullname string `json:"fullname" validate:"required"`
}

// UploadRow is one spreadsheet row of a bulk user upload.
type UploadRow struct {
	Username   types.Cell `json:"username"`
	Password   types.Cell `json:"password"`
	Mail       types.Cell `json:"mail"`
	Fullname   types.Cell `json:"full_name"`
	Rollno     types.Cell `json:"roll_no"`
	Department types.Cell `json:"department"`
}

// UploadRequest is the bulk upload body.
type UploadRequest struct {
	Users []UploadRow `json:"users" validate:"required,min=1"`
}

// FromModel maps a user row into its DTO.
func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}
	return &UserDTO{
		ID:          u.ID,
		Username:    u.Username,
		Fullname:    u.Fullname,
		Mail:        u.Mail,
		Rollno:      u.Rollno,
		Department:  u.Department,
		Role:        u.Role,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

// ToModel builds the row to insert. Blank mails are stored as NULL so they
// never collide on the unique index.
func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if !role.IsValid() {
		role = enums.UserRoleUser
	}
	return &models.User{
		Username:     strings.TrimSpace(c.Username),
		PasswordHash: c.PasswordHash,
		Fullname:     strings.TrimSpace(c.Fullname),
		Mail:         NormalizeMail(c.Mail),
		Rollno:       strings.TrimSpace(c.Rollno),
		Department:   strings.TrimSpace(c.Department),
		Role:         role,
	}
}

// NormalizeMail trims and lower-cases a mail address; blank becomes nil.
func NormalizeMail(mail string) *string {
	mail = strings.ToLower(strings.TrimSpace(mail))
	if mail == "" {
		return nil
	}
	return &mail
}
