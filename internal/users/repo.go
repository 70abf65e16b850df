package users

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"github.com/angelmondragon/labstock-backend/pkg/enums"
	"gorm.io/gorm"
)

// reservedUsernames are seeded service accounts hidden from the member list.
var reservedUsernames = []string{"admin", "admin1", "admin2"}

// Repository exposes user-related persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a users repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user and returns the persisted model.
func (r *Repository) Create(ctx context.Context, dto CreateUserDTO) (*models.User, error) {
	user := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// FindByUsername retrieves the user with the given username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByMail retrieves the user matching the provided mail address.
func (r *Repository) FindByMail(ctx context.Context, mail string) (*models.User, error) {
	normalized := NormalizeMail(mail)
	if normalized == nil {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	if err := r.db.WithContext(ctx).Where("mail = ?", *normalized).Take(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// ExistsByUsername reports whether the username is taken.
func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "username = ?", username)
}

// ExistsByMail reports whether the mail address is registered.
func (r *Repository) ExistsByMail(ctx context.Context, mail string) (bool, error) {
	normalized := NormalizeMail(mail)
	if normalized == nil {
		return false, nil
	}
	return r.exists(ctx, "mail = ?", *normalized)
}

func (r *Repository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.User{}).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListMembers returns every non-admin account ordered by username.
func (r *Repository) ListMembers(ctx context.Context) ([]models.User, error) {
	var rows []models.User
	if err := r.db.WithContext(ctx).
		Where("username NOT IN ? AND role <> ?", reservedUsernames, enums.UserRoleAdmin).
		Order("username ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// UpdateFullname sets the display name of username.
func (r *Repository) UpdateFullname(ctx context.Context, username, fullname string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		UpdateColumn("fullname", fullname)
	return res.RowsAffected > 0, res.Error
}

// UpdateByUsername applies the given column values to username's row.
func (r *Repository) UpdateByUsername(ctx context.Context, username string, values map[string]any) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("username = ?", username).
		UpdateColumns(values)
	return res.RowsAffected > 0, res.Error
}

// Delete removes username. It reports false when no row matched.
func (r *Repository) Delete(ctx context.Context, username string) (bool, error) {
	res := r.db.WithContext(ctx).Where("username = ?", username).Delete(&models.User{})
	return res.RowsAffected > 0, res.Error
}

// SetRoleByMail changes the role of the account registered with mail.
func (r *Repository) SetRoleByMail(ctx context.Context, mail string, role enums.UserRole) (bool, error) {
	normalized := NormalizeMail(mail)
	if normalized == nil {
		return false, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("mail = ?", *normalized).
		UpdateColumn("role", role)
	return res.RowsAffected > 0, res.Error
}

// UpdatePasswordByMail replaces the password hash of the account registered with mail.
func (r *Repository) UpdatePasswordByMail(ctx context.Context, mail, passwordHash string) (bool, error) {
	normalized := NormalizeMail(mail)
	if normalized == nil {
		return false, nil
	}
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("mail = ?", *normalized).
		UpdateColumn("password_hash", passwordHash)
	return res.RowsAffected > 0, res.Error
}

// UpdateLastLogin refreshes the user's last_login_at timestamp.
func (r *Repository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
}

// IsNotFound reports whether err means no user row matched.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
