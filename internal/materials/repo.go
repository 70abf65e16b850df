package materials

import (
	"context"
	"errors"
	"strings"

	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for catalog materials.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	List(ctx context.Context) ([]models.Material, error)
	FindByCode(ctx context.Context, code string) (*models.Material, error)
	FindByID(ctx context.Context, id int64) (*models.Material, error)
	Search(ctx context.Context, q string, limit int) ([]models.Material, error)
	Create(ctx context.Context, m *models.Material) error
	LockByID(ctx context.Context, id int64) (*models.Material, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]any) error
	CodeReferenced(ctx context.Context, code string) (bool, error)
	UpdateName(ctx context.Context, code, name string) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a materials repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) List(ctx context.Context) ([]models.Material, error) {
	var rows []models.Material
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindByCode(ctx context.Context, code string) (*models.Material, error) {
	var m models.Material
	if err := r.db.WithContext(ctx).Where("material_code = ?", code).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByID(ctx context.Context, id int64) (*models.Material, error) {
	var m models.Material
	if err := r.db.WithContext(ctx).Where("id = ?", id).Take(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// Search matches code or name case-insensitively. lower() LIKE behaves the
// same on postgres and sqlite.
func (r *repository) Search(ctx context.Context, q string, limit int) ([]models.Material, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"
	var rows []models.Material
	if err := r.db.WithContext(ctx).
		Where(`lower(material_name) LIKE ? ESCAPE '\' OR lower(material_code) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Create(ctx context.Context, m *models.Material) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// LockByID reads the row with FOR UPDATE so ledger movements wait for the
// catalog write to commit.
func (r *repository) LockByID(ctx context.Context, id int64) (*models.Material, error) {
	var m models.Material
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		Take(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

// UpdateFields writes only the named columns.
func (r *repository) UpdateFields(ctx context.Context, id int64, fields map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Material{}).
		Where("id = ?", id).
		Updates(fields).Error
}

// CodeReferenced reports whether any ledger row carries code.
func (r *repository) CodeReferenced(ctx context.Context, code string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("item_code = ?", code).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *repository) UpdateName(ctx context.Context, code, name string) error {
	return r.db.WithContext(ctx).
		Model(&models.Material{}).
		Where("material_code = ?", code).
		Update("material_name", name).Error
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Material{}).Error
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
