package stock

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"github.com/angelmondragon/labstock-backend/pkg/enums"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages persistence for stock movements.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	LockMaterial(ctx context.Context, code string) (*models.Material, error)
	Decrement(ctx context.Context, code string, qty int) (bool, error)
	Increment(ctx context.Context, code string, qty int) (bool, error)
	CreateTransaction(ctx context.Context, txn *models.Transaction) error
	Outstanding(ctx context.Context, username, code string) (Outstanding, error)
	ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error)
	ListTransactionsSince(ctx context.Context, since time.Time) ([]models.Transaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a stock repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// LockMaterial reads the material row with FOR UPDATE. Drivers without row
// locks (sqlite) drop the clause and rely on the transaction's write lock.
func (r *repository) LockMaterial(ctx context.Context, code string) (*models.Material, error) {
	var material models.Material
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("material_code = ?", code).
		Take(&material).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}
		return nil, err
	}
	return &material, nil
}

// Decrement lowers available_quantity only when enough stock remains.
// It reports false when no row satisfied the guard.
func (r *repository) Decrement(ctx context.Context, code string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Material{}).
		Where("material_code = ? AND available_quantity >= ?", code, qty).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity - ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) Increment(ctx context.Context, code string, qty int) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Material{}).
		Where("material_code = ?", code).
		UpdateColumn("available_quantity", gorm.Expr("available_quantity + ?", qty))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.Transaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

type outstandingRow struct {
	Borrowed int
	Returned int
}

func (r *repository) Outstanding(ctx context.Context, username, code string) (Outstanding, error) {
	var row outstandingRow
	err := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Select(
			"COALESCE(SUM(CASE WHEN action = ? THEN quantity ELSE 0 END), 0) AS borrowed, "+
				"COALESCE(SUM(CASE WHEN action = ? THEN quantity ELSE 0 END), 0) AS returned",
			enums.TransactionActionCheckout, enums.TransactionActionCheckin,
		).
		Where("username = ? AND item_code = ?", username, code).
		Scan(&row).Error
	if err != nil {
		return Outstanding{}, err
	}
	return Outstanding{
		Borrowed:    row.Borrowed,
		Returned:    row.Returned,
		Outstanding: row.Borrowed - row.Returned,
	}, nil
}

func (r *repository) ListTransactions(ctx context.Context, limit int) ([]models.Transaction, error) {
	var rows []models.Transaction
	if err := r.db.WithContext(ctx).
		Order("scan_time DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) ListTransactionsSince(ctx context.Context, since time.Time) ([]models.Transaction, error) {
	var rows []models.Transaction
	if err := r.db.WithContext(ctx).
		Where("scan_time >= ?", since).
		Order("scan_time DESC").
		Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
