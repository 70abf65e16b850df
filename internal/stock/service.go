package stock

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"github.com/angelmondragon/labstock-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
	"github.com/angelmondragon/labstock-backend/pkg/metrics"
	"github.com/angelmondragon/labstock-backend/pkg/pagination"
	"gorm.io/gorm"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outcomeRecorder interface {
	Observe(action, outcome string, elapsed time.Duration)
}

// Service is the stock ledger: it moves available quantity and records every
// movement as an immutable transaction row.
type Service interface {
	Checkout(ctx context.Context, input MovementInput) (*TransactionDTO, error)
	Checkin(ctx context.Context, input MovementInput) (*TransactionDTO, error)
	GetOutstanding(ctx context.Context, username, materialCode string) (Outstanding, error)
	ListTransactions(ctx context.Context, limit int) ([]TransactionDTO, error)
}

type service struct {
	tx        txRunner
	repo      Repository
	recorder  outcomeRecorder
	listLimit int
	now       func() time.Time
}

// NewService wires the ledger. A nil recorder disables metrics.
func NewService(tx txRunner, repo Repository, recorder outcomeRecorder, cfg config.StockConfig) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	if recorder == nil {
		recorder = (*metrics.StockMetrics)(nil)
	}
	limit := cfg.TransactionsListLimit
	if limit <= 0 {
		limit = pagination.MaxLimit
	}
	return &service{
		tx:        tx,
		repo:      repo,
		recorder:  recorder,
		listLimit: limit,
		now:       time.Now,
	}, nil
}

func (s *service) Checkout(ctx context.Context, input MovementInput) (*TransactionDTO, error) {
	return s.move(ctx, enums.TransactionActionCheckout, input)
}

func (s *service) Checkin(ctx context.Context, input MovementInput) (*TransactionDTO, error) {
	return s.move(ctx, enums.TransactionActionCheckin, input)
}

func (s *service) move(ctx context.Context, action enums.TransactionAction, input MovementInput) (result *TransactionDTO, err error) {
	started := s.now()
	defer func() {
		s.recorder.Observe(action.String(), outcomeOf(err), s.now().Sub(started))
	}()

	username, code, qty, err := normalizeMovement(input)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		material, err := repo.LockMaterial(ctx, code)
		if err != nil {
			return err
		}

		var moved bool
		if action == enums.TransactionActionCheckout {
			moved, err = repo.Decrement(ctx, code, qty)
		} else {
			moved, err = repo.Increment(ctx, code, qty)
		}
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update available quantity")
		}
		if !moved {
			if action == enums.TransactionActionCheckout {
				return ErrInsufficientStock
			}
			return ErrMaterialNotFound
		}

		row := &models.Transaction{
			Username: username,
			ItemCode: material.Code,
			ItemName: material.Name,
			Action:   action,
			Quantity: qty,
		}
		if err := repo.CreateTransaction(ctx, row); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record transaction")
		}
		dto := FromModel(*row)
		result = &dto
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "stock movement failed")
		}
		return nil, err
	}
	return result, nil
}

func (s *service) GetOutstanding(ctx context.Context, username, materialCode string) (Outstanding, error) {
	username = strings.TrimSpace(username)
	materialCode = strings.TrimSpace(materialCode)
	if username == "" || materialCode == "" {
		return Outstanding{}, pkgerrors.New(pkgerrors.CodeValidation, "username and material_code are required")
	}
	out, err := s.repo.Outstanding(ctx, username, materialCode)
	if err != nil {
		return Outstanding{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load outstanding balance")
	}
	return out, nil
}

func (s *service) ListTransactions(ctx context.Context, limit int) ([]TransactionDTO, error) {
	limit = pagination.Clamp(limit, s.listLimit, s.listLimit)
	rows, err := s.repo.ListTransactions(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list transactions")
	}
	out := make([]TransactionDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out, nil
}

func normalizeMovement(input MovementInput) (string, string, int, error) {
	username := strings.TrimSpace(input.Username)
	code := strings.TrimSpace(input.MaterialCode)
	if username == "" || code == "" {
		return "", "", 0, pkgerrors.New(pkgerrors.CodeValidation, "username and material_code are required")
	}
	qty := input.Quantity
	if qty < 0 {
		return "", "", 0, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if qty == 0 {
		qty = 1
	}
	return username, code, qty, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrInsufficientStock):
		return metrics.OutcomeInsufficientStock
	case errors.Is(err, ErrMaterialNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
