package materials

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/angelmondragon/labstock-backend/pkg/config"
	"github.com/angelmondragon/labstock-backend/pkg/db"
	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/labstock-backend/pkg/errors"
	"github.com/angelmondragon/labstock-backend/pkg/pagination"
	"github.com/angelmondragon/labstock-backend/pkg/types"
	"gorm.io/gorm"
)

// firstDataRow is the spreadsheet row of the first upload entry; row 1 holds headers.
const firstDataRow = 2

var (
	ErrMaterialNotFound = pkgerrors.New(pkgerrors.CodeNotFound, "Material not found")
	ErrCodeTaken        = pkgerrors.New(pkgerrors.CodeConflict, "material code already exists")
	ErrCodeInUse        = pkgerrors.New(pkgerrors.CodeConflict, "material code is referenced by transactions and cannot change")
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages the materials catalog.
type Service interface {
	List(ctx context.Context) ([]MaterialDTO, error)
	Get(ctx context.Context, ref string) (*MaterialDTO, error)
	Search(ctx context.Context, q string) ([]MaterialDTO, error)
	Update(ctx context.Context, id int64, input UpdateInput) (*MaterialDTO, error)
	Delete(ctx context.Context, id int64) (string, error)
	Upload(ctx context.Context, rows []UploadRow) (types.UploadSummary, error)
}

type service struct {
	tx          txRunner
	repo        Repository
	searchLimit int
}

// NewService wires the catalog service.
func NewService(tx txRunner, repo Repository, cfg config.StockConfig) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("materials repository required")
	}
	return &service{
		tx:          tx,
		repo:        repo,
		searchLimit: pagination.Clamp(cfg.SearchLimit, 10, 100),
	}, nil
}

func (s *service) List(ctx context.Context) ([]MaterialDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list materials")
	}
	return toDTOs(rows), nil
}

// Get resolves ref as a material code first and falls back to a numeric id.
func (s *service) Get(ctx context.Context, ref string) (*MaterialDTO, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material reference is required")
	}
	m, err := s.repo.FindByCode(ctx, ref)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load material")
	}
	if m == nil {
		if id, convErr := strconv.ParseInt(ref, 10, 64); convErr == nil {
			m, err = s.repo.FindByID(ctx, id)
			if err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load material")
			}
		}
	}
	if m == nil {
		return nil, ErrMaterialNotFound
	}
	dto := FromModel(*m)
	return &dto, nil
}

func (s *service) Search(ctx context.Context, q string) ([]MaterialDTO, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return []MaterialDTO{}, nil
	}
	rows, err := s.repo.Search(ctx, q, s.searchLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "search materials")
	}
	return toDTOs(rows), nil
}

// Update locks the row and writes the catalog columns. available_quantity is
// only written when the caller supplies it, and a code the ledger already
// references cannot be renamed.
func (s *service) Update(ctx context.Context, id int64, input UpdateInput) (*MaterialDTO, error) {
	code := strings.TrimSpace(input.Code)
	name := strings.TrimSpace(input.Name)
	if code == "" || name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Material Code and Name are required")
	}
	if input.AvailableQuantity != nil && *input.AvailableQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "available_quantity cannot be negative")
	}
	materialType := strings.TrimSpace(input.Type)
	if materialType == "" {
		materialType = defaultMaterialType
	}

	fields := map[string]any{
		"material_code":     code,
		"material_name":     name,
		"material_type":     materialType,
		"supplier_address":  optional(input.SupplierAddress),
		"bill_no_invoice":   optional(input.BillNoInvoice),
		"opening_balance":   input.OpeningBalance,
		"quantity_received": input.QuantityReceived,
		"quantity_issued":   input.QuantityIssued,
		"balance":           input.Balance,
		"amount_with_gst":   input.AmountWithGST.Round(2),
	}
	if input.AvailableQuantity != nil {
		fields["available_quantity"] = *input.AvailableQuantity
	}

	var updated *models.Material
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.LockByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load material")
		}
		if current == nil {
			return ErrMaterialNotFound
		}

		if code != current.Code {
			referenced, err := repo.CodeReferenced(ctx, current.Code)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check material references")
			}
			if referenced {
				return ErrCodeInUse
			}
		}

		if err := repo.UpdateFields(ctx, id, fields); err != nil {
			switch {
			case db.IsUniqueViolation(err, ""):
				return ErrCodeTaken
			case db.IsCheckViolation(err, ""):
				return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "material violates a catalog constraint")
			default:
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update material")
			}
		}

		updated, err = repo.FindByID(ctx, id)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reload material")
		}
		if updated == nil {
			return ErrMaterialNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	dto := FromModel(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id int64) (string, error) {
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load material")
	}
	if m == nil {
		return "", ErrMaterialNotFound
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete material")
	}
	return m.Code, nil
}

// Upload upserts rows by material code. Existing materials only get their
// name refreshed so catalog quantities are never overwritten by a sheet.
func (s *service) Upload(ctx context.Context, rows []UploadRow) (types.UploadSummary, error) {
	if len(rows) == 0 {
		return types.UploadSummary{}, pkgerrors.New(pkgerrors.CodeValidation, "Materials array is empty")
	}

	var summary types.UploadSummary
	var rowErrs types.RowErrors
	for i, row := range rows {
		rowNum := i + firstDataRow
		created, err := s.uploadRow(ctx, row)
		if err != nil {
			rowErrs.Add(rowNum, err)
			summary.Failed++
			continue
		}
		if created {
			summary.Created++
		} else {
			summary.Updated++
		}
	}
	summary.Errors = rowErrs.Messages()

	if summary.Succeeded() == 0 {
		return summary, pkgerrors.New(pkgerrors.CodeValidation, "No materials were uploaded").WithDetails(summary)
	}
	return summary, nil
}

func (s *service) uploadRow(ctx context.Context, row UploadRow) (bool, error) {
	if row.Code.Empty() || row.Name.Empty() {
		return false, errors.New("missing required fields (material_code or material_name)")
	}
	code := row.Code.String()
	name := row.Name.String()

	existing, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return false, fmt.Errorf("lookup failed: %w", err)
	}
	if existing != nil {
		if err := s.repo.UpdateName(ctx, code, name); err != nil {
			return false, fmt.Errorf("update failed: %w", err)
		}
		return false, nil
	}

	balance, err := row.Balance.Int()
	if err != nil {
		return false, fmt.Errorf("balance: %w", err)
	}
	available, err := row.AvailableQuantity.Int()
	if err != nil {
		return false, fmt.Errorf("available_quantity: %w", err)
	}
	if available < 0 {
		return false, errors.New("available_quantity cannot be negative")
	}
	materialType := row.Type.String()
	if materialType == "" {
		materialType = defaultMaterialType
	}

	m := &models.Material{
		Code:              code,
		Name:              name,
		Type:              materialType,
		Balance:           balance,
		OpeningBalance:    balance,
		AvailableQuantity: available,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		if db.IsUniqueViolation(err, "") {
			return false, errors.New("material code already exists")
		}
		return false, fmt.Errorf("insert failed: %w", err)
	}
	return true, nil
}

func toDTOs(rows []models.Material) []MaterialDTO {
	out := make([]MaterialDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, FromModel(row))
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
