package materials

import (
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"github.com/angelmondragon/labstock-backend/pkg/types"
	"github.com/shopspring/decimal"
)

const defaultMaterialType = "General"

// MaterialDTO is the public shape of a catalog row.
type MaterialDTO struct {
	ID                int64           `json:"id"`
	Code              string          `json:"material_code"`
	Name              string          `json:"material_name"`
	Type              string          `json:"material_type"`
	SupplierAddress   *string         `json:"supplier_address"`
	BillNoInvoice     *string         `json:"bill_no_invoice"`
	OpeningBalance    int             `json:"opening_balance"`
	QuantityReceived  int             `json:"quantity_received"`
	QuantityIssued    int             `json:"quantity_issued"`
	Balance           int             `json:"balance"`
	AvailableQuantity int             `json:"available_quantity"`
	AmountWithGST     decimal.Decimal `json:"amount_with_gst"`
	CreatedAt         time.Time       `json:"created_at"`
}

// FromModel maps a material row into its DTO.
func FromModel(m models.Material) MaterialDTO {
	return MaterialDTO{
		ID:                m.ID,
		Code:              m.Code,
		Name:              m.Name,
		Type:              m.Type,
		SupplierAddress:   m.SupplierAddress,
		BillNoInvoice:     m.BillNoInvoice,
		OpeningBalance:    m.OpeningBalance,
		QuantityReceived:  m.QuantityReceived,
		QuantityIssued:    m.QuantityIssued,
		Balance:           m.Balance,
		AvailableQuantity: m.AvailableQuantity,
		AmountWithGST:     m.AmountWithGST,
		CreatedAt:         m.CreatedAt,
	}
}

// UpdateInput replaces the catalog fields of a material. AvailableQuantity is
// left untouched unless supplied.
type UpdateInput struct {
	Code              string          `json:"material_code" validate:"required"`
	Name              string          `json:"material_name" validate:"required"`
	Type              string          `json:"material_type"`
	SupplierAddress   string          `json:"supplier_address"`
	BillNoInvoice     string          `json:"bill_no_invoice"`
	OpeningBalance    int             `json:"opening_balance"`
	QuantityReceived  int             `json:"quantity_received"`
	QuantityIssued    int             `json:"quantity_issued"`
	Balance           int             `json:"balance"`
	AvailableQuantity *int            `json:"available_quantity,omitempty" validate:"omitempty,gte=0"`
	AmountWithGST     decimal.Decimal `json:"amount_with_gst"`
}

// UploadRow is one spreadsheet row of a bulk material upload.
type UploadRow struct {
	Code              types.Cell `json:"material_code"`
	Name              types.Cell `json:"material_name"`
	Type              types.Cell `json:"material_type"`
	Balance           types.Cell `json:"balance"`
	AvailableQuantity types.Cell `json:"available_quantity"`
}

// UploadRequest is the bulk upload body.
type UploadRequest struct {
	Materials []UploadRow `json:"materials" validate:"required,min=1"`
}
