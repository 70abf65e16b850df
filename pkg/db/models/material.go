package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material is a lendable catalog item. AvailableQuantity is the live stock
// counter moved by checkouts and checkins.
type Material struct {
	ID                int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Code              string          `gorm:"column:material_code;type:text;not null;uniqueIndex:materials_material_code_key"`
	Name              string          `gorm:"column:material_name;type:text;not null"`
	Type              string          `gorm:"column:material_type;type:text;not null;default:General"`
	SupplierAddress   *string         `gorm:"column:supplier_address"`
	BillNoInvoice     *string         `gorm:"column:bill_no_invoice"`
	OpeningBalance    int             `gorm:"column:opening_balance;not null;default:0"`
	QuantityReceived  int             `gorm:"column:quantity_received;not null;default:0"`
	QuantityIssued    int             `gorm:"column:quantity_issued;not null;default:0"`
	Balance           int             `gorm:"column:balance;not null;default:0"`
	AvailableQuantity int             `gorm:"column:available_quantity;not null;default:0;check:materials_available_quantity_check,available_quantity >= 0"`
	AmountWithGST     decimal.Decimal `gorm:"column:amount_with_gst;type:numeric(12,2);not null;default:0"`
	CreatedAt         time.Time       `gorm:"column:created_at;autoCreateTime"`
}
