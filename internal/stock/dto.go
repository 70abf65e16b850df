package stock

import (
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/db/models"
	"github.com/angelmondragon/labstock-backend/pkg/enums"
)

// MovementInput identifies one checkout or checkin request.
// A zero Quantity means one unit.
type MovementInput struct {
	Username     string `json:"username" validate:"required"`
	MaterialCode string `json:"material_code" validate:"required"`
	Quantity     int    `json:"quantity" validate:"gte=0"`
}

// Outstanding is the derived balance of a user against one material.
type Outstanding struct {
	Borrowed    int `json:"borrowed"`
	Returned    int `json:"returned"`
	Outstanding int `json:"outstanding"`
}

// TransactionDTO is the public shape of a ledger row.
type TransactionDTO struct {
	ID       int64                   `json:"id"`
	Username string                  `json:"username"`
	ItemCode string                  `json:"item_code"`
	ItemName string                  `json:"item_name"`
	Action   enums.TransactionAction `json:"action"`
	Quantity int                     `json:"quantity"`
	ScanTime time.Time               `json:"scan_time"`
}

// FromModel maps a transaction row into its DTO.
func FromModel(m models.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:       m.ID,
		Username: m.Username,
		ItemCode: m.ItemCode,
		ItemName: m.ItemName,
		Action:   m.Action,
		Quantity: m.Quantity,
		ScanTime: m.ScanTime,
	}
}
