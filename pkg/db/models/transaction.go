package models

import (
	"time"

	"github.com/angelmondragon/labstock-backend/pkg/enums"
)

// Transaction is an append-only record of one checkout or checkin.
type Transaction struct {
	ID       int64                   `gorm:"column:id;primaryKey;autoIncrement"`
	Username string                  `gorm:"column:username;type:text;not null;index:idx_transactions_user_item,priority:1"`
	ItemCode string                  `gorm:"column:item_code;type:text;not null;index:idx_transactions_user_item,priority:2"`
	ItemName string                  `gorm:"column:item_name;type:text;not null"`
	Action   enums.TransactionAction `gorm:"column:action;type:text;not null;check:transactions_action_check,action IN ('checkout','checkin')"`
	Quantity int                     `gorm:"column:quantity;not null;default:1;check:transactions_quantity_check,quantity > 0"`
	ScanTime time.Time               `gorm:"column:scan_time;not null;autoCreateTime;index:idx_transactions_scan_time"`
}
