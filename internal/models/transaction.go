package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	TransactionCategoryDeposit = "DP Proyek"
	TransactionMethodTransfer  = "Transfer Bank"
)

type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	Date        string          `json:"date" validate:"required,datetime=2006-01-02"`
	Description string          `json:"description" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	Type        TransactionType `json:"type" validate:"required,oneof=Pemasukan Pengeluaran"`
	ProjectID   *uuid.UUID      `json:"project_id,omitempty"`
	Category    string          `json:"category"`
	Method      string          `json:"method"`
	CreatedAt   time.Time       `json:"created_at"`
}
