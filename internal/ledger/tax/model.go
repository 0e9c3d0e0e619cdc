// Package tax holds the monthly VAT (G50 declaration) read model. Entries
// are produced by the sales and purchasing subsystems; this package only
// reads them.
package tax

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryType separates VAT collected on sales from VAT deductible on
// purchases.
type EntryType string

const (
	TypeCollectee  EntryType = "COLLECTEE"
	TypeDeductible EntryType = "DEDUCTIBLE"
)

// Entry is one tenant-month VAT record, amounts split by legal rate.
type Entry struct {
	ID        int64
	TenantID  uuid.UUID
	Year      int
	Month     int
	Type      EntryType
	Amount19  decimal.Decimal
	Amount9   decimal.Decimal
	Status    string
	Reference string
	CreatedAt time.Time
	UpdatedAt time.Time
}
