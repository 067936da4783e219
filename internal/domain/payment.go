package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus статус платежа
type PaymentStatus string

const (
	PaymentStatusPending        PaymentStatus = "pending"
	PaymentStatusPaid           PaymentStatus = "paid"
	PaymentStatusPartiallyPaid  PaymentStatus = "partially_paid"
	PaymentStatusRefunded       PaymentStatus = "refunded"
)

// Payment represents a payment row attached to a package purchase
type Payment struct {
	ID                int64
	PackageCustomerID int64

	Amount   decimal.Decimal
	Gateway  string
	Status   PaymentStatus
	DateTime time.Time

	CreatedAt time.Time
}

// ToTransferMap returns the loosely-typed representation consumed by the
// commerce/webhook edges. This is the only place the map form is produced;
// engine internals work with the typed record.
func (p *Payment) ToTransferMap() map[string]interface{} {
	return map[string]interface{}{
		"id":                p.ID,
		"packageCustomerId": p.PackageCustomerID,
		"amount":            p.Amount.StringFixed(2),
		"gateway":           p.Gateway,
		"status":            string(p.Status),
		"dateTime":          p.DateTime.UTC().Format(time.RFC3339),
	}
}
