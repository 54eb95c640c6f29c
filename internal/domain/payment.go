package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduledPayment is the money available for allocation across loans on PaymentDate
type ScheduledPayment struct {
	PaymentDate  time.Time       `json:"payment_date"`
	TotalPayment decimal.Decimal `json:"total_payment"`
}
