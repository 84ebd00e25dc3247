package investstat

import (
	"time"

	"github.com/shopspring/decimal"
)

type OperationType string

const (
	Buy              OperationType = "Buy"
	Sell             OperationType = "Sell"
	Dividend         OperationType = "Dividend"
	BrokerCommission OperationType = "BrokerCommission"
)

type OperationStatus string

const (
	Done     OperationStatus = "Done"
	Declined OperationStatus = "Decline"
)

// Operation is one raw broker operation (a trade, a dividend, a fee),
// keyed by the same stable instrument identifier as positions.
// Payment keeps the raw sign the broker reported.
type Operation struct {
	InstrumentID   string
	Ticker         string
	Name           string
	InstrumentType InstrumentType
	Currency       string
	Status         OperationStatus
	Type           OperationType
	Price          decimal.Decimal
	Quantity       decimal.Decimal
	Payment        decimal.Decimal
	Commission     Money
	Date           time.Time
}
