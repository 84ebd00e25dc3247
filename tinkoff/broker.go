package tinkoff

import (
	"context"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ekozlenko/investstat"
)

// moneyAmount is the wire shape of a monetary value.
type moneyAmount struct {
	Currency string  `json:"currency"`
	Value    float64 `json:"value"`
}

func (m *moneyAmount) money() investstat.Money {
	if m == nil {
		return investstat.Money{}
	}
	return investstat.M(m.Value, m.Currency)
}

// Accounts lists the user's brokerage accounts.
func (c *Client) Accounts(ctx context.Context) ([]investstat.Account, error) {
	var payload struct {
		Accounts []struct {
			BrokerAccountType string `json:"brokerAccountType"`
			BrokerAccountID   string `json:"brokerAccountId"`
		} `json:"accounts"`
	}
	if err := c.get(ctx, "/user/accounts", nil, &payload); err != nil {
		return nil, err
	}
	accounts := make([]investstat.Account, 0, len(payload.Accounts))
	for _, a := range payload.Accounts {
		accounts = append(accounts, investstat.Account{
			ID:   a.BrokerAccountID,
			Name: a.BrokerAccountType,
			Type: a.BrokerAccountType,
		})
	}
	return accounts, nil
}

// Positions fetches the raw portfolio positions of one account.
func (c *Client) Positions(ctx context.Context, accountID string) ([]investstat.Position, error) {
	var payload struct {
		Positions []struct {
			FIGI                 string       `json:"figi"`
			Ticker               string       `json:"ticker"`
			Name                 string       `json:"name"`
			InstrumentType       string       `json:"instrumentType"`
			Balance              float64      `json:"balance"`
			AveragePositionPrice *moneyAmount `json:"averagePositionPrice"`
			ExpectedYield        *moneyAmount `json:"expectedYield"`
		} `json:"positions"`
	}
	query := url.Values{"brokerAccountId": {accountID}}
	if err := c.get(ctx, "/portfolio", query, &payload); err != nil {
		return nil, err
	}

	positions := make([]investstat.Position, 0, len(payload.Positions))
	for _, p := range payload.Positions {
		positions = append(positions, investstat.Position{
			InstrumentID:         p.FIGI,
			Ticker:               p.Ticker,
			Name:                 p.Name,
			InstrumentType:       investstat.InstrumentType(p.InstrumentType),
			Balance:              decimal.NewFromFloat(p.Balance),
			AveragePositionPrice: p.AveragePositionPrice.money(),
			ExpectedYield:        investstat.Yield{Value: p.ExpectedYield.money()},
		})
	}
	return positions, nil
}

// Operations fetches the raw operations of one account over a window.
func (c *Client) Operations(ctx context.Context, accountID string, from, to time.Time) ([]investstat.Operation, error) {
	var payload struct {
		Operations []struct {
			FIGI           string       `json:"figi"`
			InstrumentType string       `json:"instrumentType"`
			OperationType  string       `json:"operationType"`
			Status         string       `json:"status"`
			Currency       string       `json:"currency"`
			Payment        float64      `json:"payment"`
			Price          float64      `json:"price"`
			Quantity       float64      `json:"quantity"`
			Commission     *moneyAmount `json:"commission"`
			Date           time.Time    `json:"date"`
		} `json:"operations"`
	}
	query := url.Values{
		"brokerAccountId": {accountID},
		"from":            {from.Format(time.RFC3339)},
		"to":              {to.Format(time.RFC3339)},
	}
	if err := c.get(ctx, "/operations", query, &payload); err != nil {
		return nil, err
	}

	operations := make([]investstat.Operation, 0, len(payload.Operations))
	for _, op := range payload.Operations {
		operations = append(operations, investstat.Operation{
			InstrumentID:   op.FIGI,
			InstrumentType: investstat.InstrumentType(op.InstrumentType),
			Type:           investstat.OperationType(op.OperationType),
			Status:         investstat.OperationStatus(op.Status),
			Currency:       op.Currency,
			Payment:        decimal.NewFromFloat(op.Payment),
			Price:          decimal.NewFromFloat(op.Price),
			Quantity:       decimal.NewFromFloat(op.Quantity),
			Commission:     op.Commission.money(),
			Date:           op.Date,
		})
	}
	return operations, nil
}
