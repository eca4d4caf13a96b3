package vend

import "context"

type purchaseResult struct {
	Transaction *Transaction `json:"transaction"`
}

// BuyAirtime vends airtime and returns the resulting transaction.
func (c *Client) BuyAirtime(ctx context.Context, req BuyAirtimeRequest) (*Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err, "invalid airtime purchase")
	}
	return c.purchase(ctx, EndpointBuyAirtime, req.normalized())
}

// BuyData vends a data plan and returns the resulting transaction.
func (c *Client) BuyData(ctx context.Context, req BuyDataRequest) (*Transaction, error) {
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err, "invalid data purchase")
	}
	return c.purchase(ctx, EndpointBuyData, req.normalized())
}

func (c *Client) purchase(ctx context.Context, endpoint Endpoint, body any) (*Transaction, error) {
	res, err := Call[purchaseResult](ctx, c, endpoint, WithBody(body))
	if err != nil {
		return nil, err
	}
	if res.Transaction == nil {
		return nil, ErrMalformedResponse
	}
	c.logger.Info("purchase completed",
		"endpoint", endpoint.Name,
		"transaction", res.Transaction.ID,
		"status", res.Transaction.Status,
	)
	return res.Transaction, nil
}

// Transactions returns one page of transactions.
func (c *Client) Transactions(ctx context.Context, filters TransactionFilters) (*Page[Transaction], error) {
	return listPage[Transaction](ctx, c, EndpointTransactions, filters.Values())
}

// Transaction returns a single transaction.
func (c *Client) Transaction(ctx context.Context, id string) (*Transaction, error) {
	if id == "" {
		return nil, invalidRequest(errMissingID, "transaction id is required")
	}
	tx, err := Call[Transaction](ctx, c, EndpointTransaction, WithParam("id", id))
	if err != nil {
		return nil, err
	}
	return &tx, nil
}
