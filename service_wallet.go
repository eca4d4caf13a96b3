package vend

import (
	"context"
	"net/url"
)

// Wallet returns the current wallet balance.
func (c *Client) Wallet(ctx context.Context) (*Wallet, error) {
	w, err := Call[Wallet](ctx, c, EndpointWallet)
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// WalletHistory returns one page of the wallet ledger.
func (c *Client) WalletHistory(ctx context.Context, filters WalletHistoryFilters) (*Page[WalletTransaction], error) {
	return listPage[WalletTransaction](ctx, c, EndpointWalletHistory, filters.Values())
}

// FundWallet starts a deposit and returns the payment gateway redirect.
func (c *Client) FundWallet(ctx context.Context, req FundWalletRequest) (*FundWalletResult, error) {
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err, "invalid deposit request")
	}

	res, err := Call[FundWalletResult](ctx, c, EndpointInitiateDeposit, WithBody(req))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func listPage[T any](ctx context.Context, c *Client, endpoint Endpoint, query url.Values) (*Page[T], error) {
	page, err := Call[Page[T]](ctx, c, endpoint, WithQuery(query))
	if err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []T{}
	}
	return &page, nil
}
