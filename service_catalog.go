package vend

import (
	"context"
	"errors"
	"net/url"
	"strconv"
)

var errMissingID = errors.New("missing id")

// Products returns the product catalog.
func (c *Client) Products(ctx context.Context, filters ProductFilters) (*Page[Product], error) {
	return listPage[Product](ctx, c, EndpointProducts, filters.Values())
}

// Product returns a single product.
func (c *Client) Product(ctx context.Context, id string) (*Product, error) {
	if id == "" {
		return nil, invalidRequest(errMissingID, "product id is required")
	}
	p, err := Call[Product](ctx, c, EndpointProduct, WithParam("id", id))
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// DashboardKPIs returns the headline numbers for the dashboard.
func (c *Client) DashboardKPIs(ctx context.Context) (*DashboardKPIs, error) {
	kpis, err := Call[DashboardKPIs](ctx, c, EndpointDashboardKPIs)
	if err != nil {
		return nil, err
	}
	return &kpis, nil
}

// DashboardSales returns daily sales for the last days. Values below one
// default to a week.
func (c *Client) DashboardSales(ctx context.Context, days int) ([]SalesPoint, error) {
	if days < 1 {
		days = 7
	}
	q := url.Values{}
	q.Set("days", strconv.Itoa(days))

	points, err := Call[[]SalesPoint](ctx, c, EndpointDashboardSales, WithQuery(q))
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []SalesPoint{}
	}
	return points, nil
}

// NetworkDistribution returns the sales share of each network.
func (c *Client) NetworkDistribution(ctx context.Context) ([]NetworkShare, error) {
	shares, err := Call[[]NetworkShare](ctx, c, EndpointNetworkDistribution)
	if err != nil {
		return nil, err
	}
	if shares == nil {
		shares = []NetworkShare{}
	}
	return shares, nil
}
