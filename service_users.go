package vend

import "context"

// Users returns one page of accounts. Admin only on the backend.
func (c *Client) Users(ctx context.Context, filters UserFilters) (*Page[User], error) {
	return listPage[User](ctx, c, EndpointUsers, filters.Values())
}

// User returns a single account.
func (c *Client) User(ctx context.Context, id string) (*User, error) {
	if id == "" {
		return nil, invalidRequest(errMissingID, "user id is required")
	}
	u, err := Call[User](ctx, c, EndpointUser, WithParam("id", id))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser creates an account.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err, "invalid user")
	}
	if req.Phone != "" {
		if phone, err := NormalizePhone(req.Phone); err == nil {
			req.Phone = phone
		}
	}

	u, err := Call[User](ctx, c, EndpointCreateUser, WithBody(req))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser changes an account.
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (*User, error) {
	if id == "" {
		return nil, invalidRequest(errMissingID, "user id is required")
	}
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err, "invalid user update")
	}

	u, err := Call[User](ctx, c, EndpointUpdateUser, WithParam("id", id), WithBody(req))
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SuspendUser suspends an account.
func (c *Client) SuspendUser(ctx context.Context, id string) error {
	if id == "" {
		return invalidRequest(errMissingID, "user id is required")
	}
	_, err := Call[struct{}](ctx, c, EndpointSuspendUser, WithParam("id", id))
	return err
}
