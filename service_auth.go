package vend

import "context"

// Login exchanges credentials for a token pair. On success the access token
// and user are written to the session together.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err, "invalid login request")
	}

	res, err := Call[LoginResult](ctx, c, EndpointLogin, WithBody(req.payload()))
	if err != nil {
		return nil, err
	}

	if res.Tokens.Access == "" {
		return nil, ErrMalformedResponse
	}

	c.session.SetSession(res.Tokens.Access, res.User)
	c.logger.Info("logged in", "user", userEmail(res.User))
	return &res, nil
}

// Register creates an account. It does not sign the user in.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*LoginResult, error) {
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err, "invalid registration request")
	}

	res, err := Call[LoginResult](ctx, c, EndpointRegister, WithBody(req.payload()))
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// ResetPassword asks the backend to email a reset link.
func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) error {
	if err := req.Validate(); err != nil {
		return invalidRequest(err, "invalid reset request")
	}
	_, err := Call[struct{}](ctx, c, EndpointResetPassword, WithBody(req))
	return err
}

// Profile fetches the current user and refreshes the cached record. The
// cache is left alone when the session changed while the request was in
// flight.
func (c *Client) Profile(ctx context.Context) (*User, error) {
	epoch := c.session.Epoch()

	user, err := Call[User](ctx, c, EndpointProfile)
	if err != nil {
		return nil, err
	}

	c.session.SetUserIfCurrent(epoch, &user)
	return &user, nil
}

// CurrentUser returns the cached user, refreshing it from the backend when
// the cache is empty. It returns nil without error when there is no
// session or the profile cannot be fetched.
func (c *Client) CurrentUser(ctx context.Context) *User {
	if !c.session.IsAuthenticated() {
		return nil
	}
	if user := c.session.GetUser(); user != nil {
		return user
	}

	user, err := c.Profile(ctx)
	if err != nil {
		c.logger.Debug("profile refresh failed", "error", err)
		return nil
	}
	return user
}

// UpdateProfile changes the current user's profile and caches the result.
func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		return nil, invalidRequest(err, "invalid profile update")
	}
	if req.Phone != "" {
		if phone, err := NormalizePhone(req.Phone); err == nil {
			req.Phone = phone
		}
	}

	epoch := c.session.Epoch()
	user, err := Call[User](ctx, c, EndpointUpdateProfile, WithBody(req))
	if err != nil {
		return nil, err
	}

	c.session.SetUserIfCurrent(epoch, &user)
	return &user, nil
}

// Logout ends the session locally and navigates to login. The backend has
// no logout endpoint.
func (c *Client) Logout() {
	c.session.Logout()
	c.logger.Info("logged out")
}

func userEmail(u *User) string {
	if u == nil {
		return ""
	}
	return u.Email
}
