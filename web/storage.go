package web

import (
	"context"
	"encoding/base64"
	"time"

	"github.com/gofiber/fiber/v2"
	vend "github.com/goliatone/go-vend"
)

// Cookie names holding the session values.
const (
	TokenCookie = "vend_token"
	UserCookie  = "vend_user"
)

// CookieOptions controls the attributes of session cookies.
type CookieOptions struct {
	Secure   bool
	Duration time.Duration
}

// CookieStorage implements vend.Storage on the cookies of one request. Loads
// read the request cookies and writes are emitted on the response.
type CookieStorage struct {
	ctx  *fiber.Ctx
	opts CookieOptions
}

var _ vend.Storage = (*CookieStorage)(nil)

// NewCookieStorage binds a storage to ctx.
func NewCookieStorage(ctx *fiber.Ctx, opts CookieOptions) *CookieStorage {
	if opts.Duration <= 0 {
		opts.Duration = 24 * time.Hour
	}
	return &CookieStorage{ctx: ctx, opts: opts}
}

func (s *CookieStorage) Load(_ context.Context) (map[string]string, error) {
	values := map[string]string{}
	for key, name := range cookieNames() {
		raw := s.ctx.Cookies(name)
		if raw == "" {
			continue
		}
		decoded, err := base64.RawURLEncoding.DecodeString(raw)
		if err != nil {
			continue
		}
		values[key] = string(decoded)
	}
	return values, nil
}

func (s *CookieStorage) Save(_ context.Context, values map[string]string) error {
	names := cookieNames()
	for key, value := range values {
		name, ok := names[key]
		if !ok {
			continue
		}
		s.ctx.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    base64.RawURLEncoding.EncodeToString([]byte(value)),
			Path:     "/",
			Expires:  time.Now().Add(s.opts.Duration),
			HTTPOnly: true,
			Secure:   s.opts.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return nil
}

func (s *CookieStorage) Delete(_ context.Context, keys ...string) error {
	names := cookieNames()
	for _, key := range keys {
		name, ok := names[key]
		if !ok {
			continue
		}
		s.ctx.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			Expires:  time.Now().Add(-time.Hour * (24 * 365)),
			HTTPOnly: true,
			Secure:   s.opts.Secure,
			SameSite: fiber.CookieSameSiteLaxMode,
		})
	}
	return nil
}

func cookieNames() map[string]string {
	return map[string]string{
		vend.TokenKey: TokenCookie,
		vend.UserKey:  UserCookie,
	}
}

// redirectNavigator records the navigation target so the handler can turn
// it into an HTTP redirect.
type redirectNavigator struct {
	target string
}

func (n *redirectNavigator) Navigate(target string) {
	n.target = target
}

func (n *redirectNavigator) requested() (string, bool) {
	return n.target, n.target != ""
}
