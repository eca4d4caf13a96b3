package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/template/django/v3"
	vend "github.com/goliatone/go-vend"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:embed views/*.html
var viewsFS embed.FS

// Views names the templates used by the dashboard.
type Views struct {
	Login     string
	Dashboard string
	Wallet    string
}

// Server serves the browser dashboard. Each request gets its own session
// store backed by the request cookies.
type Server struct {
	client    *vend.Client
	logger    vend.Logger
	cookies   CookieOptions
	gatherer  prometheus.Gatherer
	loginPath string
	views     Views
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l vend.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCookieOptions sets the session cookie attributes.
func WithCookieOptions(opts CookieOptions) Option {
	return func(s *Server) {
		s.cookies = opts
	}
}

// WithGatherer exposes metrics from g on GET /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithLoginPath overrides the login route used for redirects.
func WithLoginPath(path string) Option {
	return func(s *Server) {
		if path != "" {
			s.loginPath = path
		}
	}
}

// NewServer creates a dashboard server on client.
func NewServer(client *vend.Client, opts ...Option) *Server {
	s := &Server{
		client:    client,
		logger:    vend.NopLogger(),
		loginPath: vend.DefaultLoginPath,
		views: Views{
			Login:     "login",
			Dashboard: "dashboard",
			Wallet:    "wallet",
		},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// App builds the fiber application with the embedded views.
func (s *Server) App() (*fiber.App, error) {
	sub, err := fs.Sub(viewsFS, "views")
	if err != nil {
		return nil, err
	}
	engine := django.NewFileSystem(http.FS(sub), ".html")

	app := fiber.New(fiber.Config{
		Views:                 engine,
		DisableStartupMessage: true,
	})

	app.Get("/", func(c *fiber.Ctx) error {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	})
	app.Get("/login", s.LoginShow)
	app.Post("/login", s.LoginCreate)
	app.Post("/logout", s.Logout)
	app.Get("/dashboard", s.Dashboard)
	app.Get("/wallet", s.Wallet)

	if s.gatherer != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	return app, nil
}

type requestScope struct {
	client    *vend.Client
	session   *vend.SessionStore
	navigator *redirectNavigator
}

func (s *Server) scope(c *fiber.Ctx) requestScope {
	nav := &redirectNavigator{}
	session := vend.NewSessionStore(
		c.UserContext(),
		NewCookieStorage(c, s.cookies),
		vend.WithNavigator(nav),
		vend.WithLoginPath(s.loginPath),
		vend.WithSessionLogger(s.logger),
	)
	return requestScope{
		client:    s.client.WithSession(session),
		session:   session,
		navigator: nav,
	}
}

func (s *Server) render(c *fiber.Ctx, status int, view string, user *vend.User, data fiber.Map) error {
	ctx := fiber.Map{}
	for k, v := range TemplateHelpersWithUser(user) {
		ctx[k] = v
	}
	for k, v := range data {
		ctx[k] = v
	}
	return c.Status(status).Render(view, ctx)
}

// failure turns a pipeline error into a response. Authorization failures
// redirect to login, anything else renders view with the extracted message.
func (s *Server) failure(c *fiber.Ctx, sc requestScope, err error, view string, user *vend.User, data fiber.Map) error {
	if target, ok := sc.navigator.requested(); ok {
		return c.Redirect(target, fiber.StatusSeeOther)
	}
	if vend.IsNotAuthenticated(err) {
		return c.Redirect(s.loginPath, fiber.StatusSeeOther)
	}

	s.logger.Error("request failed", "path", c.Path(), "error", err)
	if data == nil {
		data = fiber.Map{}
	}
	data["error"] = vend.ExtractErrorMessage(err)
	return s.render(c, fiber.StatusBadGateway, view, user, data)
}

func (s *Server) LoginShow(c *fiber.Ctx) error {
	sc := s.scope(c)
	if sc.session.IsAuthenticated() {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}
	return s.render(c, fiber.StatusOK, s.views.Login, nil, fiber.Map{
		"error": "",
		"email": "",
	})
}

// LoginPayload is the login form
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (s *Server) LoginCreate(c *fiber.Ctx) error {
	sc := s.scope(c)

	payload := new(LoginPayload)
	if err := c.BodyParser(payload); err != nil {
		s.logger.Error("login parse payload", "error", err)
		return s.render(c, fiber.StatusBadRequest, s.views.Login, nil, fiber.Map{
			"error": "Failed to parse form",
		})
	}

	_, err := sc.client.Login(c.UserContext(), vend.LoginRequest{
		Email:    payload.Email,
		Password: payload.Password,
	})
	if err != nil {
		status := fiber.StatusUnauthorized
		msg := vend.ExtractErrorMessage(err)
		if vend.IsValidationError(err) {
			status = fiber.StatusBadRequest
			msg = "Please enter a valid email and password."
		}
		return s.render(c, status, s.views.Login, nil, fiber.Map{
			"error": msg,
			"email": payload.Email,
		})
	}

	return c.Redirect("/dashboard", fiber.StatusSeeOther)
}

func (s *Server) Logout(c *fiber.Ctx) error {
	sc := s.scope(c)
	sc.client.Logout()

	target, ok := sc.navigator.requested()
	if !ok {
		target = s.loginPath
	}
	return c.Redirect(target, fiber.StatusSeeOther)
}

func (s *Server) Dashboard(c *fiber.Ctx) error {
	sc := s.scope(c)
	if !sc.session.IsAuthenticated() {
		return c.Redirect(s.loginPath, fiber.StatusSeeOther)
	}
	ctx := c.UserContext()

	user := sc.client.CurrentUser(ctx)
	if target, ok := sc.navigator.requested(); ok {
		return c.Redirect(target, fiber.StatusSeeOther)
	}

	kpis, err := sc.client.DashboardKPIs(ctx)
	if err != nil {
		return s.failure(c, sc, err, s.views.Dashboard, user, nil)
	}

	recent, err := sc.client.Transactions(ctx, vend.TransactionFilters{PageSize: 5})
	if err != nil {
		return s.failure(c, sc, err, s.views.Dashboard, user, fiber.Map{"kpis": kpis})
	}

	return s.render(c, fiber.StatusOK, s.views.Dashboard, user, fiber.Map{
		"kpis":         kpis,
		"transactions": recent.Results,
		"error":        "",
	})
}

func (s *Server) Wallet(c *fiber.Ctx) error {
	sc := s.scope(c)
	if !sc.session.IsAuthenticated() {
		return c.Redirect(s.loginPath, fiber.StatusSeeOther)
	}
	ctx := c.UserContext()
	user := sc.session.GetUser()

	wallet, err := sc.client.Wallet(ctx)
	if err != nil {
		return s.failure(c, sc, err, s.views.Wallet, user, nil)
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	history, err := sc.client.WalletHistory(ctx, vend.WalletHistoryFilters{
		Type: vend.LedgerEntryType(c.Query("type")),
		Page: page,
	})
	if err != nil {
		return s.failure(c, sc, err, s.views.Wallet, user, fiber.Map{"wallet": wallet})
	}

	return s.render(c, fiber.StatusOK, s.views.Wallet, user, fiber.Map{
		"wallet":  wallet,
		"entries": history.Results,
		"count":   history.Count,
		"page":    page,
		"next":    history.HasNext(),
		"error":   "",
	})
}
