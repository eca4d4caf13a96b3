package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	vend "github.com/goliatone/go-vend"
)

func commands() map[string]command {
	return map[string]command{
		"login":          {usage: "sign in and store the session", run: runLogin},
		"logout":         {usage: "clear the stored session", run: runLogout},
		"whoami":         {usage: "show the signed in user", run: runWhoami},
		"register":       {usage: "create an account", run: runRegister},
		"reset-password": {usage: "email a password reset link", run: runResetPassword},
		"wallet":         {usage: "show the wallet balance", run: runWallet},
		"history":        {usage: "list wallet ledger entries", run: runHistory},
		"fund":           {usage: "start a wallet deposit", run: runFund},
		"buy-airtime":    {usage: "buy airtime for a phone number", run: runBuyAirtime},
		"buy-data":       {usage: "buy a data plan for a phone number", run: runBuyData},
		"products":       {usage: "list products", run: runProducts},
		"transactions":   {usage: "list transactions", run: runTransactions},
		"users":          {usage: "list users (admin)", run: runUsers},
		"suspend-user":   {usage: "suspend a user (admin)", run: runSuspendUser},
		"notifications":  {usage: "list notifications", run: runNotifications},
		"kpis":           {usage: "show dashboard numbers", run: runKPIs},
		"serve":          {usage: "serve the web dashboard", run: runServe},
	}
}

func passwordFlag(value string) string {
	if value != "" {
		return value
	}
	return os.Getenv("VEND_PASSWORD")
}

func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, want YYYY-MM-DD", ErrUsage, value)
	}
	return t, nil
}

func runLogin(ctx context.Context, a *App, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password (or VEND_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.client.Login(ctx, vend.LoginRequest{
		Email:    *email,
		Password: passwordFlag(*password),
	})
	if err != nil {
		return err
	}
	return a.output(res.User)
}

func runLogout(_ context.Context, a *App, _ []string) error {
	a.session.Clear()
	fmt.Fprintln(a.stdout, "Signed out.")
	return nil
}

type whoami struct {
	User      *vend.User `json:"user"`
	Subject   string     `json:"subject,omitempty"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Expired   bool       `json:"expired"`
}

func runWhoami(ctx context.Context, a *App, args []string) error {
	fs := a.flags("whoami")
	refresh := fs.Bool("refresh", false, "fetch the profile from the backend")
	if err := fs.Parse(args); err != nil {
		return err
	}

	token, ok := a.session.GetToken()
	if !ok {
		return vend.ErrNotAuthenticated
	}

	out := whoami{User: a.session.GetUser()}
	if *refresh || out.User == nil {
		user, err := a.client.Profile(ctx)
		if err != nil {
			return err
		}
		out.User = user
	}

	if info, err := vend.InspectToken(token); err == nil {
		out.Subject = info.Subject
		out.ExpiresAt = info.ExpiresAt
		out.Expired = info.Expired(time.Now())
	} else {
		a.logger.Debug("token is not a readable jwt", "error", err)
	}
	return a.output(out)
}

func runRegister(ctx context.Context, a *App, args []string) error {
	fs := a.flags("register")
	req := vend.RegisterRequest{}
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	password := fs.String("password", "", "password (or VEND_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req.Password = passwordFlag(*password)
	req.ConfirmPassword = req.Password

	if _, err := a.client.Register(ctx, req); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Account created. You can now sign in.")
	return nil
}

func runResetPassword(ctx context.Context, a *App, args []string) error {
	fs := a.flags("reset-password")
	email := fs.String("email", "", "account email")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.client.ResetPassword(ctx, vend.ResetPasswordRequest{Email: *email}); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, "Password reset link sent to your email.")
	return nil
}

func runWallet(ctx context.Context, a *App, _ []string) error {
	w, err := a.client.Wallet(ctx)
	if err != nil {
		return err
	}
	return a.output(map[string]any{
		"balance":   w.Balance,
		"currency":  w.Currency,
		"formatted": vend.FormatCurrency(w.Balance, w.Currency),
	})
}

func runHistory(ctx context.Context, a *App, args []string) error {
	fs := a.flags("history")
	kind := fs.String("type", "", "CREDIT or DEBIT")
	start := fs.String("from", "", "start date YYYY-MM-DD")
	end := fs.String("to", "", "end date YYYY-MM-DD")
	page := fs.Int("page", 0, "page number")
	size := fs.Int("page-size", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filters := vend.WalletHistoryFilters{
		Type:     vend.LedgerEntryType(*kind),
		Page:     *page,
		PageSize: *size,
	}
	var err error
	if filters.StartDate, err = parseDate(*start); err != nil {
		return err
	}
	if filters.EndDate, err = parseDate(*end); err != nil {
		return err
	}

	res, err := a.client.WalletHistory(ctx, filters)
	if err != nil {
		return err
	}
	return a.output(res)
}

func runFund(ctx context.Context, a *App, args []string) error {
	fs := a.flags("fund")
	amount := fs.Float64("amount", 0, "deposit amount")
	method := fs.String("method", vend.PaymentPaystack, "paystack or flutterwave")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.client.FundWallet(ctx, vend.FundWalletRequest{Amount: *amount, PaymentMethod: *method})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Complete the payment at: %s\n", res.PaymentURL)
	return nil
}

func runBuyAirtime(ctx context.Context, a *App, args []string) error {
	fs := a.flags("buy-airtime")
	network := fs.String("network", "", "MTN, GLO, AIRTEL or 9MOBILE")
	phone := fs.String("phone", "", "recipient phone number")
	amount := fs.Float64("amount", 0, "airtime amount")
	save := fs.Bool("save", false, "save the recipient as a beneficiary")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tx, err := a.client.BuyAirtime(ctx, vend.BuyAirtimeRequest{
		Network:         vend.Network(*network),
		Phone:           *phone,
		Amount:          *amount,
		SaveBeneficiary: *save,
	})
	if err != nil {
		return err
	}
	return a.output(tx)
}

func runBuyData(ctx context.Context, a *App, args []string) error {
	fs := a.flags("buy-data")
	network := fs.String("network", "", "MTN, GLO, AIRTEL or 9MOBILE")
	phone := fs.String("phone", "", "recipient phone number")
	product := fs.String("product", "", "data plan product id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	tx, err := a.client.BuyData(ctx, vend.BuyDataRequest{
		Network:   vend.Network(*network),
		Phone:     *phone,
		ProductID: *product,
	})
	if err != nil {
		return err
	}
	return a.output(tx)
}

func runProducts(ctx context.Context, a *App, args []string) error {
	fs := a.flags("products")
	category := fs.String("category", "", "data or airtime")
	network := fs.String("network", "", "network filter")
	if err := fs.Parse(args); err != nil {
		return err
	}

	res, err := a.client.Products(ctx, vend.ProductFilters{
		Category: vend.ProductCategory(*category),
		Network:  vend.Network(*network),
	})
	if err != nil {
		return err
	}
	return a.output(res)
}

func runTransactions(ctx context.Context, a *App, args []string) error {
	fs := a.flags("transactions")
	filters := vend.TransactionFilters{}
	kind := fs.String("type", "", "airtime, data, wallet_credit or wallet_debit")
	status := fs.String("status", "", "SUCCESS, FAILED or PENDING")
	network := fs.String("network", "", "network filter")
	fs.StringVar(&filters.Phone, "phone", "", "recipient phone")
	fs.StringVar(&filters.Reference, "reference", "", "transaction reference")
	start := fs.String("from", "", "start date YYYY-MM-DD")
	end := fs.String("to", "", "end date YYYY-MM-DD")
	fs.IntVar(&filters.Page, "page", 0, "page number")
	fs.IntVar(&filters.PageSize, "page-size", 0, "page size")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filters.Type = vend.TransactionType(*kind)
	filters.Status = vend.TransactionStatus(*status)
	filters.Network = vend.Network(*network)

	var err error
	if filters.StartDate, err = parseDate(*start); err != nil {
		return err
	}
	if filters.EndDate, err = parseDate(*end); err != nil {
		return err
	}

	res, err := a.client.Transactions(ctx, filters)
	if err != nil {
		return err
	}
	return a.output(res)
}

func runUsers(ctx context.Context, a *App, args []string) error {
	fs := a.flags("users")
	filters := vend.UserFilters{}
	role := fs.String("role", "", "role filter")
	status := fs.String("status", "", "status filter")
	fs.StringVar(&filters.Search, "search", "", "search term")
	fs.IntVar(&filters.Page, "page", 0, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	filters.Role = vend.UserRole(*role)
	filters.Status = vend.UserStatus(*status)

	if user := a.session.GetUser(); user != nil && !vend.CanManageUsers(user) {
		return errors.New("user management requires the admin role")
	}

	res, err := a.client.Users(ctx, filters)
	if err != nil {
		return err
	}
	return a.output(res)
}

func runSuspendUser(ctx context.Context, a *App, args []string) error {
	fs := a.flags("suspend-user")
	id := fs.String("id", "", "user id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.client.SuspendUser(ctx, *id); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "User %s suspended.\n", *id)
	return nil
}

func runNotifications(ctx context.Context, a *App, args []string) error {
	fs := a.flags("notifications")
	page := fs.Int("page", 0, "page number")
	markAll := fs.Bool("mark-all-read", false, "mark every notification as read")
	markID := fs.String("mark-read", "", "mark one notification as read")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch {
	case *markAll:
		if err := a.client.MarkAllNotificationsRead(ctx); err != nil {
			return err
		}
		fmt.Fprintln(a.stdout, "All notifications marked as read.")
		return nil
	case *markID != "":
		if err := a.client.MarkNotificationRead(ctx, *markID); err != nil {
			return err
		}
		fmt.Fprintf(a.stdout, "Notification %s marked as read.\n", *markID)
		return nil
	}

	res, err := a.client.Notifications(ctx, *page)
	if err != nil {
		return err
	}
	return a.output(res)
}

func runKPIs(ctx context.Context, a *App, args []string) error {
	fs := a.flags("kpis")
	days := fs.Int("days", 7, "days of sales history")
	if err := fs.Parse(args); err != nil {
		return err
	}

	kpis, err := a.client.DashboardKPIs(ctx)
	if err != nil {
		return err
	}
	sales, err := a.client.DashboardSales(ctx, *days)
	if err != nil {
		return err
	}
	shares, err := a.client.NetworkDistribution(ctx)
	if err != nil {
		return err
	}

	return a.output(map[string]any{
		"kpis":                 kpis,
		"sales":                sales,
		"network_distribution": shares,
	})
}
