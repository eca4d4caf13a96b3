package vend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	vend "github.com/goliatone/go-vend"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var authed = map[string]string{vend.TokenKey: "t1"}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	body := map[string]any{}
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
	return body
}

func TestBuyAirtimeUnwrapsTransaction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/buy-airtime/", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "MTN", body["network"])
		assert.Equal(t, "08031234567", body["phone"])
		assert.Equal(t, 500.0, body["amount"])

		io.WriteString(w, `{"success":true,"data":{"transaction":{"id":"tx1","network":"MTN","type":"airtime","amount":500,"phone":"08031234567","status":"SUCCESS"}}}`)
	})

	logger := &captureLogger{}
	f := newFixture(t, mux, authed, vend.WithLogger(logger))

	tx, err := f.client.BuyAirtime(context.Background(), vend.BuyAirtimeRequest{
		Network: vend.NetworkMTN,
		Phone:   "+234 803 123 4567",
		Amount:  500,
	})
	require.NoError(t, err)
	assert.Equal(t, "tx1", tx.ID)
	assert.Equal(t, vend.TransactionAirtime, tx.Type)
	assert.Equal(t, vend.TransactionSuccess, tx.Status)
	assert.Contains(t, logger.levels(), "info")
}

func TestBuyDataMissingTransaction(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/buy-data/", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "p-1gb", body["product_id"])
		io.WriteString(w, `{"success":true,"data":{}}`)
	})

	f := newFixture(t, mux, authed)

	_, err := f.client.BuyData(context.Background(), vend.BuyDataRequest{
		Network:   vend.NetworkGLO,
		Phone:     "08051234567",
		ProductID: "p-1gb",
	})
	assert.ErrorIs(t, err, vend.ErrMalformedResponse)
}

func TestPurchaseValidation(t *testing.T) {
	var hits atomic.Int32
	f := newFixture(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}), authed)
	ctx := context.Background()

	_, err := f.client.BuyAirtime(ctx, vend.BuyAirtimeRequest{Network: "ETISALAT", Phone: "08031234567", Amount: 100})
	assert.True(t, vend.IsValidationError(err))

	_, err = f.client.BuyAirtime(ctx, vend.BuyAirtimeRequest{Network: vend.NetworkMTN, Phone: "123", Amount: 100})
	assert.True(t, vend.IsValidationError(err))

	_, err = f.client.BuyData(ctx, vend.BuyDataRequest{Network: vend.NetworkMTN, Phone: "08031234567"})
	assert.True(t, vend.IsValidationError(err))

	_, err = f.client.FundWallet(ctx, vend.FundWalletRequest{Amount: 50, PaymentMethod: vend.PaymentPaystack})
	assert.True(t, vend.IsValidationError(err))

	_, err = f.client.Transaction(ctx, "")
	assert.True(t, vend.IsValidationError(err))

	assert.Zero(t, hits.Load())
}

func TestWalletHistoryUnwrapsResults(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/wallet/ledger/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, url.Values{
			"type":       {"CREDIT"},
			"start_date": {"2026-01-01"},
			"page":       {"2"},
		}, r.URL.Query())
		io.WriteString(w, `{"count":42,"next":null,"previous":null,"results":{"success":true,"data":[{"id":1,"type":"CREDIT","amount":500}]}}`)
	})

	f := newFixture(t, mux, authed)

	page, err := f.client.WalletHistory(context.Background(), vend.WalletHistoryFilters{
		Type:      vend.LedgerCredit,
		StartDate: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Page:      2,
	})
	require.NoError(t, err)
	assert.Equal(t, 42, page.Count)
	require.Len(t, page.Results, 1)
	assert.Equal(t, 500.0, page.Results[0].Amount)
}

func TestTransactionsQuery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/transactions/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, url.Values{
			"type":      {"data"},
			"status":    {"FAILED"},
			"network":   {"AIRTEL"},
			"phone":     {"08021234567"},
			"reference": {"REF1"},
			"end_date":  {"2026-02-01"},
			"page_size": {"5"},
		}, r.URL.Query())
		io.WriteString(w, `{"count":0,"next":null,"previous":null,"results":[]}`)
	})

	f := newFixture(t, mux, authed)

	page, err := f.client.Transactions(context.Background(), vend.TransactionFilters{
		Type:      vend.TransactionData,
		Status:    vend.TransactionFailed,
		Network:   vend.NetworkAirtel,
		Phone:     "08021234567",
		Reference: "REF1",
		EndDate:   time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
		PageSize:  5,
	})
	require.NoError(t, err)
	assert.Zero(t, page.Count)
	assert.NotNil(t, page.Results)
	assert.Empty(t, page.Results)
}

func TestFundWallet(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/wallet/initiate-deposit/", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, 1000.0, body["amount"])
		assert.Equal(t, "flutterwave", body["payment_method"])
		io.WriteString(w, `{"success":true,"data":{"payment_url":"https://pay.example.com/x","transaction_id":"d1"}}`)
	})

	f := newFixture(t, mux, authed)

	res, err := f.client.FundWallet(context.Background(), vend.FundWalletRequest{
		Amount:        1000,
		PaymentMethod: vend.PaymentFlutterwave,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://pay.example.com/x", res.PaymentURL)
	assert.Equal(t, "d1", res.TransactionID)
}

func TestDashboard(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/dashboard/kpis/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":{"today_volume":1500,"successful_vends":12,"failed_vends":1,"wallet_balance":300}}`)
	})
	mux.HandleFunc("/api/v1/dashboard/sales/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.URL.Query().Get("days"))
		io.WriteString(w, `{"success":true,"data":null}`)
	})
	mux.HandleFunc("/api/v1/dashboard/network-distribution/", func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":true,"data":[{"network":"MTN","count":10,"amount":1000}]}`)
	})

	f := newFixture(t, mux, authed)
	ctx := context.Background()

	kpis, err := f.client.DashboardKPIs(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1500.0, kpis.TodayVolume)
	assert.Equal(t, 12, kpis.SuccessfulVends)

	sales, err := f.client.DashboardSales(ctx, 0)
	require.NoError(t, err)
	assert.NotNil(t, sales)
	assert.Empty(t, sales)

	shares, err := f.client.NetworkDistribution(ctx)
	require.NoError(t, err)
	require.Len(t, shares, 1)
	assert.Equal(t, "MTN", shares[0].Network)
}

func TestProfileCachesUser(t *testing.T) {
	var hits atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/profile/", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.Method == http.MethodPatch {
			body := decodeBody(t, r)
			assert.Equal(t, "08031234567", body["phone"])
			io.WriteString(w, `{"success":true,"data":{"id":"u1","email":"ada@example.com","phone":"08031234567"}}`)
			return
		}
		io.WriteString(w, `{"success":true,"data":{"id":"u1","email":"ada@example.com"}}`)
	})

	f := newFixture(t, mux, authed)
	ctx := context.Background()

	user := f.client.CurrentUser(ctx)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, int32(1), hits.Load())

	user = f.client.CurrentUser(ctx)
	require.NotNil(t, user)
	assert.Equal(t, int32(1), hits.Load(), "cached user is reused")

	updated, err := f.client.UpdateProfile(ctx, vend.UpdateProfileRequest{Phone: "+2348031234567"})
	require.NoError(t, err)
	assert.Equal(t, "08031234567", updated.Phone)
	assert.Equal(t, "08031234567", f.session.GetUser().Phone)

	_, err = f.client.UpdateProfile(ctx, vend.UpdateProfileRequest{})
	assert.True(t, vend.IsValidationError(err))
}

func TestCurrentUserWithoutSession(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler(), nil)
	assert.Nil(t, f.client.CurrentUser(context.Background()))
}

func TestRegisterAndResetPassword(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/auth/register/", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "ada@example.com", body["username"])
		assert.Equal(t, "08031234567", body["phone"])
		assert.Equal(t, "secret-pass", body["password2"])
		assert.NotContains(t, body, "name")
		io.WriteString(w, loginBody)
	})
	mux.HandleFunc("/api/v1/auth/reset-password/", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, "ada@example.com", body["email"])
		w.WriteHeader(http.StatusNoContent)
	})

	f := newFixture(t, mux, nil)
	ctx := context.Background()

	_, err := f.client.Register(ctx, vend.RegisterRequest{
		Name:            "Ada Lovelace",
		Email:           "ada@example.com",
		Phone:           "+2348031234567",
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
	})
	require.NoError(t, err)
	assert.False(t, f.session.IsAuthenticated(), "registration does not sign in")

	require.NoError(t, f.client.ResetPassword(ctx, vend.ResetPasswordRequest{Email: "ada@example.com"}))
}

func TestLogoutClearsAndNavigates(t *testing.T) {
	f := newFixture(t, http.NotFoundHandler(), map[string]string{
		vend.TokenKey: "t1",
		vend.UserKey:  `{"id":"u1"}`,
	})

	f.client.Logout()

	assert.False(t, f.session.IsAuthenticated())
	assert.Nil(t, f.session.GetUser())
	assert.Equal(t, []string{vend.DefaultLoginPath}, f.navigator.Targets())
}

func TestUsers(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/users/", func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/users/":
			assert.Equal(t, "agent", r.URL.Query().Get("role"))
			assert.Equal(t, "ada", r.URL.Query().Get("search"))
			io.WriteString(w, `{"count":1,"next":"http://x/?page=2","previous":null,"results":{"success":true,"data":[{"id":"u1","role":"agent"}]}}`)
		case r.Method == http.MethodPost && r.URL.Path == "/api/v1/users/u1/suspend/":
			io.WriteString(w, `{"detail":"ok"}`)
		case r.Method == http.MethodPatch && r.URL.Path == "/api/v1/users/u1/":
			body := decodeBody(t, r)
			assert.Equal(t, "reseller", body["role"])
			io.WriteString(w, `{"success":true,"data":{"id":"u1","role":"reseller"}}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	f := newFixture(t, mux, authed)
	ctx := context.Background()

	page, err := f.client.Users(ctx, vend.UserFilters{Role: vend.RoleAgent, Search: "ada"})
	require.NoError(t, err)
	assert.True(t, page.HasNext())
	require.Len(t, page.Results, 1)
	assert.True(t, vend.IsAgent(&page.Results[0]))

	user, err := f.client.UpdateUser(ctx, "u1", vend.UpdateUserRequest{Role: vend.RoleReseller})
	require.NoError(t, err)
	assert.Equal(t, vend.RoleReseller, user.Role)

	_, err = f.client.UpdateUser(ctx, "u1", vend.UpdateUserRequest{Role: "root"})
	assert.True(t, vend.IsValidationError(err))

	require.NoError(t, f.client.SuspendUser(ctx, "u1"))
	assert.True(t, vend.IsValidationError(f.client.SuspendUser(ctx, "")))

	_, err = f.client.CreateUser(ctx, vend.CreateUserRequest{Name: "Bob", Email: "bob@example.com", Role: vend.RoleUser, Password: "short"})
	assert.True(t, vend.IsValidationError(err))
}

func TestNotifications(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/v1/notifications/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		io.WriteString(w, `{"count":1,"next":null,"previous":null,"results":[{"id":7,"title":"Low balance","message":"Top up","read_at":null}]}`)
	})
	mux.HandleFunc("/api/v1/notifications/7/mark-read/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
	})
	mux.HandleFunc("/api/v1/notifications/preferences/update/", func(w http.ResponseWriter, r *http.Request) {
		body := decodeBody(t, r)
		assert.Equal(t, map[string]any{"sms_enabled": false}, body)
		io.WriteString(w, `{"success":true,"data":{"email_enabled":true,"sms_enabled":false}}`)
	})

	f := newFixture(t, mux, authed)
	ctx := context.Background()

	page, err := f.client.Notifications(ctx, 3)
	require.NoError(t, err)
	require.Len(t, page.Results, 1)
	assert.Equal(t, "Low balance", page.Results[0].Title)
	assert.False(t, page.Results[0].IsRead())

	require.NoError(t, f.client.MarkNotificationRead(ctx, "7"))

	off := false
	prefs, err := f.client.UpdateNotificationPreferences(ctx, vend.NotificationPreferencePatch{SMSEnabled: &off})
	require.NoError(t, err)
	assert.True(t, prefs.EmailEnabled)
	assert.False(t, prefs.SMSEnabled)

	_, err = f.client.UpdateNotificationPreferences(ctx, vend.NotificationPreferencePatch{})
	assert.True(t, vend.IsValidationError(err))
}
