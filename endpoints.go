package vend

import (
	"net/http"
	"net/url"
	"strings"
)

// Envelope declares how an endpoint's response body is decoded.
type Envelope int

const (
	// EnvelopeNormalized runs the body through NormalizeJSON before decoding.
	EnvelopeNormalized Envelope = iota
	// EnvelopeRaw decodes the body as returned by the backend.
	EnvelopeRaw
	// EnvelopeNone ignores the response body.
	EnvelopeNone
)

func (e Envelope) String() string {
	switch e {
	case EnvelopeNormalized:
		return "normalized"
	case EnvelopeRaw:
		return "raw"
	case EnvelopeNone:
		return "none"
	default:
		return "unknown"
	}
}

// Endpoint describes one backend route and its response contract.
type Endpoint struct {
	Name     string
	Method   string
	Path     string
	Public   bool
	Envelope Envelope
}

// Resolve expands {name} placeholders in the path with escaped params.
func (e Endpoint) Resolve(params map[string]string) string {
	path := e.Path
	for k, v := range params {
		path = strings.ReplaceAll(path, "{"+k+"}", url.PathEscape(v))
	}
	return path
}

var (
	EndpointRegister = Endpoint{
		Name: "auth.register", Method: http.MethodPost, Path: "/api/v1/auth/register/", Public: true,
	}
	EndpointLogin = Endpoint{
		Name: "auth.login", Method: http.MethodPost, Path: "/api/v1/auth/login/", Public: true,
	}
	EndpointResetPassword = Endpoint{
		Name: "auth.reset_password", Method: http.MethodPost, Path: "/api/v1/auth/reset-password/", Public: true,
		Envelope: EnvelopeNone,
	}
	EndpointProfile = Endpoint{
		Name: "auth.profile", Method: http.MethodGet, Path: "/api/v1/auth/profile/",
	}
	EndpointUpdateProfile = Endpoint{
		Name: "auth.profile_update", Method: http.MethodPatch, Path: "/api/v1/auth/profile/",
	}

	EndpointDashboardKPIs = Endpoint{
		Name: "dashboard.kpis", Method: http.MethodGet, Path: "/api/v1/dashboard/kpis/",
	}
	EndpointDashboardSales = Endpoint{
		Name: "dashboard.sales", Method: http.MethodGet, Path: "/api/v1/dashboard/sales/",
	}
	EndpointNetworkDistribution = Endpoint{
		Name: "dashboard.network_distribution", Method: http.MethodGet, Path: "/api/v1/dashboard/network-distribution/",
	}

	EndpointTransactions = Endpoint{
		Name: "transactions.list", Method: http.MethodGet, Path: "/api/v1/transactions/",
	}
	EndpointTransaction = Endpoint{
		Name: "transactions.get", Method: http.MethodGet, Path: "/api/v1/transactions/{id}/",
	}

	EndpointBuyAirtime = Endpoint{
		Name: "purchase.airtime", Method: http.MethodPost, Path: "/api/v1/buy-airtime/",
	}
	EndpointBuyData = Endpoint{
		Name: "purchase.data", Method: http.MethodPost, Path: "/api/v1/buy-data/",
	}

	EndpointWallet = Endpoint{
		Name: "wallet.get", Method: http.MethodGet, Path: "/api/v1/wallet/",
	}
	EndpointWalletHistory = Endpoint{
		Name: "wallet.ledger", Method: http.MethodGet, Path: "/api/v1/wallet/ledger/",
	}
	EndpointInitiateDeposit = Endpoint{
		Name: "wallet.initiate_deposit", Method: http.MethodPost, Path: "/api/v1/wallet/initiate-deposit/",
	}

	EndpointProducts = Endpoint{
		Name: "products.list", Method: http.MethodGet, Path: "/api/v1/products/",
	}
	EndpointProduct = Endpoint{
		Name: "products.get", Method: http.MethodGet, Path: "/api/v1/products/{id}/",
	}

	EndpointUsers = Endpoint{
		Name: "users.list", Method: http.MethodGet, Path: "/api/v1/users/",
	}
	EndpointUser = Endpoint{
		Name: "users.get", Method: http.MethodGet, Path: "/api/v1/users/{id}/",
	}
	EndpointCreateUser = Endpoint{
		Name: "users.create", Method: http.MethodPost, Path: "/api/v1/users/",
	}
	EndpointUpdateUser = Endpoint{
		Name: "users.update", Method: http.MethodPatch, Path: "/api/v1/users/{id}/",
	}
	EndpointSuspendUser = Endpoint{
		Name: "users.suspend", Method: http.MethodPost, Path: "/api/v1/users/{id}/suspend/",
		Envelope: EnvelopeNone,
	}

	// Notifications come back as a plain paginated envelope and are
	// decoded without normalization.
	EndpointNotifications = Endpoint{
		Name: "notifications.list", Method: http.MethodGet, Path: "/api/v1/notifications/",
		Envelope: EnvelopeRaw,
	}
	EndpointNotificationMarkRead = Endpoint{
		Name: "notifications.mark_read", Method: http.MethodPost, Path: "/api/v1/notifications/{id}/mark-read/",
		Envelope: EnvelopeNone,
	}
	EndpointNotificationMarkAllRead = Endpoint{
		Name: "notifications.mark_all_read", Method: http.MethodPost, Path: "/api/v1/notifications/mark-all-read/",
		Envelope: EnvelopeNone,
	}
	EndpointNotificationPreferences = Endpoint{
		Name: "notifications.preferences", Method: http.MethodGet, Path: "/api/v1/notifications/preferences/",
	}
	EndpointNotificationPreferencesUpdate = Endpoint{
		Name: "notifications.preferences_update", Method: http.MethodPatch, Path: "/api/v1/notifications/preferences/update/",
	}
)

// Endpoints returns every declared endpoint.
func Endpoints() []Endpoint {
	return []Endpoint{
		EndpointRegister,
		EndpointLogin,
		EndpointResetPassword,
		EndpointProfile,
		EndpointUpdateProfile,
		EndpointDashboardKPIs,
		EndpointDashboardSales,
		EndpointNetworkDistribution,
		EndpointTransactions,
		EndpointTransaction,
		EndpointBuyAirtime,
		EndpointBuyData,
		EndpointWallet,
		EndpointWalletHistory,
		EndpointInitiateDeposit,
		EndpointProducts,
		EndpointProduct,
		EndpointUsers,
		EndpointUser,
		EndpointCreateUser,
		EndpointUpdateUser,
		EndpointSuspendUser,
		EndpointNotifications,
		EndpointNotificationMarkRead,
		EndpointNotificationMarkAllRead,
		EndpointNotificationPreferences,
		EndpointNotificationPreferencesUpdate,
	}
}
