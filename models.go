package vend

import "time"

// UserRole is the user's role
type UserRole string

const (
	// RoleAdmin manages users and sees every transaction
	RoleAdmin UserRole = "admin"
	// RoleAgent vends on behalf of customers
	RoleAgent UserRole = "agent"
	// RoleUser is a regular customer
	RoleUser UserRole = "user"
	// RoleReseller buys in bulk for resale
	RoleReseller UserRole = "reseller"
)

// UserStatus is the account status
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
	UserStatusInactive  UserStatus = "inactive"
)

// User is the account record returned by the backend. The session store
// keeps it as a whole and never merges partial updates into it.
type User struct {
	ID            string     `json:"id"`
	Email         string     `json:"email"`
	Name          string     `json:"name,omitempty"`
	Phone         string     `json:"phone,omitempty"`
	Role          UserRole   `json:"role,omitempty"`
	WalletBalance *float64   `json:"wallet_balance,omitempty"`
	Status        UserStatus `json:"status,omitempty"`
	CreatedAt     *time.Time `json:"created_at,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Tokens is the token pair issued on login
type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginResult is the unwrapped login payload
type LoginResult struct {
	User   *User  `json:"user"`
	Tokens Tokens `json:"tokens"`
}

// Network is a mobile network operator
type Network string

const (
	NetworkMTN        Network = "MTN"
	NetworkGLO        Network = "GLO"
	NetworkAirtel     Network = "AIRTEL"
	NetworkNineMobile Network = "9MOBILE"
)

// Networks returns every supported network.
func Networks() []Network {
	return []Network{NetworkMTN, NetworkGLO, NetworkAirtel, NetworkNineMobile}
}

// TransactionType is the kind of a vend transaction
type TransactionType string

const (
	TransactionAirtime      TransactionType = "airtime"
	TransactionData         TransactionType = "data"
	TransactionWalletCredit TransactionType = "wallet_credit"
	TransactionWalletDebit  TransactionType = "wallet_debit"
)

// TransactionStatus is the vend outcome
type TransactionStatus string

const (
	TransactionSuccess TransactionStatus = "SUCCESS"
	TransactionFailed  TransactionStatus = "FAILED"
	TransactionPending TransactionStatus = "PENDING"
)

// Transaction is a vend transaction
type Transaction struct {
	ID          string            `json:"id"`
	User        *User             `json:"user,omitempty"`
	Agent       *User             `json:"agent,omitempty"`
	Network     Network           `json:"network"`
	Type        TransactionType   `json:"type"`
	Amount      float64           `json:"amount"`
	Phone       string            `json:"phone"`
	Status      TransactionStatus `json:"status"`
	ProviderRef string            `json:"provider_ref,omitempty"`
	InternalRef string            `json:"internal_ref,omitempty"`
	Description string            `json:"description,omitempty"`
	CreatedAt   *time.Time        `json:"created_at,omitempty"`
	UpdatedAt   *time.Time        `json:"updated_at,omitempty"`
}

// ProductCategory groups products
type ProductCategory string

const (
	ProductData    ProductCategory = "data"
	ProductAirtime ProductCategory = "airtime"
)

// Product is a purchasable airtime or data plan
type Product struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Category ProductCategory `json:"category"`
	Network  Network         `json:"network"`
	Size     string          `json:"size,omitempty"`
	Price    float64         `json:"price"`
	Validity string          `json:"validity,omitempty"`
	IsActive bool            `json:"is_active"`
}

// Wallet is the user's wallet balance
type Wallet struct {
	ID          string     `json:"id"`
	User        string     `json:"user"`
	Balance     float64    `json:"balance"`
	Currency    string     `json:"currency"`
	LastUpdated *time.Time `json:"last_updated,omitempty"`
}

// LedgerEntryType is the direction of a wallet ledger entry
type LedgerEntryType string

const (
	LedgerCredit LedgerEntryType = "CREDIT"
	LedgerDebit  LedgerEntryType = "DEBIT"
)

// WalletTransaction is a wallet ledger entry
type WalletTransaction struct {
	ID           any             `json:"id"`
	Wallet       string          `json:"wallet,omitempty"`
	Type         LedgerEntryType `json:"type"`
	Amount       float64         `json:"amount"`
	BalanceAfter float64         `json:"balance_after,omitempty"`
	Description  string          `json:"description,omitempty"`
	CreatedAt    *time.Time      `json:"created_at,omitempty"`
}

// FundWalletResult holds the payment gateway redirect
type FundWalletResult struct {
	PaymentURL    string `json:"payment_url"`
	TransactionID string `json:"transaction_id"`
}

// DashboardKPIs are the headline dashboard numbers
type DashboardKPIs struct {
	TodayVolume     float64 `json:"today_volume"`
	SuccessfulVends int     `json:"successful_vends"`
	FailedVends     int     `json:"failed_vends"`
	WalletBalance   float64 `json:"wallet_balance"`
}

// SalesPoint is one day of sales
type SalesPoint struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
	Count  int     `json:"count"`
}

// NetworkShare is the sales share of a network
type NetworkShare struct {
	Network string  `json:"network"`
	Count   int     `json:"count"`
	Amount  float64 `json:"amount"`
}

// Notification is an in-app notification
type Notification struct {
	ID        any        `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// IsRead reports whether the notification was read
func (n Notification) IsRead() bool {
	return n.ReadAt != nil
}

// NotificationPreference holds the delivery channels the user opted into
type NotificationPreference struct {
	EmailEnabled      bool `json:"email_enabled"`
	SMSEnabled        bool `json:"sms_enabled"`
	PushEnabled       bool `json:"push_enabled"`
	LowBalanceAlerts  bool `json:"low_balance_alerts"`
	TransactionAlerts bool `json:"transaction_alerts"`
}

// Page is the paginated list envelope
type Page[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether there is a following page
func (p Page[T]) HasNext() bool {
	return p.Next != nil && *p.Next != ""
}

func cloneUser(u *User) *User {
	if u == nil {
		return nil
	}
	copied := *u
	if u.WalletBalance != nil {
		balance := *u.WalletBalance
		copied.WalletBalance = &balance
	}
	if u.CreatedAt != nil {
		created := *u.CreatedAt
		copied.CreatedAt = &created
	}
	if u.UpdatedAt != nil {
		updated := *u.UpdatedAt
		copied.UpdatedAt = &updated
	}
	return &copied
}
