package vend

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/nyaruka/phonenumbers"
)

// DefaultRegion is the region used to parse local phone numbers.
const DefaultRegion = "NG"

// MinDeposit is the smallest amount accepted by wallet funding.
const MinDeposit = 100.0

// Payment gateways accepted for wallet funding.
const (
	PaymentPaystack    = "paystack"
	PaymentFlutterwave = "flutterwave"
)

// NormalizePhone parses phone in the default region and returns it in the
// 11 digit local format the backend expects.
func NormalizePhone(phone string) (string, error) {
	num, err := phonenumbers.Parse(strings.TrimSpace(phone), DefaultRegion)
	if err != nil {
		return "", invalidRequest(err, "invalid phone number")
	}
	if !phonenumbers.IsValidNumber(num) {
		return "", invalidRequest(errors.New("number is not valid for region"), "invalid phone number")
	}
	return "0" + phonenumbers.GetNationalSignificantNumber(num), nil
}

func validPhone(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := NormalizePhone(s); err != nil {
		return errors.New("must be a valid phone number")
	}
	return nil
}

func stringEquals(str string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if s != str {
			return errors.New("values must match")
		}
		return nil
	}
}

func networkRule() validation.Rule {
	nets := Networks()
	values := make([]interface{}, 0, len(nets))
	for _, n := range nets {
		values = append(values, n)
	}
	return validation.In(values...)
}

// LoginRequest holds login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate will validate the payload
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

func (r LoginRequest) payload() map[string]any {
	return map[string]any{
		"username": r.Email,
		"password": r.Password,
	}
}

// RegisterRequest holds the account registration form
type RegisterRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate will validate the payload
func (r RegisterRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Phone, validation.Required, validation.By(validPhone)),
		validation.Field(&r.Password, validation.Required, validation.Length(6, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(stringEquals(r.Password)),
		),
	)
}

func (r RegisterRequest) payload() map[string]any {
	phone, err := NormalizePhone(r.Phone)
	if err != nil {
		phone = r.Phone
	}
	return map[string]any{
		"username":  r.Email,
		"email":     r.Email,
		"phone":     phone,
		"password":  r.Password,
		"password2": r.ConfirmPassword,
	}
}

// ResetPasswordRequest starts a password reset
type ResetPasswordRequest struct {
	Email string `json:"email"`
}

// Validate will validate the payload
func (r ResetPasswordRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// UpdateProfileRequest holds editable profile fields. Empty fields are
// left untouched.
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Validate will validate the payload
func (r UpdateProfileRequest) Validate() error {
	if r.Name == "" && r.Phone == "" {
		return errors.New("nothing to update")
	}
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 200)),
		validation.Field(&r.Phone, validation.By(validPhone)),
	)
}

// BuyAirtimeRequest buys airtime for a phone number
type BuyAirtimeRequest struct {
	Network         Network `json:"network"`
	Phone           string  `json:"phone"`
	Amount          float64 `json:"amount"`
	SaveBeneficiary bool    `json:"save_beneficiary,omitempty"`
}

// Validate will validate the payload
func (r BuyAirtimeRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Network, validation.Required, networkRule()),
		validation.Field(&r.Phone, validation.Required, validation.By(validPhone)),
		validation.Field(&r.Amount, validation.Required, validation.Min(1.0)),
	)
}

func (r BuyAirtimeRequest) normalized() BuyAirtimeRequest {
	if phone, err := NormalizePhone(r.Phone); err == nil {
		r.Phone = phone
	}
	return r
}

// BuyDataRequest buys a data plan for a phone number
type BuyDataRequest struct {
	Network   Network `json:"network"`
	Phone     string  `json:"phone"`
	ProductID string  `json:"product_id"`
}

// Validate will validate the payload
func (r BuyDataRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Network, validation.Required, networkRule()),
		validation.Field(&r.Phone, validation.Required, validation.By(validPhone)),
		validation.Field(&r.ProductID, validation.Required),
	)
}

func (r BuyDataRequest) normalized() BuyDataRequest {
	if phone, err := NormalizePhone(r.Phone); err == nil {
		r.Phone = phone
	}
	return r
}

// FundWalletRequest starts a wallet deposit through a payment gateway
type FundWalletRequest struct {
	Amount        float64 `json:"amount"`
	PaymentMethod string  `json:"payment_method"`
}

// Validate will validate the payload
func (r FundWalletRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount, validation.Required, validation.Min(MinDeposit)),
		validation.Field(&r.PaymentMethod, validation.Required, validation.In(PaymentPaystack, PaymentFlutterwave)),
	)
}

// CreateUserRequest creates an account on behalf of an admin
type CreateUserRequest struct {
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Role     UserRole `json:"role"`
	Password string   `json:"password"`
}

// Validate will validate the payload
func (r CreateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Phone, validation.By(validPhone)),
		validation.Field(&r.Role, validation.Required, validation.By(validRole)),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// UpdateUserRequest changes an account. Empty fields are left untouched.
type UpdateUserRequest struct {
	Name   string     `json:"name,omitempty"`
	Phone  string     `json:"phone,omitempty"`
	Role   UserRole   `json:"role,omitempty"`
	Status UserStatus `json:"status,omitempty"`
}

// Validate will validate the payload
func (r UpdateUserRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Length(1, 200)),
		validation.Field(&r.Phone, validation.By(validPhone)),
		validation.Field(&r.Role, validation.By(validRole)),
		validation.Field(&r.Status, validation.In(UserStatusActive, UserStatusSuspended, UserStatusInactive)),
	)
}

func validRole(value interface{}) error {
	role, _ := value.(UserRole)
	if role == "" || role.IsValid() {
		return nil
	}
	return errors.New("must be a known role")
}

// NotificationPreferencePatch updates a subset of notification preferences
type NotificationPreferencePatch struct {
	EmailEnabled      *bool `json:"email_enabled,omitempty"`
	SMSEnabled        *bool `json:"sms_enabled,omitempty"`
	PushEnabled       *bool `json:"push_enabled,omitempty"`
	LowBalanceAlerts  *bool `json:"low_balance_alerts,omitempty"`
	TransactionAlerts *bool `json:"transaction_alerts,omitempty"`
}

// Empty reports whether the patch changes nothing
func (p NotificationPreferencePatch) Empty() bool {
	return p.EmailEnabled == nil && p.SMSEnabled == nil && p.PushEnabled == nil &&
		p.LowBalanceAlerts == nil && p.TransactionAlerts == nil
}

// TransactionFilters narrows the transaction list
type TransactionFilters struct {
	Type      TransactionType
	Status    TransactionStatus
	Network   Network
	Phone     string
	Reference string
	StartDate time.Time
	EndDate   time.Time
	Page      int
	PageSize  int
}

// Values encodes the filters as query parameters
func (f TransactionFilters) Values() url.Values {
	q := url.Values{}
	setString(q, "type", string(f.Type))
	setString(q, "status", string(f.Status))
	setString(q, "network", string(f.Network))
	setString(q, "phone", f.Phone)
	setString(q, "reference", f.Reference)
	setDate(q, "start_date", f.StartDate)
	setDate(q, "end_date", f.EndDate)
	setPage(q, f.Page, f.PageSize)
	return q
}

// WalletHistoryFilters narrows the wallet ledger
type WalletHistoryFilters struct {
	Type      LedgerEntryType
	StartDate time.Time
	EndDate   time.Time
	Page      int
	PageSize  int
}

// Values encodes the filters as query parameters
func (f WalletHistoryFilters) Values() url.Values {
	q := url.Values{}
	setString(q, "type", string(f.Type))
	setDate(q, "start_date", f.StartDate)
	setDate(q, "end_date", f.EndDate)
	setPage(q, f.Page, f.PageSize)
	return q
}

// ProductFilters narrows the product catalog
type ProductFilters struct {
	Category ProductCategory
	Network  Network
	Active   *bool
}

// Values encodes the filters as query parameters
func (f ProductFilters) Values() url.Values {
	q := url.Values{}
	setString(q, "category", string(f.Category))
	setString(q, "network", string(f.Network))
	if f.Active != nil {
		q.Set("is_active", strconv.FormatBool(*f.Active))
	}
	return q
}

// UserFilters narrows the user list
type UserFilters struct {
	Role     UserRole
	Status   UserStatus
	Search   string
	Page     int
	PageSize int
}

// Values encodes the filters as query parameters
func (f UserFilters) Values() url.Values {
	q := url.Values{}
	setString(q, "role", string(f.Role))
	setString(q, "status", string(f.Status))
	setString(q, "search", f.Search)
	setPage(q, f.Page, f.PageSize)
	return q
}

func setString(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setDate(q url.Values, key string, t time.Time) {
	if !t.IsZero() {
		q.Set(key, t.Format(time.DateOnly))
	}
}

func setPage(q url.Values, page, size int) {
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if size > 0 {
		q.Set("page_size", strconv.Itoa(size))
	}
}
