package web

import (
	"time"

	vend "github.com/goliatone/go-vend"
)

// TemplateUserKey is the view key holding the signed in user.
var TemplateUserKey = "current_user"

// TemplateHelpers returns the helper functions and constants merged into
// every view context.
//
// In templates:
//
//	{% if is_authenticated(current_user) %}
//	{% if has_role(current_user, "admin") %}
//	{{ currency(wallet.Balance, wallet.Currency) }}
//	{{ phone(tx.Phone) }}
func TemplateHelpers() map[string]any {
	return map[string]any{
		"is_authenticated": isAuthenticated,
		"has_role":         hasRole,
		"can_manage_users": canManageUsers,
		"can_fund_wallet":  canFundWallet,
		"currency":         vend.FormatCurrency,
		"number":           vend.FormatNumber,
		"phone":            vend.FormatPhoneNumber,
		"date":             formatTime(vend.FormatDate),
		"datetime":         formatTime(vend.FormatDateTime),
		"relative":         formatTime(vend.FormatRelativeTime),

		"roles": map[string]string{
			"admin":    string(vend.RoleAdmin),
			"agent":    string(vend.RoleAgent),
			"user":     string(vend.RoleUser),
			"reseller": string(vend.RoleReseller),
		},
	}
}

// TemplateHelpersWithUser returns the helpers with user set as current_user.
func TemplateHelpersWithUser(user *vend.User) map[string]any {
	helpers := TemplateHelpers()
	if user != nil {
		helpers[TemplateUserKey] = user
	}
	return helpers
}

func isAuthenticated(user any) bool {
	switch u := user.(type) {
	case *vend.User:
		return u != nil
	case vend.User:
		return true
	default:
		return false
	}
}

func asUser(user any) *vend.User {
	switch u := user.(type) {
	case *vend.User:
		return u
	case vend.User:
		return &u
	default:
		return nil
	}
}

func hasRole(user any, role string) bool {
	return vend.HasRole(asUser(user), vend.UserRole(role))
}

func canManageUsers(user any) bool {
	return vend.CanManageUsers(asUser(user))
}

func canFundWallet(user any) bool {
	return vend.CanFundWallet(asUser(user))
}

func formatTime(fn func(time.Time) string) func(any) string {
	return func(v any) string {
		switch t := v.(type) {
		case time.Time:
			return fn(t)
		case *time.Time:
			if t == nil {
				return ""
			}
			return fn(*t)
		default:
			return ""
		}
	}
}
