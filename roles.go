package vend

// IsValid checks if the role is one of the predefined valid roles
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleAgent, RoleUser, RoleReseller:
		return true
	default:
		return false
	}
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleAdmin,
		RoleAgent,
		RoleUser,
		RoleReseller,
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(roleStr)
	return role, role.IsValid()
}

// HasRole checks if the user has a specific role
func HasRole(user *User, role UserRole) bool {
	return user != nil && user.Role == role
}

// HasAnyRole checks if the user has any of the given roles
func HasAnyRole(user *User, roles ...UserRole) bool {
	if user == nil {
		return false
	}
	for _, role := range roles {
		if user.Role == role {
			return true
		}
	}
	return false
}

func IsAdmin(user *User) bool    { return HasRole(user, RoleAdmin) }
func IsAgent(user *User) bool    { return HasRole(user, RoleAgent) }
func IsUser(user *User) bool     { return HasRole(user, RoleUser) }
func IsReseller(user *User) bool { return HasRole(user, RoleReseller) }

// CanManageUsers gates the admin user management screens
func CanManageUsers(user *User) bool {
	return IsAdmin(user)
}

// CanViewAllTransactions gates transactions belonging to other users
func CanViewAllTransactions(user *User) bool {
	return HasAnyRole(user, RoleAdmin, RoleAgent)
}

// CanExportData gates report exports
func CanExportData(user *User) bool {
	return IsAdmin(user)
}

// CanFundWallet gates wallet deposits
func CanFundWallet(user *User) bool {
	return HasAnyRole(user, GetAllRoles()...)
}

// CanPurchase gates airtime and data purchases
func CanPurchase(user *User) bool {
	return HasAnyRole(user, GetAllRoles()...)
}
