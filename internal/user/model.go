package user

import "time"

const (
	RoleAdmin    = "admin"
	RoleOwner    = "owner"
	RoleCustomer = "customer"
)

type User struct {
	ID           int64
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	Address      string
	Contact      string
	IsActive     bool

	FailedLoginAttempts int
	LockedUntil         *time.Time
	LastLogin           *time.Time

	CreatedAt time.Time
}

// Profile is the externally visible slice of a user: no hash, no lockout
// bookkeeping.
type Profile struct {
	ID        int64      `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Role      string     `json:"role"`
	Address   string     `json:"address,omitempty"`
	Contact   string     `json:"contact,omitempty"`
	IsActive  bool       `json:"is_active"`
	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

func (u *User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		Address:   u.Address,
		Contact:   u.Contact,
		IsActive:  u.IsActive,
		LastLogin: u.LastLogin,
		CreatedAt: u.CreatedAt,
	}
}

// rolePermissions drives HasPermission and the role middleware.
var rolePermissions = map[string][]string{
	RoleAdmin:    {"user_management", "menu_management", "order_management", "view_audit_logs", "system_settings"},
	RoleOwner:    {"menu_management", "order_management", "view_orders"},
	RoleCustomer: {"browse_menu", "place_order", "view_own_orders", "manage_profile"},
}

func HasPermission(role, permission string) bool {
	for _, p := range rolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}
