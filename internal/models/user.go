package models

import "time"

const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// IsValidRole vérifie que le rôle fait partie de l'énumération
func IsValidRole(role string) bool {
	switch role {
	case RoleCustomer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string     `json:"user_id"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Password  string     `json:"-"`
	Role      string     `json:"role"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// UserSummary est la projection utilisée pour enrichir les commandes
type UserSummary struct {
	ID    string `json:"user_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Viewer est l'identité explicite (id + rôle) transmise aux moteurs.
// Pas d'état global : chaque appel reçoit son viewer.
type Viewer struct {
	ID   string
	Role string
}

func (v Viewer) IsAdmin() bool  { return v.Role == RoleAdmin }
func (v Viewer) IsSeller() bool { return v.Role == RoleSeller }
func (v Viewer) IsStaff() bool  { return v.Role == RoleAdmin || v.Role == RoleSeller }
