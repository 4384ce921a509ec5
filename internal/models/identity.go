package models

// Role is the platform role of an authenticated caller.
type Role string

// Roles recognized by the scoring API.
const (
	RoleTenant   Role = "tenant"
	RoleLandlord Role = "landlord"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleTenant, RoleLandlord, RoleAdmin:
		return true
	}
	return false
}

// Viewer identifies the caller of a request as asserted by the upstream
// gateway.
type Viewer struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
