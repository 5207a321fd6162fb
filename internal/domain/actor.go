package domain

// Role classifies the actor performing an operation. Authentication itself
// is external; the core only consults the role for transition guards.
type Role string

// List of possible actor roles
const (
	RoleAdmin      Role = "admin"
	RolePharmacist Role = "pharmacist"
	RoleRider      Role = "rider"
)

// Valid checks if the Role is valid
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RolePharmacist || r == RoleRider
}

// Actor identifies who is performing an operation.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// MayDrive reports whether the actor may move the given delivery through
// the rider-facing transitions (start, delivered). Admins always may; a
// rider only for their own delivery.
func (a Actor) MayDrive(d *Delivery) bool {
	if a.IsAdmin() {
		return true
	}
	return a.Role == RoleRider && a.ID != "" && d != nil && a.ID == d.RiderID
}
