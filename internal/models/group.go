package models

// Role is a member's role within a group. The set is closed: permission
// checks go through the capability table below rather than string
// comparisons scattered around the codebase.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Capability names an action a member may perform in a group.
type Capability string

const (
	CapView          Capability = "view"
	CapAddExpense    Capability = "add_expense"
	CapSettle        Capability = "settle"
	CapManageMembers Capability = "manage_members"
)

// roleCapabilities is the fixed permission table. Owners and admins can
// do everything; plain members can view, add expenses, and settle their
// own debts but cannot manage membership.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleOwner: {
		CapView:          true,
		CapAddExpense:    true,
		CapSettle:        true,
		CapManageMembers: true,
	},
	RoleAdmin: {
		CapView:          true,
		CapAddExpense:    true,
		CapSettle:        true,
		CapManageMembers: true,
	},
	RoleMember: {
		CapView:       true,
		CapAddExpense: true,
		CapSettle:     true,
	},
}

// Can reports whether the role grants the given capability. Unknown
// roles grant nothing.
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleCapabilities[r]
	return ok
}

// Member is a participant in a group. Identity lives with the external
// identity provider; this service only carries the user ID and the
// profile fields needed for display.
type Member struct {
	UserID   string `json:"user_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Active   bool   `json:"active"`
	JoinedAt int64  `json:"joined_at"`
}

// Group is a set of members sharing expenses.
type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"created_by"`
	CreatedAt int64    `json:"created_at"`
	Members   []Member `json:"members,omitempty"`
}
