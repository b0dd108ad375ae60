package principal

import (
	"regexp"
	"strings"
	"time"
)

type Role string

const (
	RoleAgentBank Role = "AgentBank"
	RoleLender    Role = "Lender"
	RoleBorrower  Role = "Borrower"
)

// Agent is a membership row of the agent directory.
type Agent struct {
	ID           uint64    `gorm:"primaryKey;column:id" json:"-"`
	PrincipalID  string    `gorm:"size:66;uniqueIndex:ux_agents_principal" json:"principal"`
	RegisteredBy string    `gorm:"size:66;not null" json:"registered_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Agent) TableName() string { return "agents" }

// RoleAssignment grants a role on one loan. An identity may hold several.
type RoleAssignment struct {
	ID          uint64    `gorm:"primaryKey;column:id" json:"-"`
	LoanID      string    `gorm:"size:32;not null;uniqueIndex:ux_roles_loan_principal_role,priority:1" json:"loan_id"`
	PrincipalID string    `gorm:"size:66;not null;uniqueIndex:ux_roles_loan_principal_role,priority:2" json:"principal"`
	Role        Role      `gorm:"size:16;not null;uniqueIndex:ux_roles_loan_principal_role,priority:3" json:"role"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (RoleAssignment) TableName() string { return "role_assignments" }

var reZeroAddr = regexp.MustCompile(`^0x0{40}$`)

// Normalize trims an identity. Hex addresses are lowercased.
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	if strings.HasPrefix(id, "0x") || strings.HasPrefix(id, "0X") {
		return strings.ToLower(id)
	}
	return id
}

// IsNull reports the empty identity or the zero address.
func IsNull(id string) bool {
	id = Normalize(id)
	return id == "" || reZeroAddr.MatchString(id)
}
