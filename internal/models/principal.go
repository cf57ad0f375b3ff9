package models

import "strings"

// Role is the authorization role attached to a request identity.
type Role string

const (
	RoleStudent    Role = "student"
	RoleTeacher    Role = "teacher"
	RoleSupervisor Role = "supervisor"
)

// RoleFromPrincipalType maps a token principal-type claim to a role. Matching
// is case-insensitive and unknown values fall back to the student role.
func RoleFromPrincipalType(principalType string) Role {
	switch strings.ToUpper(strings.TrimSpace(principalType)) {
	case "SUPERVISOR":
		return RoleSupervisor
	case "TEACHER":
		return RoleTeacher
	case "USER", "STUDENT":
		return RoleStudent
	default:
		return RoleStudent
	}
}

// AccountStatus is the lifecycle state of a user account.
type AccountStatus string

const (
	StatusActive    AccountStatus = "ACTIVE"
	StatusPending   AccountStatus = "PENDING"
	StatusApproved  AccountStatus = "APPROVED"
	StatusRejected  AccountStatus = "REJECTED"
	StatusSuspended AccountStatus = "SUSPENDED"
)

// Principal is the resolved identity for an authenticated request.
type Principal struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}
