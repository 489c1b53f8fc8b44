package user

import "time"

type Role string

const (
	RoleOfficer  Role = "officer"
	RoleHR       Role = "hr"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
)

var Roles = []string{string(RoleOfficer), string(RoleHR), string(RoleManager), string(RoleEmployee)}

type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	IsAdmin      bool
	IsStaff      bool
	IsSuperuser  bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO / Join
	EmployeeID *int64
}

// HasUsablePassword reports whether the account can log in with a password.
func (u *User) HasUsablePassword() bool {
	return u.PasswordHash != ""
}

// IsPrivileged reports whether the user bypasses row scoping.
func (u *User) IsPrivileged() bool {
	return u.IsStaff || u.IsSuperuser
}
