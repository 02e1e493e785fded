package constants

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleEmployee Role = "employee"
)
