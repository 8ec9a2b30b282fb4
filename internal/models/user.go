package models

type Role string

const (
	RoleAdmin Role = "admin"
	RoleGuru  Role = "guru"
)

// User is a login principal. Passwords are stored and compared in plain
// text; the bot is the only way in and accounts are managed by the admin.
type User struct {
	ID       string
	Email    string
	Password string
	Role     Role
	Name     string
}

// Session binds a telegram chat to the signed-in user.
type Session struct {
	ChatID int64
	UserID string
}
