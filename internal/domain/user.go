package domain

type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleViewer UserRole = "viewer"
)

// RoleRule validates a role name.
const RoleRule = "oneof=admin viewer"

// User is a login account stored in the montaza database.
type User struct {
	ID           int64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username     string   `gorm:"column:username;type:text;uniqueIndex;not null" json:"username"`
	PasswordHash string   `gorm:"column:password_hash;type:text;not null" json:"-"`
	Role         UserRole `gorm:"column:role;type:text;not null;check:role IN ('admin','viewer')" json:"role"`
}

func (User) TableName() string { return "users" }

// Actor is the authenticated identity every ownership check is made for.
type Actor struct {
	Username string
	Role     UserRole
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }
