package domain

type Role string

const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
)

// User is a clinic login. Password holds a bcrypt hash once stored.
type User struct {
	ID       string `json:"id" db:"id"`
	Username string `json:"username" db:"username"`
	Password string `json:"password,omitempty" db:"password"`
	Role     Role   `json:"role" db:"role"`
}

// ClinicSettings holds the clinic's letterhead details.
type ClinicSettings struct {
	Name    string  `db:"name" json:"name"`
	Logo    *string `db:"logo" json:"logo"`
	Address string  `db:"address" json:"address,omitempty"`
	Email   string  `db:"email" json:"email,omitempty"`
	Phone   string  `db:"phone" json:"phone,omitempty"`
}
