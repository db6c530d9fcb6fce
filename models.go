package auth

import (
	"net/mail"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is the default role assigned at activation
	RoleUser UserRole = "user"
	// RoleAdmin marks course administrators
	RoleAdmin UserRole = "admin"
)

// User is the authoritative account record, created exactly once at
// successful activation. Email uniqueness is enforced by the store schema;
// the register-time lookup is only an early exit.
type User struct {
	bun.BaseModel `bun:"table:users,alias:usr"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Role          UserRole   `bun:"role,notnull,default:'user'" json:"role,omitempty"`
	IsVerified    bool       `bun:"is_verified" json:"isVerified"`
	Courses       []Course   `bun:"courses" json:"courses,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Course is an enrollment reference carried on the user record.
type Course struct {
	CourseID string `json:"courseId"`
}

// Enroll appends a course reference to the user.
func (u *User) Enroll(courseID string) *User {
	u.Courses = append(u.Courses, Course{CourseID: courseID})
	return u
}

// ValidEmail reports whether the address parses as RFC 5322.
func ValidEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}
