// FILE: internal/entity/user_entity.go
package entity

import (
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleDeveloper UserRole = "DEVELOPER"
	UserRoleAdmin     UserRole = "ADMIN"
	UserRoleTeacher   UserRole = "TEACHER"
	UserRoleParent    UserRole = "PARENT"
	UserRoleStudent   UserRole = "STUDENT"
)

// DependentRoles are the account roles owned by a tenant admin.
var DependentRoles = []UserRole{UserRoleTeacher, UserRoleParent, UserRoleStudent}

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleDeveloper, UserRoleAdmin, UserRoleTeacher, UserRoleParent, UserRoleStudent:
		return true
	}
	return false
}

type User struct {
	Id           uuid.UUID
	Email        string
	PasswordHash *string
	FullName     string
	Role         UserRole
	IsActive     bool
	AdminId      *uuid.UUID // Owning tenant admin, nil for ADMIN/DEVELOPER
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type ParentStudent struct {
	Id        uuid.UUID
	ParentId  uuid.UUID
	StudentId uuid.UUID
	CreatedAt time.Time
}
