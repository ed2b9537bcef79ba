package valueobject

import (
	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleSystem Role = "system"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleSystem:
		return true
	}
	return false
}

// Actor - явные учётные данные инициатора действия. Передаётся в каждый вызов use case.
type Actor struct {
	UserID uuid.UUID
	Role   Role
}

func NewActor(userID uuid.UUID, role string) (Actor, error) {
	r := Role(role)
	if r == "" {
		r = RoleUser
	}
	if !r.IsValid() || r == RoleSystem {
		return Actor{}, apperror.New(apperror.ErrCodeForbidden, "некорректная роль")
	}
	if userID == uuid.Nil {
		return Actor{}, apperror.ErrUnauthorized
	}
	return Actor{UserID: userID, Role: r}, nil
}

// SystemActor используется фоновыми задачами (истечение срока публикации).
func SystemActor() Actor {
	return Actor{UserID: uuid.Nil, Role: RoleSystem}
}

func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

func (a Actor) IsSystem() bool {
	return a.Role == RoleSystem
}
