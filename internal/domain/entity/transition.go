package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
)

type SubjectType string

const (
	SubjectListing SubjectType = "listing"
	SubjectReport  SubjectType = "report"
)

// Transition - запись аудита: кто, когда и почему изменил статус.
type Transition struct {
	ID        uuid.UUID
	Subject   SubjectType
	SubjectID int64
	From      string
	To        string
	Event     string
	ActorID   uuid.UUID
	ActorRole valueobject.Role
	Reason    string
	At        time.Time
}

func newTransition(subject SubjectType, subjectID int64, from, to, event string, actor valueobject.Actor, reason string, at time.Time) *Transition {
	return &Transition{
		ID:        uuid.New(),
		Subject:   subject,
		SubjectID: subjectID,
		From:      from,
		To:        to,
		Event:     event,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		Reason:    reason,
		At:        at,
	}
}
