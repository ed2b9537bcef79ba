package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
)

// OwnerDirectory - справочник пользователей для режима без базы.
// Для неизвестного пользователя возвращает пустой снимок: своего хранилища пользователей здесь нет.
type OwnerDirectory struct {
	mu     sync.RWMutex
	owners map[uuid.UUID]entity.OwnerSnapshot
}

func NewOwnerDirectory() *OwnerDirectory {
	return &OwnerDirectory{owners: make(map[uuid.UUID]entity.OwnerSnapshot)}
}

func (d *OwnerDirectory) Put(userID uuid.UUID, snapshot entity.OwnerSnapshot) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.owners[userID] = snapshot
}

func (d *OwnerDirectory) Snapshot(_ context.Context, userID uuid.UUID) (entity.OwnerSnapshot, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.owners[userID], nil
}
