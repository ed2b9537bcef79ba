// Package memory - хранилище в памяти с теми же контрактами, что и PostgreSQL.
// Все операции сериализуются одной блокировкой, транзакция откатывается по снимку.
package memory

import (
	"context"
	"sync"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
)

type txKey struct{}

type Store struct {
	mu sync.Mutex

	listings      map[int64]*entity.Listing
	reports       map[int64]*entity.Report
	transitions   []*entity.Transition
	nextListingID int64
	nextReportID  int64
}

func NewStore() *Store {
	return &Store{
		listings: make(map[int64]*entity.Listing),
		reports:  make(map[int64]*entity.Report),
	}
}

type snapshot struct {
	listings      map[int64]*entity.Listing
	reports       map[int64]*entity.Report
	transitions   int
	nextListingID int64
	nextReportID  int64
}

// Записи в картах только заменяются целиком, поэтому поверхностной копии достаточно.
func (s *Store) snapshot() snapshot {
	snap := snapshot{
		listings:      make(map[int64]*entity.Listing, len(s.listings)),
		reports:       make(map[int64]*entity.Report, len(s.reports)),
		transitions:   len(s.transitions),
		nextListingID: s.nextListingID,
		nextReportID:  s.nextReportID,
	}
	for k, v := range s.listings {
		snap.listings[k] = v
	}
	for k, v := range s.reports {
		snap.reports[k] = v
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.listings = snap.listings
	s.reports = snap.reports
	s.transitions = s.transitions[:snap.transitions]
	s.nextListingID = snap.nextListingID
	s.nextReportID = snap.nextReportID
}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// lock берёт блокировку, если вызов не находится внутри WithinTx этого же хранилища.
func (s *Store) lock(ctx context.Context) func() {
	if s.inTx(ctx) {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// WithinTx реализует repository.Transactor.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot()
	defer func() {
		if p := recover(); p != nil {
			s.restore(snap)
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

// PingContext нужен health-check'у, хранилище в памяти всегда доступно.
func (s *Store) PingContext(context.Context) error {
	return nil
}
