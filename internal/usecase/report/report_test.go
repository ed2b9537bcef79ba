package report_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/infrastructure/memory"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
	"github.com/ignatzorin/classifieds-moderation/internal/usecase/report"
)

type recorder struct {
	mu     sync.Mutex
	events []event.Event
}

func (r *recorder) Publish(_ context.Context, evt event.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, evt)
}

func (r *recorder) types() []event.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]event.Type, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	now      time.Time
	events   *recorder
	deps     report.Deps
	file     *report.FileReportUseCase
	accept   *report.AcceptReportUseCase
	dismiss  *report.DismissReportUseCase
	list     *report.ListReportsUseCase
	get      *report.GetReportUseCase
	admin    valueobject.Actor
	reporter valueobject.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	events := &recorder{}
	f := &fixture{
		now:      time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC),
		events:   events,
		admin:    valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleAdmin},
		reporter: valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleUser},
	}
	f.deps = report.Deps{
		Tx:          store,
		Listings:    memory.NewListingRepository(store),
		Reports:     memory.NewReportRepository(store),
		Transitions: memory.NewTransitionRepository(store),
		Events:      events,
		Now:         func() time.Time { return f.now },
	}
	f.file = report.NewFileReportUseCase(f.deps, 3)
	f.accept = report.NewAcceptReportUseCase(f.deps)
	f.dismiss = report.NewDismissReportUseCase(f.deps)
	f.list = report.NewListReportsUseCase(f.deps)
	f.get = report.NewGetReportUseCase(f.deps)
	return f
}

// seedListing создаёт объявление в нужном статусе напрямую через сущность.
func (f *fixture) seedListing(t *testing.T, status valueobject.ListingStatus) *entity.Listing {
	t.Helper()
	owner := valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleUser}
	schema := &entity.CategorySchema{Slug: valueobject.CategoryMissing, Name: "Other"}
	l, err := entity.NewListing(owner, entity.OwnerSnapshot{}, schema, entity.ListingContent{Title: "iPhone 13"}, f.now)
	require.NoError(t, err)

	switch status {
	case valueobject.ListingStatusPublished:
		_, err = l.Approve(f.admin, time.Hour, f.now)
	case valueobject.ListingStatusRejected:
		_, err = l.Reject(f.admin, "дубль", "", f.now)
	}
	require.NoError(t, err)
	require.NoError(t, f.deps.Listings.Create(context.Background(), l))
	return l
}

func (f *fixture) listing(t *testing.T, id int64) *entity.Listing {
	t.Helper()
	l, err := f.deps.Listings.FindByID(context.Background(), id)
	require.NoError(t, err)
	return l
}

func TestFileReport_SameReasonCountsTwiceKeepsOneReason(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusPublished)
	ctx := context.Background()

	first, err := f.file.Execute(ctx, f.reporter, l.ID, "spam")
	require.NoError(t, err)
	second, err := f.file.Execute(ctx, valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleUser}, l.ID, "  spam ")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 2, second.ReportsCount)
	assert.Equal(t, []string{"spam"}, second.Reasons)
	assert.Len(t, second.ReporterIDs, 2)
	assert.Equal(t, "iPhone 13", second.Listing.Title)
}

func TestFileReport_DifferentReasonsBothPresentOnce(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusPublished)
	ctx := context.Background()

	for _, reason := range []string{"spam", "fraud", "spam", "fraud"} {
		_, err := f.file.Execute(ctx, f.reporter, l.ID, reason)
		require.NoError(t, err)
	}

	items, _, err := f.list.Open(ctx, f.admin, valueobject.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].ReportsCount)
	assert.Equal(t, []string{"spam", "fraud"}, items[0].Reasons)
	assert.Len(t, items[0].ReporterIDs, 1)
}

func TestFileReport_Validation(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusPublished)

	_, err := f.file.Execute(context.Background(), f.reporter, l.ID, "   ")
	assert.True(t, apperror.IsValidation(err))

	_, err = f.file.Execute(context.Background(), f.reporter, 9999, "spam")
	assert.True(t, apperror.IsNotFound(err))
}

func TestFileReport_ThresholdAlertOnce(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusPublished)

	for i := 0; i < 4; i++ {
		_, err := f.file.Execute(context.Background(), f.reporter, l.ID, "spam")
		require.NoError(t, err)
	}

	alerts := 0
	for _, typ := range f.events.types() {
		if typ == event.ReportThresholdReached {
			alerts++
		}
	}
	assert.Equal(t, 1, alerts)
}

func TestFileReport_ConcurrentFilingsShareOneAggregate(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusPublished)

	const filers = 10
	var wg sync.WaitGroup
	for i := 0; i < filers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.file.Execute(context.Background(), valueobject.Actor{UserID: uuid.New(), Role: valueobject.RoleUser}, l.ID, "spam")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	items, page, err := f.list.Execute(context.Background(), f.admin, repository.ReportFilter{ListingID: l.ID}, valueobject.PageRequest{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, items, 1)
	assert.Equal(t, filers, items[0].ReportsCount)
}

func TestAcceptReport_PublishedListingBecomesRejected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	reported := f.seedListing(t, valueobject.ListingStatusPublished)
	other := f.seedListing(t, valueobject.ListingStatusPublished)

	rep, err := f.file.Execute(ctx, f.reporter, reported.ID, "spam")
	require.NoError(t, err)
	_, err = f.file.Execute(ctx, f.reporter, reported.ID, "fraud")
	require.NoError(t, err)
	otherRep, err := f.file.Execute(ctx, f.reporter, other.ID, "wrong category")
	require.NoError(t, err)

	accepted, l, err := f.accept.Execute(ctx, f.admin, rep.ID, "подтверждено")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ReportStatusAccepted, accepted.Status)
	require.NotNil(t, accepted.ResolvedBy)
	assert.Equal(t, f.admin.UserID, *accepted.ResolvedBy)
	assert.Equal(t, valueobject.ListingStatusRejected, l.Status)
	assert.Equal(t, "spam; fraud", l.RejectionReason)

	dismissed, err := f.dismiss.Execute(ctx, f.admin, otherRep.ID, "")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ReportStatusDismissed, dismissed.Status)
	assert.Equal(t, valueobject.ListingStatusPublished, f.listing(t, other.ID).Status)

	history, err := f.deps.Transitions.ListBySubject(ctx, entity.SubjectListing, reported.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "report_accepted", history[0].Event)
	assert.Equal(t, "spam; fraud", history[0].Reason)

	assert.Contains(t, f.events.types(), event.ListingRejected)
	assert.Contains(t, f.events.types(), event.ReportAccepted)
	assert.Contains(t, f.events.types(), event.ReportDismissed)
}

func TestAcceptReport_PendingListingIsRejected(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusPending)
	rep, err := f.file.Execute(context.Background(), f.reporter, l.ID, "prohibited item")
	require.NoError(t, err)

	_, listing, err := f.accept.Execute(context.Background(), f.admin, rep.ID, "")
	require.NoError(t, err)
	assert.Equal(t, valueobject.ListingStatusRejected, listing.Status)
	assert.Equal(t, "prohibited item", listing.RejectionReason)
}

// Объявление уже отклонено другим путём: жалоба принимается, статус объявления не трогаем.
func TestAcceptReport_DivergedListingStillAccepts(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusRejected)
	rep, err := f.file.Execute(context.Background(), f.reporter, l.ID, "spam")
	require.NoError(t, err)
	before := f.listing(t, l.ID)

	accepted, listing, err := f.accept.Execute(context.Background(), f.admin, rep.ID, "")

	require.NoError(t, err)
	assert.Equal(t, valueobject.ReportStatusAccepted, accepted.Status)
	assert.Equal(t, before, listing)
	assert.NotContains(t, f.events.types(), event.ListingRejected)
}

func TestResolveReport_Twice(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusPublished)
	rep, err := f.file.Execute(context.Background(), f.reporter, l.ID, "spam")
	require.NoError(t, err)

	_, err = f.dismiss.Execute(context.Background(), f.admin, rep.ID, "")
	require.NoError(t, err)

	_, _, err = f.accept.Execute(context.Background(), f.admin, rep.ID, "")
	assert.True(t, apperror.IsInvalidTransition(err))
	_, err = f.dismiss.Execute(context.Background(), f.admin, rep.ID, "")
	assert.True(t, apperror.IsInvalidTransition(err))
	assert.Equal(t, valueobject.ListingStatusPublished, f.listing(t, l.ID).Status)
}

func TestFileReport_AfterResolutionStartsNewAggregate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	l := f.seedListing(t, valueobject.ListingStatusPublished)
	first, err := f.file.Execute(ctx, f.reporter, l.ID, "spam")
	require.NoError(t, err)
	_, err = f.dismiss.Execute(ctx, f.admin, first.ID, "не подтвердилось")
	require.NoError(t, err)

	second, err := f.file.Execute(ctx, f.reporter, l.ID, "spam")

	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, second.ReportsCount)
}

func TestAcceptReport_RequiresAdmin(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusPublished)
	rep, err := f.file.Execute(context.Background(), f.reporter, l.ID, "spam")
	require.NoError(t, err)

	_, _, err = f.accept.Execute(context.Background(), f.reporter, rep.ID, "")

	assert.True(t, apperror.IsForbidden(err))
	stored, err := f.get.Execute(context.Background(), f.admin, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ReportStatusOpen, stored.Status)
	assert.Equal(t, valueobject.ListingStatusPublished, f.listing(t, l.ID).Status)
}

func TestAcceptReport_RollsBackWhenListingUpdateFails(t *testing.T) {
	f := newFixture(t)
	l := f.seedListing(t, valueobject.ListingStatusPublished)
	rep, err := f.file.Execute(context.Background(), f.reporter, l.ID, "spam")
	require.NoError(t, err)

	failing := f.deps
	failing.Listings = failingListings{ListingRepository: f.deps.Listings}
	_, _, err = report.NewAcceptReportUseCase(failing).Execute(context.Background(), f.admin, rep.ID, "")
	require.Error(t, err)

	stored, err := f.get.Execute(context.Background(), f.admin, rep.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ReportStatusOpen, stored.Status)
	history, err := f.get.History(context.Background(), f.admin, rep.ID)
	require.NoError(t, err)
	assert.Empty(t, history)
}

type failingListings struct {
	repository.ListingRepository
}

func (failingListings) Update(context.Context, int64, func(*entity.Listing) error) (*entity.Listing, error) {
	return nil, apperror.ErrConcurrentUpdate
}

func TestListReports_Pagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		l := f.seedListing(t, valueobject.ListingStatusPublished)
		_, err := f.file.Execute(ctx, f.reporter, l.ID, "spam")
		require.NoError(t, err)
		f.now = f.now.Add(time.Minute)
	}

	items, page, err := f.list.Open(ctx, f.admin, valueobject.PageRequest{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, valueobject.Page{Page: 2, PerPage: 2, Total: 5, LastPage: 3}, page)
	require.Len(t, items, 2)
	assert.Greater(t, items[0].ID, items[1].ID)

	_, _, err = f.list.Open(ctx, f.reporter, valueobject.PageRequest{Page: 1, PerPage: 2})
	assert.True(t, apperror.IsForbidden(err))
}
