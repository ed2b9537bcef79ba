package valueobject

import (
	"math"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

func TestListingStatus_TransitionTable(t *testing.T) {
	allowed := map[ListingStatus]map[ModerationEvent]ListingStatus{
		ListingStatusPending: {
			EventApprove: ListingStatusPublished,
			EventReject:  ListingStatusRejected,
		},
		ListingStatusRejected: {
			EventReopen: ListingStatusPending,
		},
		ListingStatusPublished: {
			EventExpire:         ListingStatusPublished,
			EventReportAccepted: ListingStatusRejected,
		},
	}

	for _, from := range ListingStatuses {
		for _, event := range ModerationEvents {
			to, err := from.Next(event)
			want, ok := allowed[from][event]
			if ok {
				require.NoError(t, err, "%s + %s", from, event)
				assert.Equal(t, want, to)
				continue
			}
			require.Error(t, err, "%s + %s", from, event)
			var appErr *apperror.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperror.ErrCodeInvalidTransition, appErr.Code)
			assert.Equal(t, string(from), appErr.Details["from"])
			assert.Equal(t, string(event), appErr.Details["event"])
		}
	}
}

func TestParseListingStatus(t *testing.T) {
	s, err := ParseListingStatus("published")
	require.NoError(t, err)
	assert.Equal(t, ListingStatusPublished, s)

	_, err = ParseListingStatus("reopened")
	assert.True(t, apperror.IsValidation(err))
}

func TestParseReportStatus(t *testing.T) {
	s, err := ParseReportStatus("dismissed")
	require.NoError(t, err)
	assert.True(t, s.IsResolved())
	assert.False(t, ReportStatusOpen.IsResolved())

	_, err = ParseReportStatus("closed")
	assert.True(t, apperror.IsValidation(err))
}

func TestPageRequest_ResolveAlwaysInRange(t *testing.T) {
	for total := 0; total <= 60; total++ {
		for perPage := 1; perPage <= 17; perPage++ {
			for _, requested := range []int{-3, 0, 1, 2, 5, 100} {
				p := PageRequest{Page: requested, PerPage: perPage}.Resolve(total)

				wantLast := (total + perPage - 1) / perPage
				if wantLast < 1 {
					wantLast = 1
				}
				assert.Equal(t, wantLast, p.LastPage, "total=%d per_page=%d", total, perPage)
				assert.GreaterOrEqual(t, p.Page, 1)
				assert.LessOrEqual(t, p.Page, p.LastPage)
				assert.Equal(t, total, p.Total)
				assert.Equal(t, perPage, p.PerPage)
			}
		}
	}
}

func TestPageRequest_EmptyResult(t *testing.T) {
	p := NewPageRequest(3, 0, 15, 100).Resolve(0)

	assert.Equal(t, Page{Page: 1, PerPage: 15, Total: 0, LastPage: 1}, p)
	assert.Zero(t, p.Offset())
	assert.False(t, p.HasMore())
}

func TestNewPageRequest_Clamps(t *testing.T) {
	assert.Equal(t, PageRequest{Page: 1, PerPage: 100}, NewPageRequest(0, 1000, 15, 100))
	assert.Equal(t, PageRequest{Page: 4, PerPage: 20}, NewPageRequest(4, 20, 15, 100))
	assert.Equal(t, PageRequest{Page: 1, PerPage: DefaultPerPage}, NewPageRequest(-1, -1, 0, 0))
}

func TestNewActor(t *testing.T) {
	id := uuid.New()

	a, err := NewActor(id, "")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, a.Role)

	a, err = NewActor(id, "admin")
	require.NoError(t, err)
	assert.True(t, a.IsAdmin())

	_, err = NewActor(id, "system")
	assert.True(t, apperror.IsForbidden(err))

	_, err = NewActor(uuid.Nil, "admin")
	assert.Error(t, err)

	assert.True(t, SystemActor().IsSystem())
}

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(100, " usd ")
	require.NoError(t, err)
	assert.Equal(t, Money{Amount: 100, Currency: "USD"}, m)

	m, err = NewMoney(0, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCurrency, m.Currency)

	_, err = NewMoney(-1, "EGP")
	assert.True(t, apperror.IsValidation(err))

	_, err = NewMoney(1, "EURO")
	assert.True(t, apperror.IsValidation(err))
}

func TestNewMoney_FitsPriceColumn(t *testing.T) {
	m, err := NewMoney(MaxAmount, "EGP")
	require.NoError(t, err)
	assert.Equal(t, MaxAmount, m.Amount)

	for _, amount := range []float64{1e12, 1e15, math.Inf(1), math.NaN()} {
		_, err := NewMoney(amount, "EGP")
		require.Error(t, err, "%v", amount)
		var appErr *apperror.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, "price", appErr.Details["field"])
	}
}

func TestParsePlanType(t *testing.T) {
	p, err := ParsePlanType("")
	require.NoError(t, err)
	assert.Equal(t, PlanFree, p)

	_, err = ParsePlanType("gold")
	assert.True(t, apperror.IsValidation(err))
}
