package report

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
)

type AcceptReportUseCase struct {
	deps Deps
}

func NewAcceptReportUseCase(deps Deps) *AcceptReportUseCase {
	return &AcceptReportUseCase{deps: deps}
}

// Execute принимает жалобу и отклоняет объявление с причинами из агрегата.
// Всё выполняется в одной транзакции: сначала блокируется жалоба, затем объявление.
// Если объявление уже отклонено, жалоба всё равно принимается, а объявление не меняется.
func (uc *AcceptReportUseCase) Execute(ctx context.Context, actor valueobject.Actor, reportID int64, note string) (*entity.Report, *entity.Listing, error) {
	var (
		rep      *entity.Report
		listing  *entity.Listing
		reportTr *entity.Transition
		listTr   *entity.Transition
	)
	now := uc.deps.now()

	err := uc.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		rep, err = uc.deps.Reports.Update(ctx, reportID, func(r *entity.Report) error {
			t, err := r.Accept(actor, note, now)
			if err != nil {
				return err
			}
			reportTr = t
			return nil
		})
		if err != nil {
			return err
		}

		listing, err = uc.deps.Listings.Update(ctx, rep.ListingID, func(l *entity.Listing) error {
			t, err := rejectForReport(l, actor, rep, note, now)
			if err != nil {
				return err
			}
			listTr = t
			return nil
		})
		if err != nil {
			return err
		}

		if err := uc.deps.Transitions.Record(ctx, reportTr); err != nil {
			return err
		}
		if listTr != nil {
			return uc.deps.Transitions.Record(ctx, listTr)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	fields := logrus.Fields{
		"report_id":  rep.ID,
		"listing_id": rep.ListingID,
		"actor_id":   actor.UserID,
	}
	if listTr != nil {
		fields["listing_from"] = listTr.From
		fields["listing_to"] = listTr.To
	} else {
		fields["listing_status"] = listing.Status
	}
	logger.WithFields(fields).Info("жалоба принята администратором")

	evts := []event.Event{event.FromReport(event.ReportAccepted, rep, reportTr)}
	if listTr != nil {
		evts = append(evts, event.FromListing(event.ListingRejected, listing, listTr))
	}
	uc.deps.publish(ctx, evts...)
	return rep, listing, nil
}

// rejectForReport выбирает событие машины состояний по текущему статусу объявления.
// Для уже отклонённого объявления перехода нет.
func rejectForReport(l *entity.Listing, actor valueobject.Actor, rep *entity.Report, note string, now time.Time) (*entity.Transition, error) {
	switch l.Status {
	case valueobject.ListingStatusPending:
		return l.Reject(actor, rep.RejectionReason(), note, now)
	case valueobject.ListingStatusPublished:
		return l.RejectByReport(actor, rep.RejectionReason(), now)
	default:
		return nil, nil
	}
}

type DismissReportUseCase struct {
	deps Deps
}

func NewDismissReportUseCase(deps Deps) *DismissReportUseCase {
	return &DismissReportUseCase{deps: deps}
}

// Execute закрывает жалобу без последствий для объявления.
func (uc *DismissReportUseCase) Execute(ctx context.Context, actor valueobject.Actor, reportID int64, note string) (*entity.Report, error) {
	var (
		rep *entity.Report
		tr  *entity.Transition
	)
	now := uc.deps.now()

	err := uc.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		rep, err = uc.deps.Reports.Update(ctx, reportID, func(r *entity.Report) error {
			t, err := r.Dismiss(actor, note, now)
			if err != nil {
				return err
			}
			tr = t
			return nil
		})
		if err != nil {
			return err
		}
		return uc.deps.Transitions.Record(ctx, tr)
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"report_id":  rep.ID,
		"listing_id": rep.ListingID,
		"actor_id":   actor.UserID,
	}).Info("жалоба отклонена администратором")

	uc.deps.publish(ctx, event.FromReport(event.ReportDismissed, rep, tr))
	return rep, nil
}
