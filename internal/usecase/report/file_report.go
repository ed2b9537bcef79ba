package report

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type FileReportUseCase struct {
	deps Deps
	// alertThreshold - при каком reports_count уходит report.threshold_reached, 0 отключает.
	alertThreshold int
}

func NewFileReportUseCase(deps Deps, alertThreshold int) *FileReportUseCase {
	return &FileReportUseCase{deps: deps, alertThreshold: alertThreshold}
}

// Execute добавляет жалобу в открытый агрегат объявления или открывает новый.
// Подачи на одно объявление сериализуются, поэтому открытый агрегат всегда один.
func (uc *FileReportUseCase) Execute(ctx context.Context, actor valueobject.Actor, listingID int64, reason string) (*entity.Report, error) {
	if actor.UserID == uuid.Nil || actor.IsSystem() {
		return nil, apperror.ErrForbidden
	}
	reason, err := entity.NormalizeReason(reason)
	if err != nil {
		return nil, err
	}
	now := uc.deps.now()

	var result *entity.Report
	err = uc.deps.Tx.WithinTx(ctx, func(ctx context.Context) error {
		l, err := uc.deps.Listings.FindByID(ctx, listingID)
		if err != nil {
			return err
		}

		open, err := uc.deps.Reports.LockOpenByListing(ctx, listingID)
		if err != nil {
			return err
		}

		if open == nil {
			rep, err := entity.NewReport(l, reason, actor.UserID, now)
			if err != nil {
				return err
			}
			if err := uc.deps.Reports.Create(ctx, rep); err != nil {
				return err
			}
			result = rep
			return nil
		}

		rep, err := uc.deps.Reports.Update(ctx, open.ID, func(r *entity.Report) error {
			return r.AddComplaint(reason, actor.UserID, now)
		})
		if err != nil {
			return err
		}
		result = rep
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"report_id":     result.ID,
		"listing_id":    listingID,
		"reports_count": result.ReportsCount,
		"reporter_id":   actor.UserID,
	}).Info("жалоба принята")

	filed := event.FromReport(event.ReportFiled, result, nil)
	filed.ActorID = actor.UserID
	filed.ActorRole = string(actor.Role)
	evts := []event.Event{filed}
	if uc.alertThreshold > 0 && result.ReportsCount == uc.alertThreshold {
		alert := filed
		alert.Type = event.ReportThresholdReached
		evts = append(evts, alert)
	}
	uc.deps.publish(ctx, evts...)
	return result, nil
}
