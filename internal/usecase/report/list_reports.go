package report

import (
	"context"

	"github.com/ignatzorin/classifieds-moderation/internal/domain/entity"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/valueobject"
	"github.com/ignatzorin/classifieds-moderation/internal/pkg/apperror"
)

type ListReportsUseCase struct {
	deps Deps
}

func NewListReportsUseCase(deps Deps) *ListReportsUseCase {
	return &ListReportsUseCase{deps: deps}
}

func (uc *ListReportsUseCase) Execute(ctx context.Context, actor valueobject.Actor, filter repository.ReportFilter, page valueobject.PageRequest) ([]*entity.Report, valueobject.Page, error) {
	if !actor.IsAdmin() {
		return nil, valueobject.Page{}, apperror.ErrForbidden
	}
	return uc.deps.Reports.List(ctx, filter, page)
}

// Open - очередь открытых жалоб.
func (uc *ListReportsUseCase) Open(ctx context.Context, actor valueobject.Actor, page valueobject.PageRequest) ([]*entity.Report, valueobject.Page, error) {
	return uc.Execute(ctx, actor, repository.ReportFilter{Status: valueobject.ReportStatusOpen}, page)
}

type GetReportUseCase struct {
	deps Deps
}

func NewGetReportUseCase(deps Deps) *GetReportUseCase {
	return &GetReportUseCase{deps: deps}
}

func (uc *GetReportUseCase) Execute(ctx context.Context, actor valueobject.Actor, id int64) (*entity.Report, error) {
	if !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	return uc.deps.Reports.FindByID(ctx, id)
}

// History - журнал решений по агрегату жалоб.
func (uc *GetReportUseCase) History(ctx context.Context, actor valueobject.Actor, id int64) ([]*entity.Transition, error) {
	if _, err := uc.Execute(ctx, actor, id); err != nil {
		return nil, err
	}
	return uc.deps.Transitions.ListBySubject(ctx, entity.SubjectReport, id)
}
