package app

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/ignatzorin/classifieds-moderation/internal/catalog"
	"github.com/ignatzorin/classifieds-moderation/internal/config"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/event"
	"github.com/ignatzorin/classifieds-moderation/internal/domain/repository"
	"github.com/ignatzorin/classifieds-moderation/internal/http/handlers"
	"github.com/ignatzorin/classifieds-moderation/internal/http/middleware"
	"github.com/ignatzorin/classifieds-moderation/internal/http/router"
	"github.com/ignatzorin/classifieds-moderation/internal/interface/http/handler"
	"github.com/ignatzorin/classifieds-moderation/internal/logger"
	"github.com/ignatzorin/classifieds-moderation/internal/metrics"
	"github.com/ignatzorin/classifieds-moderation/internal/usecase/listing"
	"github.com/ignatzorin/classifieds-moderation/internal/usecase/report"
	"github.com/ignatzorin/classifieds-moderation/internal/ws"
)

// Storage - реализации репозиториев выбранного драйвера.
type Storage struct {
	Driver      string
	Tx          repository.Transactor
	Listings    repository.ListingRepository
	Reports     repository.ReportRepository
	Transitions repository.TransitionRepository
	Owners      repository.OwnerDirectory
	Pinger      handlers.Pinger
}

// Options - всё, что собирается в main до HTTP слоя. Hub и Metrics необязательны.
type Options struct {
	Config       *config.Config
	Storage      Storage
	Catalog      *catalog.Registry
	Events       event.Publisher
	Tokens       middleware.TokenParser
	LimiterStore limiter.Store
	Hub          *ws.Hub
	Metrics      *metrics.Metrics
	Now          func() time.Time
}

type App struct {
	Router *gin.Engine
	Expire *listing.ExpireListingUseCase
}

func New(opts Options) *App {
	cfg := opts.Config
	events := opts.Events
	if events == nil {
		events = event.Nop{}
	}

	listingDeps := listing.Deps{
		Tx:          opts.Storage.Tx,
		Listings:    opts.Storage.Listings,
		Transitions: opts.Storage.Transitions,
		Events:      events,
		Now:         opts.Now,
	}
	reportDeps := report.Deps{
		Tx:          opts.Storage.Tx,
		Listings:    opts.Storage.Listings,
		Reports:     opts.Storage.Reports,
		Transitions: opts.Storage.Transitions,
		Events:      events,
		Now:         opts.Now,
	}
	paging := handler.Paging{DefaultPerPage: cfg.DefaultPerPage, MaxPerPage: cfg.MaxPerPage}

	getUC := listing.NewGetListingUseCase(listingDeps)
	listUC := listing.NewListListingsUseCase(listingDeps)
	reopenUC := listing.NewReopenListingUseCase(listingDeps)
	expireUC := listing.NewExpireListingUseCase(listingDeps)

	h := router.Handlers{
		Health:     handlers.NewHealthHandler(opts.Storage.Pinger, opts.Storage.Driver),
		Categories: handler.NewCategoryHandler(opts.Catalog),
		Listings: handler.NewListingHandler(
			listing.NewSubmitListingUseCase(listingDeps, opts.Catalog, opts.Storage.Owners),
			listing.NewUpdateListingUseCase(listingDeps, opts.Catalog),
			reopenUC,
			getUC,
			listUC,
			paging,
		),
		Moderation: handler.NewModerationHandler(
			listUC,
			getUC,
			listing.NewListingHistoryUseCase(listingDeps),
			listing.NewApproveListingUseCase(listingDeps, cfg.ListingTTL),
			listing.NewRejectListingUseCase(listingDeps),
			reopenUC,
			expireUC,
			paging,
		),
		Reports: handler.NewReportHandler(
			report.NewFileReportUseCase(reportDeps, cfg.ReportAlertThreshold),
			report.NewListReportsUseCase(reportDeps),
			report.NewGetReportUseCase(reportDeps),
			report.NewAcceptReportUseCase(reportDeps),
			report.NewDismissReportUseCase(reportDeps),
			paging,
		),
	}
	if opts.Hub != nil {
		h.WS = handlers.NewWSHandler(opts.Hub, opts.Tokens, cfg.AllowedOrigins)
	}

	return &App{
		Router: router.SetupRouter(cfg, h, opts.Tokens, opts.LimiterStore, opts.Metrics),
		Expire: expireUC,
	}
}

// RunExpirySweeper периодически снимает с выдачи объявления с истёкшим сроком.
// Блокируется до отмены контекста.
func (a *App) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.Expire.ExpireDue(ctx)
			if err != nil {
				logger.L().WithError(err).Error("expiry sweeper: ошибка обхода")
				continue
			}
			if n > 0 {
				logger.WithFields(logrus.Fields{"expired": n}).Info("expiry sweeper: объявления сняты с выдачи")
			}
		}
	}
}
