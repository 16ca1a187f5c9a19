package setup

import (
	"github.com/KareemHegazy123/WikiApp/internal/cache"
	"github.com/KareemHegazy123/WikiApp/internal/config"
	"github.com/KareemHegazy123/WikiApp/internal/domain"
	"github.com/KareemHegazy123/WikiApp/internal/handler"
	"github.com/KareemHegazy123/WikiApp/internal/markdown"
	"github.com/KareemHegazy123/WikiApp/internal/service"
	"github.com/KareemHegazy123/WikiApp/internal/storage/sqlite"
)

// Dependencies struct to hold all initialized dependencies.
type Dependencies struct {
	Config  *config.Config
	Storage *sqlite.Storage
	Handler *handler.Handler
	Sweeper *service.BlobSweeper
}

// SetupDependencies initializes all dependencies required for the application.
func SetupDependencies(cfg *config.Config) (*Dependencies, error) {
	storage, err := sqlite.New(cfg.DbPath)
	if err != nil {
		return nil, err
	}

	listingCache := cache.New[string, []domain.Page](cfg.PageCacheTTL)
	pages := service.NewPages(storage, storage, listingCache, cfg.HomePageName)
	sweeper := service.NewBlobSweeper(storage, storage, cfg.SweepMinAge)

	h := handler.New(pages, markdown.New(), storage, cfg)

	return &Dependencies{
		Config:  cfg,
		Storage: storage,
		Handler: h,
		Sweeper: sweeper,
	}, nil
}
