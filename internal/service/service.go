package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"wiki-echo/internal/config"
	"wiki-echo/internal/domain"
	"wiki-echo/internal/repository"
	"wiki-echo/internal/service/auth"
	"wiki-echo/internal/service/countcache"
	"wiki-echo/internal/service/email"
	"wiki-echo/internal/service/formatter"
	"wiki-echo/internal/service/icon"
	"wiki-echo/internal/service/notification"
	"wiki-echo/internal/service/preference"
	"wiki-echo/internal/service/presentation"
	"wiki-echo/internal/service/user"
)

type Services struct {
	Auth         auth.Service
	User         user.Service
	Preference   preference.Service
	Icon         icon.Service
	Email        email.Service
	Notification notification.Service

	Factory   *presentation.Factory
	Formatter *formatter.Formatter
	Deleter   *notification.DeferredDeleter
}

func NewServices(repos *repository.Repositories, registry *domain.Registry, redis *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	site := presentation.Site{Name: cfg.SiteName, BaseURL: cfg.WikiBaseURL}
	factory := presentation.NewFactory(site, registry)

	iconService := icon.NewService(minioClient, cfg)
	emailService := email.NewService(cfg, email.NewFormatter(site, iconService, cfg.WikiID, cfg.EmailFooterAddress))
	counts := countcache.New(redis, cfg.WikiID, cfg.CountCacheTTL)
	preferenceService := preference.NewService(repos.Preference, repos.User, registry, counts)

	deleter := notification.NewDeferredDeleter(repos.Event)
	outputFormatter := formatter.New(factory, registry, iconService, cfg.WikiID, deleter)

	notificationService := notification.NewService(
		repos,
		preferenceService,
		emailService,
		outputFormatter,
		factory,
		deleter,
		registry,
		counts,
		cfg,
	)

	return &Services{
		Auth:         auth.NewService(repos.User, cfg),
		User:         user.NewService(repos.User),
		Preference:   preferenceService,
		Icon:         iconService,
		Email:        emailService,
		Notification: notificationService,
		Factory:      factory,
		Formatter:    outputFormatter,
		Deleter:      deleter,
	}
}
