package bootstrap

import (
	"github.com/webprompt/promptengine/internal/config"
	"github.com/webprompt/promptengine/internal/infra/cache"
	"github.com/webprompt/promptengine/internal/infra/db"
	"github.com/webprompt/promptengine/internal/infra/llm"
	"github.com/webprompt/promptengine/internal/infra/logger"
	"github.com/webprompt/promptengine/internal/modules/handler"
	"github.com/webprompt/promptengine/internal/modules/model"
	"github.com/webprompt/promptengine/internal/modules/repo"
	"github.com/webprompt/promptengine/internal/modules/service"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/samber/do"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildContainer() *do.Injector {
	inj := do.New()

	// config
	do.Provide(inj, func(i *do.Injector) (*config.Config, error) {
		return config.Load()
	})

	// logger
	do.Provide(inj, func(i *do.Injector) (*zap.Logger, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return logger.New(cfg.Log.Level)
	})

	// DB
	do.Provide(inj, func(i *do.Injector) (*gorm.DB, error) {
		cfg := do.MustInvoke[*config.Config](i)
		d, err := db.New(cfg)
		if err != nil {
			return nil, err
		}
		// [optional] auto migrate
		if cfg.Database.AutoMigrate {
			_ = d.AutoMigrate(
				&model.Profile{},
				&model.Project{},
				&model.ChatMessage{},
			)
		}
		return d, nil
	})

	// Redis
	do.Provide(inj, func(i *do.Injector) (*redis.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return cache.New(cfg), nil
	})

	// RabbitMQ Connection, optional: no URL means no turn events
	do.Provide(inj, func(i *do.Injector) (*amqp.Connection, error) {
		cfg := do.MustInvoke[*config.Config](i)
		if cfg.RabbitMQ.URL == "" {
			return nil, nil
		}
		return amqp.Dial(cfg.RabbitMQ.URL)
	})

	// OpenRouter client
	do.Provide(inj, func(i *do.Injector) (*llm.Client, error) {
		cfg := do.MustInvoke[*config.Config](i)
		log := do.MustInvoke[*zap.Logger](i)
		return llm.New(cfg, log)
	})

	// Repo
	do.Provide(inj, func(i *do.Injector) (repo.ProfileRepo, error) {
		return repo.NewProfileRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ProjectRepo, error) {
		return repo.NewProjectRepo(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (repo.ChatRepo, error) {
		return repo.NewChatRepo(do.MustInvoke[*gorm.DB](i)), nil
	})

	// Service
	do.Provide(inj, func(i *do.Injector) (service.CreditService, error) {
		return service.NewCreditService(do.MustInvoke[repo.ProfileRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ConversationService, error) {
		return service.NewConversationService(
			do.MustInvoke[repo.ChatRepo](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.CompletionGateway, error) {
		return service.NewCompletionGateway(
			do.MustInvoke[*llm.Client](i),
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ChatService, error) {
		cfg := do.MustInvoke[*config.Config](i)
		return service.NewChatService(
			do.MustInvoke[service.ConversationService](i),
			do.MustInvoke[service.CreditService](i),
			do.MustInvoke[service.CompletionGateway](i),
			do.MustInvoke[*redis.Client](i),
			do.MustInvoke[*amqp.Connection](i),
			cfg.RabbitMQ.Queue,
			do.MustInvoke[*zap.Logger](i),
		), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProjectService, error) {
		return service.NewProjectService(do.MustInvoke[repo.ProjectRepo](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (service.ProfileService, error) {
		return service.NewProfileService(do.MustInvoke[repo.ProfileRepo](i)), nil
	})

	// Handler
	do.Provide(inj, func(i *do.Injector) (*handler.ProfileHandler, error) {
		return handler.NewProfileHandler(do.MustInvoke[service.ProfileService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ProjectHandler, error) {
		return handler.NewProjectHandler(do.MustInvoke[service.ProjectService](i)), nil
	})
	do.Provide(inj, func(i *do.Injector) (*handler.ChatHandler, error) {
		return handler.NewChatHandler(
			do.MustInvoke[service.ProjectService](i),
			do.MustInvoke[service.ConversationService](i),
			do.MustInvoke[service.ChatService](i),
		), nil
	})

	return inj
}
