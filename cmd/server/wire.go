//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dev-9820/AI-chat-summariser/internal/config"
	"github.com/dev-9820/AI-chat-summariser/internal/domain/conversation"
	"github.com/dev-9820/AI-chat-summariser/internal/domain/llm"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/auth"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/database"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/llmclient"
	"github.com/dev-9820/AI-chat-summariser/internal/infrastructure/logger"
	conversationrepo "github.com/dev-9820/AI-chat-summariser/internal/infrastructure/repository/conversation"
	"github.com/dev-9820/AI-chat-summariser/internal/interfaces/httpserver"
)

var conversationSet = wire.NewSet(
	conversationrepo.NewRepository,
	wire.Bind(new(conversation.Repository), new(*conversationrepo.Repository)),
	conversationrepo.NewMessageRepository,
	wire.Bind(new(conversation.MessageRepository), new(*conversationrepo.MessageRepository)),
	newCompleter,
	wire.Bind(new(llm.Completer), new(*llmclient.Client)),
	conversation.NewService,
	wire.Bind(new(conversation.Service), new(*conversation.ServiceImpl)),
)

// BuildApplication assembles the application with Wire.
func BuildApplication(ctx context.Context) (*Application, error) {
	wire.Build(
		config.Load,
		logger.New,
		newDatabaseConfig,
		newGormDB,
		newAuthValidator,
		conversationSet,
		httpserver.New,
		NewApplication,
	)
	return nil, nil
}

func newDatabaseConfig(cfg *config.Config) database.Config {
	return database.Config{
		DSN:             cfg.DatabaseURL,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		ConnMaxLifetime: cfg.DBConnLifetime,
		LogLevel:        gormlogger.Warn,
	}
}

func newGormDB(cfg database.Config) (*gorm.DB, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func newAuthValidator(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*auth.Validator, error) {
	return auth.NewValidator(ctx, cfg, log)
}

func newCompleter(cfg *config.Config, log zerolog.Logger) *llmclient.Client {
	return llmclient.New(llmclient.Config{
		BaseURL:           cfg.LLMBaseURL,
		APIKey:            cfg.LLMAPIKey,
		Model:             cfg.LLMModel,
		CompletionTimeout: cfg.CompletionTimeout,
		StreamTimeout:     cfg.StreamTimeout,
	}, log)
}
