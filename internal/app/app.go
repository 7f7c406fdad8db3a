// Package app wires stores, recorders and engines together. The HTTP server
// and the snctl CLI both start from here.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/anonto42/social-network/internal/accounts"
	"github.com/anonto42/social-network/internal/activity"
	"github.com/anonto42/social-network/internal/engagement"
	"github.com/anonto42/social-network/internal/feed"
	"github.com/anonto42/social-network/internal/graph"
	"github.com/anonto42/social-network/internal/repositories"
	"github.com/anonto42/social-network/internal/resolver"
	"github.com/anonto42/social-network/pkg/config"
	"go.uber.org/zap"
)

// App holds the domain components
type App struct {
	Users         repositories.UserRepository
	Posts         repositories.PostRepository
	Notifications repositories.NotificationRepository // nil without Postgres

	Resolver   *resolver.Resolver
	Graph      *graph.Engine
	Engagement *engagement.Engine
	Feed       *feed.Assembler
	Accounts   *accounts.Service

	closers []func() error
}

// New builds the components over the given stores
func New(users repositories.UserRepository, posts repositories.PostRepository, rec activity.Recorder, log *zap.Logger, opts ...engagement.Option) *App {
	res := resolver.New(users, posts)
	g := graph.New(users, res, rec, log)
	return &App{
		Users:      users,
		Posts:      posts,
		Resolver:   res,
		Graph:      g,
		Engagement: engagement.New(posts, res, rec, log, opts...),
		Feed:       feed.New(posts, g, res, log),
		Accounts:   accounts.NewService(users, res, log),
	}
}

// Open selects stores and recorders from cfg over the open connections in db
func Open(ctx context.Context, cfg *config.Config, db *config.DB, log *zap.Logger) (*App, error) {
	var (
		users repositories.UserRepository
		posts repositories.PostRepository
	)
	switch cfg.StoreDriver {
	case config.StoreMemory:
		store := repositories.NewMemoryStore()
		users, posts = store, store
		log.Warn("using in-memory store; data is lost on exit")
	default:
		if db.MongoDB == nil {
			return nil, fmt.Errorf("store driver %s: no MongoDB connection", cfg.StoreDriver)
		}
		if err := repositories.EnsureIndexes(ctx, db.MongoDB); err != nil {
			return nil, err
		}
		users = repositories.NewMongoUserRepository(db.MongoDB, cfg.MongoTimeout, cfg.MongoTransactions)
		posts = repositories.NewMongoPostRepository(db.MongoDB, cfg.MongoTimeout)
	}

	var (
		recorders     activity.Multi
		notifications repositories.NotificationRepository
		closers       []func() error
	)
	if db.Postgres != nil {
		if err := repositories.MigrateNotifications(db.Postgres); err != nil {
			return nil, fmt.Errorf("migrate notifications: %w", err)
		}
		notifications = repositories.NewPostgresNotificationRepository(db.Postgres)
		recorders = append(recorders, activity.NewNotificationRecorder(notifications))
		log.Info("notifications enabled")
	}
	if cfg.KafkaEnabled() {
		kr := activity.NewKafkaRecorder(activity.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaWriteTimeout))
		recorders = append(recorders, kr)
		closers = append(closers, kr.Close)
		log.Info("activity events published to kafka", zap.String("topic", cfg.KafkaTopic))
	}

	var rec activity.Recorder = activity.Nop{}
	if len(recorders) > 0 {
		rec = recorders
	}

	a := New(users, posts, rec, log)
	a.Notifications = notifications
	a.closers = closers
	return a, nil
}

// Close releases recorder resources. Database connections belong to the caller.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
