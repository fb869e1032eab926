package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/step2this/social-media-app-sub011/configs"
	"github.com/step2this/social-media-app-sub011/internal/counters"
	"github.com/step2this/social-media-app-sub011/internal/fanout"
	"github.com/step2this/social-media-app-sub011/internal/feed"
	"github.com/step2this/social-media-app-sub011/internal/followers"
	"github.com/step2this/social-media-app-sub011/internal/idem"
	"github.com/step2this/social-media-app-sub011/internal/stream"
	"github.com/step2this/social-media-app-sub011/pkg/db"
	"github.com/step2this/social-media-app-sub011/pkg/redisx"
)

// Container holds the storage clients and engine components, built
// once per process and reused across batches.
type Container struct {
	Cfg          *configs.Config
	DB           *gorm.DB
	Redis        *redis.Client
	Feeds        feed.Repository
	Directory    followers.Directory
	Writer       *fanout.BoundedWriter
	Reconciler   *counters.Reconciler
	Orchestrator *stream.Orchestrator
	Consumer     *stream.Consumer
}

func BuildContainer(cfg *configs.Config) (*Container, error) {
	conn, err := db.NewDb(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redisx.Open(cfg.RedisAddr())

	feeds := feed.NewRepository(rdb)
	directory := followers.NewDirectory(conn.DB)
	writer := fanout.NewBoundedWriter(feeds, cfg.FanoutConcurrency, cfg.FanoutWriteTimeout)

	store := counters.NewStore(conn.DB)
	var opts []counters.Option
	if cfg.DedupTTL > 0 {
		opts = append(opts, counters.WithDedup(idem.New(rdb), cfg.DedupTTL))
	}
	reconciler := counters.NewReconciler(store, opts...)

	orch := stream.NewOrchestrator(cfg.CelebrityThreshold, directory, writer, feeds, reconciler)
	consumer := stream.NewConsumer(cfg.KafkaBootstrap, cfg.KafkaGroupID, cfg.StreamTopic, orch, cfg.BatchSize, cfg.BatchWait)

	return &Container{
		Cfg:          cfg,
		DB:           conn.DB,
		Redis:        rdb,
		Feeds:        feeds,
		Directory:    directory,
		Writer:       writer,
		Reconciler:   reconciler,
		Orchestrator: orch,
		Consumer:     consumer,
	}, nil
}
