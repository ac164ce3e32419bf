package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	auction "auction-house/internal/auctionService"
	"auction-house/internal/config"
	"auction-house/internal/kafka"
	"auction-house/internal/locks"
	model "auction-house/internal/models"
	"auction-house/internal/notify"
	"auction-house/internal/postgres"
	"auction-house/internal/redisx"
	"auction-house/internal/repository"
	"auction-house/internal/server"
	"auction-house/internal/sweeper"
	"auction-house/utils"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		utils.Fatal("invalid configuration", map[string]any{"error": err.Error()})
	}
	if err := utils.SetLevel(cfg.LogLevel); err != nil {
		utils.Warn("falling back to info log level", map[string]any{"error": err.Error()})
	}
	utils.WithService(cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore := openStore(ctx, cfg)
	defer closeStore()

	// Redis serves both the distributed lock and the pub/sub sink
	var rdb *redis.Client
	if cfg.LockBackend == config.LockRedis || cfg.UsesSink(config.SinkRedis) {
		rdb, err = redisx.New(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			utils.Fatal("redis connect failed", map[string]any{"addr": cfg.RedisAddr, "error": err.Error()})
		}
		defer rdb.Close()
	}

	var locker locks.Locker = locks.NewKeyedMutex()
	if cfg.LockBackend == config.LockRedis {
		locker = locks.NewRedisLocker(rdb, cfg.LockTTL)
	}

	// the producer outlives the request context so buffered events flush after shutdown
	producerCtx, stopProducer := context.WithCancel(context.Background())
	defer stopProducer()

	var (
		sinks    notify.Fanout
		producer *kafka.Producer
	)
	for _, name := range cfg.NotifySinks {
		switch name {
		case config.SinkStore:
			sinks = append(sinks, notify.NewStoreSink(store))
		case config.SinkRedis:
			sinks = append(sinks, notify.NewRedisSink(rdb))
		case config.SinkKafka:
			producer = kafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic, 1024)
			producer.Start(producerCtx)
			sinks = append(sinks, notify.NewKafkaSink(producer, cfg.ServiceName))
		case config.SinkNATS:
			nc, err := nats.Connect(cfg.NATSURL, nats.Name(cfg.ServiceName))
			if err != nil {
				utils.Fatal("nats connect failed", map[string]any{"url": cfg.NATSURL, "error": err.Error()})
			}
			defer nc.Drain()
			sinks = append(sinks, notify.NewNATSSink(nc))
		}
	}

	svc := auction.NewAuctionService(store, locker, notify.NewNotifier(sinks))

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.SetupRouter(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.Info("starting auction server", map[string]any{
			"addr":  cfg.HTTPAddr,
			"store": cfg.StoreBackend,
			"lock":  cfg.LockBackend,
			"sinks": cfg.NotifySinks,
		})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return sweeper.New(svc, cfg.SweepInterval).Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.Info("shutting down", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		utils.Error("server stopped with error", map[string]any{"error": err.Error()})
	}

	if producer != nil {
		producer.Close() // close inbox -> flush & close writer
		producer.WaitClosed()
	}
	utils.Info("server stopped", nil)
}

// openStore connects the configured backend and seeds demo users when asked to
func openStore(ctx context.Context, cfg config.Config) (repository.Store, func()) {
	switch cfg.StoreBackend {
	case config.StorePostgres:
		pool, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			utils.Fatal("postgres connect failed", map[string]any{"error": err.Error()})
		}
		if err := postgres.InitSchema(ctx, pool); err != nil {
			pool.Close()
			utils.Fatal("postgres schema init failed", map[string]any{"error": err.Error()})
		}
		repo := repository.NewPostgresRepo(pool)
		if cfg.SeedDemoData {
			for _, u := range demoUsers() {
				if err := repo.UpsertUser(ctx, u); err != nil {
					utils.Warn("seeding user failed", map[string]any{"user_id": u.ID, "error": err.Error()})
				}
			}
		}
		return repo, pool.Close
	default:
		repo := repository.NewMemoryRepo()
		if cfg.SeedDemoData {
			for _, u := range demoUsers() {
				repo.AddUser(u)
			}
		}
		return repo, func() {}
	}
}

// demoUsers stands in for the profile service in local setups
func demoUsers() []model.User {
	return []model.User{
		{ID: 1, DisplayName: "admin", Email: "admin@example.com", AvatarURL: notify.DefaultAvatar, Role: model.RoleAdmin},
		{ID: 2, DisplayName: "alice", Email: "alice@example.com", AvatarURL: notify.DefaultAvatar, Role: model.RoleMember},
		{ID: 3, DisplayName: "bob", Email: "bob@example.com", AvatarURL: notify.DefaultAvatar, Role: model.RoleMember},
		{ID: 4, DisplayName: "carol", Email: "carol@example.com", AvatarURL: notify.DefaultAvatar, Role: model.RoleMember},
	}
}
