package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/wb-go/wbf/dbpg"
	"github.com/wb-go/wbf/rabbitmq"
	"github.com/wb-go/wbf/redis"
	"github.com/wb-go/wbf/zlog"

	"github.com/notifbox/notifbox/internal/api/handlers/trigger"
	"github.com/notifbox/notifbox/internal/api/router"
	"github.com/notifbox/notifbox/internal/api/server"
	"github.com/notifbox/notifbox/internal/config"
	"github.com/notifbox/notifbox/internal/executionlog"
	"github.com/notifbox/notifbox/internal/integration"
	"github.com/notifbox/notifbox/internal/model"
	"github.com/notifbox/notifbox/internal/provider"
	"github.com/notifbox/notifbox/internal/rabbitmq/queue"
	executionrepo "github.com/notifbox/notifbox/internal/repository/execution"
	integrationrepo "github.com/notifbox/notifbox/internal/repository/integration"
	messagerepo "github.com/notifbox/notifbox/internal/repository/message"
	referencerepo "github.com/notifbox/notifbox/internal/repository/reference"
	messagesvc "github.com/notifbox/notifbox/internal/service/message"
	"github.com/notifbox/notifbox/internal/service/send"
	tmpl "github.com/notifbox/notifbox/internal/template"
	"github.com/notifbox/notifbox/internal/worker"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	zlog.Init()
	cfg := config.Must()
	val := validator.New()

	conn, err := rabbitmq.Connect(cfg.RabbitMQ.URL(), cfg.RabbitMQ.Retries, cfg.RabbitMQ.Pause)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to rabbitmq")
	}

	ch, err := conn.Channel()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to open channel")
	}

	q, err := queue.NewWorkflowQueue(ch, cfg)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to create workflow queue")
	}

	opts := &dbpg.Options{
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}

	slaveDNSs := make([]string, 0, len(cfg.Database.Slaves))

	for _, s := range cfg.Database.Slaves {
		slaveDNSs = append(slaveDNSs, s.DSN())
	}

	db, err := dbpg.New(cfg.Database.Master.DSN(), slaveDNSs, opts)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	dbNum, err := strconv.Atoi(cfg.Redis.Database)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to parse redis database")
	}

	rdb := redis.New(cfg.Redis.Address, cfg.Redis.Password, dbNum)

	if err = rdb.Ping(ctx).Err(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("failed to connect to redis")
	}

	messageRepo := messagerepo.NewRepository(db, cfg.Retention.MessageDays)
	executionRepo := executionrepo.NewRepository(db, cfg.Retention.DetailDays)
	integrationRepo := integrationrepo.NewRepository(db)
	referenceRepo := referencerepo.NewRepository(db)

	auditWriter := executionlog.NewWriter(executionRepo, 256)
	selector := integration.NewSelector(integrationRepo)
	usage := integration.NewRecorder(rdb)
	registry := provider.NewRegistry()
	renderer := tmpl.NewRenderer()

	emailSender := send.NewEmailSender(
		referenceRepo,
		selector,
		usage,
		renderer,
		registry,
		messageRepo,
		auditWriter,
		cfg.Retry,
		cfg.StoreContent,
	)

	channels := map[model.Channel]worker.ChannelSender{
		model.ChannelEmail: emailSender,
	}

	w := worker.NewWorker(q, channels)

	go w.Run(ctx, cfg.Retry, cfg.Workers.Count)

	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		if err := http.ListenAndServe(cfg.Server.MetricsPort, mux); err != nil {
			zlog.Logger.Error().Err(err).Msg("metrics server stopped")
		}
	}()

	messageService := messagesvc.NewService(messageRepo, rdb)
	triggerHandler := trigger.NewHandler(q, messageService, val, cfg)

	r := router.New(triggerHandler)
	s := server.New(cfg.Server.HTTPPort, r)

	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zlog.Logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	zlog.Logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	zlog.Logger.Info().Msg("shutting down server")
	if err := s.Shutdown(shutdownCtx); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to shutdown server")
	}

	if errors.Is(shutdownCtx.Err(), context.DeadlineExceeded) {
		zlog.Logger.Info().Msg("timeout exceeded, forcing shutdown")
	}

	// flush queued audit entries before the DB goes away
	auditWriter.Close()

	if err := db.Master.Close(); err != nil {
		zlog.Logger.Printf("failed to close master DB: %v", err)
	}

	for i, s := range db.Slaves {
		if err := s.Close(); err != nil {
			zlog.Logger.Printf("failed to close slave DB %d: %v", i, err)
		}
	}

	if err := ch.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ channel")
	}

	if err := conn.Close(); err != nil {
		zlog.Logger.Error().Err(err).Msg("failed to close RabbitMQ connection")
	}
}
