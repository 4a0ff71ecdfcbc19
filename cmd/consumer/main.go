package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aura-studio/redq"
	"github.com/aura-studio/redq/internal/config"
	"github.com/aura-studio/redq/internal/contexts/data"
	"github.com/aura-studio/redq/internal/contexts/email"
	"github.com/aura-studio/redq/internal/contexts/report"
	"github.com/aura-studio/redq/internal/events"
	"github.com/aura-studio/redq/internal/queues"
	"github.com/aura-studio/redq/internal/task"
)

func main() {
	var (
		contextName string
		configPath  string
	)
	flag.StringVar(&contextName, "context", "email", "Business context to consume (email|data|report)")
	flag.StringVar(&configPath, "config", "", "Path to configuration file (optional)")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.Log)

	names, ok := queues.ForContext(contextName)
	if !ok {
		log.Fatal().Str("context", contextName).Msg("Unknown context")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := redq.Connect(ctx, cfg.Endpoint())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Str("addr", cfg.Endpoint().Addr()).Int("db", cfg.Redis.DB).Msg("Connected to Redis")

	ev := events.NewPublisher(conn, log.Logger)
	dispatcher := dispatcherFor(contextName, ev)
	log.Info().
		Str("context", contextName).
		Strs("queues", names).
		Strs("tasks", dispatcher.Names()).
		Msg("Starting consumer")

	workers := make([]*redq.Worker, 0, len(names))
	for _, name := range names {
		q, err := conn.Queue(name)
		if err != nil {
			log.Fatal().Err(err).Str("queue", name).Msg("Failed to resolve queue")
		}
		w := redq.NewWorker(q, dispatcher,
			redq.WithWorkerCount(cfg.Worker.Threads),
			redq.WithPopTimeout(cfg.Worker.PopTimeout.Std()),
			redq.WithErrorBackoff(cfg.Worker.ErrorBackoff.Std()),
			redq.WithLogger(log.Logger),
		)
		w.Start(ctx)
		workers = append(workers, w)
	}

	<-ctx.Done()
	log.Info().Msg("Shutting down workers")
	for _, w := range workers {
		w.Stop()
	}
	log.Info().Msg("All workers stopped")
}

func dispatcherFor(contextName string, ev *events.Publisher) *task.Dispatcher {
	switch contextName {
	case "email":
		return email.NewDispatcher(ev, log.Logger)
	case "data":
		return data.NewDispatcher(ev, log.Logger)
	default:
		return report.NewDispatcher(ev, log.Logger)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnv(), nil
	}
	return config.Load(path)
}

func setupLogging(cfg config.LogConfig) {
	zerolog.TimeFieldFormat = time.RFC3339

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.JSON {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	} else {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
