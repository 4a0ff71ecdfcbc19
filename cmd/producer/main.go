package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/aura-studio/redq"
	"github.com/aura-studio/redq/internal/config"
	"github.com/aura-studio/redq/internal/events"
	"github.com/aura-studio/redq/internal/queues"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file (optional)")
	flag.StringVar(&configPath, "c", "", "Path to configuration file (shorthand)")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	setupLogging(cfg.Log)

	ctx := context.Background()
	conn, err := redq.Connect(ctx, cfg.Endpoint())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	log.Info().Str("addr", cfg.Endpoint().Addr()).Int("db", cfg.Redis.DB).Msg("Connected to Redis")

	ev := events.NewPublisher(conn, log.Logger)

	// Demo workload: three welcome emails and four notifications.
	for i, addr := range []string{"user1@example.com", "user2@example.com", "user3@example.com"} {
		if err := ev.SendWelcomeEmail(ctx, int64(i+1), addr); err != nil {
			log.Fatal().Err(err).Msg("Failed to push welcome email task")
		}
	}
	notifications := map[int64]string{
		10: "you have a new message",
		11: "system update scheduled",
		12: "password changed",
		13: "new order received",
	}
	for userID, msg := range notifications {
		if err := ev.SendNotification(ctx, userID, msg); err != nil {
			log.Fatal().Err(err).Msg("Failed to push notification task")
		}
	}

	for _, name := range []string{queues.EmailWelcome, queues.Notification} {
		q, err := conn.Queue(name)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to resolve queue")
		}
		n, err := q.Length(ctx)
		if err != nil {
			log.Fatal().Err(err).Str("queue", name).Msg("Failed to read queue length")
		}
		log.Info().Str("queue", name).Int64("length", n).Msg("Queue state after publish")
	}

	fmt.Println("all tasks published")
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
