package main

import (
	"io"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/airwave-radio/airwave/internal/config"
	"github.com/airwave-radio/airwave/internal/db"
	"github.com/airwave-radio/airwave/internal/events"
	"github.com/airwave-radio/airwave/internal/export"
	"github.com/airwave-radio/airwave/internal/probe"
	"github.com/airwave-radio/airwave/internal/redis"
	"github.com/airwave-radio/airwave/internal/secrets"
	"github.com/airwave-radio/airwave/internal/transfer"
)

func setupLogger(cfg *config.Config) {
	var writers []io.Writer

	if cfg.Environment == "production" {
		writers = append(writers, os.Stdout)
	} else {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	if cfg.LogFile != "" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		})
	}

	log.Logger = zerolog.New(zerolog.MultiLevelWriter(writers...)).With().Timestamp().Logger()
}

func main() {
	// load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	setupLogger(cfg)

	// initialize PostgreSQL
	if err := db.Init(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}
	store := db.NewStore()

	// export status cache is optional; the pipeline runs without it
	if cfg.RedisAddress != "" {
		redis.InitRedis(cfg.RedisAddress, cfg.RedisUsername, cfg.RedisPassword)
	}

	// broker is optional too; a nil publisher drops events
	pub, err := events.Connect(cfg.MQTTBrokerURL, "airwave-server")
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer pub.Close()

	box := secrets.NewBox(cfg.SecretsKey)
	agent := transfer.New(cfg.CurlBinary)
	prober := probe.New(10 * time.Second)
	exporter := export.NewExporter(store, box, agent, pub, cfg.ExportDir)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	RegisterRoutes(r, cfg, store, box, agent, prober, exporter)

	log.Info().Str("address", cfg.ServerAddress).Msg("listening")
	if err := r.Run(cfg.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
