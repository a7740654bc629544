package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MoneyBuddyTeam/BE/internal/api/handler"
	"github.com/MoneyBuddyTeam/BE/internal/auth"
	"github.com/MoneyBuddyTeam/BE/internal/chathub"
	"github.com/MoneyBuddyTeam/BE/internal/config"
	"github.com/MoneyBuddyTeam/BE/internal/consultation"
	"github.com/MoneyBuddyTeam/BE/internal/models"
	"github.com/MoneyBuddyTeam/BE/internal/storage"
	"github.com/MoneyBuddyTeam/BE/internal/uploads"
)

func setupDependencies(cfg *config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect PostgreSQL")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		logrus.WithError(err).Fatal("failed to connect Redis")
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.ConsultationOrder{},
		&models.Room{},
		&models.Message{},
	)
	if err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	logrus.Info("database and redis connections established, migrations complete")
	return db, rdb
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}

	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db, rdb)

	messageService := consultation.NewMessageService(store)
	roomService := consultation.NewRoomService(store)

	hub := chathub.NewHub(store)
	go hub.Run(context.Background())

	tokens := auth.NewTokenValidator(cfg.JWTSecret)
	uploader, err := uploads.NewLocalUploader(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		logrus.WithError(err).Fatal("failed to set up uploads")
	}

	r := gin.Default()
	h := handler.NewHandler(hub, roomService, messageService, store, tokens, uploader)
	h.RegisterRoutes(r)
	r.Static("/uploads", cfg.UploadDir)

	server := &http.Server{
		Addr:           ":" + cfg.ServerPort,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	logrus.WithField("port", cfg.ServerPort).Info("starting MoneyBuddy backend")
	logrus.Fatal(server.ListenAndServe())
}
