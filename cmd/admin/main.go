package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MoneyBuddyTeam/BE/internal/auth"
	"github.com/MoneyBuddyTeam/BE/internal/config"
	"github.com/MoneyBuddyTeam/BE/internal/models"
	"github.com/MoneyBuddyTeam/BE/internal/storage"
)

// Dev/ops CLI: seeds a demo client, advisor and paid order, creates the
// room for the order and prints bearer tokens for both sides. Useful for
// exercising the chat locally without the auth and payment services.
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load config")
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect database")
	}
	if err := db.AutoMigrate(&models.User{}, &models.ConsultationOrder{}, &models.Room{}, &models.Message{}); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	// No redis needed for seeding.
	store := storage.NewService(db, nil)

	client := models.User{
		Email:    "client@example.com",
		Nickname: "demo-client",
		Role:     models.RoleClient,
	}
	advisor := models.User{
		Email:        "advisor@example.com",
		Nickname:     "demo-advisor",
		Role:         models.RoleAdvisor,
		Expertise:    pq.StringArray{"retirement", "tax"},
		ProfileImage: "",
	}
	for _, u := range []*models.User{&client, &advisor} {
		if err := db.Where(models.User{Email: u.Email}).FirstOrCreate(u).Error; err != nil {
			logrus.WithError(err).Fatalf("failed to seed user %s", u.Email)
		}
	}

	order := models.ConsultationOrder{
		ClientID:        client.ID,
		AdvisorID:       advisor.ID,
		Topic:           "Retirement planning",
		DurationMinutes: 30,
		Amount:          30000,
		PaidAt:          time.Now(),
		Status:          models.OrderStatusPaid,
	}
	if err := db.Where(models.ConsultationOrder{ClientID: client.ID, AdvisorID: advisor.ID}).
		FirstOrCreate(&order).Error; err != nil {
		logrus.WithError(err).Fatal("failed to seed order")
	}

	room, err := store.CreateRoomForOrder(order.ID)
	if err != nil {
		logrus.WithError(err).Fatal("failed to create room")
	}

	tokens := auth.NewTokenValidator(cfg.JWTSecret)
	clientToken, err := tokens.Issue(client.ID, client.Role, 72*time.Hour)
	if err != nil {
		logrus.WithError(err).Fatal("failed to issue client token")
	}
	advisorToken, err := tokens.Issue(advisor.ID, advisor.Role, 72*time.Hour)
	if err != nil {
		logrus.WithError(err).Fatal("failed to issue advisor token")
	}

	fmt.Fprintf(os.Stdout, "room:          %d\n", room.ID)
	fmt.Fprintf(os.Stdout, "client token:  %s\n", clientToken)
	fmt.Fprintf(os.Stdout, "advisor token: %s\n", advisorToken)
}
