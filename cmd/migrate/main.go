package main

import (
	"flag"

	"blog_api/internal/config"
	"blog_api/internal/db"
	"blog_api/internal/user"

	"github.com/sirupsen/logrus"
)

func main() {
	seedUser := flag.String("seed-user", "", "username to create after applying the schema")
	seedPassword := flag.String("seed-password", "", "password for -seed-user")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	cfg := config.Load()

	database, err := db.Open(&cfg.DB)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to connect to database")
	}
	defer database.Close()

	logrus.Info("Applying migrations...")
	if err := db.Migrate(database, cfg.DB.Driver); err != nil {
		logrus.WithError(err).Fatal("Failed to apply migrations")
	}

	if *seedUser == "" {
		return
	}
	if *seedPassword == "" {
		logrus.Fatal("-seed-password is required with -seed-user")
	}

	service := user.NewUserService(user.NewUserRepository(nil), database, nil)
	id, err := service.CreateUser(*seedUser, *seedPassword)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to create user")
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  id,
		"username": *seedUser,
	}).Info("Seed user created")
}
