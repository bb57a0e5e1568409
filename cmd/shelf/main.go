package main

import (
	"os"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/shelf/pkg/config"
	"github.com/shishobooks/shelf/pkg/database"
)

func main() {
	log := logger.New()

	if err := run(log, os.Args); err != nil {
		log.Err(err).Fatal("app run error")
	}
}

func run(log logger.Logger, args []string) error {
	cfg, err := config.New()
	if err != nil {
		return errors.Wrap(err, "config error")
	}

	db, err := database.New(cfg)
	if err != nil {
		return errors.Wrap(err, "database error")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Err(err).Error("database close error")
		}
	}()

	return newApp(db, log).Run(args)
}
