package main

import (
	"log"
	"os"

	"github.com/trezcool/schooldash/core"
	"github.com/trezcool/schooldash/core/user"
	"github.com/trezcool/schooldash/services/logger"
	"github.com/trezcool/schooldash/storage/database"
	"github.com/trezcool/schooldash/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	// start CLI
	cli := commandLine{
		db:     db,
		usrSvc: user.NewService(sqlxrepos.NewUserRepository(db)),
	}
	err = cli.run(os.Args)
	if err != nil && err != errHelp {
		logger.Error("command failed", err)
	}
	_ = db.Close()
	logger.Close()
	if err != nil {
		os.Exit(1)
	}
}
