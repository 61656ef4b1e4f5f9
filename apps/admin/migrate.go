package main

import (
	"context"

	"github.com/trezcool/schooldash/storage/database"
)

var gooseRunFunc = database.Migrate // mockable

func (cli *commandLine) migrate(args []string) error {
	return gooseRunFunc(context.Background(), cli.db.SQL(), args[0], args[1:]...)
}
