package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) initDB() error {
	if err := cli.db.Init(context.Background()); err != nil {
		return err
	}
	fmt.Println("database initialized")
	return nil
}
