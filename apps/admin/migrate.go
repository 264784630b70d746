package main

import (
	"context"

	"github.com/trezcool/rapor/storage/database"
)

var gooseRunFunc = database.GooseRun // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return gooseRunFunc(context.Background(), args[0], cli.db, arguments...)
}
