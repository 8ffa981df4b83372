package main

import (
	"context"

	"github.com/pkg/errors"
)

type migrator interface {
	RunMigration(command string, args ...string) error
	Close() error
}

func (cli *commandLine) migrate(args []string) error {
	m, err := cli.openMigrator(context.Background())
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = m.Close() }()

	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	return m.RunMigration(args[0], arguments...)
}
