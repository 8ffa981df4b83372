package main

import (
	"context"
	"log"
	"os"

	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/access"
	logsvc "github.com/trezcool/studentcoin/services/logger"
	kvstore "github.com/trezcool/studentcoin/storage/kv"
	pgkv "github.com/trezcool/studentcoin/storage/kv/postgres"
)

var logger *log.Logger

func main() {
	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	storeLogger := logsvc.NewRollbarLogger(logger, conf)
	storeLogger.Enable(!conf.Debug)

	// start CLI
	cli := commandLine{
		out:      os.Stdout,
		conf:     conf,
		logger:   storeLogger,
		registry: access.DefaultRegistry(),
		openStore: func(ctx context.Context) (kvstore.Store, error) {
			return kvstore.Open(ctx, conf)
		},
		openMigrator: func(ctx context.Context) (migrator, error) {
			return pgkv.Open(ctx, conf.Database)
		},
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
