package dig_container

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/studentcoin/apps/api/echo"
	"github.com/trezcool/studentcoin/core"
	"github.com/trezcool/studentcoin/core/access"
	logsvc "github.com/trezcool/studentcoin/services/logger"
	kvstore "github.com/trezcool/studentcoin/storage/kv"
)

type StoreLoggerParam struct {
	dig.In
	Logger core.Logger `name:"storeLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStoreLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "STORE : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newStore(conf *core.Config, loggerParam StoreLoggerParam) kvstore.Store {
	ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout+conf.Store.Timeout)
	defer cancel()

	store, err := kvstore.Open(ctx, conf)
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up %s store: %v", conf.Store.Driver, err), err)
	}
	return store
}

func newSessions(conf *core.Config, store kvstore.Store, loggerParam StoreLoggerParam) *access.Sessions {
	return access.NewSessions(store, loggerParam.Logger, conf.Store.KeyPrefix, conf.Store.Timeout, conf.Store.MaxSessions)
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newStoreLogger, dig.Name("storeLogger")))
	must(c.Provide(newStore))
	must(c.Provide(newSessions))
	must(c.Provide(access.DefaultRegistry))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))
	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
