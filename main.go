package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Degen-IO/pokerbackend/game"
	"github.com/Degen-IO/pokerbackend/logging"
	"github.com/Degen-IO/pokerbackend/nats"
	"github.com/Degen-IO/pokerbackend/rest"
	"github.com/Degen-IO/pokerbackend/scheduler"
	"github.com/Degen-IO/pokerbackend/util"
)

var mainLogger = logging.GetZeroLogger("main::main", nil)

var cmdArgs arg

type arg struct {
	port       uint
	configFile string
}

func init() {
	flag.UintVar(&cmdArgs.port, "port", 0, "Listen port (overrides config)")
	flag.StringVar(&cmdArgs.configFile, "config", "", "Path to YAML config file")
	flag.Parse()
}

func main() {
	zerolog.SetGlobalLevel(util.Env.GetZeroLogLogLevel())

	configFile := cmdArgs.configFile
	if configFile == "" {
		configFile = util.Env.GetConfigFile()
	}
	config, err := util.LoadConfig(configFile)
	if err != nil {
		mainLogger.Fatal().Msgf("Unable to load config: %s", err)
	}
	if cmdArgs.port != 0 {
		config.Port = cmdArgs.port
	}

	games, tables, players := buildStores(config)
	handStates := buildHandStateTracker(config)

	publisher, err := nats.NewPublisher(config.NatsURL)
	if err != nil {
		mainLogger.Fatal().Msgf("Unable to connect to NATS: %s", err)
	}
	defer publisher.Close()

	manager, err := game.NewManager(games, tables, players, handStates, publisher, nil)
	if err != nil {
		mainLogger.Fatal().Msgf("Unable to initialize game manager: %s", err)
	}

	interval := time.Duration(config.SchedulerIntervalSec) * time.Second
	go scheduler.New(games, manager, interval).Run(context.Background())

	mainLogger.Info().Msgf("Starting server. Port: %d, persist: %s", config.Port, config.PersistMethod)
	if err := rest.RunRestServer(manager, config.Port); err != nil {
		mainLogger.Fatal().Msgf("REST server exited: %s", err)
	}
}

func buildStores(config *util.Config) (game.GameStore, game.TableStore, game.PlayerStore) {
	switch config.PersistMethod {
	case "memory":
		store := game.NewMemoryStore()
		return store, store, store
	case "postgres":
		store, err := game.NewPostgresStore(config.PostgresConnStr)
		if err != nil {
			mainLogger.Fatal().Msgf("Unable to connect to postgres: %s", err)
		}
		if err := store.InitSchema(context.Background()); err != nil {
			mainLogger.Fatal().Msgf("Unable to initialize schema: %s", err)
		}
		return store, store, store
	}
	panic(fmt.Sprintf("Invalid persist method [%s]", config.PersistMethod))
}

func buildHandStateTracker(config *util.Config) game.PersistHandState {
	switch config.HandPersistMethod {
	case "memory":
		return game.NewMemoryHandStateTracker()
	case "redis":
		return game.NewRedisHandStateTracker(config.RedisAddr, config.RedisPW, config.RedisDB)
	}
	panic(fmt.Sprintf("Invalid hand persist method [%s]", config.HandPersistMethod))
}
