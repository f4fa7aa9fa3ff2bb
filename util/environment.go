package util

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type serverEnvironment struct {
	PersistMethod        string
	HandPersistMethod    string
	RedisHost            string
	RedisPort            string
	RedisPW              string
	RedisDB              string
	NatsURL              string
	PostgresHost         string
	PostgresPort         string
	PostgresDB           string
	PostgresUser         string
	PostgresPW           string
	PostgresSSLMode      string
	SchedulerIntervalSec string
	LogLevel             string
	ConfigFile           string
}

// Env is a helper object for accessing environment variables.
var Env = &serverEnvironment{
	PersistMethod:        "PERSIST_METHOD",
	HandPersistMethod:    "HAND_PERSIST_METHOD",
	RedisHost:            "REDIS_HOST",
	RedisPort:            "REDIS_PORT",
	RedisPW:              "REDIS_PW",
	RedisDB:              "REDIS_DB",
	NatsURL:              "NATS_URL",
	PostgresHost:         "POSTGRES_HOST",
	PostgresPort:         "POSTGRES_PORT",
	PostgresDB:           "POSTGRES_DB",
	PostgresUser:         "POSTGRES_USER",
	PostgresPW:           "POSTGRES_PASSWORD",
	PostgresSSLMode:      "POSTGRES_SSL_MODE",
	SchedulerIntervalSec: "SCHEDULER_INTERVAL_SEC",
	LogLevel:             "LOG_LEVEL",
	ConfigFile:           "CONFIG_FILE",
}

func (e *serverEnvironment) GetPersistMethod() string {
	method := os.Getenv(e.PersistMethod)
	if method == "" {
		return "memory"
	}
	return method
}

func (e *serverEnvironment) GetHandPersistMethod() string {
	method := os.Getenv(e.HandPersistMethod)
	if method == "" {
		return "memory"
	}
	return method
}

func (e *serverEnvironment) GetRedisHost() string {
	host := os.Getenv(e.RedisHost)
	if host == "" {
		return "localhost"
	}
	return host
}

func (e *serverEnvironment) GetRedisPort() int {
	port := os.Getenv(e.RedisPort)
	if port == "" {
		return 6379
	}
	portNo, err := strconv.Atoi(port)
	if err != nil {
		msg := fmt.Sprintf("Invalid %s [%s]", e.RedisPort, port)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNo
}

func (e *serverEnvironment) GetRedisPW() string {
	return os.Getenv(e.RedisPW)
}

func (e *serverEnvironment) GetRedisDB() int {
	db := os.Getenv(e.RedisDB)
	if db == "" {
		return 0
	}
	dbNo, err := strconv.Atoi(db)
	if err != nil {
		msg := fmt.Sprintf("Invalid %s [%s]", e.RedisDB, db)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return dbNo
}

func (e *serverEnvironment) GetRedisAddr() string {
	return fmt.Sprintf("%s:%d", e.GetRedisHost(), e.GetRedisPort())
}

func (e *serverEnvironment) GetNatsURL() string {
	url := os.Getenv(e.NatsURL)
	if url == "" {
		return "nats://localhost:4222"
	}
	return url
}

func (e *serverEnvironment) GetPostgresHost() string {
	host := os.Getenv(e.PostgresHost)
	if host == "" {
		return "localhost"
	}
	return host
}

func (e *serverEnvironment) GetPostgresPort() int {
	port := os.Getenv(e.PostgresPort)
	if port == "" {
		return 5432
	}
	portNo, err := strconv.Atoi(port)
	if err != nil {
		msg := fmt.Sprintf("Invalid %s [%s]", e.PostgresPort, port)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNo
}

func (e *serverEnvironment) GetPostgresDB() string {
	db := os.Getenv(e.PostgresDB)
	if db == "" {
		return "poker"
	}
	return db
}

func (e *serverEnvironment) GetPostgresUser() string {
	return os.Getenv(e.PostgresUser)
}

func (e *serverEnvironment) GetPostgresPW() string {
	return os.Getenv(e.PostgresPW)
}

func (e *serverEnvironment) GetPostgresSSLMode() string {
	mode := os.Getenv(e.PostgresSSLMode)
	if mode == "" {
		return "disable"
	}
	return mode
}

func (e *serverEnvironment) GetPostgresConnStr() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		e.GetPostgresHost(),
		e.GetPostgresPort(),
		e.GetPostgresUser(),
		e.GetPostgresPW(),
		e.GetPostgresDB(),
		e.GetPostgresSSLMode(),
	)
}

func (e *serverEnvironment) GetSchedulerIntervalSec() int {
	interval := os.Getenv(e.SchedulerIntervalSec)
	if interval == "" {
		return 60
	}
	intervalSec, err := strconv.Atoi(interval)
	if err != nil {
		msg := fmt.Sprintf("Invalid %s [%s]", e.SchedulerIntervalSec, interval)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return intervalSec
}

func (e *serverEnvironment) GetZeroLogLogLevel() zerolog.Level {
	level := os.Getenv(e.LogLevel)
	switch level {
	case "":
		return zerolog.InfoLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled":
		return zerolog.Disabled
	}
	msg := fmt.Sprintf("Invalid %s [%s]", e.LogLevel, level)
	environmentLogger.Error().Msg(msg)
	panic(msg)
}

func (e *serverEnvironment) GetConfigFile() string {
	return os.Getenv(e.ConfigFile)
}
