package util

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config carries optional file-based overrides for the environment
// settings. Missing fields fall back to the Env accessors.
type Config struct {
	Port                 uint   `yaml:"port"`
	PersistMethod        string `yaml:"persistMethod"`
	HandPersistMethod    string `yaml:"handPersistMethod"`
	NatsURL              string `yaml:"natsUrl"`
	RedisAddr            string `yaml:"redisAddr"`
	RedisPW              string `yaml:"redisPW"`
	RedisDB              int    `yaml:"redisDB"`
	PostgresConnStr      string `yaml:"postgresConnStr"`
	SchedulerIntervalSec int    `yaml:"schedulerIntervalSec"`
}

// LoadConfig merges a YAML config file over the environment defaults.
// An empty path returns the environment-derived config unchanged.
func LoadConfig(path string) (*Config, error) {
	config := &Config{
		Port:                 8080,
		PersistMethod:        Env.GetPersistMethod(),
		HandPersistMethod:    Env.GetHandPersistMethod(),
		NatsURL:              Env.GetNatsURL(),
		RedisAddr:            Env.GetRedisAddr(),
		RedisPW:              Env.GetRedisPW(),
		RedisDB:              Env.GetRedisDB(),
		PostgresConnStr:      Env.GetPostgresConnStr(),
		SchedulerIntervalSec: Env.GetSchedulerIntervalSec(),
	}
	if path == "" {
		return config, nil
	}
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read config file %s", path)
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrapf(err, "unable to parse config file %s", path)
	}
	return config, nil
}
