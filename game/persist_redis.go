package game

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	jsoniter "github.com/json-iterator/go"
)

// RedisHandStateTracker keeps the last dealt hand per game channel in
// Redis so it survives process restarts.
type RedisHandStateTracker struct {
	rdclient *redis.Client
}

func NewRedisHandStateTracker(redisURL string, redisPW string, redisDB int) *RedisHandStateTracker {
	rdclient := redis.NewClient(&redis.Options{
		Addr:     redisURL,
		Password: redisPW,
		DB:       redisDB,
	})
	return &RedisHandStateTracker{
		rdclient: rdclient,
	}
}

func (r *RedisHandStateTracker) Load(channelKey string) (*HandState, error) {
	handStateBytes, err := r.rdclient.Get(context.Background(), handStateKey(channelKey)).Result()
	if err == redis.Nil {
		return nil, fmt.Errorf("hand state for key %s is not found", channelKey)
	} else if err != nil {
		return nil, err
	}
	handState := &HandState{}
	err = jsoniter.Unmarshal([]byte(handStateBytes), handState)
	if err != nil {
		return nil, err
	}
	return handState, nil
}

func (r *RedisHandStateTracker) Save(channelKey string, state *HandState) error {
	stateInBytes, err := jsoniter.Marshal(state)
	if err != nil {
		return err
	}
	return r.rdclient.Set(context.Background(), handStateKey(channelKey), stateInBytes, 0).Err()
}

func (r *RedisHandStateTracker) Remove(channelKey string) error {
	return r.rdclient.Del(context.Background(), handStateKey(channelKey)).Err()
}

func handStateKey(channelKey string) string {
	return "handstate." + channelKey
}
