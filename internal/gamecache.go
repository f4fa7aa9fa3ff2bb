package internal

import (
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
)

// GameCache is an LRU front for game-record lookups, keyed by the game
// channel key ("<gameType>:<gameId>"). Entries are invalidated on
// status transitions so a finished game is never served stale.
type GameCache struct {
	cache *lru.Cache
}

func NewGameCache(size int) (*GameCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, errors.Wrap(err, "Unable to initialize game cache")
	}
	return &GameCache{cache: c}, nil
}

func (c *GameCache) Get(channelKey string) (interface{}, bool) {
	return c.cache.Get(channelKey)
}

func (c *GameCache) Add(channelKey string, g interface{}) {
	c.cache.Add(channelKey, g)
}

func (c *GameCache) Remove(channelKey string) {
	c.cache.Remove(channelKey)
}

func (c *GameCache) Len() int {
	return c.cache.Len()
}
