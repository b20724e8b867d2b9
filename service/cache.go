// file: service/cache.go

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/redis/go-redis/v9"
)

// ICacheClient defines the contract for a cache client. *redis.Client satisfies it.
type ICacheClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Incr(ctx context.Context, key string) *redis.IntCmd
}

// AccountCache keeps a cache-aside copy of each client's account list.
// Every entry is stamped with the client's generation counter, which
// Invalidate bumps after each committed mutation. An entry whose stamp no
// longer matches the counter is never served, so a list loaded before a
// mutation and stored after it cannot shadow the new balances.
// A nil *AccountCache is valid and caches nothing.
type AccountCache struct {
	client ICacheClient
	ttl    time.Duration
}

// noGeneration marks a read whose generation could not be determined; the
// result of such a read is not stored.
const noGeneration int64 = -1

type accountsEntry struct {
	Generation int64            `json:"generation"`
	Accounts   []*model.Account `json:"accounts"`
}

func NewAccountCache(client ICacheClient, ttl time.Duration) *AccountCache {
	return &AccountCache{client: client, ttl: ttl}
}

func accountsKey(clientID int) string {
	return fmt.Sprintf("accounts:%d", clientID)
}

func generationKey(clientID int) string {
	return fmt.Sprintf("accounts:%d:gen", clientID)
}

func (c *AccountCache) generation(ctx context.Context, clientID int) int64 {
	gen, err := c.client.Get(ctx, generationKey(clientID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", clientID).Warn("Account cache generation read failed")
		return noGeneration
	}
	return gen
}

// Get returns the cached accounts when the entry is current. It always
// returns the generation observed, which the caller passes to Set after
// loading from the database.
func (c *AccountCache) Get(ctx context.Context, clientID int) ([]*model.Account, int64, bool) {
	if c == nil {
		return nil, noGeneration, false
	}
	gen := c.generation(ctx, clientID)
	if gen == noGeneration {
		return nil, noGeneration, false
	}

	raw, err := c.client.Get(ctx, accountsKey(clientID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logger.Log.WithError(err).WithField("client_id", clientID).Warn("Account cache read failed")
		}
		return nil, gen, false
	}

	var entry accountsEntry
	if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Generation != gen {
		return nil, gen, false
	}
	return entry.Accounts, gen, true
}

// Set stores accounts stamped with gen, the generation seen before they were loaded.
func (c *AccountCache) Set(ctx context.Context, clientID int, gen int64, accounts []*model.Account) {
	if c == nil || gen == noGeneration {
		return
	}
	data, err := json.Marshal(accountsEntry{Generation: gen, Accounts: accounts})
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, accountsKey(clientID), data, c.ttl).Err(); err != nil {
		logger.Log.WithError(err).WithField("client_id", clientID).Warn("Account cache write failed")
	}
}

// Invalidate bumps the generation of each client and drops their entries.
func (c *AccountCache) Invalidate(ctx context.Context, clientIDs ...int) {
	if c == nil || len(clientIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(clientIDs))
	for _, id := range clientIDs {
		if err := c.client.Incr(ctx, generationKey(id)).Err(); err != nil {
			logger.Log.WithError(err).WithField("client_id", id).Warn("Account cache generation bump failed")
		}
		keys = append(keys, accountsKey(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logger.Log.WithError(err).WithField("keys", keys).Warn("Account cache invalidation failed")
	}
}
