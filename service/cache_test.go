package service

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"testing"
	"time"

	"bank-ledger/model"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memoryCache is an in-process ICacheClient with redis string semantics.
type memoryCache struct {
	mu     sync.Mutex
	values map[string]string
	err    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (c *memoryCache) Get(ctx context.Context, key string) *redis.StringCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return redis.NewStringResult("", c.err)
	}
	v, ok := c.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (c *memoryCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return redis.NewStatusResult("", c.err)
	}
	switch v := value.(type) {
	case []byte:
		c.values[key] = string(v)
	case string:
		c.values[key] = v
	}
	return redis.NewStatusResult("OK", nil)
}

func (c *memoryCache) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.values[k]; ok {
			delete(c.values, k)
			n++
		}
	}
	return redis.NewIntResult(n, c.err)
}

func (c *memoryCache) Incr(ctx context.Context, key string) *redis.IntCmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return redis.NewIntResult(0, c.err)
	}
	n, _ := strconv.ParseInt(c.values[key], 10, 64)
	n++
	c.values[key] = strconv.FormatInt(n, 10)
	return redis.NewIntResult(n, nil)
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.values[key]
	return ok
}

func expectDeposit(f *ledgerFixture, accountID, clientID int, balance, newBalance string) {
	f.dbMock.ExpectBegin()
	f.accounts.On("GetAccountForUpdate", mock.Anything, mock.Anything, accountID).
		Return(&model.Account{ID: accountID, ClientID: clientID, Balance: dec(balance)}, nil).Once()
	f.accounts.On("UpdateAccountBalance", mock.Anything, mock.Anything, accountID, decEq(newBalance)).Return(nil).Once()
	f.txns.On("CreateTransaction", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.operations.On("CreateOperationLog", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.dbMock.ExpectCommit()
}

func TestLedgerService_ListClientAccountsCache(t *testing.T) {
	ctx := context.Background()

	t.Run("miss loads and stores, hit skips the database", func(t *testing.T) {
		f := newLedgerFixture(t)
		cache := newMemoryCache()
		f.service.cache = NewAccountCache(cache, time.Minute)

		f.clients.On("GetClientByID", ctx, 7).Return(&model.Client{ID: 7}, nil).Once()
		f.accounts.On("GetAccountsByClientID", ctx, 7).
			Return([]*model.Account{{ID: 1, ClientID: 7, Balance: dec("5.00")}}, nil).Once()

		first, err := f.service.ListClientAccounts(ctx, 7)
		require.NoError(t, err)
		assert.True(t, cache.has("accounts:7"))

		second, err := f.service.ListClientAccounts(ctx, 7)
		require.NoError(t, err)
		require.Len(t, second, 1)
		assert.Equal(t, "5.00", second[0].Balance.StringFixed(2))
		assert.Equal(t, len(first), len(second))
		f.assertExpectations(t)
	})

	t.Run("deposit committed during a read is not hidden by the cache", func(t *testing.T) {
		f := newLedgerFixture(t)
		cache := newMemoryCache()
		f.service.cache = NewAccountCache(cache, time.Minute)

		expectDeposit(f, 1, 7, "0.00", "100.00")
		f.clients.On("GetClientByID", ctx, 7).Return(&model.Client{ID: 7}, nil).Twice()
		f.accounts.On("GetAccountsByClientID", ctx, 7).
			Run(func(args mock.Arguments) {
				// The deposit commits after the rows were read but before they are cached.
				_, err := f.service.Deposit(ctx, 1, dec("100.00"), 7)
				require.NoError(t, err)
			}).
			Return([]*model.Account{{ID: 1, ClientID: 7, Balance: dec("0.00")}}, nil).Once()
		f.accounts.On("GetAccountsByClientID", ctx, 7).
			Return([]*model.Account{{ID: 1, ClientID: 7, Balance: dec("100.00")}}, nil).Once()

		stale, err := f.service.ListClientAccounts(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "0.00", stale[0].Balance.StringFixed(2))

		fresh, err := f.service.ListClientAccounts(ctx, 7)
		require.NoError(t, err)
		require.Len(t, fresh, 1)
		assert.Equal(t, "100.00", fresh[0].Balance.StringFixed(2))
		f.assertExpectations(t)

		third, err := f.service.ListClientAccounts(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, "100.00", third[0].Balance.StringFixed(2))
	})

	t.Run("cache errors fall back to the database and store nothing", func(t *testing.T) {
		f := newLedgerFixture(t)
		cache := newMemoryCache()
		cache.err = errors.New("connection refused")
		f.service.cache = NewAccountCache(cache, time.Minute)

		f.clients.On("GetClientByID", ctx, 7).Return(&model.Client{ID: 7}, nil).Once()
		f.accounts.On("GetAccountsByClientID", ctx, 7).Return([]*model.Account{}, nil).Once()

		got, err := f.service.ListClientAccounts(ctx, 7)

		require.NoError(t, err)
		assert.Empty(t, got)
		assert.False(t, cache.has("accounts:7"))
		f.assertExpectations(t)
	})
}

func TestAccountCache_InvalidateAfterDeposit(t *testing.T) {
	ctx := context.Background()
	f := newLedgerFixture(t)
	cache := newMemoryCache()
	f.service.cache = NewAccountCache(cache, time.Minute)

	f.clients.On("GetClientByID", ctx, 7).Return(&model.Client{ID: 7}, nil).Once()
	f.accounts.On("GetAccountsByClientID", ctx, 7).Return([]*model.Account{{ID: 1, ClientID: 7}}, nil).Once()
	_, err := f.service.ListClientAccounts(ctx, 7)
	require.NoError(t, err)
	require.True(t, cache.has("accounts:7"))

	expectDeposit(f, 1, 7, "0.00", "3.00")
	_, err = f.service.Deposit(ctx, 1, dec("3.00"), 7)
	require.NoError(t, err)

	assert.False(t, cache.has("accounts:7"))
	gen, err := cache.Get(ctx, "accounts:7:gen").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1), gen)
	f.assertExpectations(t)
}

func TestAccountCache_StaleGenerationIsIgnored(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	c := NewAccountCache(cache, time.Minute)

	_, gen, ok := c.Get(ctx, 3)
	require.False(t, ok)
	c.Invalidate(ctx, 3)
	c.Set(ctx, 3, gen, []*model.Account{{ID: 9}})

	_, _, ok = c.Get(ctx, 3)
	assert.False(t, ok)
}

func TestAccountCache_NilIsNoop(t *testing.T) {
	var c *AccountCache
	_, _, ok := c.Get(context.Background(), 1)
	assert.False(t, ok)
	c.Set(context.Background(), 1, 0, nil)
	c.Invalidate(context.Background(), 1)
}
