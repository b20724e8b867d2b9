package service

import (
	"context"
	"database/sql"
	"testing"

	"bank-ledger/model"
	"bank-ledger/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestClientService_RegisterClient(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo, newTestAuthService())
		repo.On("CreateClient", ctx, mock.MatchedBy(func(c *model.Client) bool {
			return c.ExternalID == 1001 && c.Role == model.RoleClient && c.PinHash != "" && c.PinHash != "1234"
		})).Run(func(args mock.Arguments) { args.Get(1).(*model.Client).ID = 1 }).Return(nil).Once()

		client, err := svc.RegisterClient(ctx, 1001, "1234")

		require.NoError(t, err)
		assert.Equal(t, 1, client.ID)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate external id", func(t *testing.T) {
		repo := new(MockClientRepository)
		svc := NewClientService(repo, newTestAuthService())
		repo.On("CreateClient", ctx, mock.Anything).Return(repository.ErrDuplicate).Once()

		_, err := svc.RegisterClient(ctx, 1001, "1234")

		assert.ErrorIs(t, err, ErrInvalidOperation)
		repo.AssertExpectations(t)
	})
}

func TestClientService_Login(t *testing.T) {
	ctx := context.Background()
	auth := newTestAuthService()
	hash, err := auth.HashPin("1234")
	require.NoError(t, err)

	repo := new(MockClientRepository)
	svc := NewClientService(repo, auth)
	repo.On("GetClientByExternalID", ctx, int64(1001)).Return(&model.Client{ID: 1, ExternalID: 1001, PinHash: hash, Role: model.RoleClient}, nil)
	repo.On("GetClientByExternalID", ctx, int64(2002)).Return(nil, sql.ErrNoRows)

	t.Run("success", func(t *testing.T) {
		resp, err := svc.Login(ctx, 1001, "1234")
		require.NoError(t, err)
		assert.Equal(t, "Bearer", resp.TokenType)
		assert.Greater(t, resp.ExpiresIn, int64(0))

		claims, err := auth.ParseToken(resp.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, 1, claims.ClientID)
	})

	t.Run("wrong pin", func(t *testing.T) {
		_, err := svc.Login(ctx, 1001, "0000")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown client", func(t *testing.T) {
		_, err := svc.Login(ctx, 2002, "1234")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestClientService_GetClient(t *testing.T) {
	ctx := context.Background()
	repo := new(MockClientRepository)
	svc := NewClientService(repo, newTestAuthService())
	repo.On("GetClientByID", ctx, 3).Return(nil, sql.ErrNoRows).Once()

	_, err := svc.GetClient(ctx, 3)

	assert.ErrorIs(t, err, ErrNotFound)
	repo.AssertExpectations(t)
}
