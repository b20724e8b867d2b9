package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bank-ledger/logger"
	"bank-ledger/model"
	"bank-ledger/repository"
)

var ErrInvalidCredentials = errors.New("invalid external id or pin")

// ClientService handles client registration and login.
type ClientService struct {
	repo repository.IClientRepository
	auth *AuthService
}

func NewClientService(repo repository.IClientRepository, auth *AuthService) *ClientService {
	return &ClientService{repo: repo, auth: auth}
}

// RegisterClient stores a new client with a hashed PIN.
func (s *ClientService) RegisterClient(ctx context.Context, externalID int64, pin string) (*model.Client, error) {
	const op = "register_client"
	hash, err := s.auth.HashPin(pin)
	if err != nil {
		return nil, systemError(op, err)
	}

	client := &model.Client{ExternalID: externalID, PinHash: hash, Role: model.RoleClient}
	if err := s.repo.CreateClient(ctx, client); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, &LedgerError{Kind: KindInvalidOperation, Op: op, Message: "external id is already registered"}
		}
		return nil, systemError(op, err)
	}

	logger.Log.WithField("client_id", client.ID).Info("Client registered")
	return client, nil
}

func (s *ClientService) GetClient(ctx context.Context, clientID int) (*model.Client, error) {
	client, err := s.repo.GetClientByID(ctx, clientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound("get_client", "client", clientID)
		}
		return nil, systemError("get_client", err)
	}
	return client, nil
}

func (s *ClientService) GetClientByExternalID(ctx context.Context, externalID int64) (*model.Client, error) {
	client, err := s.repo.GetClientByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &LedgerError{Kind: KindNotFound, Op: "get_client", Entity: "client", Message: "no client with this external id"}
		}
		return nil, systemError("get_client", err)
	}
	return client, nil
}

// Login verifies the PIN and issues an access token.
func (s *ClientService) Login(ctx context.Context, externalID int64, pin string) (*model.TokenResponse, error) {
	client, err := s.repo.GetClientByExternalID(ctx, externalID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, systemError("login", err)
	}
	if !s.auth.CheckPin(pin, client.PinHash) {
		logger.Log.WithField("client_id", client.ID).Warn("Login rejected")
		return nil, ErrInvalidCredentials
	}

	token, expiresAt, err := s.auth.GenerateToken(client)
	if err != nil {
		return nil, systemError("login", err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(expiresAt).Seconds()),
	}, nil
}
