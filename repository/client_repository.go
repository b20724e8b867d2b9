package repository

import (
	"context"
	"database/sql"

	"bank-ledger/logger"
	"bank-ledger/model"
)

// IClientRepository defines the contract for client database operations.
type IClientRepository interface {
	CreateClient(ctx context.Context, client *model.Client) error
	GetClientByID(ctx context.Context, clientID int) (*model.Client, error)
	GetClientByExternalID(ctx context.Context, externalID int64) (*model.Client, error)
}

type ClientRepository struct {
	DB *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{DB: db}
}

func (r *ClientRepository) CreateClient(ctx context.Context, client *model.Client) error {
	log := logger.Log.WithField("external_id", client.ExternalID)
	log.Info("Executing query to create a new client")

	query := `INSERT INTO clients (external_id, pin_hash, role) VALUES ($1, $2, $3) RETURNING id, created_at`
	err := r.DB.QueryRowContext(ctx, query, client.ExternalID, client.PinHash, client.Role).Scan(&client.ID, &client.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			log.Info("Client external ID already registered")
			return ErrDuplicate
		}
		log.WithError(err).Error("Failed to execute create client query")
		return err
	}
	return nil
}

func (r *ClientRepository) GetClientByID(ctx context.Context, clientID int) (*model.Client, error) {
	return r.getClient(ctx, `SELECT id, external_id, pin_hash, role, created_at FROM clients WHERE id = $1`, clientID)
}

func (r *ClientRepository) GetClientByExternalID(ctx context.Context, externalID int64) (*model.Client, error) {
	return r.getClient(ctx, `SELECT id, external_id, pin_hash, role, created_at FROM clients WHERE external_id = $1`, externalID)
}

func (r *ClientRepository) getClient(ctx context.Context, query string, key any) (*model.Client, error) {
	log := logger.Log.WithField("key", key)
	log.Info("Executing query to get client")

	client := &model.Client{}
	err := r.DB.QueryRowContext(ctx, query, key).Scan(&client.ID, &client.ExternalID, &client.PinHash, &client.Role, &client.CreatedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.WithError(err).Error("Failed to execute get client query")
		}
		return nil, err
	}
	return client, nil
}
