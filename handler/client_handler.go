package handler

import (
	"net/http"

	"bank-ledger/common"
	"bank-ledger/logger"
	"bank-ledger/model"
	"bank-ledger/service"
)

type ClientHandler struct {
	service *service.ClientService
}

func NewClientHandler(service *service.ClientService) *ClientHandler {
	return &ClientHandler{service: service}
}

// Register godoc
// @Summary      Register a new client
// @Description  Creates a client identified by an external id and protected by a numeric PIN.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        client body model.RegisterClientRequest true "External id and PIN"
// @Success      201  {object}  model.Client
// @Failure      400  {object}  common.AppError "Validation failed"
// @Failure      409  {object}  common.AppError "External id already registered"
// @Router       /register [post]
func (h *ClientHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterClientRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	client, err := h.service.RegisterClient(r.Context(), req.ExternalID, req.Pin)
	if err != nil {
		return ledgerError(err, "Could not register client")
	}

	common.WriteJSON(w, http.StatusCreated, client)
	return nil
}

// Login godoc
// @Summary      Log in
// @Description  Exchanges an external id and PIN for a bearer token.
// @Tags         clients
// @Accept       json
// @Produce      json
// @Param        credentials body model.LoginRequest true "External id and PIN"
// @Success      200  {object}  model.TokenResponse
// @Failure      400  {object}  common.AppError "Validation failed"
// @Failure      401  {object}  common.AppError "Invalid external id or PIN"
// @Router       /login [post]
func (h *ClientHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	token, err := h.service.Login(r.Context(), req.ExternalID, req.Pin)
	if err != nil {
		logger.Log.WithField("external_id", req.ExternalID).Warn("Failed login attempt")
		return ledgerError(err, "Could not log in")
	}

	common.WriteJSON(w, http.StatusOK, token)
	return nil
}

// Me godoc
// @Summary      Current client
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.Client
// @Failure      401  {object}  common.AppError
// @Router       /api/me [get]
func (h *ClientHandler) Me(w http.ResponseWriter, r *http.Request) *common.AppError {
	clientID, _, appErr := caller(r)
	if appErr != nil {
		return appErr
	}

	client, err := h.service.GetClient(r.Context(), clientID)
	if err != nil {
		return ledgerError(err, "Could not load client")
	}

	common.WriteJSON(w, http.StatusOK, client)
	return nil
}
