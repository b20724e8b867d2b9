package handler

import (
	"errors"
	"net/http"
	"strconv"

	"bank-ledger/common"
	"bank-ledger/service"
)

func ErrorHandlingMiddleware(next func(http.ResponseWriter, *http.Request) *common.AppError) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := next(w, r); err != nil {
			err.Send(w)
		}
	}
}

// statusForKind maps a ledger error kind onto an HTTP status code.
func statusForKind(kind service.ErrorKind) int {
	switch kind {
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindInsufficientFunds, service.KindNegativeAmount,
		service.KindSameAccountTransfer, service.KindAccountNotClosed:
		return http.StatusBadRequest
	case service.KindInvalidOperation:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// ledgerError converts a service error into the response sent to the caller.
// System errors keep their cause out of the response body.
func ledgerError(err error, fallback string) *common.AppError {
	if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrInvalidToken) {
		return common.NewAppError(http.StatusUnauthorized, err.Error(), nil)
	}

	kind := service.KindOf(err)
	code := statusForKind(kind)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = fallback
	}

	appErr := common.NewAppError(code, message, err)
	appErr.Kind = string(kind)
	return appErr
}

func pathID(r *http.Request, name string) (int, *common.AppError) {
	id, err := strconv.Atoi(r.PathValue(name))
	if err != nil || id <= 0 {
		return 0, common.NewAppError(http.StatusBadRequest, "Invalid "+name+" in URL path", err)
	}
	return id, nil
}
