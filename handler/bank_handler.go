package handler

import (
	"net/http"

	"bank-ledger/common"
	"bank-ledger/model"
	"bank-ledger/service"

	"github.com/shopspring/decimal"
)

type BankHandler struct {
	service *service.BankService
}

func NewBankHandler(service *service.BankService) *BankHandler {
	return &BankHandler{service: service}
}

// CommissionResponse is the body returned by the commission endpoint.
type CommissionResponse struct {
	BankID           int             `json:"bank_id"`
	CommissionIncome decimal.Decimal `json:"commission_income" swaggertype:"string" example:"1.00"`
}

// ListBanks godoc
// @Summary      List banks
// @Tags         banks
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.Bank
// @Router       /api/banks [get]
func (h *BankHandler) ListBanks(w http.ResponseWriter, r *http.Request) *common.AppError {
	banks, err := h.service.ListBanks(r.Context())
	if err != nil {
		return ledgerError(err, "Could not retrieve banks")
	}
	common.WriteJSON(w, http.StatusOK, banks)
	return nil
}

// GetBank godoc
// @Summary      Get a bank
// @Tags         banks
// @Produce      json
// @Security     BearerAuth
// @Param        bankId path int true "Bank ID"
// @Success      200  {object}  model.Bank
// @Failure      404  {object}  common.AppError
// @Router       /api/banks/{bankId} [get]
func (h *BankHandler) GetBank(w http.ResponseWriter, r *http.Request) *common.AppError {
	bankID, appErr := pathID(r, "bankId")
	if appErr != nil {
		return appErr
	}
	bank, err := h.service.GetBank(r.Context(), bankID)
	if err != nil {
		return ledgerError(err, "Could not load bank")
	}
	common.WriteJSON(w, http.StatusOK, bank)
	return nil
}

// CreateBank godoc
// @Summary      Register a bank
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        bank body model.CreateBankRequest true "Bank name"
// @Success      201  {object}  model.Bank
// @Failure      403  {object}  common.AppError
// @Failure      409  {object}  common.AppError "Bank name already taken"
// @Router       /api/admin/banks [post]
func (h *BankHandler) CreateBank(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.CreateBankRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	bank, err := h.service.CreateBank(r.Context(), req.Name)
	if err != nil {
		return ledgerError(err, "Could not create bank")
	}
	common.WriteJSON(w, http.StatusCreated, bank)
	return nil
}

// CreateBranch godoc
// @Summary      Open a branch
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        bankId path int true "Bank ID"
// @Success      201  {object}  model.Branch
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/banks/{bankId}/branches [post]
func (h *BankHandler) CreateBranch(w http.ResponseWriter, r *http.Request) *common.AppError {
	bankID, appErr := pathID(r, "bankId")
	if appErr != nil {
		return appErr
	}
	branch, err := h.service.CreateBranch(r.Context(), bankID)
	if err != nil {
		return ledgerError(err, "Could not create branch")
	}
	common.WriteJSON(w, http.StatusCreated, branch)
	return nil
}

// ListBranches godoc
// @Summary      List a bank's branches
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        bankId path int true "Bank ID"
// @Success      200  {array}   model.Branch
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/banks/{bankId}/branches [get]
func (h *BankHandler) ListBranches(w http.ResponseWriter, r *http.Request) *common.AppError {
	bankID, appErr := pathID(r, "bankId")
	if appErr != nil {
		return appErr
	}
	branches, err := h.service.ListBranches(r.Context(), bankID)
	if err != nil {
		return ledgerError(err, "Could not retrieve branches")
	}
	common.WriteJSON(w, http.StatusOK, branches)
	return nil
}

// DepositToBranch godoc
// @Summary      Add cash to a branch
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        branchId path int true "Branch ID"
// @Param        deposit body model.AmountRequest true "Amount to add"
// @Success      200  {object}  model.Branch
// @Failure      400  {object}  common.AppError
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/branches/{branchId}/deposit [post]
func (h *BankHandler) DepositToBranch(w http.ResponseWriter, r *http.Request) *common.AppError {
	branchID, appErr := pathID(r, "branchId")
	if appErr != nil {
		return appErr
	}
	var req model.AmountRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}
	branch, err := h.service.DepositToBranch(r.Context(), branchID, req.Amount)
	if err != nil {
		return ledgerError(err, "Could not process branch deposit")
	}
	common.WriteJSON(w, http.StatusOK, branch)
	return nil
}

// GetCommission godoc
// @Summary      Commission income of a bank
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        bankId path int true "Bank ID"
// @Success      200  {object}  CommissionResponse
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/banks/{bankId}/commission [get]
func (h *BankHandler) GetCommission(w http.ResponseWriter, r *http.Request) *common.AppError {
	bankID, appErr := pathID(r, "bankId")
	if appErr != nil {
		return appErr
	}
	income, err := h.service.GetCommission(r.Context(), bankID)
	if err != nil {
		return ledgerError(err, "Could not read commission")
	}
	common.WriteJSON(w, http.StatusOK, CommissionResponse{BankID: bankID, CommissionIncome: income})
	return nil
}

// GetBankSummary godoc
// @Summary      Bank summary
// @Description  Total client balance, commission income, open accounts and branches of a bank.
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        bankId path int true "Bank ID"
// @Success      200  {object}  model.BankSummary
// @Failure      404  {object}  common.AppError
// @Router       /api/admin/banks/{bankId}/summary [get]
func (h *BankHandler) GetBankSummary(w http.ResponseWriter, r *http.Request) *common.AppError {
	bankID, appErr := pathID(r, "bankId")
	if appErr != nil {
		return appErr
	}
	summary, err := h.service.GetBankSummary(r.Context(), bankID)
	if err != nil {
		return ledgerError(err, "Could not build bank summary")
	}
	common.WriteJSON(w, http.StatusOK, summary)
	return nil
}
