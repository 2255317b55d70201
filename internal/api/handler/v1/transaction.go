package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/assohub/assohub-api/internal/api/handler/v1/request"
	"github.com/assohub/assohub-api/internal/api/handler/v1/response"
	"github.com/assohub/assohub-api/internal/domain"
	"github.com/assohub/assohub-api/internal/service"
)

type LedgerService interface {
	ListTransactions(ctx context.Context) ([]domain.FinancialTransaction, error)
	Totals(ctx context.Context) (domain.LedgerTotals, error)
	CreateTransaction(ctx context.Context, transaction domain.FinancialTransaction) (domain.FinancialTransaction, error)
}

type TransactionHandler struct {
	svc     LedgerService
	authSvc AccountService
}

func NewTransactionHandler(svc LedgerService, authSvc AccountService) *TransactionHandler {
	return &TransactionHandler{
		svc:     svc,
		authSvc: authSvc,
	}
}

// HandleListTransactions godoc
// @Summary      List the ledger
// @Description  Every transaction newest first, with exact income, expense and balance totals. Administrators only.
// @Tags         transactions
// @Produce      json
// @Success      200 {object} response.TransactionListResponse
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /transactions [get]
// @Security BearerAuth
func (h *TransactionHandler) HandleListTransactions(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	transactions, err := h.svc.ListTransactions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTransactions -> h.svc.ListTransactions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	totals, err := h.svc.Totals(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("v1.HandleListTransactions -> h.svc.Totals -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.TransactionListResponse{
		Transactions: transactions,
		IncomeTotal:  totals.IncomeTotal,
		ExpenseTotal: totals.ExpenseTotal,
		Balance:      totals.Balance,
	})
}

// HandleCreateTransaction godoc
// @Summary      Record a transaction
// @Description  An income or expense, optionally tied to an event. Administrators only.
// @Tags         transactions
// @Produce      json
// @Param        request body request.CreateTransactionRequest true "request body"
// @Success      201 {object} domain.FinancialTransaction
// @Failure      400 {object} response.Err
// @Failure      401 {object} response.Err
// @Failure      403 {object} response.Err
// @Failure      404 {object} response.Err
// @Failure      500 {object} response.Err
// @Router       /transactions [post]
// @Security BearerAuth
func (h *TransactionHandler) HandleCreateTransaction(ctx *gin.Context) {
	if _, respErr := requireAdministrator(ctx, h.authSvc); respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	var req request.CreateTransactionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	transaction := domain.FinancialTransaction{
		TransactionType: req.TransactionType,
		Amount:          req.Amount,
		Description:     req.Description,
		EventID:         req.EventID,
	}
	if req.Date != nil {
		transaction.Date = *req.Date
	}

	created, err := h.svc.CreateTransaction(ctx.Request.Context(), transaction)
	if err != nil {
		if errors.Is(err, service.ErrInvalidAmount) || errors.Is(err, service.ErrInvalidTransactionType) {
			response.RenderErr(ctx, response.ErrBadRequest(err))
			return
		}
		if errors.Is(err, service.ErrEventNotFound) && req.EventID != nil {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", *req.EventID))
			return
		}

		err = fmt.Errorf("v1.HandleCreateTransaction -> h.svc.CreateTransaction -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}
