package v1

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/assohub/assohub-api/internal/api/handler/v1/response"
	"github.com/assohub/assohub-api/internal/api/middleware"
	"github.com/assohub/assohub-api/internal/domain"
)

// AccountService resolves the authenticated account for a request.
type AccountService interface {
	GetAccount(ctx context.Context, id uint) (domain.Account, error)
}

// getAccountFromContext loads the account the Authenticator middleware put
// on the request.
func getAccountFromContext(ctx *gin.Context, svc AccountService) (domain.Account, *response.Err) {
	value, exists := ctx.Get(middleware.ContextAccountID)
	if !exists {
		return domain.Account{}, response.ErrWrongCredentials(errors.New("no account in request context"))
	}

	accountID, ok := value.(uint)
	if !ok {
		return domain.Account{}, response.ErrWrongCredentials(errors.New("malformed account id in request context"))
	}

	account, err := svc.GetAccount(ctx.Request.Context(), accountID)
	if err != nil {
		return domain.Account{}, response.ErrWrongCredentials(err)
	}

	return account, nil
}

// getOptionalAccountFromContext is getAccountFromContext for public routes:
// no token, a malformed claim or a vanished account all mean no account.
func getOptionalAccountFromContext(ctx *gin.Context, svc AccountService) *domain.Account {
	value, exists := ctx.Get(middleware.ContextAccountID)
	if !exists {
		return nil
	}

	accountID, ok := value.(uint)
	if !ok {
		return nil
	}

	account, err := svc.GetAccount(ctx.Request.Context(), accountID)
	if err != nil {
		return nil
	}

	return &account
}

// requireAdministrator is the explicit capability check at the top of every
// administrator-only handler.
func requireAdministrator(ctx *gin.Context, svc AccountService) (domain.Account, *response.Err) {
	account, respErr := getAccountFromContext(ctx, svc)
	if respErr != nil {
		return domain.Account{}, respErr
	}

	if !account.IsAdministrator() {
		return domain.Account{}, response.ErrPermissionDenied(
			errors.New("account " + account.Username + " is not an administrator"))
	}

	return account, nil
}
