package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/assohub/assohub-api/internal/pkg/jwthelper"
)

// ContextAccountID is the gin context key the verified account ID is stored
// under.
const ContextAccountID = "account_id"

type Authenticator struct {
	signingKey []byte
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: []byte(signingKey),
	}
}

// VerifyJWT rejects requests without a valid bearer token.
func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		claims, ok := a.parseBearer(ctx)
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error_message": "invalid or missing token",
			})

			return
		}

		ctx.Set(ContextAccountID, claims.AccountID)
		ctx.Next()
	}
}

// VerifyJWTOptional attaches the account when a valid bearer token is
// present and lets the request through either way. Used on public routes
// whose response is richer for signed-in callers.
func (a *Authenticator) VerifyJWTOptional() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if claims, ok := a.parseBearer(ctx); ok {
			ctx.Set(ContextAccountID, claims.AccountID)
		}

		ctx.Next()
	}
}

func (a *Authenticator) parseBearer(ctx *gin.Context) (*jwthelper.Claims, bool) {
	header := ctx.GetHeader("Authorization")
	if header == "" {
		return nil, false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := jwthelper.ParseToken(a.signingKey, parts[1])
	if err != nil {
		return nil, false
	}

	return claims, true
}
