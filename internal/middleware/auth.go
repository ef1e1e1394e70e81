package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fathima-sithara/clinic-backend/internal/models"
	"github.com/fathima-sithara/clinic-backend/internal/services"
	"github.com/fathima-sithara/clinic-backend/internal/utils"
)

// Locals keys set by Protect for downstream handlers.
const (
	LocalsAccount   = "account"
	LocalsAccountID = "account_id"
	LocalsRole      = "role"
	LocalsToken     = "token"
)

// TokenCookie mirrors the cookie set on login so browser clients work
// without an Authorization header.
const TokenCookie = "jwt"

// AccountLoader reloads the record behind a token. Implemented by the
// doctor and patient repositories.
type AccountLoader interface {
	FindAccountByID(ctx context.Context, id string) (models.AccountHolder, error)
}

// Protect authenticates the request: bearer token present, signature and
// expiry valid, not revoked via logout, backing record still active, and
// password unchanged since the token was issued. On success the account is
// stored in locals. All failures are a generic 401.
func Protect(
	tm *utils.TokenManager,
	denylist services.Denylist,
	loaders map[string]AccountLoader,
	log *zap.SugaredLogger,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := extractToken(c)
		if token == "" {
			return utils.JSONError(c, fiber.StatusUnauthorized, "you are not logged in")
		}

		claims, err := tm.Parse(token)
		if err != nil {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		revoked, err := denylist.IsRevoked(c.Context(), token)
		if err != nil {
			log.Errorw("denylist lookup failed", "error", err)
			return utils.JSONError(c, fiber.StatusInternalServerError, "internal error")
		}
		if revoked {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		loader, ok := loaders[claims.Role]
		if !ok {
			return utils.JSONError(c, fiber.StatusUnauthorized, "invalid or expired token")
		}

		holder, err := loader.FindAccountByID(c.Context(), claims.Subject)
		if err != nil {
			// Missing covers both never-existed and soft-deleted records.
			return utils.JSONError(c, fiber.StatusUnauthorized, "the account belonging to this token no longer exists")
		}

		if claims.IssuedAt != nil && holder.Credentials().PasswordChangedAfter(claims.IssuedAt.Unix()) {
			return utils.JSONError(c, fiber.StatusUnauthorized, "password was changed recently, please log in again")
		}

		c.Locals(LocalsAccount, holder)
		c.Locals(LocalsAccountID, holder.AccountID().Hex())
		c.Locals(LocalsRole, claims.Role)
		c.Locals(LocalsToken, token)
		return c.Next()
	}
}

// RestrictTo allows only the listed roles past. Pure predicate, must run
// after Protect.
func RestrictTo(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, _ := c.Locals(LocalsRole).(string)
		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}
		return utils.JSONError(c, fiber.StatusForbidden, "you do not have permission to perform this action")
	}
}

// TokenFromRequest pulls the bearer token from the Authorization header or
// the session cookie. Used by logout, which accepts a token without
// requiring it to still verify.
func TokenFromRequest(c *fiber.Ctx) string {
	return extractToken(c)
}

func extractToken(c *fiber.Ctx) string {
	auth := c.Get(fiber.HeaderAuthorization)
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimPrefix(auth, "Bearer ")
	}
	return c.Cookies(TokenCookie)
}
