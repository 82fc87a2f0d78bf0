package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fruito-api/internal/core/auth"
	"fruito-api/internal/domain"
	"fruito-api/internal/transport/http/ez"
	resp "fruito-api/internal/transport/http/response"
)

func bearer(c *gin.Context) (string, bool) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return "", false
	}
	tok := strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
	return tok, tok != ""
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ez.KeyUserID, claims.UID)
	c.Set(ez.KeyRole, claims.Role)
	c.Set(ez.KeyClaims, claims)
}

// AuthJWT 必须携带有效令牌；requireRole 为空时不校验角色
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c)
		if !ok {
			resp.Abort(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			resp.Abort(c, http.StatusUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			resp.Abort(c, http.StatusForbidden, "forbidden")
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalJWT 有合法令牌就写入身份，没有或无效都放行，由具体接口决定是否要求登录
func OptionalJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, ok := bearer(c); ok {
			if claims, err := j.Parse(tok); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}

// AdminCheck 按存储里的当前状态确认 uid 仍是管理员，拒绝时返回 domain.ErrAdminDenied
type AdminCheck func(ctx context.Context, uid string) error

// RequireAdmin 挂在 AuthJWT 之后：令牌里的 role 只代表签发时刻，降级后的旧令牌在这里被拦下
func RequireAdmin(check AdminCheck) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := check(c.Request.Context(), c.GetString(ez.KeyUserID))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, domain.ErrAdminDenied):
			resp.Abort(c, http.StatusForbidden, "Admin access denied")
		default:
			_ = c.Error(err)
			resp.Abort(c, http.StatusInternalServerError, "")
		}
	}
}
