package middleware

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// RoleChecker はメールアドレスに紐づくアカウントが管理者ロールを持つか判定する。
// 判定は呼び出しごとにCredential Storeへ問い合わせる（キャッシュなし）ため、
// ロールの剥奪は次のリクエストから即座に反映される。
type RoleChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// RequireAdmin は管理者ロールを要求するGinミドルウェアを返す。
// JWTAuthの後段に配置すること。アカウントが存在しない、または
// 管理者でない場合は403で処理を打ち切り、後段のハンドラは実行されない。
func RequireAdmin(checker RoleChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := GetEmail(c)
		if email == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   true,
				"message": "Unauthorized access",
			})
			return
		}

		admin, err := checker.IsAdmin(c.Request.Context(), email)
		if err != nil {
			log.Printf("管理者ロールの確認に失敗: email=%s, error=%v", email, err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   true,
				"message": "Internal server error",
			})
			return
		}
		if !admin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   true,
				"message": "Forbidden access",
			})
			return
		}

		c.Next()
	}
}
