package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// tokenLifetime はJWTトークンの有効期間。発行APIごとに変更できない固定値。
const tokenLifetime = time.Hour

// contextKeyClaims はGinコンテキストに検証済みクレームを格納するためのキー。
const contextKeyClaims = "claims"

// contextKeyEmail はGinコンテキストに検証済みメールアドレスを格納するためのキー。
const contextKeyEmail = "email"

// GenerateToken は任意のクレームから署名付きJWTトークンを生成する。
// クレームの内容は検証せず、iat（発行時刻）とexp（1時間後の有効期限）のみ付与する。
// 同じシークレットで有効期限内に検証すれば、元のクレームがそのまま復元される。
func GenerateToken(secret string, claims map[string]any) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("JWT署名用シークレットが設定されていません")
	}

	mapClaims := jwt.MapClaims{}
	for k, v := range claims {
		mapClaims[k] = v
	}
	now := time.Now()
	mapClaims["iat"] = jwt.NewNumericDate(now)
	mapClaims["exp"] = jwt.NewNumericDate(now.Add(tokenLifetime))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はJWTトークンを検証するGinミドルウェアを返す。
// Authorizationヘッダーの欠落、署名不正、期限切れはいずれも401で処理を打ち切り、
// 後段のハンドラは実行されない。検証に成功した場合はコンテキストに
// クレームとメールアドレスを設定する。
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   true,
				"message": "Unauthorized access",
			})
			return
		}

		tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   true,
				"message": "Unauthorized access",
			})
			return
		}

		claims := jwt.MapClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (any, error) {
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   true,
				"message": "Unauthorized access",
			})
			return
		}

		c.Set(contextKeyClaims, claims)
		if email, ok := claims["email"].(string); ok {
			c.Set(contextKeyEmail, email)
		}
		c.Next()
	}
}

// GetEmail はGinコンテキストから検証済みのメールアドレスを取得する。
// JWTAuthミドルウェアが事前に適用されている必要がある。
func GetEmail(c *gin.Context) string {
	v, _ := c.Get(contextKeyEmail)
	if email, ok := v.(string); ok {
		return email
	}
	return ""
}

// GetClaims はGinコンテキストから検証済みのクレーム全体を取得する。
func GetClaims(c *gin.Context) jwt.MapClaims {
	v, _ := c.Get(contextKeyClaims)
	if claims, ok := v.(jwt.MapClaims); ok {
		return claims
	}
	return nil
}
