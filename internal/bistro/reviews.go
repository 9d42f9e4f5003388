package bistro

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleListReviews は全レビュー一覧を返すハンドラを返す。
// レビューはこのサービスでは読み取り専用サーフェス。
func (s *Server) handleListReviews() gin.HandlerFunc {
	return func(c *gin.Context) {
		reviews, err := s.store.ListReviews(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to list reviews"})
			log.Printf("レビュー一覧取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, reviews)
	}
}
