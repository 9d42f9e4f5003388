package bistro

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/bistro/pkg/middleware"
)

// cartItemRequest はカート追加リクエストのJSON構造。
type cartItemRequest struct {
	// Email は所有者のメールアドレス。
	Email string `json:"email" binding:"required"`
	// MenuItemID は参照先メニューのID。
	MenuItemID string `json:"menu_item_id"`
	// Name は参照先メニューの料理名。
	Name string `json:"name"`
	// Image は参照先メニューの画像URL。
	Image string `json:"image"`
	// Price は参照先メニューの価格。
	Price float64 `json:"price"`
}

// handleListCarts は所有者スコープのカート一覧を返すハンドラを返す。認証必須。
// クエリのemailとトークンの検証済みメールアドレスが一致しない場合は403を返す。
// クエリパラメータの内容に関わらず、他アカウントのカートは決して返さない。
// emailが指定されていない場合は空配列を返す。
func (s *Server) handleListCarts() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("email")
		if email == "" {
			c.JSON(http.StatusOK, []CartItem{})
			return
		}

		if email != middleware.GetEmail(c) {
			c.JSON(http.StatusForbidden, gin.H{"error": true, "message": "Forbidden access"})
			return
		}

		items, err := s.store.ListCartsByEmail(c.Request.Context(), email)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to list carts"})
			log.Printf("カート一覧取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// handleCreateCartItem はカート追加を処理するハンドラを返す。
func (s *Server) handleCreateCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req cartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": fmt.Sprintf("Invalid request body: %v", err)})
			return
		}

		item := CartItem{
			ID:         uuid.New().String(),
			Email:      req.Email,
			MenuItemID: req.MenuItemID,
			Name:       req.Name,
			Image:      req.Image,
			Price:      req.Price,
		}
		if err := s.store.CreateCartItem(c.Request.Context(), item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to create cart item"})
			log.Printf("カート追加エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

// handleDeleteCartItem は指定されたIDのカートを削除するハンドラを返す。
// 存在しないIDの場合は deleted_count: 0 の成功として扱う。
func (s *Server) handleDeleteCartItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		deleted, err := s.store.DeleteCartItem(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to delete cart item"})
			log.Printf("カート削除エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted_count": deleted})
	}
}
