package bistro

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// menuItemRequest はメニュー作成・更新リクエストのJSON構造。
type menuItemRequest struct {
	// Name は料理名。
	Name string `json:"name" binding:"required"`
	// Recipe は料理の説明。
	Recipe string `json:"recipe"`
	// Image は料理画像のURL。
	Image string `json:"image"`
	// Category はメニューのカテゴリ。
	Category string `json:"category"`
	// Price は価格（主要通貨単位）。
	Price float64 `json:"price"`
}

// handleListMenu は全メニュー一覧を返すハンドラを返す。
func (s *Server) handleListMenu() gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := s.store.ListMenu(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to list menu"})
			log.Printf("メニュー一覧取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, items)
	}
}

// handleGetMenuItem は指定されたIDのメニューを返すハンドラを返す。
func (s *Server) handleGetMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		item, err := s.store.GetMenuItemByID(c.Request.Context(), id)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusNotFound, gin.H{"error": true, "message": "Menu item not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to get menu item"})
			log.Printf("メニュー取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// handleCreateMenuItem はメニュー作成を処理するハンドラを返す。管理者のみ。
func (s *Server) handleCreateMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": fmt.Sprintf("Invalid request body: %v", err)})
			return
		}

		item := MenuItem{
			ID:       uuid.New().String(),
			Name:     req.Name,
			Recipe:   req.Recipe,
			Image:    req.Image,
			Category: req.Category,
			Price:    req.Price,
		}
		if err := s.store.CreateMenuItem(c.Request.Context(), item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to create menu item"})
			log.Printf("メニュー作成エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, item)
	}
}

// handleUpsertMenuItem はID指定のメニュー更新を処理するハンドラを返す。管理者のみ。
// 存在しないIDの場合は新規レコードとして挿入する（upsert）。
// フィールドは無条件に上書きし、部分マージは行わない。
func (s *Server) handleUpsertMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req menuItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": fmt.Sprintf("Invalid request body: %v", err)})
			return
		}

		item := MenuItem{
			ID:       c.Param("id"),
			Name:     req.Name,
			Recipe:   req.Recipe,
			Image:    req.Image,
			Category: req.Category,
			Price:    req.Price,
		}
		if err := s.store.UpsertMenuItem(c.Request.Context(), item); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to upsert menu item"})
			log.Printf("メニューupsertエラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, item)
	}
}

// handleDeleteMenuItem は指定されたIDのメニューを削除するハンドラを返す。管理者のみ。
// 存在しないIDの場合は deleted_count: 0 の成功として扱う。
func (s *Server) handleDeleteMenuItem() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		deleted, err := s.store.DeleteMenuItem(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to delete menu item"})
			log.Printf("メニュー削除エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted_count": deleted})
	}
}
