package bistro

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nao1215/bistro/pkg/middleware"
)

// createUserRequest はユーザー登録リクエストのJSON構造。
type createUserRequest struct {
	// Name は表示名。
	Name string `json:"name"`
	// Email はアカウントの一意キー。
	Email string `json:"email" binding:"required"`
	// Role はアカウントのロール。省略時はmember。
	Role string `json:"role"`
}

// handleListUsers は全ユーザー一覧を返すハンドラを返す。管理者のみ。
func (s *Server) handleListUsers() gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.store.ListUsers(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to list users"})
			log.Printf("ユーザー一覧取得エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, users)
	}
}

// handleCreateUser はユーザー登録を処理するハンドラを返す。
// 同じメールアドレスのアカウントが既に存在する場合は挿入せず、
// "User already exists" を返す。存在確認と挿入の間は原子的ではない（既知の残存リスク）。
func (s *Server) handleCreateUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createUserRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": fmt.Sprintf("Invalid request body: %v", err)})
			return
		}

		_, err := s.store.GetUserByEmail(c.Request.Context(), req.Email)
		if err == nil {
			c.JSON(http.StatusOK, gin.H{"message": "User already exists"})
			return
		}
		if err != sql.ErrNoRows {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to create user"})
			log.Printf("ユーザー存在確認エラー: %v", err)
			return
		}

		role := req.Role
		if role == "" {
			role = RoleMember
		}

		user := User{
			ID:    uuid.New().String(),
			Name:  req.Name,
			Email: req.Email,
			Role:  role,
		}
		if err := s.store.CreateUser(c.Request.Context(), user); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to create user"})
			log.Printf("ユーザー作成エラー: %v", err)
			return
		}

		c.JSON(http.StatusCreated, user)
	}
}

// handleCheckAdmin は指定されたメールアドレスが管理者かを返すハンドラを返す。管理者のみ。
// トークンのメールアドレスとパラメータが一致しない場合は admin: false を返す。
func (s *Server) handleCheckAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Param("email")
		if email != middleware.GetEmail(c) {
			c.JSON(http.StatusOK, gin.H{"admin": false})
			return
		}

		user, err := s.store.GetUserByEmail(c.Request.Context(), email)
		if err == sql.ErrNoRows {
			c.JSON(http.StatusOK, gin.H{"admin": false})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to check admin role"})
			log.Printf("管理者判定エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"admin": user.Role == RoleAdmin})
	}
}

// handlePromoteUser は指定されたIDのユーザーを管理者に昇格するハンドラを返す。管理者のみ。
// 存在しないIDの場合は modified_count: 0 の成功として扱う。
func (s *Server) handlePromoteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		modified, err := s.store.PromoteUserToAdmin(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to promote user"})
			log.Printf("管理者昇格エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"modified_count": modified})
	}
}

// handleDeleteUser は指定されたIDのユーザーを削除するハンドラを返す。
// 存在しないIDの場合は deleted_count: 0 の成功として扱う。
func (s *Server) handleDeleteUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")
		deleted, err := s.store.DeleteUser(c.Request.Context(), id)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to delete user"})
			log.Printf("ユーザー削除エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"deleted_count": deleted})
	}
}
