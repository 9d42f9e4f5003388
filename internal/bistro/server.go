package bistro

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/bistro/pkg/middleware"
	"github.com/nao1215/bistro/pkg/payment"
)

// Server はレストラン注文バックエンドのHTTPサーバー。
type Server struct {
	// router はGinのHTTPルーター。
	router *gin.Engine
	// port はサーバーのリッスンポート。
	port string
	// store はドキュメントストアへのアクセスハンドル。
	store *Store
	// paymentClient は決済プロバイダへのクライアント。
	paymentClient *payment.Client
	// jwtSecret はJWT署名用の秘密鍵。
	jwtSecret string
}

// NewServer は新しいサーバーを生成する。
// SQLiteデータベースを開き、マイグレーションを適用する。
func NewServer(port string) (*Server, error) {
	store, err := Open(getEnvOr("DB_PATH", "/data/bistro.db"))
	if err != nil {
		return nil, fmt.Errorf("ストアの初期化に失敗: %w", err)
	}

	jwtSecret := os.Getenv("ACCESS_TOKEN_SECRET")
	if jwtSecret == "" {
		jwtSecret = "dev-secret-key"
	}

	paymentClient := payment.New(
		getEnvOr("PAYMENT_API_URL", "https://api.stripe.com"),
		os.Getenv("PAYMENT_SECRET_KEY"),
	)

	frontendURL := getEnvOr("FRONTEND_URL", "http://localhost:3000")

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORS([]string{frontendURL}))

	s := &Server{
		router:        router,
		port:          port,
		store:         store,
		paymentClient: paymentClient,
		jwtSecret:     jwtSecret,
	}
	s.setupRoutes()

	return s, nil
}

// Run はHTTPサーバーを起動する。
func (s *Server) Run() error {
	return s.router.Run(fmt.Sprintf(":%s", s.port))
}

// Close はサーバーが保持するリソースを解放する。
func (s *Server) Close() error {
	return s.store.Close()
}

// setupRoutes はAPIルーティングを設定する。
// authedは認証ゲート、adminOnlyは認可ゲート。保護ルートは必ず
// authed → adminOnly の順に通過する。
func (s *Server) setupRoutes() {
	authed := middleware.JWTAuth(s.jwtSecret)
	adminOnly := middleware.RequireAdmin(s.store)

	// トークン発行（認証不要）
	s.router.POST("/jwt", s.handleIssueToken())

	users := s.router.Group("/users")
	{
		// ユーザー一覧取得（管理者のみ）
		users.GET("", authed, adminOnly, s.handleListUsers())
		// ユーザー登録（メールアドレス重複時は挿入しない）
		users.POST("", s.handleCreateUser())
		// 管理者判定（管理者のみ）
		users.GET("/admin/:email", authed, adminOnly, s.handleCheckAdmin())
		// 管理者への昇格（管理者のみ）
		users.PATCH("/admin/:id", authed, adminOnly, s.handlePromoteUser())
		// ユーザー削除
		users.DELETE("/:id", s.handleDeleteUser())
	}

	menu := s.router.Group("/menu")
	{
		// メニュー一覧取得
		menu.GET("", s.handleListMenu())
		// メニュー詳細取得
		menu.GET("/:id", s.handleGetMenuItem())
		// メニュー作成（管理者のみ）
		menu.POST("", authed, adminOnly, s.handleCreateMenuItem())
		// メニュー更新（ID指定のupsert、管理者のみ）
		menu.PUT("/:id", authed, adminOnly, s.handleUpsertMenuItem())
		// メニュー削除（管理者のみ）
		menu.DELETE("/:id", authed, adminOnly, s.handleDeleteMenuItem())
	}

	// レビュー一覧取得
	s.router.GET("/review", s.handleListReviews())

	carts := s.router.Group("/carts")
	{
		// カート一覧取得（認証必須、所有者スコープ）
		carts.GET("", authed, s.handleListCarts())
		// カート追加
		carts.POST("", s.handleCreateCartItem())
		// カート削除
		carts.DELETE("/:id", s.handleDeleteCartItem())
	}

	// Payment Intent作成（認証必須）
	s.router.POST("/create-payment-intent", authed, s.handleCreatePaymentIntent())

	// 稼働確認
	s.router.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "Bistro server is running")
	})

	// ヘルスチェック
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": "bistro"})
	})
}

// handleIssueToken はリクエストボディのクレームからJWTトークンを発行するハンドラを返す。
// クレームの内容は検証しない。有効期限は発行から1時間で固定。
func (s *Server) handleIssueToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		var claims map[string]any
		if err := c.ShouldBindJSON(&claims); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": "Invalid request body"})
			return
		}

		token, err := middleware.GenerateToken(s.jwtSecret, claims)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": true, "message": "Failed to issue token"})
			log.Printf("JWT発行エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}

// getEnvOr は環境変数を取得し、設定されていない場合はデフォルト値を返す。
func getEnvOr(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}
