package bistro

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/nao1215/bistro/pkg/migration"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// RoleMember は一般会員を表すロール。
const RoleMember = "member"

// RoleAdmin は管理者を表すロール。
const RoleAdmin = "admin"

// User はアカウントレコードを表す。
type User struct {
	// ID はストアが割り当てる一意識別子。
	ID string `json:"id"`
	// Name は表示名。
	Name string `json:"name"`
	// Email はアカウントの一意キー。大文字小文字を区別して照合する。
	Email string `json:"email"`
	// Role はアカウントのロール（member または admin）。
	Role string `json:"role"`
}

// MenuItem はメニューのレコードを表す。
type MenuItem struct {
	// ID はストアが割り当てる一意識別子。
	ID string `json:"id"`
	// Name は料理名。
	Name string `json:"name"`
	// Recipe は料理の説明。
	Recipe string `json:"recipe"`
	// Image は料理画像のURL。
	Image string `json:"image"`
	// Category はメニューのカテゴリ。
	Category string `json:"category"`
	// Price は価格（主要通貨単位）。
	Price float64 `json:"price"`
}

// Review はレビューのレコードを表す。読み取り専用サーフェス。
type Review struct {
	// ID はストアが割り当てる一意識別子。
	ID string `json:"id"`
	// Name はレビュー投稿者の表示名。
	Name string `json:"name"`
	// Details はレビュー本文。
	Details string `json:"details"`
	// Rating は評価値。
	Rating float64 `json:"rating"`
}

// CartItem はカートのレコードを表す。emailが所有者キーとなる。
type CartItem struct {
	// ID はストアが割り当てる一意識別子。
	ID string `json:"id"`
	// Email は所有者のメールアドレス。
	Email string `json:"email"`
	// MenuItemID は参照先メニューのID。
	MenuItemID string `json:"menu_item_id"`
	// Name は参照先メニューの料理名。
	Name string `json:"name"`
	// Image は参照先メニューの画像URL。
	Image string `json:"image"`
	// Price は参照先メニューの価格。
	Price float64 `json:"price"`
}

// Store はドキュメントストアへのアクセスを提供する。
// プロセス起動時に1つ構築し、各ハンドラへ依存として注入する。
// *sql.DBのコネクションプールを共有するため並行リクエストから安全に使用できる。
type Store struct {
	db *sql.DB
}

// Open は指定パスのSQLiteデータベースを開き、マイグレーションを適用したStoreを返す。
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("データベース接続に失敗: %w", err)
	}
	return NewStore(db)
}

// NewStore は既存のデータベース接続からStoreを構築する。
// マイグレーションを適用してから返す。
func NewStore(db *sql.DB) (*Store, error) {
	if err := migration.Run(db, migrationsFS, "migrations"); err != nil {
		return nil, fmt.Errorf("マイグレーションの適用に失敗: %w", err)
	}
	return &Store{db: db}, nil
}

// Close はデータベース接続を解放する。
func (s *Store) Close() error {
	return s.db.Close()
}

// GetUserByEmail はメールアドレスの完全一致でアカウントを取得する。
// 存在しない場合はsql.ErrNoRowsを返す。
func (s *Store) GetUserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, email, role FROM users WHERE email = ?", email,
	).Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	return u, err
}

// IsAdmin はメールアドレスに紐づくアカウントが管理者ロールを持つか判定する。
// アカウントが存在しない場合は管理者ではないと判定する。
// middleware.RoleCheckerを実装する。
func (s *Store) IsAdmin(ctx context.Context, email string) (bool, error) {
	var role string
	err := s.db.QueryRowContext(ctx,
		"SELECT role FROM users WHERE email = ?", email,
	).Scan(&role)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return role == RoleAdmin, nil
}

// ListUsers は全アカウントを取得する。
func (s *Store) ListUsers(ctx context.Context) ([]User, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, email, role FROM users")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	users := make([]User, 0)
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Role); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CreateUser はアカウントを挿入する。
func (s *Store) CreateUser(ctx context.Context, u User) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO users (id, name, email, role) VALUES (?, ?, ?, ?)",
		u.ID, u.Name, u.Email, u.Role,
	)
	return err
}

// PromoteUserToAdmin は指定されたIDのアカウントのロールをadminに更新する。
// 更新された行数を返す。存在しないIDの場合は0を返しエラーにはしない。
func (s *Store) PromoteUserToAdmin(ctx context.Context, id string) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET role = ? WHERE id = ?", RoleAdmin, id,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// DeleteUser は指定されたIDのアカウントを削除する。
// 削除された行数を返す。存在しないIDの場合は0を返しエラーにはしない。
func (s *Store) DeleteUser(ctx context.Context, id string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListMenu は全メニューを取得する。
func (s *Store) ListMenu(ctx context.Context) ([]MenuItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, recipe, image, category, price FROM menu")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := make([]MenuItem, 0)
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.Recipe, &m.Image, &m.Category, &m.Price); err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}

// GetMenuItemByID は指定されたIDのメニューを取得する。
// 存在しない場合はsql.ErrNoRowsを返す。
func (s *Store) GetMenuItemByID(ctx context.Context, id string) (MenuItem, error) {
	var m MenuItem
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, recipe, image, category, price FROM menu WHERE id = ?", id,
	).Scan(&m.ID, &m.Name, &m.Recipe, &m.Image, &m.Category, &m.Price)
	return m, err
}

// CreateMenuItem はメニューを挿入する。
func (s *Store) CreateMenuItem(ctx context.Context, m MenuItem) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO menu (id, name, recipe, image, category, price) VALUES (?, ?, ?, ?, ?, ?)",
		m.ID, m.Name, m.Recipe, m.Image, m.Category, m.Price,
	)
	return err
}

// UpsertMenuItem はIDをキーにメニューを更新し、存在しない場合は挿入する。
// 固定のフィールドセットを無条件に上書きする（部分マージは行わない）。
func (s *Store) UpsertMenuItem(ctx context.Context, m MenuItem) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO menu (id, name, recipe, image, category, price)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			recipe = excluded.recipe,
			image = excluded.image,
			category = excluded.category,
			price = excluded.price
	`, m.ID, m.Name, m.Recipe, m.Image, m.Category, m.Price)
	return err
}

// DeleteMenuItem は指定されたIDのメニューを削除する。
// 削除された行数を返す。存在しないIDの場合は0を返しエラーにはしない。
func (s *Store) DeleteMenuItem(ctx context.Context, id string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM menu WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ListReviews は全レビューを取得する。
func (s *Store) ListReviews(ctx context.Context) ([]Review, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, details, rating FROM reviews")
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	reviews := make([]Review, 0)
	for rows.Next() {
		var r Review
		if err := rows.Scan(&r.ID, &r.Name, &r.Details, &r.Rating); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// CreateReview はレビューを挿入する。
// HTTPサーフェスは読み取り専用のため、データ投入用に使用する。
func (s *Store) CreateReview(ctx context.Context, r Review) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO reviews (id, name, details, rating) VALUES (?, ?, ?, ?)",
		r.ID, r.Name, r.Details, r.Rating,
	)
	return err
}

// ListCartsByEmail は所有者のメールアドレスに一致するカートのみを取得する。
func (s *Store) ListCartsByEmail(ctx context.Context, email string) ([]CartItem, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, menu_item_id, name, image, price FROM carts WHERE email = ?", email)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	items := make([]CartItem, 0)
	for rows.Next() {
		var c CartItem
		if err := rows.Scan(&c.ID, &c.Email, &c.MenuItemID, &c.Name, &c.Image, &c.Price); err != nil {
			return nil, err
		}
		items = append(items, c)
	}
	return items, rows.Err()
}

// CreateCartItem はカートを挿入する。
func (s *Store) CreateCartItem(ctx context.Context, c CartItem) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO carts (id, email, menu_item_id, name, image, price) VALUES (?, ?, ?, ?, ?, ?)",
		c.ID, c.Email, c.MenuItemID, c.Name, c.Image, c.Price,
	)
	return err
}

// DeleteCartItem は指定されたIDのカートを削除する。
// 削除された行数を返す。存在しないIDの場合は0を返しエラーにはしない。
func (s *Store) DeleteCartItem(ctx context.Context, id string) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM carts WHERE id = ?", id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
