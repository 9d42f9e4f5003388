package bistro

import (
	"context"
	"net/http"
	"testing"
)

// TestListUsers はユーザー一覧エンドポイントのゲートと動作を検証する。
func TestListUsers(t *testing.T) {
	t.Parallel()

	t.Run("トークン無しで401が返ること", func(t *testing.T) {
		t.Parallel()

		_, router := setupTestServer(t)

		w := doRequest(router, http.MethodGet, "/users", "", nil)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("非管理者のトークンで403が返ること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		createTestUser(t, s, "member@example.com", RoleMember)

		w := doRequest(router, http.MethodGet, "/users", issueTestToken(t, "member@example.com"), nil)

		if w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
		body := parseJSON(t, w)
		if body["message"] != "Forbidden access" {
			t.Errorf("message = %q, want %q", body["message"], "Forbidden access")
		}
	})

	t.Run("アカウントが存在しないトークンで403が返ること", func(t *testing.T) {
		t.Parallel()

		_, router := setupTestServer(t)

		w := doRequest(router, http.MethodGet, "/users", issueTestToken(t, "ghost@example.com"), nil)

		if w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("管理者のトークンで全ユーザーが返ること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		createTestUser(t, s, "admin@example.com", RoleAdmin)
		createTestUser(t, s, "member@example.com", RoleMember)

		w := doRequest(router, http.MethodGet, "/users", issueTestToken(t, "admin@example.com"), nil)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		users := parseJSONArray(t, w)
		if len(users) != 2 {
			t.Errorf("ユーザー数 = %d, want 2", len(users))
		}
	})
}

// TestCreateUser はユーザー登録エンドポイントを検証する。
func TestCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("新規メールアドレスで登録できロールがmemberになること", func(t *testing.T) {
		t.Parallel()

		_, router := setupTestServer(t)

		w := doRequest(router, http.MethodPost, "/users", "", map[string]any{
			"name":  "新規ユーザー",
			"email": "new@example.com",
		})

		if w.Code != http.StatusCreated {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusCreated)
		}
		body := parseJSON(t, w)
		if body["email"] != "new@example.com" {
			t.Errorf("email = %v, want %q", body["email"], "new@example.com")
		}
		if body["role"] != RoleMember {
			t.Errorf("role = %v, want %q", body["role"], RoleMember)
		}
		if id, ok := body["id"].(string); !ok || id == "" {
			t.Errorf("id = %v, want 空でない文字列", body["id"])
		}
	})

	t.Run("同じメールアドレスで2回登録すると2回目はUser already existsが返ること", func(t *testing.T) {
		t.Parallel()

		_, router := setupTestServer(t)
		payload := map[string]any{"name": "重複ユーザー", "email": "a@x.com"}

		w1 := doRequest(router, http.MethodPost, "/users", "", payload)
		if w1.Code != http.StatusCreated {
			t.Fatalf("1回目のステータスコード = %d, want %d", w1.Code, http.StatusCreated)
		}

		w2 := doRequest(router, http.MethodPost, "/users", "", payload)
		if w2.Code != http.StatusOK {
			t.Fatalf("2回目のステータスコード = %d, want %d", w2.Code, http.StatusOK)
		}
		body := parseJSON(t, w2)
		if body["message"] != "User already exists" {
			t.Errorf("message = %q, want %q", body["message"], "User already exists")
		}
	})

	t.Run("メールアドレスは大文字小文字を区別して照合されること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		createTestUser(t, s, "case@example.com", RoleMember)

		w := doRequest(router, http.MethodPost, "/users", "", map[string]any{
			"email": "Case@example.com",
		})

		if w.Code != http.StatusCreated {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusCreated)
		}
	})

	t.Run("メールアドレスが無いリクエストで400が返ること", func(t *testing.T) {
		t.Parallel()

		_, router := setupTestServer(t)

		w := doRequest(router, http.MethodPost, "/users", "", map[string]any{"name": "名無し"})

		if w.Code != http.StatusBadRequest {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusBadRequest)
		}
	})
}

// TestCheckAdmin は管理者判定エンドポイントを検証する。
func TestCheckAdmin(t *testing.T) {
	t.Parallel()

	t.Run("管理者が自身のメールアドレスを照会するとadmin trueが返ること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		createTestUser(t, s, "admin@example.com", RoleAdmin)

		w := doRequest(router, http.MethodGet, "/users/admin/admin@example.com", issueTestToken(t, "admin@example.com"), nil)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		body := parseJSON(t, w)
		if body["admin"] != true {
			t.Errorf("admin = %v, want true", body["admin"])
		}
	})

	t.Run("トークンと異なるメールアドレスを照会するとadmin falseが返ること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		createTestUser(t, s, "admin@example.com", RoleAdmin)
		createTestUser(t, s, "other@example.com", RoleAdmin)

		w := doRequest(router, http.MethodGet, "/users/admin/other@example.com", issueTestToken(t, "admin@example.com"), nil)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		body := parseJSON(t, w)
		if body["admin"] != false {
			t.Errorf("admin = %v, want false", body["admin"])
		}
	})

	t.Run("非管理者のトークンで403が返ること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		createTestUser(t, s, "member@example.com", RoleMember)

		w := doRequest(router, http.MethodGet, "/users/admin/member@example.com", issueTestToken(t, "member@example.com"), nil)

		if w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("トークン無しで401が返ること", func(t *testing.T) {
		t.Parallel()

		_, router := setupTestServer(t)

		w := doRequest(router, http.MethodGet, "/users/admin/any@example.com", "", nil)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

// TestPromoteUser は管理者昇格エンドポイントを検証する。
// この操作は認証ゲートと認可ゲートの両方で保護される。
func TestPromoteUser(t *testing.T) {
	t.Parallel()

	t.Run("トークン無しで401が返り昇格が行われないこと", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		id := createTestUser(t, s, "target@example.com", RoleMember)

		w := doRequest(router, http.MethodPatch, "/users/admin/"+id, "", nil)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusUnauthorized)
		}

		target, err := s.store.GetUserByEmail(context.Background(), "target@example.com")
		if err != nil {
			t.Fatalf("ユーザー取得に失敗: %v", err)
		}
		if target.Role != RoleMember {
			t.Errorf("role = %q, want %q（昇格されてはいけない）", target.Role, RoleMember)
		}
	})

	t.Run("非管理者のトークンで403が返ること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		createTestUser(t, s, "member@example.com", RoleMember)
		id := createTestUser(t, s, "target@example.com", RoleMember)

		w := doRequest(router, http.MethodPatch, "/users/admin/"+id, issueTestToken(t, "member@example.com"), nil)

		if w.Code != http.StatusForbidden {
			t.Errorf("ステータスコード = %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("管理者のトークンで対象ユーザーが管理者に昇格すること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		createTestUser(t, s, "admin@example.com", RoleAdmin)
		id := createTestUser(t, s, "target@example.com", RoleMember)

		w := doRequest(router, http.MethodPatch, "/users/admin/"+id, issueTestToken(t, "admin@example.com"), nil)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		body := parseJSON(t, w)
		if body["modified_count"] != float64(1) {
			t.Errorf("modified_count = %v, want 1", body["modified_count"])
		}

		target, err := s.store.GetUserByEmail(context.Background(), "target@example.com")
		if err != nil {
			t.Fatalf("ユーザー取得に失敗: %v", err)
		}
		if target.Role != RoleAdmin {
			t.Errorf("role = %q, want %q", target.Role, RoleAdmin)
		}
	})

	t.Run("存在しないIDでmodified_count 0の成功が返ること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		createTestUser(t, s, "admin@example.com", RoleAdmin)

		w := doRequest(router, http.MethodPatch, "/users/admin/no-such-id", issueTestToken(t, "admin@example.com"), nil)

		if w.Code != http.StatusOK {
			t.Fatalf("ステータスコード = %d, want %d", w.Code, http.StatusOK)
		}
		body := parseJSON(t, w)
		if body["modified_count"] != float64(0) {
			t.Errorf("modified_count = %v, want 0", body["modified_count"])
		}
	})
}

// TestDeleteUser はユーザー削除エンドポイントを検証する。
func TestDeleteUser(t *testing.T) {
	t.Parallel()

	t.Run("同じIDを2回削除しても両方成功すること", func(t *testing.T) {
		t.Parallel()

		s, router := setupTestServer(t)
		id := createTestUser(t, s, "delete@example.com", RoleMember)

		w1 := doRequest(router, http.MethodDelete, "/users/"+id, "", nil)
		if w1.Code != http.StatusOK {
			t.Fatalf("1回目のステータスコード = %d, want %d", w1.Code, http.StatusOK)
		}
		if body := parseJSON(t, w1); body["deleted_count"] != float64(1) {
			t.Errorf("1回目のdeleted_count = %v, want 1", body["deleted_count"])
		}

		w2 := doRequest(router, http.MethodDelete, "/users/"+id, "", nil)
		if w2.Code != http.StatusOK {
			t.Fatalf("2回目のステータスコード = %d, want %d", w2.Code, http.StatusOK)
		}
		if body := parseJSON(t, w2); body["deleted_count"] != float64(0) {
			t.Errorf("2回目のdeleted_count = %v, want 0", body["deleted_count"])
		}
	})
}
