// レストラン注文バックエンドのエントリポイント。
// JWTの発行・検証、ロールベースの認可、ユーザー・メニュー・レビュー・カートの
// CRUD、決済プロバイダへのPayment Intent作成を1プロセスで担当する。
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/nao1215/bistro/internal/bistro"
)

func main() {
	// .envが存在すれば読み込む。本番環境では環境変数を直接設定する。
	_ = godotenv.Load()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}

	server, err := bistro.NewServer(port)
	if err != nil {
		log.Fatalf("Bistroサーバーの初期化に失敗: %v", err)
	}
	defer func() { _ = server.Close() }()

	log.Printf("Bistroサービスを起動します: :%s", port)
	if err := server.Run(); err != nil {
		log.Fatalf("Bistroサービスの起動に失敗: %v", err)
	}
}
