// Package bistro はレストラン注文バックエンドの内部実装を提供する。
//
// JWTの発行、ユーザー・メニュー・レビュー・カートのCRUD、
// 決済プロバイダへのPayment Intent作成を1つのHTTPサービスとして公開する。
// 保護されたルートは認証ゲート（JWT検証）と認可ゲート（管理者ロール確認）を
// 通過してからハンドラに到達する。
package bistro
