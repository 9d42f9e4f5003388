// Package middleware はGinベースのHTTP APIで使用する共通ミドルウェアを提供する。
//
// JWTトークンの発行・検証、管理者ロールによる認可ゲート、
// パニックリカバリ、CORS設定を含む。認証・認可で保護されたルートは
// JWTAuth → RequireAdmin の順にミドルウェアを通過する。
package middleware
