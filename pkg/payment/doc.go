// Package payment は外部決済プロバイダとの通信を行うクライアントを提供する。
//
// Payment Intentの作成のみを扱い、プロバイダが返すクライアントシークレットを
// そのままフロントエンドへ引き渡す。金額は最小通貨単位で受け取る。
package payment
