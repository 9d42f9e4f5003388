package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client は決済プロバイダのPayment Intent APIを呼び出すクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は決済プロバイダAPIのベースURL。
	baseURL string
	// apiKey はプロバイダのシークレットAPIキー。
	apiKey string
}

// New は新しい決済プロバイダクライアントを生成する。
// baseURLには決済プロバイダAPIのベースURL（例: "https://api.stripe.com"）を指定する。
func New(baseURL, apiKey string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// intentResponse はPayment Intent作成レスポンスのJSON構造。
type intentResponse struct {
	// ID はPayment Intentの識別子。
	ID string `json:"id"`
	// ClientSecret はフロントエンドが決済を完了させるためのシークレット。
	ClientSecret string `json:"client_secret"`
}

// CreateIntent はPayment Intentを作成し、クライアントシークレットを返す。
// amountは最小通貨単位（USDの場合はセント）で指定する。
// プロバイダのエラーは加工せずそのまま呼び出し元へ返す。
func (c *Client) CreateIntent(ctx context.Context, amount int64, currency string) (string, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amount, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの作成に失敗: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTPリクエストの送信に失敗: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("決済プロバイダエラー: status=%d, body=%s", resp.StatusCode, string(respBody))
	}

	var intent intentResponse
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return "", fmt.Errorf("レスポンスボディのデシリアライズに失敗: %w", err)
	}
	if intent.ClientSecret == "" {
		return "", fmt.Errorf("決済プロバイダがクライアントシークレットを返却しなかった")
	}
	return intent.ClientSecret, nil
}
