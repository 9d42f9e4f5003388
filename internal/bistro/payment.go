package bistro

import (
	"fmt"
	"log"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
)

// createPaymentIntentRequest はPayment Intent作成リクエストのJSON構造。
type createPaymentIntentRequest struct {
	// Price は決済金額（主要通貨単位）。
	Price float64 `json:"price" binding:"required"`
}

// paymentCurrency は決済に使用する通貨。
const paymentCurrency = "usd"

// handleCreatePaymentIntent はPayment Intent作成を処理するハンドラを返す。認証必須。
// 価格を最小通貨単位（100倍）に変換してプロバイダへ委譲し、
// クライアントシークレットをそのまま返す。金額の上下限チェックは行わない。
func (s *Server) handleCreatePaymentIntent() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createPaymentIntentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": true, "message": fmt.Sprintf("Invalid request body: %v", err)})
			return
		}

		amount := int64(math.Round(req.Price * 100))
		clientSecret, err := s.paymentClient.CreateIntent(c.Request.Context(), amount, paymentCurrency)
		if err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"error": true, "message": "Failed to create payment intent"})
			log.Printf("Payment Intent作成エラー: %v", err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"clientSecret": clientSecret})
	}
}
