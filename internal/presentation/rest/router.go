package rest

import (
	authapp "storefront-server/internal/application/auth"
	historyapp "storefront-server/internal/application/history"
	paymentapp "storefront-server/internal/application/payment"
	"storefront-server/internal/infrastructure/config"
	otelinfra "storefront-server/internal/infrastructure/observability/otel"
	"storefront-server/internal/presentation/rest/handler"
	restmiddleware "storefront-server/internal/presentation/rest/middleware"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Router REST APIルーター
type Router struct {
	echo           *echo.Echo
	paymentHandler *handler.PaymentHandler
	historyHandler *handler.HistoryHandler
	authHandler    *handler.AuthHandler
}

// NewRouter 新しいRouterを作成
func NewRouter(
	cfg *config.Config,
	logger *otelinfra.Logger,
	metrics *otelinfra.Metrics,
	authService *authapp.AuthApplicationService,
	paymentService *paymentapp.PaymentApplicationService,
	historyService *historyapp.HistoryApplicationService,
) (*Router, error) {
	e := echo.New()

	// Echoのデフォルトエラーハンドラーを無効化（カスタムエラーハンドラーを使用）
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		// エラーハンドリングミドルウェアで処理される
	}

	// ミドルウェアの設定
	setupMiddleware(e, cfg, logger, metrics)

	// ハンドラーの作成
	paymentHandler := handler.NewPaymentHandler(paymentService)
	historyHandler := handler.NewHistoryHandler(historyService)
	authHandler := handler.NewAuthHandler(authService)

	// ルーティングの設定
	setupRoutes(e, cfg, logger, paymentHandler, historyHandler, authHandler)

	// Swagger UI / ReDoc統合
	SetupSwagger(e)

	return &Router{
		echo:           e,
		paymentHandler: paymentHandler,
		historyHandler: historyHandler,
		authHandler:    authHandler,
	}, nil
}

// setupMiddleware ミドルウェアを設定
func setupMiddleware(e *echo.Echo, cfg *config.Config, logger *otelinfra.Logger, metrics *otelinfra.Metrics) {
	// リカバリーミドルウェア
	e.Use(middleware.Recover())

	// CORS設定
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"}, // 本番環境では適切に設定
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// リクエストIDの設定
	e.Use(middleware.RequestID())

	// トレーシングミドルウェア
	e.Use(restmiddleware.TracingMiddleware())

	// ログミドルウェア
	e.Use(restmiddleware.LoggingMiddleware(logger))

	// メトリクスミドルウェア
	e.Use(restmiddleware.MetricsMiddleware(metrics))

	// セキュリティヘッダーミドルウェア
	e.Use(restmiddleware.SecurityHeadersMiddleware())

	// エラーハンドリングミドルウェア
	e.Use(restmiddleware.ErrorHandlerMiddleware(logger))
}

// setupRoutes ルーティングを設定
func setupRoutes(
	e *echo.Echo,
	cfg *config.Config,
	logger *otelinfra.Logger,
	paymentHandler *handler.PaymentHandler,
	historyHandler *handler.HistoryHandler,
	authHandler *handler.AuthHandler,
) {
	// API v1グループ
	api := e.Group("/api/v1")

	// 認証トークン発行エンドポイント（認証不要）
	api.POST("/auth/token", authHandler.GenerateToken)

	// 認証が必要なエンドポイント
	authGroup := api.Group("", restmiddleware.AuthMiddleware(&cfg.JWT, logger))

	// 決済関連エンドポイント
	authGroup.POST("/payment/create", paymentHandler.CreatePayment)
	authGroup.POST("/payment/stripe/create-intent", paymentHandler.CreateIntent)
	authGroup.POST("/payment/stripe/confirm", paymentHandler.ConfirmPayment)
	authGroup.POST("/payment/stripe/create-payment-method", paymentHandler.CreatePaymentMethod)
	authGroup.GET("/payment/methods", paymentHandler.ListPaymentMethods)
	authGroup.GET("/payment/status/:transaction_id", paymentHandler.GetPaymentStatus)

	// 管理者用エンドポイント（APIキー認証）
	adminGroup := api.Group("", restmiddleware.APIKeyMiddleware(&cfg.AdminAPI, logger))
	adminGroup.POST("/payment/refund", paymentHandler.ProcessRefund)
	adminGroup.GET("/orders/:order_id/transactions", historyHandler.GetOrderTransactions)

	// ヘルスチェックエンドポイント（認証不要）
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
}

// Start サーバーを起動
func (r *Router) Start(address string) error {
	return r.echo.Start(address)
}

// Shutdown サーバーをシャットダウン
func (r *Router) Shutdown() error {
	return r.echo.Close()
}
