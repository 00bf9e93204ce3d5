package handler

import (
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/set-night/cryptoshop/internal/config"
	"github.com/set-night/cryptoshop/internal/cryptomus"
	"github.com/set-night/cryptoshop/internal/middleware"
	"github.com/set-night/cryptoshop/internal/service"
)

// Handler owns the HTTP surface: storefront API, webhook receiver, and the
// simulation payment page.
type Handler struct {
	payments *service.PaymentService
	webhooks *service.WebhookProcessor
	catalog  *service.Catalog
	sim      *cryptomus.Simulator
	cfg      *config.Config
}

type Deps struct {
	Payments *service.PaymentService
	Webhooks *service.WebhookProcessor
	Catalog  *service.Catalog
	// Sim is set only in simulation mode; it enables the local payment page.
	Sim *cryptomus.Simulator
	Cfg *config.Config
}

func New(deps Deps) *Handler {
	return &Handler{
		payments: deps.Payments,
		webhooks: deps.Webhooks,
		catalog:  deps.Catalog,
		sim:      deps.Sim,
		cfg:      deps.Cfg,
	}
}

// Router builds the gin engine with all routes registered.
func (h *Handler) Router() *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recover(), middleware.Logging())
	router.SetHTMLTemplate(template.Must(template.New("simulate.html").Parse(simulatePageHTML)))

	api := router.Group("/api")
	{
		api.GET("/products", h.handleProducts)
		api.POST("/cryptomus/create-payment", h.handleCreatePayment)
		api.GET("/cryptomus/payment-status", h.handlePaymentStatus)
		api.POST("/cryptomus/webhook", h.handleWebhook)
		api.POST("/cryptomus/resend", h.handleResendWebhook)
	}

	if h.sim != nil {
		router.GET("/simulate/payment/:uuid", h.handleSimulatePage)
		router.POST("/simulate/payment/:uuid", h.handleSimulateMark)
	}

	return router
}
