package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"farmstore/internal/models"
	"farmstore/internal/payment"
	"farmstore/internal/service"
	"farmstore/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handler contains HTTP handlers
type Handler struct {
	catalog   *service.CatalogService
	cart      *service.CartService
	orders    *service.OrderService
	payments  *service.PaymentService
	contacts  *service.ContactService
	paymo     *payment.Paymo
	paymaster *payment.Paymaster
	ckassa    *payment.Ckassa
	baseURL   string
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	catalog *service.CatalogService,
	cart *service.CartService,
	orders *service.OrderService,
	payments *service.PaymentService,
	contacts *service.ContactService,
	paymo *payment.Paymo,
	paymaster *payment.Paymaster,
	ckassa *payment.Ckassa,
	baseURL string,
) *Handler {
	return &Handler{
		catalog:   catalog,
		cart:      cart,
		orders:    orders,
		payments:  payments,
		contacts:  contacts,
		paymo:     paymo,
		paymaster: paymaster,
		ckassa:    ckassa,
		baseURL:   baseURL,
		logger:    util.GetLogger(),
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	{
		api.GET("/catalog", h.catalogFeed)

		products := api.Group("/products")
		{
			products.GET("", h.listProducts)
			products.GET("/categories", h.listCategories)
			products.GET("/random", h.randomProducts)
			products.GET("/similar", h.similarProducts)
			products.GET("/:id", h.getProduct)
		}

		cart := api.Group("/cart", SessionMiddleware())
		{
			cart.GET("", h.getCart)
			cart.GET("/count", h.cartCount)
			cart.POST("/add", h.addToCart)
			cart.POST("/update", h.updateCartItem)
			cart.POST("/remove", h.removeFromCart)
			cart.POST("/clear", h.clearCart)
		}

		orders := api.Group("/orders", SessionMiddleware())
		{
			orders.POST("", h.createOrder)
			orders.GET("", h.myOrders)
			orders.GET("/:orderNumber", h.getOrder)
		}

		api.POST("/contact", h.submitContact)

		pay := api.Group("/payment")
		{
			pay.POST("/paymo/webhook", h.webhook(h.paymo))
			pay.POST("/paymaster/webhook", h.webhook(h.paymaster))
			pay.POST("/ckassa/webhook", h.webhook(h.ckassa))
			pay.GET("/paymo/form", h.paymoForm)
			pay.GET("/status/:orderNumber", h.paymentStatus)
		}
	}
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "time": time.Now().Unix()})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready", "time": time.Now().Unix()})
}

// catalogFeed serves the plain JSON product feed: id, name and price
// in rubles with two decimals.
func (h *Handler) catalogFeed(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context(), "", "")
	if err != nil {
		h.logger.Error("Catalog feed failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	type feedEntry struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Price string `json:"price"`
	}
	feed := make([]feedEntry, 0, len(products))
	for _, p := range products {
		feed = append(feed, feedEntry{
			ID:    p.ID,
			Name:  p.Title,
			Price: fmt.Sprintf("%d.%02d", p.Price/100, p.Price%100),
		})
	}
	c.JSON(http.StatusOK, feed)
}

func (h *Handler) listProducts(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context(), c.Query("category"), c.Query("sortBy"))
	if err != nil {
		h.logger.Error("Product list failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) listCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *Handler) randomProducts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "9"))
	products, err := h.catalog.Random(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) similarProducts(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Query("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid productId"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "4"))
	products, err := h.catalog.Similar(c.Request.Context(), productID, c.Query("category"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) getProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}
	product, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) getCart(c *gin.Context) {
	rows, err := h.cart.Get(c.Request.Context(), SessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if rows == nil {
		rows = []models.CartRow{}
	}
	c.JSON(http.StatusOK, rows)
}

func (h *Handler) cartCount(c *gin.Context) {
	count, err := h.cart.Count(c.Request.Context(), SessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

type cartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

func (h *Handler) addToCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if err := h.cart.Add(c.Request.Context(), SessionID(c), req.ProductID, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) updateCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.cart.Update(c.Request.Context(), SessionID(c), req.ProductID, req.Quantity); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) removeFromCart(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := h.cart.Remove(c.Request.Context(), SessionID(c), req.ProductID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *Handler) clearCart(c *gin.Context) {
	if err := h.cart.Clear(c.Request.Context(), SessionID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// createOrder handles checkout. Validation and empty-cart problems
// surface as user-facing messages; storage failures surface as a
// generic retry-later message with no partial order left behind.
func (h *Handler) createOrder(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	resp, err := h.orders.Create(c.Request.Context(), SessionID(c), &req)
	switch {
	case errors.Is(err, service.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCheckoutBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "Checkout already in progress"})
	case err != nil:
		h.logger.Error("Order creation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order, please retry"})
	default:
		c.JSON(http.StatusCreated, resp)
	}
}

func (h *Handler) getOrder(c *gin.Context) {
	order, items, err := h.orders.GetByNumber(c.Request.Context(), c.Param("orderNumber"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order, "items": items})
}

func (h *Handler) myOrders(c *gin.Context) {
	orders, err := h.orders.ListBySession(c.Request.Context(), SessionID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

type contactRequestBody struct {
	Name   string `json:"name" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
	Phone  string `json:"phone" binding:"required"`
	Source string `json:"source"`
}

func (h *Handler) submitContact(c *gin.Context) {
	var req contactRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}
	contact := &models.ContactRequest{
		Name:   req.Name,
		Email:  req.Email,
		Phone:  req.Phone,
		Source: req.Source,
	}
	if err := h.contacts.Submit(c.Request.Context(), contact); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
