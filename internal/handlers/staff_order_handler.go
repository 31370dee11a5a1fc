package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/internal/services"
)

const (
	staffOrdersPath = "/staff/orders"
	staffOrderLimit = 50
)

// OrderBook reads placed orders for staff
type OrderBook interface {
	RecentOrders(ctx context.Context, limit int) []models.OrderSummary
	OrderReceipt(ctx context.Context, orderID int) (*models.OrderReceipt, error)
}

// StaffOrderHandler serves order processing and receipts
type StaffOrderHandler struct {
	pages  *Pages
	orders OrderBook
	logger *logrus.Logger
}

// NewStaffOrderHandler creates a new staff order handler
func NewStaffOrderHandler(pages *Pages, orders OrderBook, logger *logrus.Logger) *StaffOrderHandler {
	return &StaffOrderHandler{
		pages:  pages,
		orders: orders,
		logger: logger,
	}
}

// ListOrders handles GET /staff/orders
func (h *StaffOrderHandler) ListOrders(c *gin.Context) {
	h.pages.render(c, http.StatusOK, "orders.html", "Orders", gin.H{
		"Orders": h.orders.RecentOrders(c.Request.Context(), staffOrderLimit),
	})
}

// Receipt handles GET /staff/receipts/:id
func (h *StaffOrderHandler) Receipt(c *gin.Context) {
	orderID, ok := pathInt(c, "id")
	if !ok {
		h.pages.failure(c, &services.ValidationError{Message: "Invalid order."}, "", staffOrdersPath)
		return
	}

	receipt, err := h.orders.OrderReceipt(c.Request.Context(), orderID)
	if err != nil {
		h.pages.failure(c, err, "Failed to load the receipt.", staffOrdersPath)
		return
	}
	if receipt == nil {
		h.pages.failure(c, &services.ValidationError{Message: fmt.Sprintf("Order %d was not found.", orderID)}, "", staffOrdersPath)
		return
	}

	h.pages.render(c, http.StatusOK, "order_receipt.html", fmt.Sprintf("Receipt #%d", orderID), gin.H{
		"Receipt": receipt,
	})
}
