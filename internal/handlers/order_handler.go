package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/middleware"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/internal/services"
	"github.com/smartcafe/cafeteria-portal/pkg/session"
)

const (
	orderPath   = "/student/order"
	confirmPath = "/student/confirm"
	paymentPath = "/student/payment"
	receiptPath = "/student/receipt"
)

// Checkout is the student ordering flow
type Checkout interface {
	OrderPage(ctx context.Context) *services.OrderPage
	Confirm(ctx context.Context, itemIDs []int) (*session.Cart, []models.Item, error)
	CartItems(ctx context.Context, cart *session.Cart) []models.Item
	PaymentMethods(ctx context.Context) []models.PaymentMethod
	Pay(ctx context.Context, regNo string, cart *session.Cart, methodID string) (*session.Receipt, error)
}

// OrderHandler walks a student from the menu to a paid receipt
type OrderHandler struct {
	pages    *Pages
	checkout Checkout
	logger   *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(pages *Pages, checkout Checkout, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		pages:    pages,
		checkout: checkout,
		logger:   logger,
	}
}

// OrderPage handles GET /student/order
func (h *OrderHandler) OrderPage(c *gin.Context) {
	page := h.checkout.OrderPage(c.Request.Context())
	h.pages.render(c, http.StatusOK, "student_order.html", "Place an Order", gin.H{
		"Items":        page.Items,
		"RecentOrders": page.RecentOrders,
	})
}

// Confirm handles POST /student/confirm
func (h *OrderHandler) Confirm(c *gin.Context) {
	var req models.ConfirmOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, services.ErrEmptyCart, "", orderPath)
		return
	}

	cart, _, err := h.checkout.Confirm(c.Request.Context(), req.ItemIDs)
	if err != nil {
		h.pages.failure(c, err, "Could not price your order. Please try again.", orderPath)
		return
	}

	sess := middleware.GetSession(c)
	sess.Cart = cart
	sess.Receipt = nil
	h.pages.redirect(c, confirmPath)
}

// ConfirmPage handles GET /student/confirm
func (h *OrderHandler) ConfirmPage(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess.Cart.Empty() {
		h.pages.failure(c, services.ErrEmptyCart, "", orderPath)
		return
	}
	h.pages.render(c, http.StatusOK, "student_confirm.html", "Confirm Order", gin.H{
		"Cart":  sess.Cart,
		"Items": h.checkout.CartItems(c.Request.Context(), sess.Cart),
	})
}

// PaymentPage handles GET /student/payment
func (h *OrderHandler) PaymentPage(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess.Cart.Empty() {
		h.pages.failure(c, services.ErrEmptyCart, "", orderPath)
		return
	}
	h.pages.render(c, http.StatusOK, "student_payment.html", "Payment", gin.H{
		"Cart":    sess.Cart,
		"Methods": h.checkout.PaymentMethods(c.Request.Context()),
	})
}

// Pay handles POST /student/payment
func (h *OrderHandler) Pay(c *gin.Context) {
	sess := middleware.GetSession(c)

	var req models.PaymentRequest
	if err := c.ShouldBind(&req); err != nil {
		h.pages.failure(c, services.ErrPaymentMethodRequired, "", paymentPath)
		return
	}

	receipt, err := h.checkout.Pay(c.Request.Context(), sess.Student.RegNo, sess.Cart, req.MethodID)
	if err != nil {
		location := paymentPath
		if sess.Cart.Empty() {
			location = orderPath
		}
		h.pages.failure(c, err, "Payment failed. Please try again.", location)
		return
	}

	sess.Cart = nil
	sess.Receipt = receipt
	h.logger.WithFields(logrus.Fields{
		"order_id":   receipt.OrderID,
		"payment_id": receipt.PaymentID,
		"reg_no":     sess.Student.RegNo,
	}).Info("Order paid")
	h.pages.success(c, "Payment successful!", receiptPath)
}

// ReceiptPage handles GET /student/receipt
func (h *OrderHandler) ReceiptPage(c *gin.Context) {
	sess := middleware.GetSession(c)
	if sess.Receipt == nil {
		c.Redirect(http.StatusFound, orderPath)
		return
	}
	site := h.pages.Site()
	h.pages.render(c, http.StatusOK, "student_receipt.html", "Receipt", gin.H{
		"Receipt": sess.Receipt,
		"Refresh": Refresh{Seconds: site.ReceiptRedirectSeconds, URL: orderPath},
	})
}
