package services

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/smartcafe/cafeteria-portal/internal/database"
	"github.com/smartcafe/cafeteria-portal/internal/models"
	"github.com/smartcafe/cafeteria-portal/pkg/session"
)

// RecentOrderLimit is how many orders the order and dashboard pages show
const RecentOrderLimit = 5

// OrderPage is what a student sees when choosing items
type OrderPage struct {
	Items        []models.Item
	RecentOrders []models.OrderSummary
}

// CheckoutService prices selections and records paid orders
type CheckoutService struct {
	itemRepo  *database.ItemRepository
	orderRepo *database.OrderRepository
	logger    *logrus.Logger
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(itemRepo *database.ItemRepository, orderRepo *database.OrderRepository, logger *logrus.Logger) *CheckoutService {
	return &CheckoutService{
		itemRepo:  itemRepo,
		orderRepo: orderRepo,
		logger:    logger,
	}
}

// OrderPage loads the menu and the latest orders
func (s *CheckoutService) OrderPage(ctx context.Context) *OrderPage {
	page := &OrderPage{
		Items:        []models.Item{},
		RecentOrders: []models.OrderSummary{},
	}

	if items, err := s.itemRepo.List(ctx, ""); err != nil {
		s.logger.WithError(err).Error("Failed to load menu")
	} else if items != nil {
		page.Items = items
	}

	if orders, err := s.orderRepo.ListRecent(ctx, RecentOrderLimit); err != nil {
		s.logger.WithError(err).Error("Failed to load recent orders")
	} else if orders != nil {
		page.RecentOrders = orders
	}

	return page
}

// Confirm prices a selection from the current catalogue. Duplicate IDs count once.
func (s *CheckoutService) Confirm(ctx context.Context, itemIDs []int) (*session.Cart, []models.Item, error) {
	ids := distinct(itemIDs)
	if len(ids) == 0 {
		return nil, nil, ErrEmptyCart
	}

	items, err := s.itemRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	if len(items) != len(ids) {
		return nil, nil, validationError("Some selected items are no longer on the menu.")
	}

	var total float64
	for _, item := range items {
		if !item.Availability {
			return nil, nil, validationError("%s is currently unavailable.", item.Name)
		}
		total += item.Price
	}

	return &session.Cart{ItemIDs: ids, Total: roundMoney(total)}, items, nil
}

// CartItems loads the items of a confirmed cart for redisplay
func (s *CheckoutService) CartItems(ctx context.Context, cart *session.Cart) []models.Item {
	if cart.Empty() {
		return []models.Item{}
	}
	items, err := s.itemRepo.GetByIDs(ctx, cart.ItemIDs)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load cart items")
		return []models.Item{}
	}
	return items
}

// PaymentMethods lists the accepted payment methods
func (s *CheckoutService) PaymentMethods(ctx context.Context) []models.PaymentMethod {
	methods, err := s.orderRepo.ListPaymentMethods(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list payment methods")
		return []models.PaymentMethod{}
	}
	return methods
}

// Pay records the order, its payment and its lines for the cart total.
// methodID is the raw form value.
func (s *CheckoutService) Pay(ctx context.Context, regNo string, cart *session.Cart, methodID string) (*session.Receipt, error) {
	if cart.Empty() {
		return nil, ErrEmptyCart
	}

	methodID = strings.TrimSpace(methodID)
	if methodID == "" {
		return nil, ErrPaymentMethodRequired
	}
	id, err := strconv.Atoi(methodID)
	if err != nil || id <= 0 {
		return nil, ErrInvalidPaymentMethod
	}
	method, err := s.orderRepo.GetPaymentMethod(ctx, id)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, ErrInvalidPaymentMethod
	}

	placed, err := s.orderRepo.PlaceOrder(ctx, regNo, cart.Total, method.MethodID, cart.ItemIDs)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"reg_no": regNo,
			"items":  cart.ItemIDs,
		}).WithError(err).Error("Checkout failed")
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":   placed.OrderID,
		"payment_id": placed.PaymentID,
		"reg_no":     regNo,
		"total":      placed.Total,
		"method":     method.Method,
	}).Info("Order placed")

	return &session.Receipt{
		OrderID:   placed.OrderID,
		PaymentID: placed.PaymentID,
		PaidAt:    placed.PaidAt,
		Total:     placed.Total,
		Method:    method.Method,
	}, nil
}

// RecentOrders lists the latest orders for staff
func (s *CheckoutService) RecentOrders(ctx context.Context, limit int) []models.OrderSummary {
	orders, err := s.orderRepo.ListRecent(ctx, limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to list orders")
		return []models.OrderSummary{}
	}
	return orders
}

// OrderReceipt loads one order with its lines and payment. A missing order returns nil.
func (s *CheckoutService) OrderReceipt(ctx context.Context, orderID int) (*models.OrderReceipt, error) {
	order, err := s.orderRepo.GetSummary(ctx, orderID)
	if err != nil || order == nil {
		return nil, err
	}
	lines, err := s.orderRepo.ListLines(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payment, err := s.orderRepo.GetPayment(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return &models.OrderReceipt{Order: *order, Lines: lines, Payment: payment}, nil
}

func distinct(ids []int) []int {
	seen := make(map[int]struct{}, len(ids))
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

func roundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
