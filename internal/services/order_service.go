package services

import (
	"context"
	"errors"
	"log"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/Fazal135/simple-order-app/internal/models"
	"github.com/Fazal135/simple-order-app/internal/storage"
)

// CartLine is one client-submitted line. Any client-computed total is ignored.
type CartLine struct {
	Company  string
	Product  string
	Price    float64
	Quantity int
}

// PlaceOrderResult is returned once the order is durable.
type PlaceOrderResult struct {
	OrderID uuid.UUID
	Total   float64
	Items   []models.OrderItem
}

// OrderNotification is the summary handed to owner alert channels.
type OrderNotification struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	Items         []models.OrderItem
	Total         float64
}

// OrderAlerter is an extra owner channel notified after each order.
type OrderAlerter interface {
	NotifyNewOrder(ctx context.Context, order OrderNotification) error
}

// OrderService validates carts, commits orders and sends confirmations.
type OrderService struct {
	orders     storage.OrderStore
	mailer     Mailer
	ownerEmail string
	alerters   []OrderAlerter
}

// NewOrderService constructs an OrderService. ownerEmail may be empty, in
// which case the owner copy is skipped.
func NewOrderService(orders storage.OrderStore, mailer Mailer, ownerEmail string, alerters ...OrderAlerter) *OrderService {
	return &OrderService{
		orders:     orders,
		mailer:     mailer,
		ownerEmail: ownerEmail,
		alerters:   alerters,
	}
}

// PlaceOrder commits the cart as one order with its items, then notifies the
// customer and the owner. Notification failures are logged and never undo or
// fail a committed order.
func (s *OrderService) PlaceOrder(ctx context.Context, identity *Identity, cart []CartLine) (PlaceOrderResult, error) {
	if identity == nil || identity.CustomerID == uuid.Nil {
		return PlaceOrderResult{}, ErrUnauthenticated
	}
	if len(cart) == 0 {
		return PlaceOrderResult{}, invalidInput("Cart is empty")
	}

	items := make([]models.OrderItem, 0, len(cart))
	var total float64
	for i, line := range cart {
		if err := validateCartLine(i, line); err != nil {
			return PlaceOrderResult{}, err
		}
		lineTotal := roundCents(line.Price * float64(line.Quantity))
		if !isFinite(lineTotal) {
			return PlaceOrderResult{}, invalidInput("Invalid cart item %d: line total is out of range", i+1)
		}
		total += lineTotal
		if !isFinite(total) {
			return PlaceOrderResult{}, invalidInput("Order total is out of range")
		}
		items = append(items, models.OrderItem{
			Company:   strings.TrimSpace(line.Company),
			Product:   strings.TrimSpace(line.Product),
			Price:     line.Price,
			Quantity:  line.Quantity,
			LineTotal: lineTotal,
		})
	}

	order := &models.Order{
		CustomerID: identity.CustomerID,
		Total:      roundCents(total),
		Items:      items,
	}
	if err := s.orders.CreateOrder(ctx, order); err != nil {
		return PlaceOrderResult{}, &PersistenceError{Op: "create order", Err: err}
	}
	log.Printf("[Order] order %s placed by %s, total %s", order.ID, identity.Email, FormatPrice(order.Total))

	s.notify(ctx, *identity, order)

	return PlaceOrderResult{
		OrderID: order.ID,
		Total:   order.Total,
		Items:   order.Items,
	}, nil
}

// ListOrders returns one page of the customer's orders, newest first.
func (s *OrderService) ListOrders(ctx context.Context, identity *Identity, limit, offset int) ([]models.Order, int64, error) {
	if identity == nil || identity.CustomerID == uuid.Nil {
		return nil, 0, ErrUnauthenticated
	}
	orders, total, err := s.orders.ListOrders(ctx, identity.CustomerID, limit, offset)
	if err != nil {
		return nil, 0, &PersistenceError{Op: "list orders", Err: err}
	}
	return orders, total, nil
}

// GetOrder returns one of the customer's orders with its items.
func (s *OrderService) GetOrder(ctx context.Context, identity *Identity, orderID uuid.UUID) (models.Order, error) {
	if identity == nil || identity.CustomerID == uuid.Nil {
		return models.Order{}, ErrUnauthenticated
	}
	order, err := s.orders.GetOrder(ctx, identity.CustomerID, orderID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, &PersistenceError{Op: "get order", Err: err}
	}
	return order, nil
}

func (s *OrderService) notify(ctx context.Context, identity Identity, order *models.Order) {
	data := orderEmailData{
		OrderID:       order.ID.String(),
		CustomerName:  identity.Name,
		CustomerEmail: identity.Email,
		Total:         order.Total,
	}
	for _, item := range order.Items {
		data.Items = append(data.Items, orderEmailItem{
			Company:   item.Company,
			Product:   item.Product,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}

	customerMsg, ownerMsg, err := orderConfirmationEmails(data, s.ownerEmail)
	if err != nil {
		log.Printf("[Order] composing confirmation for order %s failed: %v", order.ID, err)
	} else {
		s.send(ctx, order.ID, customerMsg)
		if s.ownerEmail != "" {
			s.send(ctx, order.ID, ownerMsg)
		} else {
			log.Printf("[Order] SHOP_OWNER_EMAIL not set, owner copy of order %s skipped", order.ID)
		}
	}

	alert := OrderNotification{
		OrderID:       order.ID.String(),
		CustomerName:  identity.Name,
		CustomerEmail: identity.Email,
		Items:         order.Items,
		Total:         order.Total,
	}
	for _, alerter := range s.alerters {
		if err := alerter.NotifyNewOrder(ctx, alert); err != nil {
			log.Printf("[Order] owner alert for order %s failed: %v", order.ID, err)
		}
	}
}

func (s *OrderService) send(ctx context.Context, orderID uuid.UUID, msg Message) {
	if err := s.mailer.Send(ctx, msg); err != nil {
		notifyErr := &NotificationError{To: msg.To, Err: err}
		log.Printf("[Order] order %s committed but email failed: %v", orderID, notifyErr)
	}
}

func validateCartLine(index int, line CartLine) error {
	position := index + 1
	if strings.TrimSpace(line.Company) == "" {
		return invalidInput("Invalid cart item %d: company is required", position)
	}
	if strings.TrimSpace(line.Product) == "" {
		return invalidInput("Invalid cart item %d: product is required", position)
	}
	if !isFinite(line.Price) || line.Price <= 0 {
		return invalidInput("Invalid cart item %d: price must be a positive number", position)
	}
	if line.Quantity <= 0 {
		return invalidInput("Invalid cart item %d: quantity must be a positive integer", position)
	}
	return nil
}

func isFinite(amount float64) bool {
	return !math.IsNaN(amount) && !math.IsInf(amount, 0)
}

// maxCentPrecision is the magnitude above which float64 no longer resolves cents.
const maxCentPrecision = 1 << 53 / 100

func roundCents(amount float64) float64 {
	if math.Abs(amount) >= maxCentPrecision {
		return amount
	}
	return math.Round(amount*100) / 100
}
