package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/Fazal135/simple-order-app/internal/middleware"
	"github.com/Fazal135/simple-order-app/internal/models"
	"github.com/Fazal135/simple-order-app/internal/services"
	"github.com/Fazal135/simple-order-app/internal/utils"
)

// OrderHandler manages order endpoints for the signed-in customer.
type OrderHandler struct {
	orders *services.OrderService
}

// NewOrderHandler constructs an OrderHandler.
func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type cartLineRequest struct {
	Company  string   `json:"company"`
	Product  string   `json:"product"`
	Price    *float64 `json:"price"`
	MRP      *float64 `json:"mrp"`
	Quantity int      `json:"quantity"`
}

type placeOrderRequest struct {
	Cart []cartLineRequest `json:"cart"`
}

// PlaceOrder commits the posted cart as an order.
func (h *OrderHandler) PlaceOrder(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentCustomer(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}

	var req placeOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	cart := make([]services.CartLine, 0, len(req.Cart))
	for _, line := range req.Cart {
		var price float64
		switch {
		case line.Price != nil:
			price = *line.Price
		case line.MRP != nil:
			price = *line.MRP
		}
		cart = append(cart, services.CartLine{
			Company:  line.Company,
			Product:  line.Product,
			Price:    price,
			Quantity: line.Quantity,
		})
	}

	result, err := h.orders.PlaceOrder(c.UserContext(), identity, cart)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"orderId": result.OrderID,
		"total":   result.Total,
	})
}

type orderItemResponse struct {
	Company   string  `json:"company"`
	Product   string  `json:"product"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	Total     float64             `json:"total"`
	CreatedAt string              `json:"created_at"`
	Items     []orderItemResponse `json:"items"`
}

func toOrderResponse(order models.Order) orderResponse {
	resp := orderResponse{
		ID:        order.ID,
		Total:     order.Total,
		CreatedAt: order.CreatedAt.UTC().Format(time.RFC3339),
		Items:     make([]orderItemResponse, 0, len(order.Items)),
	}
	for _, item := range order.Items {
		resp.Items = append(resp.Items, orderItemResponse{
			Company:   item.Company,
			Product:   item.Product,
			Price:     item.Price,
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal,
		})
	}
	return resp
}

// ListOrders returns orders for the authenticated customer, newest first.
func (h *OrderHandler) ListOrders(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentCustomer(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}

	pg := utils.ParsePagination(c)
	orders, total, err := h.orders.ListOrders(c.UserContext(), identity, pg.Limit, pg.Offset)
	if err != nil {
		return httpError(c, err)
	}

	data := make([]orderResponse, 0, len(orders))
	for _, order := range orders {
		data = append(data, toOrderResponse(order))
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"pagination": fiber.Map{
			"current_page":   pg.Page,
			"items_per_page": pg.Limit,
			"total_items":    total,
		},
	})
}

// GetOrder returns a single order for the authenticated customer.
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	identity, ok := middleware.GetCurrentCustomer(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "Not authenticated")
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid id")
	}

	order, err := h.orders.GetOrder(c.UserContext(), identity, id)
	if err != nil {
		return httpError(c, err)
	}

	return c.JSON(fiber.Map{"success": true, "data": toOrderResponse(order)})
}
