package orderserver

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	ordermapper "github.com/Apurer/shop-order-service/internal/domains/orders/adapters/http/mapper"
	orderapp "github.com/Apurer/shop-order-service/internal/domains/orders/application"
	ordertypes "github.com/Apurer/shop-order-service/internal/domains/orders/application/types"
	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	orderports "github.com/Apurer/shop-order-service/internal/domains/orders/ports"
	apierrors "github.com/Apurer/shop-order-service/internal/shared/errors"
)

// UserIDHeader carries the authenticated caller id set by the gateway.
const UserIDHeader = "X-User-Id"

var errMissingUserID = errors.New(UserIDHeader + " header must be a positive integer")

// OrderAPI wires HTTP transport with the orders bounded context service.
type OrderAPI struct {
	service   orderports.Service
	responder *apierrors.Responder
}

// NewOrderAPI creates an OrderAPI backed by the provided service.
func NewOrderAPI(service orderports.Service, mode apierrors.StatusMode) OrderAPI {
	return OrderAPI{service: service, responder: NewOrderResponder(mode)}
}

// Post /api/orders
// Place an order for the calling user
func (api *OrderAPI) CreateOrder(c *gin.Context) {
	userID, ok := api.userID(c)
	if !ok {
		return
	}
	var payload ordermapper.CreateOrderRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		api.respondBindError(c, err)
		return
	}
	created, err := api.service.CreateOrder(c.Request.Context(), ordermapper.ToCreateOrderInput(userID, payload))
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ordermapper.FromProjection(created))
}

// Get /api/orders/:id
// Find order by ID
func (api *OrderAPI) GetOrderById(c *gin.Context) {
	id, ok := api.idParam(c)
	if !ok {
		return
	}
	order, err := api.service.GetOrderByID(c.Request.Context(), id)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(order))
}

// Get /api/orders
// List every order
func (api *OrderAPI) GetAllOrders(c *gin.Context) {
	orders, err := api.service.GetAllOrders(c.Request.Context())
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjectionList(orders))
}

// Get /api/orders/my
// List the calling user's orders, newest first
func (api *OrderAPI) GetMyOrders(c *gin.Context) {
	userID, ok := api.userID(c)
	if !ok {
		return
	}
	orders, err := api.service.GetOrdersByUserID(c.Request.Context(), userID)
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjectionList(orders))
}

// Patch /api/orders/:id/status
// Move an order to another status
func (api *OrderAPI) UpdateOrderStatus(c *gin.Context) {
	id, ok := api.idParam(c)
	if !ok {
		return
	}
	status, err := domain.ParseStatus(c.Query("status"))
	if err != nil {
		api.responder.RespondError(c, fmt.Errorf("%w: %w", orderapp.ErrInvalidInput, err))
		return
	}
	updated, err := api.service.UpdateOrderStatus(c.Request.Context(), ordertypes.UpdateOrderStatusInput{OrderID: id, Status: status})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(updated))
}

// Post /api/orders/:id/cancel
// Cancel a pending order owned by the caller
func (api *OrderAPI) CancelOrder(c *gin.Context) {
	id, ok := api.idParam(c)
	if !ok {
		return
	}
	userID, ok := api.userID(c)
	if !ok {
		return
	}
	cancelled, err := api.service.CancelOrder(c.Request.Context(), ordertypes.CancelOrderInput{OrderID: id, UserID: userID})
	if err != nil {
		api.responder.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ordermapper.FromProjection(cancelled))
}

func (api *OrderAPI) respondBindError(c *gin.Context, err error) {
	if fields, ok := apierrors.FieldErrors(err); ok {
		api.responder.Respond(c, apierrors.NewValidationProblem(fields).WithDetail("request body failed validation"))
		return
	}
	api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(err.Error()))
}

func (api *OrderAPI) idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail("order id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func (api *OrderAPI) userID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(c.GetHeader(UserIDHeader)), 10, 64)
	if err != nil || id <= 0 {
		api.responder.Respond(c, apierrors.ErrBadRequest.WithDetail(errMissingUserID.Error()))
		return 0, false
	}
	return id, true
}
