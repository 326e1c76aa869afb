package orderserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions bundles the handlers served by the router.
type ApiHandleFunctions struct {
	// Routes for the order API
	OrderAPI OrderAPI
	// Metrics serves the Prometheus exposition; nil leaves /metrics unrouted.
	Metrics http.Handler
}

// NewRouter returns a new router.
func NewRouter(handleFunctions ApiHandleFunctions) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions)
}

// NewRouterWithGinEngine adds the routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		router.Handle(route.Method, route.Pattern, route.HandlerFunc)
	}
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	routes := []Route{
		{"CreateOrder", http.MethodPost, "/api/orders", handleFunctions.OrderAPI.CreateOrder},
		{"GetAllOrders", http.MethodGet, "/api/orders", handleFunctions.OrderAPI.GetAllOrders},
		{"GetMyOrders", http.MethodGet, "/api/orders/my", handleFunctions.OrderAPI.GetMyOrders},
		{"GetOrderById", http.MethodGet, "/api/orders/:id", handleFunctions.OrderAPI.GetOrderById},
		{"UpdateOrderStatus", http.MethodPatch, "/api/orders/:id/status", handleFunctions.OrderAPI.UpdateOrderStatus},
		{"CancelOrder", http.MethodPost, "/api/orders/:id/cancel", handleFunctions.OrderAPI.CancelOrder},
		{"Healthz", http.MethodGet, "/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) }},
	}
	if handleFunctions.Metrics != nil {
		routes = append(routes, Route{"Metrics", http.MethodGet, "/metrics", gin.WrapH(handleFunctions.Metrics)})
	}
	return routes
}
