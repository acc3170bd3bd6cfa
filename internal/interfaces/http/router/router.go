package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hidenkeys/receipt/internal/interfaces/http/dto"
)

const apiVersion = "v1"

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	registrars []RouteRegistrar
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine) *Router {
	return &Router{engine: engine}
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes under /api/v1 and answers unknown paths with
// the JSON error envelope.
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + apiVersion)
	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
	r.engine.NoRoute(notFound)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeNotFound,
		"no route for "+c.Request.Method+" "+c.Request.URL.Path,
		c.GetString("request_id"),
	))
}
