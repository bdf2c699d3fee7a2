package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"localtradefinder-api/internal/config"
	"localtradefinder-api/internal/middleware"
	"localtradefinder-api/internal/models"
	"localtradefinder-api/pkg/lambda"
)

// ServiceName identifies this API in health checks and logs
const ServiceName = "localtradefinder-api"

// SetupRoutes mounts every function on the router. Functions are reachable
// under the Netlify path and under /api.
func SetupRoutes(router *gin.Engine, registry *Registry) {
	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthCheck{
			Status:    "healthy",
			Service:   ServiceName,
			Mode:      config.GetDeploymentMode(),
			Timestamp: time.Now().UTC(),
			Functions: registry.Names(),
		})
	})

	router.Any("/.netlify/functions/:name", FunctionHandler(registry))
	router.Any("/api/:name", FunctionHandler(registry))
}

// SetupMiddleware configures global middleware
func SetupMiddleware(router *gin.Engine, logger *logrus.Logger) {
	router.Use(middleware.RequestID())
	router.Use(middleware.StructuredLogger(logger))
	router.Use(gin.Recovery())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.RequestSizeLimit(middleware.MaxRequestBodySize))
}

// FunctionHandler serves the function named by the :name path parameter
func FunctionHandler(registry *Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		endpoint, ok := registry.Endpoint(c.Param("name"))
		if !ok {
			c.JSON(http.StatusNotFound, middleware.NewErrorResponse("Function not found"))
			return
		}

		req, err := requestFromGin(c)
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				c.JSON(http.StatusRequestEntityTooLarge, middleware.NewErrorResponse("Request body too large"))
				return
			}
			c.JSON(http.StatusBadRequest, middleware.NewErrorResponse("Invalid request body"))
			return
		}

		resp, _ := endpoint.Handle(c.Request.Context(), req)
		writeResponse(c, resp)
	}
}

func requestFromGin(c *gin.Context) (*lambda.Request, error) {
	var body []byte
	if c.Request.Body != nil {
		data, err := io.ReadAll(c.Request.Body)
		if err != nil {
			return nil, err
		}
		body = data
	}

	headers := make(map[string]string, len(c.Request.Header))
	for name := range c.Request.Header {
		headers[name] = c.Request.Header.Get(name)
	}
	if requestID := c.GetString(middleware.RequestIDKey); requestID != "" {
		headers[middleware.RequestIDHeader] = requestID
	}

	query := make(map[string]string)
	for name := range c.Request.URL.Query() {
		query[name] = c.Query(name)
	}

	return &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
		PathParams:  map[string]string{"name": c.Param("name")},
	}, nil
}

func writeResponse(c *gin.Context, resp *lambda.Response) {
	for name, value := range resp.Headers {
		c.Header(name, value)
	}
	if len(resp.Body) == 0 {
		c.Status(resp.StatusCode)
		return
	}
	c.Data(resp.StatusCode, resp.Headers["Content-Type"], resp.Body)
}
