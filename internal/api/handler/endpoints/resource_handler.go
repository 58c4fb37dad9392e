package endpoints

import (
	"storeapi/internal/api/entities"
	"storeapi/internal/api/handler/mapper"
	"storeapi/internal/api/handler/request"
	"storeapi/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Route binds a URL path to a resource and its request DTOs.
type Route struct {
	Path      string
	Resource  string
	NewCreate func() request.Body
	NewUpdate func() request.Body
}

var Routes = []Route{
	{
		Path: "categories", Resource: entities.Categories,
		NewCreate: func() request.Body { return &request.CreateCategory{} },
		NewUpdate: func() request.Body { return &request.UpdateCategory{} },
	},
	{
		Path: "master-products", Resource: entities.MasterProducts,
		NewCreate: func() request.Body { return &request.CreateMasterProduct{} },
		NewUpdate: func() request.Body { return &request.UpdateMasterProduct{} },
	},
	{
		Path: "products", Resource: entities.Products,
		NewCreate: func() request.Body { return &request.CreateProduct{} },
		NewUpdate: func() request.Body { return &request.UpdateProduct{} },
	},
	{
		Path: "product-stock-ins", Resource: entities.ProductStockIns,
		NewCreate: func() request.Body { return &request.CreateProductStockIn{} },
		NewUpdate: func() request.Body { return &request.UpdateProductStockIn{} },
	},
	{
		Path: "roles", Resource: entities.Roles,
		NewCreate: func() request.Body { return &request.CreateRole{} },
		NewUpdate: func() request.Body { return &request.UpdateRole{} },
	},
	{
		Path: "accounts", Resource: entities.Accounts,
		NewCreate: func() request.Body { return &request.CreateAccount{} },
		NewUpdate: func() request.Body { return &request.UpdateAccount{} },
	},
	{
		Path: "transactions", Resource: entities.Transactions,
		NewCreate: func() request.Body { return &request.CreateTransaction{} },
		NewUpdate: func() request.Body { return &request.UpdateTransaction{} },
	},
	{
		Path: "orders", Resource: entities.Orders,
		NewCreate: func() request.Body { return &request.CreateOrder{} },
		NewUpdate: func() request.Body { return &request.UpdateOrder{} },
	},
}

// ResourceHandler sets up the CRUD routes of every resource under /api/v1.
func ResourceHandler(router gin.IRouter, services *service.Services, limits Limits, logger zerolog.Logger) {
	api := router.Group("/api/v1")

	stock := newStockHandler(services.Stock, logger)
	api.GET("/products/stock-summary", stock.getSummary)

	for _, route := range Routes {
		svc := services.Get(route.Resource)
		if svc == nil {
			logger.Warn().Str("resource", route.Resource).Msg("No service for route, skipping")
			continue
		}
		m, ok := mapper.For(route.Resource)
		if !ok {
			m = mapper.Identity
		}
		NewController(svc, m, route.NewCreate, route.NewUpdate, limits, logger).Register(api.Group("/" + route.Path))
	}
}
