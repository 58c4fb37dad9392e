package endpoints

import (
	"net/http"

	"storeapi/internal/api/handler/mapper"
	"storeapi/internal/api/handler/response"
	"storeapi/internal/api/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

type stockHandler struct {
	stockService *service.ProductStockInService
	logger       zerolog.Logger
}

func newStockHandler(stockService *service.ProductStockInService, logger zerolog.Logger) *stockHandler {
	return &stockHandler{stockService: stockService, logger: logger}
}

// getSummary returns the per product, per day stock history
func (slf *stockHandler) getSummary(c *gin.Context) {
	days, err := slf.stockService.GetStockSummary(c.Request.Context())
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to compute stock summary")
		status, body := response.FromError(err)
		c.JSON(status, body)
		return
	}
	c.JSON(http.StatusOK, response.Success("stock summary retrieved successfully", mapper.ToStockDayResponses(days)))
}
