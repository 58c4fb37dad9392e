package endpoints

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"storeapi/internal/api/apperror"
	"storeapi/internal/api/handler/mapper"
	"storeapi/internal/api/handler/request"
	"storeapi/internal/api/handler/response"
	"storeapi/internal/api/mapping"
	"storeapi/internal/api/repo"
	"storeapi/internal/api/service"
	"storeapi/pkg"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Limits bounds the page size of list requests.
type Limits struct {
	Default int
	Max     int
}

// Controller adapts one Service and its response mapper pair to the CRUD
// routes of a resource.
type Controller struct {
	service   service.Service
	mapper    mapper.Mapper
	newCreate func() request.Body
	newUpdate func() request.Body
	limits    Limits
	logger    zerolog.Logger
}

func NewController(svc service.Service, m mapper.Mapper, newCreate, newUpdate func() request.Body, limits Limits, logger zerolog.Logger) *Controller {
	if limits.Default <= 0 {
		limits.Default = 10
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}
	return &Controller{
		service:   svc,
		mapper:    m,
		newCreate: newCreate,
		newUpdate: newUpdate,
		limits:    limits,
		logger:    logger.With().Str("resource", svc.Resource()).Logger(),
	}
}

// Register mounts the CRUD routes on routes.
func (slf *Controller) Register(routes gin.IRoutes) {
	routes.GET("", slf.getAll)
	routes.GET("/:id", slf.getByID)
	routes.POST("", slf.create)
	routes.PUT("/:id", slf.update)
	routes.DELETE("/:id", slf.delete)
}

func (slf *Controller) getAll(c *gin.Context) {
	filter, err := slf.parseFilter(c)
	if err != nil {
		slf.fail(c, err)
		return
	}

	page, err := slf.service.GetAll(c.Request.Context(), filter)
	if err != nil {
		slf.fail(c, err)
		return
	}

	data := make([]any, 0, len(page.Data))
	for _, e := range page.Data {
		data = append(data, slf.mapper.ToListResponse(e))
	}

	c.JSON(http.StatusOK, response.Paginated(slf.message("retrieved"), data, response.Metadata{
		Page:         page.Page,
		Limit:        page.Limit,
		TotalRecords: page.Total,
		TotalPages:   page.TotalPages(),
	}))
}

func (slf *Controller) getByID(c *gin.Context) {
	entity, err := slf.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		slf.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(slf.message("retrieved"), slf.mapper.ToResponse(entity)))
}

func (slf *Controller) create(c *gin.Context) {
	body := slf.newCreate()
	if err := pkg.ParseAndValidate(c, body); err != nil {
		slf.fail(c, err)
		return
	}

	entity, err := slf.service.Create(c.Request.Context(), body.Input())
	if err != nil {
		slf.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, response.Success(slf.message("created"), slf.mapper.ToResponse(entity)))
}

func (slf *Controller) update(c *gin.Context) {
	body := slf.newUpdate()
	if err := pkg.ParseAndValidate(c, body); err != nil {
		slf.fail(c, err)
		return
	}

	entity, err := slf.service.Update(c.Request.Context(), c.Param("id"), body.Input())
	if err != nil {
		slf.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(slf.message("updated"), slf.mapper.ToResponse(entity)))
}

func (slf *Controller) delete(c *gin.Context) {
	if err := slf.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		slf.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, response.Success(slf.message("deleted"), nil))
}

// parseFilter reads page, limit, sort, search and the equality filters on
// *_id and is_active columns.
func (slf *Controller) parseFilter(c *gin.Context) (repo.Filter, error) {
	filter := repo.Filter{Page: 1, Limit: slf.limits.Default, Search: strings.TrimSpace(c.Query("search"))}
	var items []apperror.ErrorItem

	if raw := c.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			items = append(items, apperror.ErrorItem{Field: "page", Message: "page must be a positive integer", Type: apperror.TypeInvalid})
		} else {
			filter.Page = page
		}
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			items = append(items, apperror.ErrorItem{Field: "limit", Message: "limit must be a positive integer", Type: apperror.TypeInvalid})
		} else {
			filter.Limit = min(limit, slf.limits.Max)
		}
	}
	if raw := strings.TrimSpace(c.Query("sort")); raw != "" {
		filter.Sort, filter.Desc = strings.CutPrefix(raw, "-")
	}

	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 || (!strings.HasSuffix(key, "_id") && key != "is_active") {
			continue
		}
		if filter.Filters == nil {
			filter.Filters = make(map[string]any)
		}
		if key == "is_active" {
			b, err := strconv.ParseBool(values[0])
			if err != nil {
				items = append(items, apperror.ErrorItem{Field: key, Message: "is_active must be a boolean", Type: apperror.TypeInvalid})
				continue
			}
			filter.Filters[key] = b
			continue
		}
		id, err := mapping.ParseID(values[0])
		if err != nil {
			items = append(items, apperror.ErrorItem{Field: key, Message: fmt.Sprintf("%s must be a numeric id", key), Type: apperror.TypeInvalid})
			continue
		}
		filter.Filters[key] = id
	}

	if len(items) > 0 {
		return repo.Filter{}, apperror.NewValidation(items...)
	}
	return filter, nil
}

func (slf *Controller) message(action string) string {
	return fmt.Sprintf("%s %s successfully", strings.ReplaceAll(slf.service.Resource(), "_", " "), action)
}

func (slf *Controller) fail(c *gin.Context, err error) {
	status, body := response.FromError(err)
	if status >= http.StatusInternalServerError {
		slf.logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")
	} else {
		slf.logger.Debug().Err(err).Int("status", status).Msg("Request rejected")
	}
	c.JSON(status, body)
}
