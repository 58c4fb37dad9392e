package service

import (
	"sort"

	"storeapi/internal/api/entities"
	"storeapi/internal/api/events"
	"storeapi/internal/api/mapping"
	"storeapi/internal/api/repo"

	"github.com/rs/zerolog"
)

// Services holds one Service per resource, built over a shared store.
type Services struct {
	byName map[string]Service
	Stock  *ProductStockInService
}

func NewServices(store repo.Store, registry *mapping.Registry, publisher events.Publisher, cache Cache, logger zerolog.Logger) *Services {
	repos := make(map[string]*repo.Repository, len(entities.Resources))
	bases := make(map[string]*Base, len(entities.Resources))
	for _, r := range entities.Resources {
		repos[r.Name] = repo.NewRepository(r.Name, store, registry, logger, r.Search...)
		bases[r.Name] = NewBase(repos[r.Name], publisher, logger)
	}

	s := &Services{byName: make(map[string]Service, len(bases))}
	for name, base := range bases {
		s.byName[name] = base
	}

	s.Stock = NewProductStockInService(bases[entities.ProductStockIns], bases[entities.Products], cache)
	s.byName[entities.ProductStockIns] = s.Stock
	s.byName[entities.Accounts] = NewAccountService(bases[entities.Accounts])
	s.byName[entities.Orders] = NewOrderService(bases[entities.Orders], repos[entities.Products], bases[entities.Transactions])
	return s
}

// Get returns the service of resource, nil when none is registered.
func (slf *Services) Get(resource string) Service {
	return slf.byName[resource]
}

func (slf *Services) Names() []string {
	names := make([]string, 0, len(slf.byName))
	for name := range slf.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
