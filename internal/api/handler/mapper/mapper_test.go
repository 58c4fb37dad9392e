package mapper

import (
	"testing"
	"time"

	"storeapi/internal/api/entities"
	"storeapi/internal/api/handler/response"
	"storeapi/internal/api/mapping"
	"storeapi/internal/api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMasterProductResponse_Deterministic(t *testing.T) {
	created := time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.FixedZone("WIB", 7*3600))
	record := func() mapping.Record {
		return mapping.Record{
			"id":          uint(3),
			"name":        "Cola",
			"code":        "CL",
			"category_id": uint(1),
			"category":    mapping.Record{"id": uint(1), "name": "Drinks", "is_active": nil},
			"created_at":  created,
		}
	}

	a := ToMasterProductResponse(mapping.MapEntity(entities.MasterProductConfig, record()))
	b := ToMasterProductResponse(mapping.MapEntity(entities.MasterProductConfig, record()))
	assert.Equal(t, a, b)

	assert.Equal(t, int64(3), a.ID)
	require.NotNil(t, a.CategoryID)
	assert.Equal(t, int64(1), *a.CategoryID)
	require.NotNil(t, a.Category)
	assert.Equal(t, "Drinks", a.Category.Name)
	assert.True(t, a.Category.IsActive)
	assert.True(t, a.IsActive)
	require.NotNil(t, a.CreatedAt)
	assert.Equal(t, "2024-05-06T00:08:09.123Z", *a.CreatedAt)
	assert.Nil(t, a.UpdatedAt)
}

func TestToMasterProductResponse_LargeIDs(t *testing.T) {
	const big = uint64(1)<<53 + 1
	got := ToMasterProductResponse(mapping.MapEntity(entities.MasterProductConfig, mapping.Record{
		"id":          big,
		"name":        "Cola",
		"category_id": big + 2,
	}))

	assert.Equal(t, int64(big), got.ID)
	require.NotNil(t, got.CategoryID)
	assert.Equal(t, int64(big+2), *got.CategoryID)
}

func TestToMasterProductResponse_NullCategory(t *testing.T) {
	e := mapping.MapEntity(entities.MasterProductConfig, mapping.Record{"id": int64(1), "name": "Cola"})
	resp := ToMasterProductResponse(e)
	assert.Nil(t, resp.Category)
	assert.Nil(t, resp.CategoryID)
}

func TestToTransactionResponse_EmptyOrders(t *testing.T) {
	e := mapping.MapEntity(entities.TransactionConfig, mapping.Record{"id": int64(1), "code": "TRX-1"})

	resp := ToTransactionResponse(e)
	assert.NotNil(t, resp.Orders)
	assert.Empty(t, resp.Orders)
	assert.Nil(t, resp.Account)
	assert.Equal(t, "cash", resp.PaymentMethod)
	assert.Equal(t, "pending", resp.Status)

	list := ToTransactionListResponse(e)
	assert.Equal(t, 0, list.OrderCount)
	assert.Nil(t, list.AccountName)
}

func TestToTransactionResponse_WithOrders(t *testing.T) {
	e := mapping.MapEntity(entities.TransactionConfig, mapping.Record{
		"id":      int64(1),
		"code":    "TRX-1",
		"account": mapping.Record{"id": int64(2), "name": "Ana", "password": "hash"},
		"orders": []mapping.Record{
			{"id": int64(1), "transaction_id": int64(1), "product_id": int64(5), "quantity": int64(2), "price": 10.0, "subtotal": 20.0},
		},
	})

	resp := ToTransactionResponse(e)
	require.Len(t, resp.Orders, 1)
	assert.Equal(t, int64(5), resp.Orders[0].ProductID)
	assert.Nil(t, resp.Orders[0].Product)
	require.NotNil(t, resp.Account)
	assert.Equal(t, "Ana", resp.Account.Name)

	list := ToTransactionListResponse(e)
	assert.Equal(t, 1, list.OrderCount)
	require.NotNil(t, list.AccountName)
	assert.Equal(t, "Ana", *list.AccountName)
}

func TestFor(t *testing.T) {
	for _, r := range entities.Resources {
		m, ok := For(r.Name)
		assert.True(t, ok, r.Name)
		assert.NotNil(t, m.ToResponse, r.Name)
		assert.NotNil(t, m.ToListResponse, r.Name)
	}
	_, ok := For("widgets")
	assert.False(t, ok)

	m, _ := For(entities.Products)
	out := m.ToListResponse(mapping.Entity{"id": "4", "sku": "A"})
	assert.IsType(t, response.ProductListResponse{}, out)
}

func TestToStockDayResponses(t *testing.T) {
	assert.Equal(t, []response.StockDayResponse{}, ToStockDayResponses(nil))
	assert.Equal(t, []response.StockDayResponse{{ProductID: 7, Date: "2024-01-01", QuantityIn: 3, Balance: 9}},
		ToStockDayResponses([]service.StockDay{{ProductID: "7", Date: "2024-01-01", QuantityIn: 3, Balance: 9}}))
}
