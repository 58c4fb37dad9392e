// Package entities declares the mapping table of every resource. Adding a
// resource means adding a table here and a model in models.
package entities

import "storeapi/internal/api/mapping"

const (
	Categories      = "categories"
	MasterProducts  = "master_products"
	Products        = "products"
	ProductStockIns = "product_stock_ins"
	Roles           = "roles"
	Accounts        = "accounts"
	Transactions    = "transactions"
	Orders          = "orders"
)

var timestamps = []mapping.FieldMap{
	mapping.Field("created_at", mapping.AsDate),
	mapping.Field("updated_at", mapping.AsDate),
}

func fields(fs ...mapping.FieldMap) []mapping.FieldMap {
	out := make([]mapping.FieldMap, 0, len(fs)+len(timestamps))
	out = append(out, fs...)
	return append(out, timestamps...)
}

var CategoryConfig = mapping.EntityMapConfig{
	Fields: fields(
		mapping.Field("id", mapping.AsID),
		mapping.Field("name", mapping.AsString("")),
		mapping.Field("description", mapping.AsString("")),
		mapping.Field("is_active", mapping.AsBool(true)),
	),
}

var MasterProductConfig = mapping.EntityMapConfig{
	Fields: fields(
		mapping.Field("id", mapping.AsID),
		mapping.Field("name", mapping.AsString("")),
		mapping.Field("code", mapping.AsString("")),
		mapping.Field("description", mapping.AsString("")),
		mapping.Field("category_id", mapping.AsID),
		mapping.Field("is_active", mapping.AsBool(true)),
	),
	Relations: []mapping.RelationMap{
		mapping.HasOne("category", "Category", mapping.Nested(CategoryConfig)),
	},
}

var ProductConfig = mapping.EntityMapConfig{
	Fields: fields(
		mapping.Field("id", mapping.AsID),
		mapping.Field("master_product_id", mapping.AsID),
		mapping.Field("sku", mapping.AsString("")),
		mapping.Field("price", mapping.AsNumber(0)),
		mapping.Field("cost", mapping.AsNumber(0)),
		mapping.Field("stock", mapping.AsInt(0)),
		mapping.Field("is_active", mapping.AsBool(true)),
	),
	Relations: []mapping.RelationMap{
		mapping.HasOne("master_product", "MasterProduct", mapping.Nested(MasterProductConfig)),
	},
}

var ProductStockInConfig = mapping.EntityMapConfig{
	Fields: fields(
		mapping.Field("id", mapping.AsID),
		mapping.Field("product_id", mapping.AsID),
		mapping.Field("quantity", mapping.AsInt(0)),
		mapping.Field("note", mapping.AsString("")),
	),
	Relations: []mapping.RelationMap{
		mapping.HasOne("product", "Product", mapping.Nested(ProductConfig)),
	},
}

var RoleConfig = mapping.EntityMapConfig{
	Fields: fields(
		mapping.Field("id", mapping.AsID),
		mapping.Field("name", mapping.AsString("")),
		mapping.Field("description", mapping.AsString("")),
	),
}

// AccountConfig never maps the password column.
var AccountConfig = mapping.EntityMapConfig{
	Fields: fields(
		mapping.Field("id", mapping.AsID),
		mapping.Field("role_id", mapping.AsID),
		mapping.Field("name", mapping.AsString("")),
		mapping.Field("email", mapping.AsString("")),
		mapping.Field("is_active", mapping.AsBool(true)),
	),
	Relations: []mapping.RelationMap{
		mapping.HasOne("role", "Role", mapping.Nested(RoleConfig)),
	},
}

var OrderConfig = mapping.EntityMapConfig{
	Fields: fields(
		mapping.Field("id", mapping.AsID),
		mapping.Field("transaction_id", mapping.AsID),
		mapping.Field("product_id", mapping.AsID),
		mapping.Field("quantity", mapping.AsInt(0)),
		mapping.Field("price", mapping.AsNumber(0)),
		mapping.Field("subtotal", mapping.AsNumber(0)),
	),
	Relations: []mapping.RelationMap{
		mapping.HasOne("product", "Product", mapping.Nested(ProductConfig)),
	},
}

var TransactionConfig = mapping.EntityMapConfig{
	Fields: fields(
		mapping.Field("id", mapping.AsID),
		mapping.Field("account_id", mapping.AsID),
		mapping.Field("code", mapping.AsString("")),
		mapping.Field("total", mapping.AsNumber(0)),
		mapping.Field("payment_method", mapping.AsString("cash")),
		mapping.Field("status", mapping.AsString("pending")),
	),
	Relations: []mapping.RelationMap{
		mapping.HasOne("account", "Account", mapping.Nested(AccountConfig)),
		mapping.HasMany("orders", "Orders.Product", mapping.Nested(OrderConfig)),
	},
}

// Resource pairs a resource name with its table and the columns a list
// search matches against.
type Resource struct {
	Name   string
	Config mapping.EntityMapConfig
	Search []string
}

var Resources = []Resource{
	{Name: Categories, Config: CategoryConfig, Search: []string{"name", "description"}},
	{Name: MasterProducts, Config: MasterProductConfig, Search: []string{"name", "code"}},
	{Name: Products, Config: ProductConfig, Search: []string{"sku"}},
	{Name: ProductStockIns, Config: ProductStockInConfig, Search: []string{"note"}},
	{Name: Roles, Config: RoleConfig, Search: []string{"name"}},
	{Name: Accounts, Config: AccountConfig, Search: []string{"name", "email"}},
	{Name: Transactions, Config: TransactionConfig, Search: []string{"code", "status"}},
	{Name: Orders, Config: OrderConfig},
}

// NewRegistry registers every resource table.
func NewRegistry() *mapping.Registry {
	reg := mapping.NewRegistry()
	for _, r := range Resources {
		reg.MustRegister(r.Name, r.Config)
	}
	return reg
}

func SearchColumns(resource string) []string {
	for _, r := range Resources {
		if r.Name == resource {
			return r.Search
		}
	}
	return nil
}
