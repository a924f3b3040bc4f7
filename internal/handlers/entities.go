package handlers

import (
	"context"
	"strings"

	"pos-admin-gateway/internal/gateway"
	"pos-admin-gateway/internal/models"
)

// FilterSearch is the free-text query parameter matched against record names
const FilterSearch = "search"

// Entity binds one URL segment to a sheet and the filters its list route accepts
type Entity struct {
	// Path is the URL segment under /api
	Path string
	// Remote is the entity name sent to the Apps Script
	Remote  string
	Filters []string

	list    func(ctx context.Context, gw *gateway.Gateway, req models.ListRequest) (any, error)
	collect func(ctx context.Context, gw *gateway.Gateway, req models.ListRequest) (*table, error)
}

func newEntity[T models.Record](path, remote string, filters ...string) Entity {
	return Entity{
		Path:    path,
		Remote:  remote,
		Filters: filters,
		list: func(ctx context.Context, gw *gateway.Gateway, req models.ListRequest) (any, error) {
			return gateway.List[T](ctx, gw, remote, req)
		},
		collect: func(ctx context.Context, gw *gateway.Gateway, req models.ListRequest) (*table, error) {
			rows, err := gateway.Collect[T](ctx, gw, remote, req)
			if err != nil {
				return nil, err
			}
			return tabulate(rows), nil
		},
	}
}

// Entities lists every sheet exposed under /api
func Entities() []Entity {
	return []Entity{
		newEntity[models.Product]("products", "products",
			models.FieldBranchName, models.FieldCategoryID, models.FieldCategoryName, models.FieldSupplierName, FilterSearch),
		newEntity[models.Branch]("branches", "branches", FilterSearch),
		newEntity[models.Category]("categories", "categories", FilterSearch),
		newEntity[models.Supplier]("suppliers", "suppliers", FilterSearch),
		newEntity[models.Employee]("employees", "employees", models.FieldBranchName, FilterSearch),
		newEntity[models.Transaction]("transactions", "transactions", models.FieldBranchName),
		newEntity[models.CashLog]("cash-logs", "cash_logs", models.FieldBranchName),
		newEntity[models.ExpenseReport]("expense-reports", "expense_reports", models.FieldBranchName, FilterSearch),
	}
}

// EntityPattern is the mux path variable pattern matching every entity path
func EntityPattern(entities []Entity) string {
	paths := make([]string, len(entities))
	for i, e := range entities {
		paths[i] = e.Path
	}
	return "{entity:" + strings.Join(paths, "|") + "}"
}
