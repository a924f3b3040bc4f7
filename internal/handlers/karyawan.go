package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"pos-admin-gateway/internal/gateway"
	"pos-admin-gateway/internal/models"
)

// ActionListByBranch asks the script for one branch's rows only
const ActionListByBranch = "listByBranch"

// KaryawanHandler serves the employee point-of-sale screen
type KaryawanHandler struct {
	gateway  *gateway.Gateway
	maxLimit int
}

// NewKaryawanHandler creates a new karyawan handler. maxLimit is both the
// default and the upper bound of the product page size.
func NewKaryawanHandler(gw *gateway.Gateway, maxLimit int) *KaryawanHandler {
	return &KaryawanHandler{gateway: gw, maxLimit: maxLimit}
}

// ListProducts handles GET /api/karyawan/products
func (h *KaryawanHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	branch := strings.TrimSpace(r.URL.Query().Get(models.FieldBranchName))
	if branch == "" {
		writeErrorResponse(w, http.StatusBadRequest, "branch_name is required")
		return
	}

	req := models.ListRequest{
		Action: ActionListByBranch,
		Page:   positiveQueryInt(r, "page", 1),
		Limit:  min(positiveQueryInt(r, "limit", h.maxLimit), h.maxLimit),
		Filters: bindFilters(r, []string{
			models.FieldCategoryID,
			models.FieldCategoryName,
			FilterSearch,
		}),
		Scope: map[string]string{models.FieldBranchName: branch},
	}

	result, err := gateway.List[models.Product](r.Context(), h.gateway, "products", req)
	if err != nil {
		writeGatewayError(w, r, "products", ActionListByBranch, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, gateway.Project(result, models.Product.ForKaryawan))
}

// CreateTransaction handles POST /api/karyawan/transactions
func (h *KaryawanHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	env, err := h.gateway.Proxy(r.Context(), "transactions", ActionCreate, body)
	if err != nil {
		writeGatewayError(w, r, "transactions", ActionCreate, err)
		return
	}

	slog.Info("POS transaction recorded",
		"branch_name", body[models.FieldBranchName],
		"remote_addr", r.RemoteAddr)
	writeJSONResponse(w, http.StatusCreated, env)
}
