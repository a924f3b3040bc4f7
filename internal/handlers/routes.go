package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

// Set groups every handler the router mounts
type Set struct {
	Entity    *EntityHandler
	Export    *ExportHandler
	Karyawan  *KaryawanHandler
	RateLimit *RateLimitStatusHandler
	Health    *HealthHandler
}

// RegisterRoutes mounts /health on root and everything else on api, which the
// caller protects with the bearer check
func RegisterRoutes(root, api *mux.Router, set Set, entities []Entity) {
	root.HandleFunc("/health", set.Health.Health).Methods(http.MethodGet)

	api.HandleFunc("/rate-limit/status", set.RateLimit.GetRateLimitStatus).Methods(http.MethodGet)

	// Employee POS routes
	api.HandleFunc("/karyawan/products", set.Karyawan.ListProducts).Methods(http.MethodGet)
	api.HandleFunc("/karyawan/transactions", set.Karyawan.CreateTransaction).Methods(http.MethodPost)

	// Admin sheets; export is registered before {id} so it is not taken for an id
	entity := "/" + EntityPattern(entities)
	api.HandleFunc(entity, set.Entity.List).Methods(http.MethodGet)
	api.HandleFunc(entity, set.Entity.Create).Methods(http.MethodPost)
	api.HandleFunc(entity+"/export", set.Export.Export).Methods(http.MethodGet)
	api.HandleFunc(entity+"/{id}", set.Entity.Get).Methods(http.MethodGet)
	api.HandleFunc(entity+"/{id}", set.Entity.Update).Methods(http.MethodPut)
	api.HandleFunc(entity+"/{id}", set.Entity.Delete).Methods(http.MethodDelete)
}
