package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"pos-admin-gateway/internal/gateway"
	"pos-admin-gateway/internal/models"

	"github.com/gorilla/mux"
)

// Remote actions of the non-paginated proxy routes
const (
	ActionList   = "list"
	ActionGet    = "get"
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// EntityHandler serves the CRUD and list routes of every sheet
type EntityHandler struct {
	gateway      *gateway.Gateway
	entities     map[string]Entity
	defaultLimit int
}

// NewEntityHandler creates a new entity handler
func NewEntityHandler(gw *gateway.Gateway, entities []Entity, defaultLimit int) *EntityHandler {
	byPath := make(map[string]Entity, len(entities))
	for _, e := range entities {
		byPath[e.Path] = e
	}
	return &EntityHandler{
		gateway:      gw,
		entities:     byPath,
		defaultLimit: defaultLimit,
	}
}

// entity resolves the {entity} path variable, answering 404 when unknown
func (h *EntityHandler) entity(w http.ResponseWriter, r *http.Request) (Entity, bool) {
	e, ok := h.entities[muxEntity(r)]
	if !ok {
		writeErrorResponse(w, http.StatusNotFound, "Unknown entity")
	}
	return e, ok
}

// listRequest builds the per-call list request from the query string
func (h *EntityHandler) listRequest(r *http.Request, e Entity) models.ListRequest {
	return models.ListRequest{
		Action:  ActionList,
		Page:    positiveQueryInt(r, "page", 1),
		Limit:   positiveQueryInt(r, "limit", h.defaultLimit),
		Filters: bindFilters(r, e.Filters),
	}
}

// List handles GET /api/{entity}
func (h *EntityHandler) List(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entity(w, r)
	if !ok {
		return
	}

	result, err := e.list(r.Context(), h.gateway, h.listRequest(r, e))
	if err != nil {
		writeGatewayError(w, r, e.Remote, ActionList, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, result)
}

// Get handles GET /api/{entity}/{id}
func (h *EntityHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.proxyByID(w, r, ActionGet, false)
}

// Update handles PUT /api/{entity}/{id}
func (h *EntityHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.proxyByID(w, r, ActionUpdate, true)
}

// Delete handles DELETE /api/{entity}/{id}
func (h *EntityHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.proxyByID(w, r, ActionDelete, false)
}

// Create handles POST /api/{entity}
func (h *EntityHandler) Create(w http.ResponseWriter, r *http.Request) {
	e, ok := h.entity(w, r)
	if !ok {
		return
	}

	body, ok := decodeBody(w, r)
	if !ok {
		return
	}

	env, err := h.gateway.Proxy(r.Context(), e.Remote, ActionCreate, body)
	if err != nil {
		writeGatewayError(w, r, e.Remote, ActionCreate, err)
		return
	}

	slog.Info("Record created", "entity", e.Remote, "remote_addr", r.RemoteAddr)
	writeJSONResponse(w, http.StatusCreated, env)
}

func (h *EntityHandler) proxyByID(w http.ResponseWriter, r *http.Request, action string, withBody bool) {
	e, ok := h.entity(w, r)
	if !ok {
		return
	}

	id := strings.TrimSpace(mux.Vars(r)["id"])
	if id == "" {
		writeErrorResponse(w, http.StatusBadRequest, "ID is required")
		return
	}

	body := map[string]any{}
	if withBody {
		if body, ok = decodeBody(w, r); !ok {
			return
		}
	}
	body["id"] = id

	env, err := h.gateway.Proxy(r.Context(), e.Remote, action, body)
	if err != nil {
		writeGatewayError(w, r, e.Remote, action, err)
		return
	}

	if action != ActionGet {
		slog.Info("Record changed", "entity", e.Remote, "action", action, "id", id, "remote_addr", r.RemoteAddr)
	}
	writeJSONResponse(w, http.StatusOK, env)
}

func muxEntity(r *http.Request) string {
	return mux.Vars(r)["entity"]
}

// decodeBody reads a JSON object body, answering 400 when it is not one
func decodeBody(w http.ResponseWriter, r *http.Request) (map[string]any, bool) {
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body == nil {
		writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return nil, false
	}
	return body, true
}
