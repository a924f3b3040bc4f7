// Package gateway turns list requests into one bulk Apps Script fetch
// followed by in-process sorting, filtering and pagination.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"pos-admin-gateway/internal/appscript"
	"pos-admin-gateway/internal/models"
)

const defaultListMessage = "Data retrieved successfully"

// Remote is the single outbound dependency of the gateway
type Remote interface {
	Call(ctx context.Context, req appscript.Request) (*appscript.Response, error)
}

// Gateway is stateless; one instance serves all concurrent requests
type Gateway struct {
	remote Remote
}

// NewGateway creates a gateway over the given remote
func NewGateway(remote Remote) *Gateway {
	return &Gateway{remote: remote}
}

// List fetches the whole sheet for entity, orders it by recency, applies the
// filter cascade and returns the requested page
func List[T models.Record](ctx context.Context, g *Gateway, entity string, req models.ListRequest) (*models.PaginatedResult[T], error) {
	records, message, err := fetch[T](ctx, g, entity, req)
	if err != nil {
		return nil, err
	}

	SortByRecency(records)
	filtered := ApplyFilters(records, req.Filters)
	page, pagination := Paginate(filtered, req.Page, req.Limit)

	slog.Debug("List served",
		"entity", entity,
		"action", req.Action,
		"fetched", len(records),
		"matched", pagination.Total,
		"page", pagination.Page,
		"returned", len(page))

	return &models.PaginatedResult[T]{
		Success:    true,
		Message:    message,
		Data:       page,
		Pagination: pagination,
	}, nil
}

// Collect is List without pagination: every matching record, newest first
func Collect[T models.Record](ctx context.Context, g *Gateway, entity string, req models.ListRequest) ([]T, error) {
	records, _, err := fetch[T](ctx, g, entity, req)
	if err != nil {
		return nil, err
	}
	SortByRecency(records)
	return ApplyFilters(records, req.Filters), nil
}

// Project maps every record of a page, keeping the pagination metadata
func Project[T, U any](in *models.PaginatedResult[T], fn func(T) U) *models.PaginatedResult[U] {
	data := make([]U, len(in.Data))
	for i, rec := range in.Data {
		data[i] = fn(rec)
	}
	return &models.PaginatedResult[U]{
		Success:    in.Success,
		Message:    in.Message,
		Data:       data,
		Pagination: in.Pagination,
	}
}

// Proxy forwards a single non-list action verbatim
func (g *Gateway) Proxy(ctx context.Context, entity, action string, body map[string]any) (*models.Envelope, error) {
	resp, err := g.remote.Call(ctx, appscript.Request{
		Entity: entity,
		Action: action,
		Fields: body,
	})
	if err != nil {
		return nil, err
	}
	return &models.Envelope{
		Success: true,
		Message: resp.Message,
		Data:    resp.Data,
	}, nil
}

// fetch issues exactly one remote call. Filters, page and limit are never
// sent; only the hard scope is.
func fetch[T models.Record](ctx context.Context, g *Gateway, entity string, req models.ListRequest) ([]T, string, error) {
	action := req.Action
	if action == "" {
		action = "list"
	}

	fields := make(map[string]any, len(req.Scope))
	for k, v := range req.Scope {
		fields[k] = v
	}

	resp, err := g.remote.Call(ctx, appscript.Request{
		Entity: entity,
		Action: action,
		Fields: fields,
	})
	if err != nil {
		return nil, "", err
	}

	message := resp.Message
	if message == "" {
		message = defaultListMessage
	}

	records := []T{}
	data := bytes.TrimSpace(resp.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return records, message, nil
	}
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, "", fmt.Errorf("%w: decoding %s records: %v", appscript.ErrInvalidRemoteResponse, entity, err)
	}
	return records, message, nil
}
