package apiclient

import (
	"context"
	"net/http"
)

// Paths are the endpoint templates of one collection. "{id}" is replaced by
// the record id. An empty path means the backend has no such operation.
type Paths struct {
	List         string
	Get          string
	Create       string
	Update       string
	UpdateStatus string
	Delete       string
}

// Collection is the CRUD surface of one entity.
type Collection[T any] struct {
	client *Client
	entity string
	paths  Paths
}

func NewCollection[T any](client *Client, entity string, paths Paths) *Collection[T] {
	return &Collection[T]{client: client, entity: entity, paths: paths}
}

func (c *Collection[T]) List(ctx context.Context) ([]T, error) {
	var out []T
	err := c.client.do(ctx, call{
		entity: c.entity, operation: "list",
		method: http.MethodGet, path: c.paths.List, out: &out,
	})
	return out, err
}

func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	var out T
	err := c.client.do(ctx, call{
		entity: c.entity, operation: "get",
		method: http.MethodGet, path: c.paths.Get, pathID: id, out: &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Create posts payload and returns the stored record when the backend echoes
// it back.
func (c *Collection[T]) Create(ctx context.Context, payload any) (*T, error) {
	var out T
	err := c.client.do(ctx, call{
		entity: c.entity, operation: "create",
		method: http.MethodPost, path: c.paths.Create, body: payload, out: &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Collection[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	var out T
	err := c.client.do(ctx, call{
		entity: c.entity, operation: "update",
		method: http.MethodPut, path: c.paths.Update, pathID: id, body: payload, out: &out,
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateStatus sends only the status field, e.g. {"status": "Approved"} or
// {"verified": true}.
func (c *Collection[T]) UpdateStatus(ctx context.Context, id string, body map[string]any) error {
	return c.client.do(ctx, call{
		entity: c.entity, operation: "update_status",
		method: http.MethodPut, path: c.paths.UpdateStatus, pathID: id, body: body,
	})
}

func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.client.do(ctx, call{
		entity: c.entity, operation: "delete",
		method: http.MethodDelete, path: c.paths.Delete, pathID: id,
	})
}
