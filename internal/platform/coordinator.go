package platform

import (
	"context"
	"net/http"

	errmsg "github.com/webskin/iiot-go-cli/internal/errors"
	"github.com/webskin/iiot-go-cli/internal/paging"
)

// ============================================================================
// COORDINATOR (IDENTITY) OPERATIONS
// ============================================================================

// GetCurrentUser returns the user the API token belongs to
func GetCurrentUser[T any](c *Client, ctx context.Context, mapper Mapper[T]) (T, error) {
	var zero T
	obj, err := c.fetchObject(ctx, http.MethodGet, c.servicePath(serviceCoordinator, "users", "me"), nil, nil, errmsg.MsgFailedToGetCurrentUser)
	if err != nil {
		return zero, err
	}
	return mapObject(obj, mapper)
}

// ListUsers lists a page of the project's users
func ListUsers[T any](c *Client, ctx context.Context, opts *ListOptions, mapper Mapper[T]) (paging.Page[T], error) {
	page, err := c.fetchPage(ctx, c.servicePath(serviceCoordinator, "users"), opts, errmsg.MsgFailedToListUsers)
	if err != nil {
		return paging.Page[T]{}, err
	}
	return mapPage(page, mapper)
}
