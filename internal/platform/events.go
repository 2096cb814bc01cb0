package platform

import (
	"context"
	"net/http"

	errmsg "github.com/webskin/iiot-go-cli/internal/errors"
	"github.com/webskin/iiot-go-cli/internal/paging"
)

// ============================================================================
// EVENT OPERATIONS
// ============================================================================

// ListEvents lists a page of events matching filter and applies the given mapper.
// A nil filter lists all events with server-side paging defaults.
func ListEvents[T any](c *Client, ctx context.Context, filter *EventFilter, mapper Mapper[T]) (paging.Page[T], error) {
	page, err := c.fetchPage(ctx, c.servicePath(serviceEvents), filter, errmsg.MsgFailedToListEvents)
	if err != nil {
		return paging.Page[T]{}, err
	}
	return mapPage(page, mapper)
}

// CreateEvent records a new event
func CreateEvent[T any](c *Client, ctx context.Context, input EventInput, mapper Mapper[T]) (T, error) {
	var zero T
	body, err := toWire(input)
	if err != nil {
		return zero, err
	}

	obj, err := c.fetchObject(ctx, http.MethodPost, c.servicePath(serviceEvents), nil, body, errmsg.MsgFailedToCreateEvent)
	if err != nil {
		return zero, err
	}
	return mapObject(obj, mapper)
}
