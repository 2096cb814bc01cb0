package platform

import (
	"context"
	"net/http"

	errmsg "github.com/webskin/iiot-go-cli/internal/errors"
	"github.com/webskin/iiot-go-cli/internal/paging"
)

// ============================================================================
// FILE OPERATIONS
// ============================================================================

// ListFiles lists a page of file records and applies the given mapper
func ListFiles[T any](c *Client, ctx context.Context, opts *ListOptions, mapper Mapper[T]) (paging.Page[T], error) {
	page, err := c.fetchPage(ctx, c.servicePath(serviceFiles), opts, errmsg.MsgFailedToListFiles)
	if err != nil {
		return paging.Page[T]{}, err
	}
	return mapPage(page, mapper)
}

// GetFile retrieves the record of a file (not its contents)
func GetFile[T any](c *Client, ctx context.Context, fileID string, mapper Mapper[T]) (T, error) {
	var zero T
	obj, err := c.fetchObject(ctx, http.MethodGet, c.servicePath(serviceFiles, fileID), nil, nil, errmsg.MsgFailedToGetFile)
	if err != nil {
		return zero, err
	}
	return mapObject(obj, mapper)
}

// DeleteFile deletes a file
func (c *Client) DeleteFile(ctx context.Context, fileID string) error {
	_, err := c.do(ctx, http.MethodDelete, c.servicePath(serviceFiles, fileID), nil, nil, errmsg.MsgFailedToDeleteFile)
	return err
}
