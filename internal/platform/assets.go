package platform

import (
	"context"
	"fmt"
	"net/http"

	"github.com/hashicorp/go-multierror"
	"github.com/webskin/iiot-go-cli/internal/casing"
	errmsg "github.com/webskin/iiot-go-cli/internal/errors"
	"github.com/webskin/iiot-go-cli/internal/paging"
)

// ============================================================================
// ASSET OPERATIONS
// ============================================================================

// ListAssets lists a page of assets and applies the given mapper to each record.
// Use Identity mapper for raw JSON output, or ParseAsset for typed structs.
func ListAssets[T any](c *Client, ctx context.Context, opts *ListOptions, mapper Mapper[T]) (paging.Page[T], error) {
	page, err := c.fetchPage(ctx, c.servicePath(serviceAssets), opts, errmsg.MsgFailedToListAssets)
	if err != nil {
		return paging.Page[T]{}, err
	}
	return mapPage(page, mapper)
}

// GetAsset retrieves a specific asset and applies the given mapper.
// Use Identity mapper for raw JSON output, or ParseAssetPtr for a typed struct.
func GetAsset[T any](c *Client, ctx context.Context, assetID string, mapper Mapper[T]) (T, error) {
	var zero T
	obj, err := c.fetchObject(ctx, http.MethodGet, c.servicePath(serviceAssets, assetID), nil, nil, errmsg.MsgFailedToGetAsset)
	if err != nil {
		return zero, err
	}
	return mapObject(obj, mapper)
}

// CreateAsset creates an asset and applies the given mapper to the created resource
func CreateAsset[T any](c *Client, ctx context.Context, input AssetInput, mapper Mapper[T]) (T, error) {
	var zero T
	body, err := assetBody(input)
	if err != nil {
		return zero, err
	}

	obj, err := c.fetchObject(ctx, http.MethodPost, c.servicePath(serviceAssets), nil, body, errmsg.MsgFailedToCreateAsset)
	if err != nil {
		return zero, err
	}
	return mapObject(obj, mapper)
}

// UpdateAsset patches an asset. Zero-valued fields of input are left unchanged.
func UpdateAsset[T any](c *Client, ctx context.Context, assetID string, input AssetInput, mapper Mapper[T]) (T, error) {
	var zero T
	body, err := assetBody(input)
	if err != nil {
		return zero, err
	}

	obj, err := c.fetchObject(ctx, http.MethodPatch, c.servicePath(serviceAssets, assetID), nil, body, errmsg.MsgFailedToUpdateAsset)
	if err != nil {
		return zero, err
	}
	return mapObject(obj, mapper)
}

// assetBody converts an asset to its wire form. Metadata is user-owned, so it
// is removed from the conversion and re-attached with its keys untouched.
func assetBody(input AssetInput) (*casing.Object, error) {
	body, err := toWire(input, casing.WithExcludeKeys(userDataKey))
	if err != nil {
		return nil, err
	}
	if input.Metadata != nil {
		body.Set(userDataKey, input.Metadata)
	}
	return body, nil
}

// DeleteAsset deletes an asset
func (c *Client) DeleteAsset(ctx context.Context, assetID string) error {
	_, err := c.do(ctx, http.MethodDelete, c.servicePath(serviceAssets, assetID), nil, nil, errmsg.MsgFailedToDeleteAsset)
	return err
}

// DeleteAssets deletes each asset in turn. It does not stop at the first
// failure; all failures are returned together.
func (c *Client) DeleteAssets(ctx context.Context, assetIDs ...string) error {
	var result *multierror.Error
	for _, id := range assetIDs {
		if err := c.DeleteAsset(ctx, id); err != nil {
			result = multierror.Append(result, fmt.Errorf("asset %s: %w", id, err))
		}
	}
	return result.ErrorOrNil()
}
