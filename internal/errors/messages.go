package errors

// Common error messages used across the application
const (
	// MsgBaseURLRequired is the error message when no platform URL is configured
	MsgBaseURLRequired = "base URL is required (use --url flag or set IIOT_BASE_URL)"
	// MsgProjectRequired is the error message when project is not specified
	MsgProjectRequired = "project is required (use --project flag or set IIOT_PROJECT)"

	MsgFailedToEncodeRequest  = "failed to encode request body"
	MsgFailedToDecodeResponse = "failed to decode response body"

	MsgFailedToListAssets  = "failed to list assets"
	MsgFailedToGetAsset    = "failed to get asset"
	MsgFailedToCreateAsset = "failed to create asset"
	MsgFailedToUpdateAsset = "failed to update asset"
	MsgFailedToDeleteAsset = "failed to delete asset"

	MsgFailedToListEvents  = "failed to list events"
	MsgFailedToCreateEvent = "failed to create event"

	MsgFailedToListFiles  = "failed to list files"
	MsgFailedToGetFile    = "failed to get file"
	MsgFailedToDeleteFile = "failed to delete file"

	MsgFailedToGetCurrentUser = "failed to get current user"
	MsgFailedToListUsers      = "failed to list users"

	MsgFailedToListMetrics = "failed to list metrics"
	MsgFailedToQueryMetric = "failed to query metric"

	MsgFailedToReadInput = "failed to read input"
)
