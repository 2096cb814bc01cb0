package platform

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/webskin/iiot-go-cli/internal/casing"
)

// mockServer creates a test HTTP server with predefined responses
func mockServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func newTestClient(t *testing.T, server *httptest.Server) *Client {
	client, err := NewClient(&Config{
		BaseURL: server.URL,
		Token:   "test-token",
		Project: "plant-a",
		Timeout: 5,
	})
	require.NoError(t, err)
	return client
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

const assetPage = `{
	"_metadata": {"offset": 0, "totalRecords": 42},
	"records": [
		{"id": "a1", "external_id": "PUMP-1", "name": "Pump 1", "parent_id": "line-1",
		 "created_at": "2024-03-01T10:00:00Z", "metadata": {"serial_no": "X9"}},
		{"id": "a2", "name": "Pump 2", "created_at": "2024-03-02T10:00:00Z"}
	]
}`

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{
			name:    "valid config",
			config:  &Config{BaseURL: "https://api.example.com", Token: "t", Project: "p", Timeout: 30},
			wantErr: false,
		},
		{
			name:    "missing base URL",
			config:  &Config{Token: "t", Project: "p"},
			wantErr: true,
		},
		{
			name:    "missing token",
			config:  &Config{BaseURL: "https://api.example.com", Project: "p"},
			wantErr: true,
		},
		{
			name:    "relative base URL",
			config:  &Config{BaseURL: "api.example.com", Token: "t", Project: "p"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, client)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, client)
			}
		})
	}
}

func TestClient_ListAssets(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/plant-a/assets", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, assetPage)
	})
	client := newTestClient(t, server)

	page, err := ListAssets(client, context.Background(), &ListOptions{Offset: 20, Limit: 2}, ParseAsset)
	require.NoError(t, err)

	assert.Equal(t, 0, page.Metadata.Offset)
	assert.Equal(t, 42, page.Metadata.TotalRecords)
	require.Len(t, page.Records, 2)
	assert.Equal(t, "PUMP-1", page.Records[0].ExternalID)
	assert.Equal(t, "line-1", page.Records[0].ParentID)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), page.Records[0].CreatedAt)
	assert.Equal(t, map[string]interface{}{"serial_no": "X9"}, page.Records[0].Metadata)
}

func TestClient_ListAssets_NilOptions(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		writeJSON(w, http.StatusOK, `{"_metadata":{"offset":0,"totalRecords":0},"records":[]}`)
	})
	client := newTestClient(t, server)

	page, err := ListAssets(client, context.Background(), nil, Identity)
	require.NoError(t, err)
	assert.Empty(t, page.Records)
}

func TestClient_ListAssets_IdentityKeepsOrder(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, assetPage)
	})
	client := newTestClient(t, server)

	page, err := ListAssets(client, context.Background(), nil, Identity)
	require.NoError(t, err)

	first, ok := page.Records[0].(*casing.Object)
	require.True(t, ok)
	assert.Equal(t, []string{"id", "externalId", "name", "parentId", "createdAt", "metadata"}, first.Keys())
}

func TestClient_GetAsset(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/projects/plant-a/assets/line%2F1", r.URL.EscapedPath())
		writeJSON(w, http.StatusOK, `{"id":"line/1","name":"Line 1","updated_at":"2024-03-01T10:00:00Z"}`)
	})
	client := newTestClient(t, server)

	asset, err := GetAsset(client, context.Background(), "line/1", ParseAssetPtr)
	require.NoError(t, err)
	assert.Equal(t, "line/1", asset.ID)
	assert.Equal(t, "Line 1", asset.Name)
	assert.False(t, asset.UpdatedAt.IsZero())
}

func TestClient_AssetMetadataKeepsKeysThroughRoundTrip(t *testing.T) {
	var patched map[string]interface{}
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			writeJSON(w, http.StatusOK, `{"id":"a1","parent_id":"line-1",
				"metadata":{"serial_no":"X9","rated_power":{"max_kw":5}}}`)
		case http.MethodPatch:
			require.NoError(t, json.NewDecoder(r.Body).Decode(&patched))
			writeJSON(w, http.StatusOK, `{"id":"a1","metadata":{"serial_no":"X9"}}`)
		}
	})
	client := newTestClient(t, server)
	ctx := context.Background()

	raw, err := GetAsset(client, ctx, "a1", Identity)
	require.NoError(t, err)
	obj := raw.(*casing.Object)
	assert.Equal(t, []string{"id", "parentId", "metadata"}, obj.Keys())
	metadata, _ := obj.Get("metadata")
	assert.Equal(t, []string{"serial_no", "rated_power"}, metadata.(*casing.Object).Keys())

	asset, err := GetAsset(client, ctx, "a1", ParseAssetPtr)
	require.NoError(t, err)
	assert.Equal(t, "line-1", asset.ParentID)

	updated, err := UpdateAsset(client, ctx, "a1", AssetInput{Metadata: asset.Metadata}, ParseAssetPtr)
	require.NoError(t, err)

	assert.Equal(t, map[string]interface{}{
		"serial_no":   "X9",
		"rated_power": map[string]interface{}{"max_kw": float64(5)},
	}, patched["metadata"])
	assert.Equal(t, map[string]interface{}{"serial_no": "X9"}, updated.Metadata)
}

func TestClient_CreateAsset_SendsSnakeCaseAndRawMetadata(t *testing.T) {
	var received map[string]interface{}
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		writeJSON(w, http.StatusCreated, `{"id":"a9","external_id":"PUMP-9","name":"Pump 9"}`)
	})
	client := newTestClient(t, server)

	asset, err := CreateAsset(client, context.Background(), AssetInput{
		ExternalID: "PUMP-9",
		Name:       "Pump 9",
		ParentID:   "line-1",
		Metadata:   map[string]interface{}{"vendorCode": "K-1", "install_year": 2019},
	}, ParseAssetPtr)
	require.NoError(t, err)

	assert.Equal(t, "a9", asset.ID)
	assert.Equal(t, "PUMP-9", asset.ExternalID)
	assert.Equal(t, "PUMP-9", received["external_id"])
	assert.Equal(t, "line-1", received["parent_id"])
	assert.Equal(t, map[string]interface{}{"vendorCode": "K-1", "install_year": float64(2019)}, received["metadata"])
	assert.NotContains(t, received, "externalId")
}

func TestClient_UpdateAsset(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"description":"rebuilt"}`, string(body))
		writeJSON(w, http.StatusOK, `{"id":"a1","description":"rebuilt"}`)
	})
	client := newTestClient(t, server)

	asset, err := UpdateAsset(client, context.Background(), "a1", AssetInput{Description: "rebuilt"}, ParseAsset)
	require.NoError(t, err)
	assert.Equal(t, "rebuilt", asset.Description)
}

func TestClient_ErrorHandling(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantMessage string
	}{
		{
			name:        "error envelope",
			status:      http.StatusNotFound,
			body:        `{"error":{"code":404,"message":"Asset not found"}}`,
			wantMessage: "Asset not found",
		},
		{
			name:        "plain body",
			status:      http.StatusBadGateway,
			body:        `upstream unavailable`,
			wantMessage: "upstream unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})
			client := newTestClient(t, server)

			_, err := GetAsset(client, context.Background(), "missing", Identity)

			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMessage, apiErr.Message)
			assert.Contains(t, err.Error(), tt.wantMessage)
		})
	}
}

func TestClient_DeleteAssets_CollectsFailures(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		switch r.URL.Path {
		case "/api/v1/projects/plant-a/assets/ok":
			w.WriteHeader(http.StatusNoContent)
		default:
			writeJSON(w, http.StatusNotFound, `{"error":{"code":404,"message":"not found"}}`)
		}
	})
	client := newTestClient(t, server)

	require.NoError(t, client.DeleteAssets(context.Background(), "ok"))

	err := client.DeleteAssets(context.Background(), "bad-1", "ok", "bad-2")
	var merr *multierror.Error
	require.ErrorAs(t, err, &merr)
	assert.Len(t, merr.Errors, 2)
	assert.Contains(t, err.Error(), "asset bad-1")
	assert.Contains(t, err.Error(), "asset bad-2")
}

func TestClient_ListEvents_FilterIsSnakeCased(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/api/v1/projects/plant-a/events", r.URL.Path)
		assert.Equal(t, "a1", q.Get("asset_id"))
		assert.Equal(t, "alarm", q.Get("type"))
		assert.Equal(t, "2024-01-01T00:00:00Z", q.Get("start_from"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.False(t, q.Has("start_to"))
		writeJSON(w, http.StatusOK, `{"_metadata":{"offset":0,"totalRecords":1},
			"records":[{"id":"e1","type":"alarm","asset_ids":["a1"],"start_time":"2024-01-02T03:04:05Z",
			"metadata":{"alarm_code":"E42"}}]}`)
	})
	client := newTestClient(t, server)

	filter := &EventFilter{ListOptions: ListOptions{Limit: 10}, AssetID: "a1", Type: "alarm", StartFrom: &from}
	page, err := ListEvents(client, context.Background(), filter, ParseEvent)
	require.NoError(t, err)

	require.Len(t, page.Records, 1)
	assert.Equal(t, []string{"a1"}, page.Records[0].AssetIDs)
	assert.Nil(t, page.Records[0].EndTime)
	assert.Equal(t, map[string]interface{}{"alarm_code": "E42"}, page.Records[0].Metadata)
}

func TestClient_CreateEvent(t *testing.T) {
	end := time.Date(2024, 1, 2, 4, 0, 0, 0, time.UTC)
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"type":"maintenance","asset_ids":["a1"],
			"start_time":"2024-01-02T03:00:00Z","end_time":"2024-01-02T04:00:00Z"}`, string(body))
		writeJSON(w, http.StatusCreated, `{"id":"e2","type":"maintenance","end_time":"2024-01-02T04:00:00Z"}`)
	})
	client := newTestClient(t, server)

	event, err := CreateEvent(client, context.Background(), EventInput{
		Type:      "maintenance",
		AssetIDs:  []string{"a1"},
		StartTime: time.Date(2024, 1, 2, 3, 0, 0, 0, time.UTC),
		EndTime:   &end,
	}, ParseEvent)
	require.NoError(t, err)
	require.NotNil(t, event.EndTime)
	assert.True(t, end.Equal(*event.EndTime))
}

func TestClient_Files(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/projects/plant-a/files":
			writeJSON(w, http.StatusOK, `{"_metadata":{"offset":0,"totalRecords":1},
				"records":[{"id":"f1","name":"manual.pdf","mime_type":"application/pdf","size":2048}]}`)
		case r.Method == http.MethodGet && r.URL.Path == "/api/v1/projects/plant-a/files/f1":
			writeJSON(w, http.StatusOK, `{"id":"f1","name":"manual.pdf","size":2048}`)
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})
	client := newTestClient(t, server)
	ctx := context.Background()

	page, err := ListFiles(client, ctx, nil, ParseFile)
	require.NoError(t, err)
	require.Len(t, page.Records, 1)
	assert.Equal(t, "application/pdf", page.Records[0].MimeType)
	assert.Equal(t, int64(2048), page.Records[0].Size)

	file, err := GetFile(client, ctx, "f1", ParseFilePtr)
	require.NoError(t, err)
	assert.Equal(t, "manual.pdf", file.Name)

	assert.NoError(t, client.DeleteFile(ctx, "f1"))
}

func TestClient_Users(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/projects/plant-a/coordinator/users/me":
			writeJSON(w, http.StatusOK, `{"id":"u1","email":"op@example.com","display_name":"Operator"}`)
		case "/api/v1/projects/plant-a/coordinator/users":
			writeJSON(w, http.StatusOK, `{"_metadata":{"offset":0,"totalRecords":1},
				"records":[{"id":"u1","email":"op@example.com","roles":["viewer"]}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := newTestClient(t, server)

	me, err := GetCurrentUser(client, context.Background(), ParseUserPtr)
	require.NoError(t, err)
	assert.Equal(t, "Operator", me.DisplayName)

	users, err := ListUsers(client, context.Background(), nil, ParseUser)
	require.NoError(t, err)
	require.Len(t, users.Records, 1)
	assert.Equal(t, []string{"viewer"}, users.Records[0].Roles)
}

func TestClient_Metrics(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/projects/plant-a/metrics":
			writeJSON(w, http.StatusOK, `{"_metadata":{"offset":0,"totalRecords":1},
				"records":[{"id":"m1","name":"temperature","unit":"C","asset_id":"a1"}]}`)
		case "/api/v1/projects/plant-a/metrics/m1/query":
			body, _ := io.ReadAll(r.Body)
			assert.JSONEq(t, `{"start":"2024-01-01T00:00:00Z","end":"2024-01-01T01:00:00Z","granularity":"30m"}`, string(body))
			writeJSON(w, http.StatusOK, `{"metric_id":"m1","datapoints":[
				{"timestamp":"2024-01-01T00:00:00Z","value":20.5},
				{"timestamp":"2024-01-01T00:30:00Z","value":21}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	client := newTestClient(t, server)
	ctx := context.Background()

	metrics, err := ListMetrics(client, ctx, &ListOptions{Limit: 1}, ParseMetric)
	require.NoError(t, err)
	assert.Equal(t, "a1", metrics.Records[0].AssetID)

	series, err := QueryMetric(client, ctx, "m1", MetricQuery{
		Start:       time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		End:         time.Date(2024, 1, 1, 1, 0, 0, 0, time.UTC),
		Granularity: "30m",
	}, ParseMetricSeries)
	require.NoError(t, err)
	assert.Equal(t, "m1", series.MetricID)
	require.Len(t, series.Datapoints, 2)
	assert.Equal(t, 20.5, series.Datapoints[0].Value)
	assert.Equal(t, 21.0, series.Datapoints[1].Value)
}

func TestClient_MalformedResponse(t *testing.T) {
	server := mockServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `[1,2,3]`)
	})
	client := newTestClient(t, server)

	_, err := GetAsset(client, context.Background(), "a1", Identity)
	assert.Error(t, err)

	_, err = ListAssets(client, context.Background(), nil, Identity)
	assert.Error(t, err)
}

func TestToQuery(t *testing.T) {
	params, err := toQuery((*ListOptions)(nil))
	require.NoError(t, err)
	assert.Empty(t, params)

	params, err = toQuery(&EventFilter{ListOptions: ListOptions{Offset: 5}, AssetID: "a1"})
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"offset": "5", "asset_id": "a1"}, params)
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Authorization", "Bearer secret")
	h.Set("Accept", "application/json")

	got := redactHeaders(h)

	assert.Equal(t, "[REDACTED]", got["Authorization"])
	assert.Equal(t, "application/json", got["Accept"])
}
