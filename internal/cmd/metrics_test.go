package cmd

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setMetricFlags(t *testing.T, start, end string, since time.Duration) {
	t.Helper()
	metricStart, metricEnd, metricSince = start, end, since
	t.Cleanup(func() { metricStart, metricEnd, metricSince = "", "", 0 })
}

func TestMetricQueryFromFlags(t *testing.T) {
	now := time.Date(2024, 5, 6, 12, 0, 0, 0, time.UTC)

	t.Run("since", func(t *testing.T) {
		setMetricFlags(t, "", "", time.Hour)

		q, err := metricQueryFromFlags(now)

		require.NoError(t, err)
		assert.Equal(t, now.Add(-time.Hour), q.Start)
		assert.Equal(t, now, q.End)
	})

	t.Run("start defaults end to now", func(t *testing.T) {
		setMetricFlags(t, "2024-05-06T00:00:00Z", "", 0)

		q, err := metricQueryFromFlags(now)

		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC), q.Start)
		assert.Equal(t, now, q.End)
	})

	tests := []struct {
		name    string
		start   string
		end     string
		since   time.Duration
		wantErr string
	}{
		{name: "no range", wantErr: "time range is required"},
		{name: "since and start", start: "2024-05-06T00:00:00Z", since: time.Hour, wantErr: "cannot be used together"},
		{name: "end before start", start: "2024-05-06T10:00:00Z", end: "2024-05-06T09:00:00Z", wantErr: "--end must be after --start"},
		{name: "bad end", start: "2024-05-06T10:00:00Z", end: "later", wantErr: "invalid --end"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setMetricFlags(t, tt.start, tt.end, tt.since)

			_, err := metricQueryFromFlags(now)

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestMetricsQuery(t *testing.T) {
	_, config := mockPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/projects/plant-a/metrics/spindle-temp/query", r.URL.Path)

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "2024-05-06T00:00:00Z", body["start"])
		assert.Equal(t, "2024-05-07T00:00:00Z", body["end"])
		assert.Equal(t, "average", body["aggregate"])

		writeJSON(w, http.StatusOK, `{"metric_id": "spindle-temp", "aggregate": "average",
			"datapoints": [{"timestamp": "2024-05-06T00:00:00Z", "value": 41.5}, {"timestamp": "2024-05-06T01:00:00Z", "value": 42.25}]}`)
	})

	stdout, _, err := executeCommand(t, "", "--config", config, "metrics", "query", "spindle-temp",
		"--start", "2024-05-06T00:00:00Z", "--end", "2024-05-07T00:00:00Z", "--aggregate", "average")
	require.NoError(t, err)

	assert.Contains(t, stdout, "TIMESTAMP")
	assert.Contains(t, stdout, "41.5")
	assert.Contains(t, stdout, "42.25")
}

func TestMetricsList_YAML(t *testing.T) {
	_, config := mockPlatform(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"_metadata": {"offset": 0, "totalRecords": 1}, "records": [{"id": "m1", "asset_id": "press-4"}]}`)
	})

	stdout, _, err := executeCommand(t, "", "--config", config, "metrics", "list", "-o", "yaml")
	require.NoError(t, err)

	assert.Equal(t, "metadata:\n  offset: 0\n  totalRecords: 1\nrecords:\n  - id: m1\n    assetId: press-4\n", stdout)
}
