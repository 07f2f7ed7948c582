package sheet_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfloor/jobsync/pkg/errors"
	"github.com/shopfloor/jobsync/pkg/sheet"
)

func TestListRows(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/sheets/tracking-42/rows", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		w.Write([]byte(`{"rows":[{"id":101,"cells":{"WO#":"48213","Qty":"25"}}]}`))
	}))
	defer server.Close()

	client := sheet.NewClient(server.URL, "tracking-42", "secret")
	rows, err := client.ListRows(context.Background())

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, int64(101), rows[0].ID)
	assert.Equal(t, "48213", rows[0].Cell("WO#"))
	assert.Equal(t, "", rows[0].Cell("No Such Column"))
}

func TestDeleteRowsEncodesIDs(t *testing.T) {
	var gotIDs string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		gotIDs = r.URL.Query().Get("ids")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := sheet.NewClient(server.URL, "tracking-42", "secret")
	require.NoError(t, client.DeleteRows(context.Background(), []int64{101, 102}))
	assert.Equal(t, "101,102", gotIDs)
}

func TestAddRowsPostsCells(t *testing.T) {
	var got struct {
		Rows []map[string]string `json:"rows"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := sheet.NewClient(server.URL, "tracking-42", "secret")
	err := client.AddRows(context.Background(), []sheet.RowValues{{"WO#": "51044", "Qty": "10"}})

	require.NoError(t, err)
	require.Len(t, got.Rows, 1)
	assert.Equal(t, "51044", got.Rows[0]["WO#"])
}

func TestUpdateCellsPutsUpdates(t *testing.T) {
	var got struct {
		Updates []sheet.CellUpdate `json:"updates"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/sheets/tracking-42/cells", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := sheet.NewClient(server.URL, "tracking-42", "secret")
	err := client.UpdateCells(context.Background(), []sheet.CellUpdate{
		{RowID: 101, Column: "Qty", Value: "30"},
	})

	require.NoError(t, err)
	require.Len(t, got.Updates, 1)
	assert.Equal(t, int64(101), got.Updates[0].RowID)
}

func TestEmptyBatchesAreNoOps(t *testing.T) {
	client := sheet.NewClient("http://127.0.0.1:0", "tracking-42", "secret")

	assert.NoError(t, client.DeleteRows(context.Background(), nil))
	assert.NoError(t, client.AddRows(context.Background(), nil))
	assert.NoError(t, client.UpdateCells(context.Background(), nil))
}

func TestFailureClassification(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		sentinel error
	}{
		{"auth", http.StatusUnauthorized, errors.ErrUnauthorized},
		{"rate limit", http.StatusTooManyRequests, errors.ErrRateLimited},
		{"malformed", http.StatusBadRequest, errors.ErrMalformedRequest},
		{"transient", http.StatusServiceUnavailable, errors.ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, tt.name, tt.status)
			}))
			defer server.Close()

			client := sheet.NewClient(server.URL, "tracking-42", "secret")
			_, err := client.ListRows(context.Background())
			assert.True(t, errors.Is(err, tt.sentinel))
		})
	}
}

func TestNetworkFailureIsTransient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	server.Close() // refuse connections

	client := sheet.NewClient(server.URL, "tracking-42", "secret")
	_, err := client.ListRows(context.Background())
	assert.True(t, errors.IsTransient(err))
}
