package sheet

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopfloor/jobsync/internal/transport"
	"github.com/shopfloor/jobsync/pkg/errors"
)

// Client is the HTTP implementation of API against a row-grid REST
// service. All row and cell addressing is by column name; the service
// resolves names to its internal column identifiers.
type Client struct {
	transport *transport.Client
	baseURL   string
	sheetID   string
}

// NewClient creates a sheet client for one sheet. The token
// authenticates every request as a bearer credential; decrypting or
// otherwise obtaining it is the caller's concern.
func NewClient(baseURL, sheetID, token string) *Client {
	return &Client{
		transport: transport.New(&transport.BearerAuth{}, token),
		baseURL:   strings.TrimRight(baseURL, "/"),
		sheetID:   sheetID,
	}
}

// rowsURL addresses the row collection of the client's sheet.
func (c *Client) rowsURL() string {
	return fmt.Sprintf("%s/sheets/%s/rows", c.baseURL, c.sheetID)
}

// ListRows implements API.
func (c *Client) ListRows(ctx context.Context) ([]Row, error) {
	resp, err := c.transport.Get(ctx, c.rowsURL())
	if err != nil {
		return nil, netError("list", err)
	}

	var out struct {
		Rows []Row `json:"rows"`
	}
	if err := transport.DecodeResponse("list", resp, &out); err != nil {
		return nil, err
	}
	return out.Rows, nil
}

// DeleteRows implements API.
func (c *Client) DeleteRows(ctx context.Context, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}

	encoded := make([]string, len(ids))
	for i, id := range ids {
		encoded[i] = strconv.FormatInt(id, 10)
	}
	url := c.rowsURL() + "?ids=" + strings.Join(encoded, ",")

	resp, err := c.transport.Send(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return netError("delete", err)
	}
	return transport.DecodeResponse("delete", resp, nil)
}

// AddRows implements API.
func (c *Client) AddRows(ctx context.Context, rows []RowValues) error {
	if len(rows) == 0 {
		return nil
	}

	body := struct {
		Rows []RowValues `json:"rows"`
	}{Rows: rows}

	resp, err := c.transport.Send(ctx, http.MethodPost, c.rowsURL(), body)
	if err != nil {
		return netError("add", err)
	}
	return transport.DecodeResponse("add", resp, nil)
}

// UpdateCells implements API.
func (c *Client) UpdateCells(ctx context.Context, updates []CellUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	body := struct {
		Updates []CellUpdate `json:"updates"`
	}{Updates: updates}

	url := fmt.Sprintf("%s/sheets/%s/cells", c.baseURL, c.sheetID)
	resp, err := c.transport.Send(ctx, http.MethodPut, url, body)
	if err != nil {
		return netError("update", err)
	}
	return transport.DecodeResponse("update", resp, nil)
}

// netError wraps a failure that produced no HTTP response. Status code
// zero classifies as transient so callers may retry at their
// discretion.
func netError(operation string, err error) error {
	return &errors.APIError{Operation: operation, Message: err.Error(), Err: err}
}
