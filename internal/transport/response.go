package transport

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/shopfloor/jobsync/pkg/errors"
)

// DecodeResponse decodes a JSON response into the target structure.
// Non-2xx responses become APIErrors classified by status code; a nil
// target discards the body after the status check.
func DecodeResponse(operation string, resp *http.Response, target any) error {
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.WrapIO("read", "response body", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.NewAPIError(operation, resp.StatusCode, string(body))
	}

	if target == nil {
		return nil
	}
	if err := json.Unmarshal(body, target); err != nil {
		return errors.WrapParse("json", "response", err)
	}

	return nil
}
