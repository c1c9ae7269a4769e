// Command tester drives a running server through a full boat and slip
// round trip and exits non-zero on the first unexpected response.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/zeroshade/marinaapi/internal/logging"
	"github.com/zeroshade/marinaapi/types"
	"go.uber.org/zap"
)

type client struct {
	base string
	http *http.Client
}

// call sends body (if any) as JSON, checks the status and decodes into out
func (c *client) call(method, path string, body interface{}, want int, out interface{}) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.base+path, rd)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode != want {
		return fmt.Errorf("%s %s: got %d want %d: %s", method, path, resp.StatusCode, want, data)
	}
	if out != nil {
		return json.Unmarshal(data, out)
	}
	return nil
}

func run(c *client, logger *zap.Logger) error {
	var boat types.Boat
	if err := c.call(http.MethodPost, "/boats", map[string]interface{}{
		"name": "Orca", "type": "Sailboat", "length": 30,
	}, http.StatusCreated, &boat); err != nil {
		return err
	}
	logger.Info("created boat", zap.Int64("id", boat.ID))

	var fetched types.Boat
	if err := c.call(http.MethodGet, fmt.Sprintf("/boats/%d", boat.ID), nil, http.StatusOK, &fetched); err != nil {
		return err
	}
	if fetched != boat {
		return fmt.Errorf("fetched boat %+v differs from created %+v", fetched, boat)
	}

	if err := c.call(http.MethodPost, "/boats", map[string]interface{}{"name": "Orca"}, http.StatusBadRequest, nil); err != nil {
		return err
	}

	var slip types.Slip
	if err := c.call(http.MethodPost, "/slips", map[string]int{"number": 1}, http.StatusCreated, &slip); err != nil {
		return err
	}
	logger.Info("created slip", zap.Int64("id", slip.ID))

	mooring := fmt.Sprintf("/slips/%d/%d", slip.ID, boat.ID)
	steps := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodPut, mooring, http.StatusNoContent},
		{http.MethodPut, mooring, http.StatusForbidden},
		{http.MethodDelete, mooring, http.StatusNoContent},
		{http.MethodDelete, mooring, http.StatusNotFound},
		{http.MethodPut, mooring, http.StatusNoContent},
		{http.MethodDelete, fmt.Sprintf("/slips/%d", slip.ID), http.StatusNoContent},
		{http.MethodGet, fmt.Sprintf("/slips/%d", slip.ID), http.StatusOK},
		{http.MethodDelete, fmt.Sprintf("/boats/%d", boat.ID), http.StatusNoContent},
		{http.MethodGet, fmt.Sprintf("/boats/%d", boat.ID), http.StatusNotFound},
	}
	for _, s := range steps {
		if err := c.call(s.method, s.path, nil, s.want, nil); err != nil {
			return err
		}
		logger.Info("ok", zap.String("method", s.method), zap.String("path", s.path), zap.Int("status", s.want))
	}
	return nil
}

func main() {
	base := flag.String("url", "http://localhost:8080", "base URL of the server")
	flag.Parse()

	logger := logging.New("info")
	defer logger.Sync()

	c := &client{base: *base, http: &http.Client{Timeout: 10 * time.Second}}
	if err := run(c, logger); err != nil {
		logger.Fatal("smoke test failed", zap.Error(err))
	}
	logger.Info("all checks passed")
}
