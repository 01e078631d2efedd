package orderapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	pkgerrors "github.com/shery7378/multifront/pkg/errors"
)

// Store is the store record served by GET /stores/{id}.
type Store struct {
	ID               ID       `json:"id"`
	Name             string   `json:"name"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
	Address          string   `json:"address"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	PostalCode       string   `json:"postal_code"`
	DeliveryRadiusKm *float64 `json:"delivery_radius_km"`
}

// GetStore fetches store details, accepting either {data: store} or a bare store.
func (c *Client) GetStore(ctx context.Context, storeID string) (*Store, error) {
	trimmed := strings.TrimSpace(storeID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "store id is required")
	}

	resp, err := c.do(ctx, http.MethodGet, "stores/"+url.PathEscape(trimmed), nil)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, statusError(resp), "store lookup failed")
	}

	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	raw := resp.Body
	if err := json.Unmarshal(resp.Body, &wrapped); err == nil {
		trimmedData := bytes.TrimSpace(wrapped.Data)
		if len(trimmedData) > 0 && trimmedData[0] == '{' {
			raw = trimmedData
		}
	}

	var store Store
	if err := json.Unmarshal(raw, &store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode store response")
	}
	return &store, nil
}
