package checkout

import (
	"github.com/shopspring/decimal"

	checkoutsvc "github.com/shery7378/multifront/internal/checkout"
	"github.com/shery7378/multifront/internal/checkout/helpers"
	"github.com/shery7378/multifront/internal/stores"
)

type storeGroupResponse struct {
	StoreID   string           `json:"store_id"`
	Store     *stores.Metadata `json:"store,omitempty"`
	ItemCount int              `json:"item_count"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
}

func newStoreGroupsResponse(groups helpers.StoreGroups) []storeGroupResponse {
	out := make([]storeGroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, storeGroupResponse{
			StoreID:   g.StoreID,
			Store:     g.Store,
			ItemCount: g.ItemCount(),
			Subtotal:  g.Subtotal,
		})
	}
	return out
}

type submitResponse struct {
	CheckoutID      string   `json:"checkout_id"`
	OrderIDs        []string `json:"order_ids"`
	RedirectURL     string   `json:"redirect_url,omitempty"`
	NavigateOrderID string   `json:"navigate_order_id,omitempty"`
}

func newSubmitResponse(outcome *checkoutsvc.SubmitOutcome) submitResponse {
	return submitResponse{
		CheckoutID:      outcome.CheckoutID.String(),
		OrderIDs:        outcome.OrderIDs,
		RedirectURL:     outcome.RedirectURL,
		NavigateOrderID: outcome.NavigateOrderID,
	}
}

func failedStores(outcome *checkoutsvc.SubmitOutcome) []string {
	out := make([]string, 0)
	for _, sub := range outcome.Submissions {
		if !sub.Created() {
			out = append(out, sub.StoreID)
		}
	}
	return out
}
