package events

// OrderPlaced is emitted once every store order of a checkout was created.
type OrderPlaced struct {
	CheckoutID string   `json:"checkoutId"`
	SessionID  string   `json:"sessionId"`
	UserID     string   `json:"userId,omitempty"`
	OrderIDs   []string `json:"orderIds"`
	StoreIDs   []string `json:"storeIds"`
}
