package viewmodels

type Order struct {
	POID             int64    `json:"poid"`
	OrderDate        string   `json:"order_date"`
	Status           string   `json:"status"`
	StatusLabel      string   `json:"status_label"`
	ExpectedDelivery string   `json:"expected_delivery,omitempty"`
	ProposedDelivery string   `json:"proposed_delivery,omitempty"`
	OriginalPOID     *int64   `json:"original_poid,omitempty"`
	SupplierNote     string   `json:"supplier_note,omitempty"`
	RespondedAt      string   `json:"responded_at,omitempty"`
	Archived         bool     `json:"archived"`
	AllowedActions   []string `json:"allowed_actions"`
}

// Money pairs the exact amount with its display form in the portal currency.
type Money struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

type Item struct {
	ItemID            int64  `json:"item_id"`
	Name              string `json:"name"`
	PictureURI        string `json:"picture_uri,omitempty"`
	OrderedQuantity   int    `json:"ordered_quantity"`
	EstimatedPrice    *Money `json:"estimated_price,omitempty"`
	ProposedQuantity  *int   `json:"proposed_quantity,omitempty"`
	ProposedPrice     *Money `json:"proposed_price,omitempty"`
	ExpirationDate    string `json:"expiration_date,omitempty"`
	EstimatedSubtotal *Money `json:"estimated_subtotal,omitempty"`
}

type OrderDetail struct {
	Order *Order  `json:"order"`
	Items []*Item `json:"items"`
	Total *Money  `json:"estimated_total,omitempty"`
}

type PanelState struct {
	POID       int64 `json:"poid"`
	Collapsed  bool  `json:"collapsed"`
	Confirming bool  `json:"confirming"`
	Editing    bool  `json:"editing"`
}
