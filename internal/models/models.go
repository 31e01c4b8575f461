package models

// Record holds the data for a single manifest line item.
type Record struct {
	Description         string  `json:"description"`
	ItemNumber          string  `json:"item_number"`
	UPCNumber           string  `json:"upc_number"`
	Category            uint8   `json:"category"`
	CategoryDescription string  `json:"category_description"`
	Quantity            float64 `json:"quantity"`
	RetailPerItem       float64 `json:"retail_per_item"`
	LiquidationRate     float64 `json:"liquidation_rate"`
	LiquidationPrice    float64 `json:"liquidation_price"`
}

// Category is a distinct category code seen across a set of records.
type Category struct {
	ID          uint8  `json:"id"`
	Description string `json:"description"`
	Count       int    `json:"count"`
}
