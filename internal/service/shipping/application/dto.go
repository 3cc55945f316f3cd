package application

// CalculateShippingRequest 是运费报价的入参。
type CalculateShippingRequest struct {
	CEP       string  `json:"cep"`
	CartTotal float64 `json:"cart_total"`
}

// ShippingQuoteResponse 是返回给店面层的报价结果。
// 金额和公里数都已做两位小数舍入。
type ShippingQuoteResponse struct {
	DistanceKm            float64 `json:"distance_km"`
	ShippingCost          float64 `json:"shipping_cost"`
	EstimatedTimeMinutes  int     `json:"estimated_time_minutes"`
	FreeShipping          bool    `json:"free_shipping"`
	FreeShippingRemaining float64 `json:"free_shipping_remaining"`
	DeliveryAddress       string  `json:"delivery_address"`
}
