package domain

// Route 是路径规划服务返回的驾车路线度量。
type Route struct {
	DistanceMeters  float64
	DurationSeconds float64
}

// Quote 是一次运费报价的完整结果。
// 每次请求新建，本子系统从不持久化它；下单流程自己保存需要的字段。
type Quote struct {
	DistanceKm            float64
	ShippingCost          float64
	EstimatedTimeMinutes  int
	FreeShipping          bool
	FreeShippingRemaining float64
	DeliveryAddress       string
}
