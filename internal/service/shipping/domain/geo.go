package domain

import (
	"math"
	"strings"
)

// earthRadiusMeters 是 haversine 公式使用的地球半径 (6371 km)。
const earthRadiusMeters = 6371000.0

// Coordinates 是一对 WGS 84 经纬度，不可变值对象。
type Coordinates struct {
	Lat float64
	Lng float64
}

// Address 是邮编查询服务返回的规范化地址。
type Address struct {
	Street       string
	Neighborhood string
	City         string
	State        string
	CEP          CEP
}

// String 拼出顾客可读的配送地址。
func (a *Address) String() string {
	parts := make([]string, 0, 4)
	for _, p := range []string{a.Street, a.Neighborhood, a.City} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	joined := strings.Join(parts, ", ")
	if a.State != "" {
		joined += " - " + a.State
	}
	return joined
}

// StraightLineDistance 计算两点间的大圆距离，单位米。
// 纯函数，无失败模式；两点相同返回 0。
func StraightLineDistance(origin, destination Coordinates) float64 {
	lat1 := origin.Lat * math.Pi / 180
	lat2 := destination.Lat * math.Pi / 180
	dLat := (destination.Lat - origin.Lat) * math.Pi / 180
	dLng := (destination.Lng - origin.Lng) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusMeters * c
}

// Round2 四舍五入到两位小数。金额和公里数出领域层前都要经过它。
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
