package adapter

import (
	"context"
	"fmt"
	"net/url"

	"github.com/pkg/errors"

	"vitrine/internal/pkg/httpclient"
	"vitrine/internal/service/shipping/domain"
)

// OSRMAdapter 是 port.RouteCalculator 接口的HTTP实现，对接 OSRM 风格的路径规划服务。
type OSRMAdapter struct {
	client  *httpclient.Client
	baseURL string
}

// NewOSRMAdapter 创建一个新的路径规划适配器实例。
func NewOSRMAdapter(client *httpclient.Client, baseURL string) *OSRMAdapter {
	return &OSRMAdapter{client: client, baseURL: baseURL}
}

type osrmResponse struct {
	Code   string      `json:"code"`
	Routes []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64 `json:"distance"` // 米
	Duration float64 `json:"duration"` // 秒
}

// CalculateRoute 请求两点之间的驾车路线。
// OSRM 的坐标顺序是 lon,lat；code 非 "Ok" 或没有路线都视为路由失败。
func (a *OSRMAdapter) CalculateRoute(ctx context.Context, origin, destination domain.Coordinates) (*domain.Route, error) {
	routeURL := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f",
		a.baseURL, origin.Lng, origin.Lat, destination.Lng, destination.Lat)

	params := url.Values{}
	params.Set("overview", "false")

	var resp osrmResponse
	if err := a.client.GetJSON(ctx, routeURL, params, &resp); err != nil {
		return nil, errors.Wrap(err, "osrm request failed")
	}
	if resp.Code != "Ok" || len(resp.Routes) == 0 {
		return nil, errors.Wrapf(domain.ErrRouteNotFound, "osrm code %q", resp.Code)
	}

	return &domain.Route{
		DistanceMeters:  resp.Routes[0].Distance,
		DurationSeconds: resp.Routes[0].Duration,
	}, nil
}
