package adapter

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/pkg/errors"

	"vitrine/internal/pkg/httpclient"
	"vitrine/internal/pkg/logger"
	"vitrine/internal/service/shipping/domain"
)

// NominatimAdapter 是 port.Geocoder 接口的HTTP实现，对接 Nominatim 风格的地理编码服务。
type NominatimAdapter struct {
	client  *httpclient.Client
	baseURL string
}

// NewNominatimAdapter 创建一个新的地理编码适配器实例。
func NewNominatimAdapter(client *httpclient.Client, baseURL string) *NominatimAdapter {
	return &NominatimAdapter{client: client, baseURL: baseURL}
}

// nominatimResult 是搜索接口返回数组中的单个元素。
// 上游把坐标编码为字符串，在边界处解析，不把裸字符串带进领域层。
type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

// GeocodeAddress 实现两级地理编码:
// 先用完整地址做全文检索，零结果时退回仅按邮编查询，两级都失败才报错。
// 传输层错误（网络、非2xx）直接向上传播，与"无结果"区分开。
func (a *NominatimAdapter) GeocodeAddress(ctx context.Context, addr *domain.Address) (domain.Coordinates, error) {
	// 1. 全文检索：街道、街区、城市、州、国家
	query := fmt.Sprintf("%s, %s, %s, %s, Brazil", addr.Street, addr.Neighborhood, addr.City, addr.State)
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "1")

	results, err := a.search(ctx, params)
	if err != nil {
		return domain.Coordinates{}, err
	}

	// 2. 零结果时退回仅按邮编查询
	if len(results) == 0 {
		logger.Ctx(ctx).Warn().
			Str("cep", addr.CEP.String()).
			Msg("Free-text geocoding returned no results, retrying with postal code only")

		params = url.Values{}
		params.Set("postalcode", addr.CEP.Formatted())
		params.Set("country", "Brazil")
		params.Set("format", "json")
		params.Set("limit", "1")

		results, err = a.search(ctx, params)
		if err != nil {
			return domain.Coordinates{}, err
		}
	}

	if len(results) == 0 {
		return domain.Coordinates{}, errors.Wrapf(domain.ErrGeocodingFailed, "cep %s", addr.CEP.Formatted())
	}

	return parseCoordinates(results[0])
}

func (a *NominatimAdapter) search(ctx context.Context, params url.Values) ([]nominatimResult, error) {
	var results []nominatimResult
	if err := a.client.GetJSON(ctx, a.baseURL+"/search", params, &results); err != nil {
		return nil, errors.Wrap(err, "nominatim search failed")
	}
	return results, nil
}

// parseCoordinates 在边界处校验上游数据；字段缺失或不可解析按无结果处理。
func parseCoordinates(r nominatimResult) (domain.Coordinates, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return domain.Coordinates{}, errors.Wrapf(domain.ErrGeocodingFailed, "unparsable latitude %q", r.Lat)
	}
	lng, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return domain.Coordinates{}, errors.Wrapf(domain.ErrGeocodingFailed, "unparsable longitude %q", r.Lon)
	}
	return domain.Coordinates{Lat: lat, Lng: lng}, nil
}
