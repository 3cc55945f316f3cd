package domain

import "errors"

var (
	// ErrInvalidCEP 输入格式错误，调用方可修正，永不重试
	ErrInvalidCEP = errors.New("invalid CEP: must contain exactly 8 digits")

	// ErrCEPNotFound 邮编服务明确报告"查无此邮编"，区别于传输失败
	ErrCEPNotFound = errors.New("CEP not found")

	// ErrGeocodingFailed 两级地理编码查询都没有返回可用坐标
	ErrGeocodingFailed = errors.New("could not resolve coordinates for address")

	// ErrRouteNotFound 路径服务不可用或未返回路线；调用方负责走直线兜底
	ErrRouteNotFound = errors.New("routing service could not calculate a route")
)
