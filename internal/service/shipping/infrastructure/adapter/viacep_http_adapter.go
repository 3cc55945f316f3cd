package adapter

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"vitrine/internal/pkg/httpclient"
	"vitrine/internal/service/shipping/domain"
)

// ViaCEPAdapter 是 port.AddressProvider 接口的HTTP实现，对接 ViaCEP 风格的邮编查询服务。
type ViaCEPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

// NewViaCEPAdapter 创建一个新的邮编查询适配器实例。
func NewViaCEPAdapter(client *httpclient.Client, baseURL string) *ViaCEPAdapter {
	return &ViaCEPAdapter{client: client, baseURL: baseURL}
}

// viaCEPResponse 显式建模上游返回的JSON。
// 服务用 erro 标志表示"查无此邮编"，这与传输失败是两种不同的错误。
type viaCEPResponse struct {
	Cep        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
	Erro       bool   `json:"erro"`
}

// GetAddressFromCEP 实现了调用邮编查询服务的逻辑。
func (a *ViaCEPAdapter) GetAddressFromCEP(ctx context.Context, cep domain.CEP) (*domain.Address, error) {
	url := fmt.Sprintf("%s/%s/json", a.baseURL, cep)

	var resp viaCEPResponse
	if err := a.client.GetJSON(ctx, url, nil, &resp); err != nil {
		return nil, errors.Wrap(err, "viacep lookup failed")
	}
	if resp.Erro {
		return nil, errors.Wrapf(domain.ErrCEPNotFound, "cep %s", cep.Formatted())
	}

	return &domain.Address{
		Street:       resp.Logradouro,
		Neighborhood: resp.Bairro,
		City:         resp.Localidade,
		State:        resp.UF,
		CEP:          cep,
	}, nil
}
