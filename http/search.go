package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/redecred/redecred"
)

// Ensure ProviderSearcher implements redecred.ProviderSearcher at compile time.
var _ redecred.ProviderSearcher = (*ProviderSearcher)(nil)

// ProviderSearcher implements redecred.ProviderSearcher using the
// ConsultaRedeCredenciada endpoint.
type ProviderSearcher struct {
	client *Client
}

// NewProviderSearcher creates a new ProviderSearcher.
func NewProviderSearcher(client *Client) *ProviderSearcher {
	return &ProviderSearcher{client: client}
}

type searchResponse struct {
	ResultData *searchResult `json:"resultData"`
}

type searchResult struct {
	Items      []apiProvider `json:"items"`
	TotalPages *int          `json:"totalPages"`
}

type apiProvider struct {
	FantasyName    string           `json:"nmeFantasia"`
	ContractedName string           `json:"nmeContratado"`
	Phone          FlexString       `json:"telefone"`
	Address        *apiAddress      `json:"endereco"`
	Specialties    []apiSpecialtyOf `json:"especialidades"`
}

type apiAddress struct {
	City         string `json:"nmeCidade"`
	State        string `json:"sglEstado"`
	Neighborhood string `json:"bairro"`
}

type apiSpecialtyOf struct {
	Name string `json:"esp"`
}

// SearchPage fetches one page of providers for the encoded filter parameters.
func (s *ProviderSearcher) SearchPage(ctx context.Context, parameters string, page, pageSize int) (*redecred.ProviderPage, error) {
	if pageSize <= 0 {
		pageSize = redecred.DefaultPageSize
	}

	body, err := s.client.get(ctx, "/ConsultaRedeCredenciada", url.Values{
		"Parameters": {parameters},
		"PageSize":   {strconv.Itoa(pageSize)},
		"pageNumber": {strconv.Itoa(page)},
	})
	if err != nil {
		return nil, redecred.Errorf(redecred.EUNAVAILABLE, "failed to fetch providers: %v", err)
	}

	if !json.Valid(body) {
		return nil, redecred.Errorf(redecred.EUNAVAILABLE, "invalid JSON in provider response")
	}

	// Anything other than an object carrying a resultData envelope is
	// reported as an empty, malformed page.
	if trimmed := bytes.TrimSpace(body); len(trimmed) == 0 || trimmed[0] != '{' {
		return &redecred.ProviderPage{Malformed: true}, nil
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, redecred.Errorf(redecred.EUNAVAILABLE, "failed to decode providers: %v", err)
	}
	if resp.ResultData == nil {
		return &redecred.ProviderPage{Malformed: true}, nil
	}

	result := &redecred.ProviderPage{
		Providers:  make([]*redecred.Provider, 0, len(resp.ResultData.Items)),
		TotalPages: 1,
	}
	if resp.ResultData.TotalPages != nil {
		result.TotalPages = *resp.ResultData.TotalPages
	}
	for _, item := range resp.ResultData.Items {
		result.Providers = append(result.Providers, normalizeProvider(item))
	}

	return result, nil
}

// normalizeProvider projects an upstream item onto a display record.
func normalizeProvider(item apiProvider) *redecred.Provider {
	var addr apiAddress
	if item.Address != nil {
		addr = *item.Address
	}

	names := make([]string, 0, len(item.Specialties))
	for _, sp := range item.Specialties {
		names = append(names, sp.Name)
	}

	return &redecred.Provider{
		Name:        redecred.DisplayName(item.FantasyName, item.ContractedName),
		Phone:       item.Phone.String(),
		Address:     redecred.FormatAddress(addr.City, addr.State, addr.Neighborhood),
		Specialties: redecred.JoinSpecialties(names),
	}
}
