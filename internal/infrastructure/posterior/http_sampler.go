package posterior

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"EclipseCast/internal/domain"
	"EclipseCast/internal/ports"
)

// HTTPSamplerName identifies HTTPSampler in the sampler registry.
const HTTPSamplerName = "http"

// HTTPSampler asks a remote fitting service for posterior draws.
// The request has no client-side timeout; only ctx can abandon it.
type HTTPSampler struct {
	endpoint string
	apiKey   string
	draws    int
	http     *http.Client
}

var _ ports.PosteriorSampler = (*HTTPSampler)(nil)

// NewHTTPSampler creates a sampler posting to endpoint + "/sample".
func NewHTTPSampler(endpoint, apiKey string, draws int, client *http.Client) *HTTPSampler {
	if client == nil {
		client = &http.Client{}
	}
	return &HTTPSampler{endpoint: endpoint, apiKey: apiKey, draws: draws, http: client}
}

// Name identifies the strategy inside the registry.
func (h *HTTPSampler) Name() string {
	return HTTPSamplerName
}

type measurementJSON struct {
	Value    float64 `json:"value"`
	ErrLower float64 `json:"err_lower"`
	ErrUpper float64 `json:"err_upper"`
}

type sampleRequest struct {
	Name           string          `json:"name"`
	Draws          int             `json:"draws"`
	TransitMidtime measurementJSON `json:"transit_midtime"`
	Period         measurementJSON `json:"period"`
	AOverRs        measurementJSON `json:"a_over_rs"`
	Inclination    measurementJSON `json:"inclination"`
	Eccentricity   measurementJSON `json:"eccentricity"`
	Omega          measurementJSON `json:"omega"`
}

type sampleResponse struct {
	// Samples rows are [a_over_rs, cos_i, e, omega].
	Samples [][4]float64 `json:"samples"`
}

// Sample posts the profile and decodes the returned draws.
func (h *HTTPSampler) Sample(ctx context.Context, system domain.SystemProfile) (domain.PosteriorSampleSet, error) {
	payload := sampleRequest{
		Name:           system.Name,
		Draws:          h.draws,
		TransitMidtime: toJSON(system.TransitMidtime),
		Period:         toJSON(system.Period),
		AOverRs:        toJSON(system.AOverRs),
		Inclination:    toJSON(system.Inclination),
		Eccentricity:   toJSON(system.Eccentricity),
		Omega:          toJSON(system.Omega),
	}

	var resp sampleResponse
	if err := h.post(ctx, "/sample", payload, &resp); err != nil {
		return nil, fmt.Errorf("sample %s: %w", system.Name, err)
	}

	out := make(domain.PosteriorSampleSet, len(resp.Samples))
	for i, s := range resp.Samples {
		out[i] = domain.PosteriorDraw{AOverRs: s[0], CosI: s[1], E: s[2], Omega: s[3]}
	}
	return out, nil
}

func toJSON(m domain.Measurement) measurementJSON {
	return measurementJSON{Value: m.Value, ErrLower: m.ErrLower, ErrUpper: m.ErrUpper}
}

func (h *HTTPSampler) post(ctx context.Context, path string, payload any, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+h.apiKey)
	}

	resp, err := h.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
