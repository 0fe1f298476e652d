package usecase

import (
	"page-insights-dashboard/internal/dashboard/core/domain"
	"page-insights-dashboard/internal/dashboard/core/ports"
)

// graphError is embedded in every response so an error payload delivered as
// a body is surfaced instead of decoding to an empty result.
type graphError struct {
	Error *ports.APIError `json:"error"`
}

func (g graphError) err() error {
	if g.Error != nil {
		return g.Error
	}
	return nil
}

type profileResponse struct {
	graphError
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
}

type accountsResponse struct {
	graphError
	Data []struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Category    string `json:"category"`
		AccessToken string `json:"access_token"`
	} `json:"data"`
}

type insightsResponse struct {
	graphError
	Data []domain.InsightEntry `json:"data"`
}
