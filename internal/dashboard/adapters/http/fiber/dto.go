package fiber

import "page-insights-dashboard/internal/dashboard/core/domain"

type UserResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	PictureURL string `json:"picture_url,omitempty"`
}

type PageResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

type SelectionResponse struct {
	PageID string `json:"page_id"`
	Period string `json:"period" example:"days_28"`
	Since  string `json:"since,omitempty" example:"2024-05-01"`
	Until  string `json:"until,omitempty" example:"2024-05-31"`
}

type CardResponse struct {
	Title  string `json:"title" example:"Total Followers"`
	Metric string `json:"metric" example:"page_fans"`
	Value  int64  `json:"value" example:"120"`
}

type StateResponse struct {
	Status    string            `json:"status" example:"connected"`
	User      *UserResponse     `json:"user,omitempty"`
	Pages     []PageResponse    `json:"pages"`
	Selection SelectionResponse `json:"selection"`
	Metrics   map[string]any    `json:"metrics"`
	Cards     []CardResponse    `json:"cards"`
	Error     string            `json:"error,omitempty"`
	Loading   bool              `json:"loading"`
}

type SelectionRequest struct {
	PageID *string `json:"page_id"`
	Period *string `json:"period" example:"week"`
	Since  *string `json:"since" example:"2024-05-01"`
	Until  *string `json:"until" example:"2024-05-31"`
}

type PeriodResponse struct {
	Value string `json:"value" example:"days_28"`
	Label string `json:"label" example:"Days 28"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"fetch_in_progress"`
	Message string `json:"message" example:"insights request already in flight"`
}

// toStateResponse never exposes page access tokens.
func toStateResponse(s domain.State) StateResponse {
	resp := StateResponse{
		Status: string(s.Status),
		Pages:  make([]PageResponse, 0, len(s.Pages)),
		Selection: SelectionResponse{
			PageID: s.Selection.PageID,
			Period: string(s.Selection.Period),
			Since:  domain.FormatDate(s.Selection.Since),
			Until:  domain.FormatDate(s.Selection.Until),
		},
		Metrics: map[string]any{},
		Cards:   []CardResponse{},
		Error:   s.Error,
		Loading: s.Loading,
	}

	if s.User != nil {
		resp.User = &UserResponse{
			ID:         s.User.ID,
			Name:       s.User.Name,
			Email:      s.User.Email,
			PictureURL: s.User.PictureURL,
		}
	}
	for _, p := range s.Pages {
		resp.Pages = append(resp.Pages, PageResponse{ID: p.ID, Name: p.Name, Category: p.Category})
	}
	for k, v := range s.Metrics {
		resp.Metrics[k] = v
	}
	if len(s.Metrics) > 0 {
		for _, c := range domain.Cards {
			resp.Cards = append(resp.Cards, CardResponse{Title: c.Title, Metric: c.Metric, Value: c.Value(s.Metrics)})
		}
	}
	return resp
}
