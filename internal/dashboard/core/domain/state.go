package domain

import "time"

// DateLayout is the wire format of since/until.
const DateLayout = "2006-01-02"

// Selection is the form state driving an insights request.
type Selection struct {
	PageID string
	Period Period
	Since  *time.Time
	Until  *time.Time
}

// State is a point-in-time copy of a dashboard controller.
type State struct {
	Status    LoginStatus
	User      *User
	Pages     []Page
	Selection Selection
	Metrics   Metrics
	Error     string
	Loading   bool
}

func (s State) Authenticated() bool { return s.User != nil }

// Page returns the page with the given id from the loaded list.
func (s State) Page(id string) (Page, bool) {
	for _, p := range s.Pages {
		if p.ID == id {
			return p, true
		}
	}
	return Page{}, false
}

// FormatDate renders an optional date in DateLayout, or "".
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayout)
}

// ParseDate parses an optional DateLayout date; empty input yields nil.
func ParseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
