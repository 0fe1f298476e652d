package fiber

import (
	"page-insights-dashboard/internal/dashboard/core/domain"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"
)

type option struct {
	Value    string
	Label    string
	Selected bool
}

type card struct {
	Title string
	Value string
}

type viewModel struct {
	User      *domain.User
	Avatar    string
	Pages     []option
	Periods   []option
	Since     string
	Until     string
	Loading   bool
	Error     string
	FormError string
	Cards     []card
}

func newViewModel(s domain.State) viewModel {
	vm := viewModel{
		User:    s.User,
		Since:   domain.FormatDate(s.Selection.Since),
		Until:   domain.FormatDate(s.Selection.Until),
		Loading: s.Loading,
		Error:   s.Error,
	}

	if s.User != nil && s.User.PictureURL != "" {
		vm.Avatar = string(templ.URL(s.User.PictureURL))
	}

	for _, p := range s.Pages {
		vm.Pages = append(vm.Pages, option{
			Value:    p.ID,
			Label:    p.Name,
			Selected: p.ID == s.Selection.PageID,
		})
	}
	for _, o := range domain.PeriodOptions {
		vm.Periods = append(vm.Periods, option{
			Value:    string(o.Value),
			Label:    o.Label,
			Selected: o.Value == s.Selection.Period,
		})
	}

	if len(s.Metrics) > 0 {
		for _, c := range domain.Cards {
			vm.Cards = append(vm.Cards, card{
				Title: c.Title,
				Value: humanize.Comma(c.Value(s.Metrics)),
			})
		}
	}
	return vm
}
