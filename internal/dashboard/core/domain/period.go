package domain

import "errors"

var ErrUnknownPeriod = errors.New("unknown period")

// Period is the reporting window granularity requested from the insights endpoint.
type Period string

const (
	PeriodDay            Period = "day"
	PeriodWeek           Period = "week"
	PeriodDays28         Period = "days_28"
	PeriodMonth          Period = "month"
	PeriodLifetime       Period = "lifetime"
	PeriodTotalOverRange Period = "total_over_range"
)

const DefaultPeriod = PeriodDays28

type PeriodOption struct {
	Label string
	Value Period
}

// PeriodOptions lists the selectable periods in display order.
var PeriodOptions = []PeriodOption{
	{Label: "Day", Value: PeriodDay},
	{Label: "Week", Value: PeriodWeek},
	{Label: "Days 28", Value: PeriodDays28},
	{Label: "Month", Value: PeriodMonth},
	{Label: "Lifetime", Value: PeriodLifetime},
	{Label: "Total Over Range", Value: PeriodTotalOverRange},
}

// ParsePeriod maps a raw form/query value onto a Period. Empty input yields DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	for _, o := range PeriodOptions {
		if string(o.Value) == s {
			return o.Value, nil
		}
	}
	return "", ErrUnknownPeriod
}

func (p Period) Label() string {
	for _, o := range PeriodOptions {
		if o.Value == p {
			return o.Label
		}
	}
	return string(p)
}
