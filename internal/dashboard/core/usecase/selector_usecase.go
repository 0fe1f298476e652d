package usecase

import (
	"page-insights-dashboard/internal/dashboard/core/domain"
)

// SelectInput carries raw form values. Nil fields are left unchanged; an empty
// date clears it.
type SelectInput struct {
	PageID *string
	Period *string
	Since  *string
	Until  *string
}

// Select updates the form state. It performs no validation beyond parsing.
func (c *Controller) Select(in SelectInput) error {
	next, err := c.applySelection(in)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !sameSelection(c.state.Selection, next) {
		c.state.Selection = next
		c.generation++
	}
	return nil
}

func (c *Controller) applySelection(in SelectInput) (domain.Selection, error) {
	c.mu.Lock()
	sel := c.state.Selection
	c.mu.Unlock()

	if in.PageID != nil {
		sel.PageID = *in.PageID
	}
	if in.Period != nil {
		p, err := domain.ParsePeriod(*in.Period)
		if err != nil {
			return sel, ErrInvalidPeriod
		}
		sel.Period = p
	}
	if in.Since != nil {
		t, err := domain.ParseDate(*in.Since)
		if err != nil {
			return sel, ErrInvalidDate
		}
		sel.Since = t
	}
	if in.Until != nil {
		t, err := domain.ParseDate(*in.Until)
		if err != nil {
			return sel, ErrInvalidDate
		}
		sel.Until = t
	}
	return sel, nil
}

func sameSelection(a, b domain.Selection) bool {
	return a.PageID == b.PageID &&
		a.Period == b.Period &&
		domain.FormatDate(a.Since) == domain.FormatDate(b.Since) &&
		domain.FormatDate(a.Until) == domain.FormatDate(b.Until)
}
