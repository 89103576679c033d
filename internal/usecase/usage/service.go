// Package usage exposes embedding token consumption as a read model for
// the API layer.
package usage

import (
	"context"
)

// BudgetReader is the subset of the budget tracker the report needs.
type BudgetReader interface {
	DailyUsed() int64
	MonthlyUsed() int64
	DailyLimit() int64
	MonthlyLimit() int64
	RemainingDaily() int64
	RemainingMonthly() int64
}

// Window reports consumption against one budget window. Limit 0 means
// the window is unlimited and Remaining is meaningless.
type Window struct {
	Used      int64 `json:"used"`
	Limit     int64 `json:"limit"`
	Remaining int64 `json:"remaining"`
	Unlimited bool  `json:"unlimited"`
}

// Report is the full usage snapshot.
type Report struct {
	Provider string `json:"provider"`
	Daily    Window `json:"daily"`
	Monthly  Window `json:"monthly"`
}

// Service renders budget tracker state into API-shaped reports.
type Service struct {
	provider string
	budget   BudgetReader
}

func NewService(provider string, budget BudgetReader) *Service {
	return &Service{provider: provider, budget: budget}
}

// Report snapshots current consumption. The context is accepted for
// interface symmetry; the tracker answers from memory.
func (s *Service) Report(_ context.Context) Report {
	if s.budget == nil {
		return Report{
			Provider: s.provider,
			Daily:    Window{Unlimited: true},
			Monthly:  Window{Unlimited: true},
		}
	}
	return Report{
		Provider: s.provider,
		Daily: Window{
			Used:      s.budget.DailyUsed(),
			Limit:     s.budget.DailyLimit(),
			Remaining: s.budget.RemainingDaily(),
			Unlimited: s.budget.DailyLimit() <= 0,
		},
		Monthly: Window{
			Used:      s.budget.MonthlyUsed(),
			Limit:     s.budget.MonthlyLimit(),
			Remaining: s.budget.RemainingMonthly(),
			Unlimited: s.budget.MonthlyLimit() <= 0,
		},
	}
}
