package domain

import (
	"context"
	"errors"
	"time"
)

// Common domain errors
var ErrNotFound = errors.New("resource not found")

// Job is a posting candidates apply to. Admin tooling owns writes; from the
// candidate workflow's perspective a job is read-only.
type Job struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Location    string `json:"location"`
	Description string `json:"description"`

	// Allowed preference lists and per-job selection ceilings
	Countries              []string `json:"countries"`
	Trades                 []string `json:"trades"`
	MaxCountriesSelectable int      `json:"max_countries_selectable"`
	MaxTradesSelectable    int      `json:"max_trades_selectable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AllowsCountry reports whether name is in the job's allowed country list.
func (j *Job) AllowsCountry(name string) bool {
	return contains(j.Countries, name)
}

// AllowsTrade reports whether name is in the job's allowed trade list.
func (j *Job) AllowsTrade(name string) bool {
	return contains(j.Trades, name)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

type JobRepository interface {
	GetByID(ctx context.Context, id int64) (*Job, error)
	Fetch(ctx context.Context, limit, offset int) ([]Job, int64, error)
}

type JobUsecase interface {
	GetJobDetails(ctx context.Context, id int64) (*Job, error)
	ListJobs(ctx context.Context, page, pageSize int) ([]Job, int64, error)
}
