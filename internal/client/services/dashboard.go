package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/eduadmin/internal/client/client"
	"github.com/dmitrijs2005/eduadmin/internal/client/models"
)

const (
	dashboardPath = "/core/dashboard-stats/"
	searchPath    = "/core/global-search/"

	// MinSearchLength is the shortest query sent to global search.
	MinSearchLength = 2
)

type DashboardService interface {
	Stats(ctx context.Context, branchID *int64) (models.DashboardStats, error)
}

type dashboardService struct {
	client client.Client
}

func NewDashboardService(c client.Client) DashboardService {
	return &dashboardService{client: c}
}

func (s *dashboardService) Stats(ctx context.Context, branchID *int64) (models.DashboardStats, error) {
	var q url.Values
	if branchID != nil {
		q = url.Values{"branch": {strconv.FormatInt(*branchID, 10)}}
	}
	var stats models.DashboardStats
	if err := s.client.Do(ctx, client.Request{Method: http.MethodGet, Path: dashboardPath, Query: q}, &stats); err != nil {
		return models.DashboardStats{}, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

// SearchResults are global search hits grouped by kind.
type SearchResults struct {
	Teachers []models.SearchHit
	Students []models.SearchHit
}

func (r SearchResults) Empty() bool {
	return len(r.Teachers) == 0 && len(r.Students) == 0
}

type SearchService interface {
	Search(ctx context.Context, query string) (SearchResults, error)
}

type searchService struct {
	client client.Client
}

func NewSearchService(c client.Client) SearchService {
	return &searchService{client: c}
}

// Search runs a global search. Queries shorter than MinSearchLength return
// no results without a request.
func (s *searchService) Search(ctx context.Context, query string) (SearchResults, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength {
		return SearchResults{}, nil
	}

	var hits []models.SearchHit
	err := s.client.Do(ctx, client.Request{Method: http.MethodGet, Path: searchPath, Query: url.Values{"q": {query}}}, &hits)
	if err != nil {
		return SearchResults{}, fmt.Errorf("global search: %w", err)
	}

	var out SearchResults
	for _, h := range hits {
		switch h.Type {
		case "teacher":
			out.Teachers = append(out.Teachers, h)
		case "student":
			out.Students = append(out.Students, h)
		}
	}
	return out, nil
}
