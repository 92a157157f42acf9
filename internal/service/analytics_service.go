package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/pkg/config"
)

type analyticsStore interface {
	InstructorWorkload(ctx context.Context, filter models.WorkloadFilter) ([]models.InstructorWorkload, error)
	CourseDifficulty(ctx context.Context, filter models.DifficultyFilter) ([]models.CourseDifficulty, error)
	StudentRiskAggregates(ctx context.Context, filter models.RiskFilter) ([]models.StudentRiskAggregate, error)
}

type rollupCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

// AnalyticsService serves the reporting rollups, caching each result for the
// configured TTL. Writes that change grades, enrollments or attendance call
// Invalidate to drop the cache.
type AnalyticsService struct {
	store analyticsStore
	cache rollupCache
	cfg   config.AnalyticsConfig
	log   *zap.Logger
}

// NewAnalyticsService constructs the service.
func NewAnalyticsService(store analyticsStore, cache rollupCache, cfg config.AnalyticsConfig, log *zap.Logger) *AnalyticsService {
	return &AnalyticsService{store: store, cache: cache, cfg: cfg, log: log}
}

// InstructorWorkload returns the workload/performance rollup.
func (s *AnalyticsService) InstructorWorkload(ctx context.Context, filter models.WorkloadFilter) ([]models.InstructorWorkload, error) {
	key := fmt.Sprintf("analytics:workload:min=%d", filter.MinStudents)

	var cached []models.InstructorWorkload
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	rows, err := s.store.InstructorWorkload(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

// CourseDifficulty returns the failure-rate rollup.
func (s *AnalyticsService) CourseDifficulty(ctx context.Context, filter models.DifficultyFilter) ([]models.CourseDifficulty, error) {
	key := fmt.Sprintf("analytics:difficulty:min=%d", filter.MinStudents)

	var cached []models.CourseDifficulty
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	rows, err := s.store.CourseDifficulty(ctx, filter)
	if err != nil {
		return nil, err
	}
	s.cacheSet(ctx, key, rows)
	return rows, nil
}

// AtRiskStudents scores every active student for one semester and returns
// them ordered by descending risk.
func (s *AnalyticsService) AtRiskStudents(ctx context.Context, filter models.RiskFilter) ([]models.AtRiskStudent, error) {
	key := fmt.Sprintf("analytics:risk:%s:%d", filter.Semester, filter.Year)

	var cached []models.AtRiskStudent
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	aggregates, err := s.store.StudentRiskAggregates(ctx, filter)
	if err != nil {
		return nil, err
	}

	students := make([]models.AtRiskStudent, 0, len(aggregates))
	for _, agg := range aggregates {
		students = append(students, models.AtRiskStudent{
			StudentID:   agg.StudentID,
			StudentName: agg.StudentName,
			RiskScore:   riskScore(agg),
		})
	}
	sort.SliceStable(students, func(i, j int) bool {
		return students[i].RiskScore > students[j].RiskScore
	})

	s.cacheSet(ctx, key, students)
	return students, nil
}

// Invalidate drops every cached rollup.
func (s *AnalyticsService) Invalidate(ctx context.Context) {
	if err := s.cache.DeleteByPattern(ctx, "analytics:*"); err != nil {
		s.log.Warn("invalidate analytics cache", zap.Error(err))
	}
}

func (s *AnalyticsService) cacheSet(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.log.Warn("cache analytics rollup", zap.String("key", key), zap.Error(err))
	}
}

// riskScore composes three weighted terms: low GPA (0.45), absence rate
// (0.35) and missing submissions (0.20). A term with no underlying data
// contributes zero rather than a guessed default.
func riskScore(agg models.StudentRiskAggregate) float64 {
	score := 0.0
	if agg.GPA != nil {
		score += 0.45 * math.Max(0, 2.5-*agg.GPA)
	}
	if agg.TotalClasses > 0 {
		score += 0.35 * float64(agg.Absences) / float64(agg.TotalClasses)
	}
	if agg.TotalAssignments > 0 {
		score += 0.20 * float64(agg.TotalAssignments-agg.Submitted) / float64(agg.TotalAssignments)
	}
	return math.Round(score*10000) / 10000
}
