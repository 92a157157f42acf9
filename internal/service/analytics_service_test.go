package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/opencampus/registrar-api/internal/models"
	"github.com/opencampus/registrar-api/pkg/config"
	appErrors "github.com/opencampus/registrar-api/pkg/errors"
)

type mockAnalyticsStore struct {
	workload   []models.InstructorWorkload
	difficulty []models.CourseDifficulty
	aggregates []models.StudentRiskAggregate
	calls      int
}

func (m *mockAnalyticsStore) InstructorWorkload(ctx context.Context, filter models.WorkloadFilter) ([]models.InstructorWorkload, error) {
	m.calls++
	return m.workload, nil
}

func (m *mockAnalyticsStore) CourseDifficulty(ctx context.Context, filter models.DifficultyFilter) ([]models.CourseDifficulty, error) {
	m.calls++
	return m.difficulty, nil
}

func (m *mockAnalyticsStore) StudentRiskAggregates(ctx context.Context, filter models.RiskFilter) ([]models.StudentRiskAggregate, error) {
	m.calls++
	return m.aggregates, nil
}

type mockRollupCache struct {
	entries        map[string]interface{}
	deletedPattern string
}

func (m *mockRollupCache) Get(ctx context.Context, key string, dest interface{}) error {
	if m.entries == nil {
		return appErrors.ErrCacheMiss
	}
	value, ok := m.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	switch d := dest.(type) {
	case *[]models.InstructorWorkload:
		*d = value.([]models.InstructorWorkload)
	case *[]models.AtRiskStudent:
		*d = value.([]models.AtRiskStudent)
	}
	return nil
}

func (m *mockRollupCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.entries == nil {
		m.entries = make(map[string]interface{})
	}
	m.entries[key] = value
	return nil
}

func (m *mockRollupCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.deletedPattern = pattern
	m.entries = nil
	return nil
}

func newAnalyticsFixture(store *mockAnalyticsStore) (*AnalyticsService, *mockRollupCache) {
	cache := &mockRollupCache{}
	svc := NewAnalyticsService(store, cache, config.AnalyticsConfig{Enabled: true, CacheTTL: time.Minute}, zap.NewNop())
	return svc, cache
}

func floatPtr(v float64) *float64 { return &v }

func TestRiskScoreAllTerms(t *testing.T) {
	score := riskScore(models.StudentRiskAggregate{
		GPA:              floatPtr(2.0),
		TotalClasses:     10,
		Absences:         2,
		TotalAssignments: 4,
		Submitted:        3,
	})
	assert.Equal(t, 0.345, score)
}

func TestRiskScoreNoGradedEnrollments(t *testing.T) {
	score := riskScore(models.StudentRiskAggregate{
		GPA:              nil,
		TotalClasses:     10,
		Absences:         5,
		TotalAssignments: 2,
		Submitted:        2,
	})
	assert.Equal(t, 0.175, score)
}

func TestRiskScoreHighGPAContributesNothing(t *testing.T) {
	score := riskScore(models.StudentRiskAggregate{
		GPA:              floatPtr(3.8),
		TotalClasses:     0,
		TotalAssignments: 0,
	})
	assert.Equal(t, 0.0, score)
}

func TestAtRiskStudentsSortedByScore(t *testing.T) {
	store := &mockAnalyticsStore{aggregates: []models.StudentRiskAggregate{
		{StudentID: 1, StudentName: "Safe", GPA: floatPtr(3.5)},
		{StudentID: 2, StudentName: "Struggling", GPA: floatPtr(1.0), TotalClasses: 10, Absences: 8},
		{StudentID: 3, StudentName: "Middling", GPA: floatPtr(2.2)},
	}}
	svc, _ := newAnalyticsFixture(store)

	students, err := svc.AtRiskStudents(context.Background(), models.RiskFilter{Semester: "FALL", Year: 2026})
	require.NoError(t, err)
	require.Len(t, students, 3)
	assert.Equal(t, int64(2), students[0].StudentID)
	assert.Equal(t, int64(3), students[1].StudentID)
	assert.Equal(t, int64(1), students[2].StudentID)
}

func TestInstructorWorkloadCached(t *testing.T) {
	store := &mockAnalyticsStore{workload: []models.InstructorWorkload{{InstructorID: 1, SectionsTaught: 2}}}
	svc, _ := newAnalyticsFixture(store)
	filter := models.WorkloadFilter{MinStudents: 5}

	first, err := svc.InstructorWorkload(context.Background(), filter)
	require.NoError(t, err)
	second, err := svc.InstructorWorkload(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, store.calls)
}

func TestInvalidateDropsRollups(t *testing.T) {
	store := &mockAnalyticsStore{workload: []models.InstructorWorkload{{InstructorID: 1}}}
	svc, cache := newAnalyticsFixture(store)

	_, err := svc.InstructorWorkload(context.Background(), models.WorkloadFilter{MinStudents: 1})
	require.NoError(t, err)

	svc.Invalidate(context.Background())
	assert.Equal(t, "analytics:*", cache.deletedPattern)

	_, err = svc.InstructorWorkload(context.Background(), models.WorkloadFilter{MinStudents: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, store.calls)
}
