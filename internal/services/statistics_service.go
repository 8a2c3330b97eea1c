package services

import (
	"context"
	"fmt"
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
)

// PriorityCounts breaks a task count down by priority.
type PriorityCounts struct {
	Urgent int64 `json:"urgent"`
	High   int64 `json:"high"`
	Medium int64 `json:"medium"`
	Low    int64 `json:"low"`
}

func (c *PriorityCounts) slot(priority models.TaskPriority) *int64 {
	switch priority {
	case models.TaskPriorityUrgent:
		return &c.Urgent
	case models.TaskPriorityHigh:
		return &c.High
	case models.TaskPriorityMedium:
		return &c.Medium
	default:
		return &c.Low
	}
}

// Statistics summarises a user's tasks.
type Statistics struct {
	Total      int64          `json:"total"`
	Completed  int64          `json:"completed"`
	Pending    int64          `json:"pending"`
	InProgress int64          `json:"in_progress"`
	Overdue    int64          `json:"overdue"`
	Today      int64          `json:"today"`
	ByPriority PriorityCounts `json:"by_priority"`
}

// StatisticsService computes read-only counts over the caller's tasks.
type StatisticsService struct {
	taskRepo repository.TaskRepository
	now      func() time.Time
}

// NewStatisticsService creates a new StatisticsService
func NewStatisticsService(taskRepo repository.TaskRepository) *StatisticsService {
	return &StatisticsService{
		taskRepo: taskRepo,
		now:      time.Now,
	}
}

// SetClock replaces the clock used to decide what "today" is.
func (s *StatisticsService) SetClock(now func() time.Time) {
	s.now = now
}

type countQuery struct {
	dst    *int64
	filter repository.TaskFilter
}

// Aggregate counts the user's tasks using the same filters as the task views.
func (s *StatisticsService) Aggregate(ctx context.Context, userID uint64) (*Statistics, error) {
	today := models.DateOf(s.now())
	stats := &Statistics{}

	counts := []countQuery{
		{&stats.Total, repository.TaskFilter{UserID: userID}},
		{&stats.Completed, statusFilter(userID, models.TaskStatusCompleted)},
		{&stats.Pending, statusFilter(userID, models.TaskStatusPending)},
		{&stats.InProgress, statusFilter(userID, models.TaskStatusInProgress)},
		{&stats.Overdue, overdueFilter(userID, today)},
		{&stats.Today, todayFilter(userID, today)},
	}
	for _, priority := range models.Priorities {
		counts = append(counts, countQuery{stats.ByPriority.slot(priority), priorityFilter(userID, priority)})
	}

	for _, c := range counts {
		n, err := s.taskRepo.Count(ctx, c.filter)
		if err != nil {
			return nil, fmt.Errorf("failed to compute statistics: %w", err)
		}
		*c.dst = n
	}

	return stats, nil
}
