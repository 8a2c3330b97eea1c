package services

import (
	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
)

// The derived views share these filters with the statistics so that a count
// and the matching list can never disagree.

func todayFilter(userID uint64, today models.Date) repository.TaskFilter {
	return repository.TaskFilter{UserID: userID, Date: &today}
}

func upcomingFilter(userID uint64, today models.Date) repository.TaskFilter {
	end := today.AddDays(constants.UpcomingWindowDays)
	status := models.TaskStatusPending
	return repository.TaskFilter{
		UserID:   userID,
		DateFrom: &today,
		DateTo:   &end,
		Status:   &status,
	}
}

func overdueFilter(userID uint64, today models.Date) repository.TaskFilter {
	return repository.TaskFilter{
		UserID:     userID,
		DateBefore: &today,
		Statuses:   []models.TaskStatus{models.TaskStatusPending, models.TaskStatusInProgress},
	}
}

func statusFilter(userID uint64, status models.TaskStatus) repository.TaskFilter {
	return repository.TaskFilter{UserID: userID, Status: &status}
}

func priorityFilter(userID uint64, priority models.TaskPriority) repository.TaskFilter {
	return repository.TaskFilter{UserID: userID, Priority: &priority}
}
