package services

import (
	"github.com/taskflow/taskflow-api/internal/models"
)

func (suite *ServiceTestSuite) TestAggregate() {
	user := suite.signup("alice")
	other := suite.signup("bob")
	yesterday := suite.today.AddDays(-1)

	mk := func(title string, date models.Date, status models.TaskStatus, priority models.TaskPriority) {
		_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
			UserID:   user.ID,
			Title:    title,
			Date:     date,
			Status:   status,
			Priority: priority,
		})
		suite.Require().NoError(err)
	}
	mk("a", yesterday, models.TaskStatusPending, models.TaskPriorityUrgent)
	mk("b", yesterday, models.TaskStatusCompleted, models.TaskPriorityHigh)
	mk("c", suite.today, models.TaskStatusInProgress, models.TaskPriorityHigh)
	mk("d", suite.today.AddDays(3), models.TaskStatusPending, models.TaskPriorityLow)
	suite.createTask(other.ID, "not mine", yesterday, models.TaskStatusPending)

	stats, err := suite.stats.Aggregate(suite.ctx, user.ID)
	suite.Require().NoError(err)

	suite.Equal(&Statistics{
		Total:      4,
		Completed:  1,
		Pending:    2,
		InProgress: 1,
		Overdue:    1,
		Today:      1,
		ByPriority: PriorityCounts{Urgent: 1, High: 2, Medium: 0, Low: 1},
	}, stats)
	suite.Equal(stats.Total, stats.Completed+stats.Pending+stats.InProgress)
}

func (suite *ServiceTestSuite) TestAggregate_MatchesViews() {
	user := suite.signup("alice")
	for i := -3; i <= 9; i++ {
		status := models.TaskStatusPending
		if i%3 == 0 {
			status = models.TaskStatusCompleted
		}
		suite.createTask(user.ID, "task", suite.today.AddDays(i), status)
	}

	stats, err := suite.stats.Aggregate(suite.ctx, user.ID)
	suite.Require().NoError(err)

	overdue, err := suite.tasks.OverdueTasks(suite.ctx, user.ID)
	suite.Require().NoError(err)
	today, err := suite.tasks.TodayTasks(suite.ctx, user.ID)
	suite.Require().NoError(err)

	suite.EqualValues(len(overdue), stats.Overdue)
	suite.EqualValues(len(today), stats.Today)
}
