package services

import (
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
)

func (suite *ServiceTestSuite) TestCreateTask_Defaults() {
	user := suite.signup("alice")

	task := suite.createTask(user.ID, "Write report", suite.today, "")

	suite.Equal(models.TaskStatusPending, task.Status)
	suite.Equal(models.TaskPriorityMedium, task.Priority)
	suite.Equal("other", task.DefaultCategory)
	suite.Equal("other", task.CategoryName())
	suite.Nil(task.CustomCategoryID)
	suite.False(task.ReminderSent)
}

func (suite *ServiceTestSuite) TestCreateTask_Validation() {
	user := suite.signup("alice")

	_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "   ", Date: suite.today})
	suite.ErrorIs(err, ErrTitleEmpty)
	suite.ErrorIs(err, ErrValidation)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "x", Date: suite.today, Status: "done"})
	suite.ErrorIs(err, ErrInvalidStatus)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "x", Date: suite.today, Priority: "critical"})
	suite.ErrorIs(err, ErrInvalidPriority)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "x"})
	suite.ErrorIs(err, ErrDateRequired)

	bad := "25:99"
	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "x", Date: suite.today, Time: &bad})
	suite.ErrorIs(err, ErrInvalidTime)

	suite.Zero(suite.countRows(&models.Task{}))
}

func (suite *ServiceTestSuite) TestCreateTask_NormalizesTime() {
	user := suite.signup("alice")
	at := "09:05"

	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "Standup", Date: suite.today, Time: &at})
	suite.Require().NoError(err)
	suite.Require().NotNil(task.Time)
	suite.Equal("09:05:00", *task.Time)
}

func (suite *ServiceTestSuite) TestOwnershipIsolation() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")
	task := suite.createTask(alice.ID, "Private", suite.today, "")

	_, err := suite.tasks.GetTask(suite.ctx, bob.ID, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	title := "Hijacked"
	_, err = suite.tasks.UpdateTask(suite.ctx, bob.ID, task.ID, UpdateTaskInput{Title: &title})
	suite.ErrorIs(err, ErrNotFound)

	_, err = suite.tasks.ToggleTaskStatus(suite.ctx, bob.ID, task.ID)
	suite.ErrorIs(err, ErrNotFound)

	suite.ErrorIs(suite.tasks.DeleteTask(suite.ctx, bob.ID, task.ID), ErrNotFound)

	tasks, total, err := suite.tasks.ListTasks(suite.ctx, ListTasksInput{UserID: bob.ID})
	suite.Require().NoError(err)
	suite.Empty(tasks)
	suite.Zero(total)

	stored, err := suite.tasks.GetTask(suite.ctx, alice.ID, task.ID)
	suite.Require().NoError(err)
	suite.Equal("Private", stored.Title)
}

func (suite *ServiceTestSuite) TestToggleTaskStatus() {
	user := suite.signup("alice")
	pending := suite.createTask(user.ID, "Pending", suite.today, models.TaskStatusPending)
	inProgress := suite.createTask(user.ID, "Started", suite.today, models.TaskStatusInProgress)

	toggled, err := suite.tasks.ToggleTaskStatus(suite.ctx, user.ID, pending.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusCompleted, toggled.Status)

	toggled, err = suite.tasks.ToggleTaskStatus(suite.ctx, user.ID, pending.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusPending, toggled.Status)

	toggled, err = suite.tasks.ToggleTaskStatus(suite.ctx, user.ID, inProgress.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusPending, toggled.Status)

	stored, err := suite.tasks.GetTask(suite.ctx, user.ID, inProgress.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusPending, stored.Status)

	// Once an in-progress task is pending it toggles like any other pending task.
	toggled, err = suite.tasks.ToggleTaskStatus(suite.ctx, user.ID, inProgress.ID)
	suite.Require().NoError(err)
	suite.Equal(models.TaskStatusCompleted, toggled.Status)
}

func (suite *ServiceTestSuite) TestMutationsRefreshUpdatedAt() {
	suite.db.NowFunc = func() time.Time { return suite.now }
	user := suite.signup("alice")
	category, err := suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: user.ID, Name: "Work"})
	suite.Require().NoError(err)

	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		UserID:   user.ID,
		Title:    "Ship it",
		Date:     suite.today,
		Category: models.CustomCategory(category.ID),
	})
	suite.Require().NoError(err)
	last := task.UpdatedAt

	refreshed := func() *models.Task {
		stored, err := suite.tasks.GetTask(suite.ctx, user.ID, task.ID)
		suite.Require().NoError(err)
		suite.True(stored.UpdatedAt.After(last), "updated_at %v not after %v", stored.UpdatedAt, last)
		last = stored.UpdatedAt
		return stored
	}

	suite.now = suite.now.Add(time.Minute)
	_, err = suite.tasks.UpdateTask(suite.ctx, user.ID, task.ID, UpdateTaskInput{Title: strPtr("Shipped")})
	suite.Require().NoError(err)
	refreshed()

	suite.now = suite.now.Add(time.Minute)
	_, err = suite.tasks.ToggleTaskStatus(suite.ctx, user.ID, task.ID)
	suite.Require().NoError(err)
	refreshed()

	suite.now = suite.now.Add(time.Minute)
	suite.Require().NoError(suite.categories.DeleteCategory(suite.ctx, user.ID, category.ID))
	stored := refreshed()
	suite.Nil(stored.CustomCategoryID)
}

func (suite *ServiceTestSuite) TestDerivedViews() {
	user := suite.signup("alice")
	other := suite.signup("bob")
	yesterday := suite.today.AddDays(-1)

	suite.createTask(user.ID, "late pending", yesterday, models.TaskStatusPending)
	suite.createTask(user.ID, "late started", yesterday, models.TaskStatusInProgress)
	suite.createTask(user.ID, "late done", yesterday, models.TaskStatusCompleted)
	suite.createTask(user.ID, "today done", suite.today, models.TaskStatusCompleted)
	suite.createTask(user.ID, "today pending", suite.today, models.TaskStatusPending)
	suite.createTask(user.ID, "edge of window", suite.today.AddDays(7), models.TaskStatusPending)
	suite.createTask(user.ID, "past window", suite.today.AddDays(8), models.TaskStatusPending)
	suite.createTask(user.ID, "soon but started", suite.today.AddDays(2), models.TaskStatusInProgress)
	suite.createTask(other.ID, "someone else", yesterday, models.TaskStatusPending)

	overdue, err := suite.tasks.OverdueTasks(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"late pending", "late started"}, titles(overdue))

	today, err := suite.tasks.TodayTasks(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"today done", "today pending"}, titles(today))

	upcoming, err := suite.tasks.UpcomingTasks(suite.ctx, user.ID)
	suite.Require().NoError(err)
	suite.ElementsMatch([]string{"today pending", "edge of window"}, titles(upcoming))
}

func (suite *ServiceTestSuite) TestTasksByPriority() {
	user := suite.signup("alice")
	for _, p := range []models.TaskPriority{models.TaskPriorityHigh, models.TaskPriorityHigh, models.TaskPriorityLow} {
		_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: string(p), Date: suite.today, Priority: p})
		suite.Require().NoError(err)
	}

	high, err := suite.tasks.TasksByPriority(suite.ctx, user.ID, "")
	suite.Require().NoError(err)
	suite.Len(high, 2)

	low, err := suite.tasks.TasksByPriority(suite.ctx, user.ID, models.TaskPriorityLow)
	suite.Require().NoError(err)
	suite.Len(low, 1)

	_, err = suite.tasks.TasksByPriority(suite.ctx, user.ID, "whenever")
	suite.ErrorIs(err, ErrValidation)
}

func (suite *ServiceTestSuite) TestListTasks_SearchOrderingAndPaging() {
	user := suite.signup("alice")
	description := "Buy MILK and bread"
	_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "Groceries", Description: &description, Date: suite.today, Priority: models.TaskPriorityLow})
	suite.Require().NoError(err)
	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "Milk the cows", Date: suite.today, Priority: models.TaskPriorityUrgent})
	suite.Require().NoError(err)
	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "Taxes", Date: suite.today, Priority: models.TaskPriorityMedium})
	suite.Require().NoError(err)

	found, total, err := suite.tasks.ListTasks(suite.ctx, ListTasksInput{UserID: user.ID, Search: "milk"})
	suite.Require().NoError(err)
	suite.EqualValues(2, total)
	suite.ElementsMatch([]string{"Groceries", "Milk the cows"}, titles(found))

	byRank, _, err := suite.tasks.ListTasks(suite.ctx, ListTasksInput{UserID: user.ID, Ordering: "-priority"})
	suite.Require().NoError(err)
	suite.Equal([]string{"Milk the cows", "Taxes", "Groceries"}, titles(byRank))

	page, total, err := suite.tasks.ListTasks(suite.ctx, ListTasksInput{UserID: user.ID, Ordering: "priority", Page: 2, PageSize: 2})
	suite.Require().NoError(err)
	suite.EqualValues(3, total)
	suite.Equal([]string{"Milk the cows"}, titles(page))

	_, _, err = suite.tasks.ListTasks(suite.ctx, ListTasksInput{UserID: user.ID, Ordering: "title"})
	suite.ErrorIs(err, ErrInvalidOrdering)
}

func (suite *ServiceTestSuite) TestUpdateTask_PartialAndClears() {
	user := suite.signup("alice")
	description := "first draft"
	at := "08:00"
	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{UserID: user.ID, Title: "Essay", Description: &description, Date: suite.today, Time: &at})
	suite.Require().NoError(err)

	priority := models.TaskPriorityUrgent
	updated, err := suite.tasks.UpdateTask(suite.ctx, user.ID, task.ID, UpdateTaskInput{
		Priority:         &priority,
		ClearDescription: true,
		ClearTime:        true,
	})
	suite.Require().NoError(err)
	suite.Equal("Essay", updated.Title)
	suite.Equal(models.TaskPriorityUrgent, updated.Priority)
	suite.Nil(updated.Description)
	suite.Nil(updated.Time)

	blank := " "
	_, err = suite.tasks.UpdateTask(suite.ctx, user.ID, task.ID, UpdateTaskInput{Title: &blank})
	suite.ErrorIs(err, ErrTitleEmpty)
}

func (suite *ServiceTestSuite) TestCustomCategory_CrossUserRejected() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")
	bobs, err := suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: bob.ID, Name: "Bob's"})
	suite.Require().NoError(err)

	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		UserID:   alice.ID,
		Title:    "Sneaky",
		Date:     suite.today,
		Category: models.CustomCategory(bobs.ID),
	})
	suite.ErrorIs(err, ErrForeignCategory)
	suite.ErrorIs(err, ErrValidation)

	task := suite.createTask(alice.ID, "Honest", suite.today, "")
	choice := models.CustomCategory(bobs.ID)
	_, err = suite.tasks.UpdateTask(suite.ctx, alice.ID, task.ID, UpdateTaskInput{Category: &choice})
	suite.ErrorIs(err, ErrForeignCategory)
}

func (suite *ServiceTestSuite) TestCustomCategory_NameAndFallback() {
	user := suite.signup("alice")
	work, err := suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: user.ID, Name: "Work"})
	suite.Require().NoError(err)

	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		UserID:   user.ID,
		Title:    "Deploy",
		Date:     suite.today,
		Category: models.CustomCategory(work.ID),
	})
	suite.Require().NoError(err)
	suite.Equal("Work", task.CategoryName())

	suite.Require().NoError(suite.categories.DeleteCategory(suite.ctx, user.ID, work.ID))

	stored, err := suite.tasks.GetTask(suite.ctx, user.ID, task.ID)
	suite.Require().NoError(err)
	suite.Nil(stored.CustomCategoryID)
	suite.Equal("other", stored.CategoryName())
}

func (suite *ServiceTestSuite) TestDeleteTask_RemovesAttachments() {
	user := suite.signup("alice")
	task := suite.createTask(user.ID, "With files", suite.today, "")
	attachment := suite.upload(user.ID, task.ID, "notes.txt", []byte("hello"))

	suite.Require().NoError(suite.tasks.DeleteTask(suite.ctx, user.ID, task.ID))

	suite.False(suite.blobs.Has(attachment.File))
	suite.Zero(suite.countRows(&models.TaskAttachment{}))
	_, err := suite.tasks.GetTask(suite.ctx, user.ID, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)
}

func (suite *ServiceTestSuite) TestDeleteTask_BlobFailureStillDeletesRows() {
	user := suite.signup("alice")
	task := suite.createTask(user.ID, "With files", suite.today, "")
	attachment := suite.upload(user.ID, task.ID, "notes.txt", []byte("hello"))

	suite.blobs.FailDelete = true
	suite.Require().NoError(suite.tasks.DeleteTask(suite.ctx, user.ID, task.ID))

	suite.True(suite.blobs.Has(attachment.File))
	suite.Zero(suite.countRows(&models.Task{}))
	suite.Zero(suite.countRows(&models.TaskAttachment{}))
}

func titles(tasks []models.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}
