package services

import (
	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
)

func (suite *ServiceTestSuite) TestCreateCategory_DefaultsAndValidation() {
	user := suite.signup("alice")

	category, err := suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: user.ID, Name: "  Home  "})
	suite.Require().NoError(err)
	suite.Equal("Home", category.Name)
	suite.Equal(constants.DefaultCategoryColor, category.Color)
	suite.Equal(constants.DefaultCategoryIcon, category.Icon)

	_, err = suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: user.ID, Name: "Bad", Color: "red"})
	suite.ErrorIs(err, ErrInvalidColor)

	_, err = suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: user.ID, Name: "Bad", Color: "#12345"})
	suite.ErrorIs(err, ErrInvalidColor)

	_, err = suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: user.ID, Name: " "})
	suite.ErrorIs(err, ErrCategoryNameEmpty)
}

func (suite *ServiceTestSuite) TestCreateCategory_DuplicateNamePerUser() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")

	_, err := suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: alice.ID, Name: "Work"})
	suite.Require().NoError(err)

	_, err = suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: alice.ID, Name: "Work"})
	suite.ErrorIs(err, ErrCategoryTaken)
	suite.ErrorIs(err, ErrConflict)

	_, err = suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: bob.ID, Name: "Work"})
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestUpdateCategory() {
	user := suite.signup("alice")
	work, err := suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: user.ID, Name: "Work"})
	suite.Require().NoError(err)
	home, err := suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: user.ID, Name: "Home"})
	suite.Require().NoError(err)

	color := "#FF0000"
	updated, err := suite.categories.UpdateCategory(suite.ctx, user.ID, work.ID, UpdateCategoryInput{Color: &color})
	suite.Require().NoError(err)
	suite.Equal("Work", updated.Name)
	suite.Equal("#FF0000", updated.Color)

	name := "Home"
	_, err = suite.categories.UpdateCategory(suite.ctx, user.ID, work.ID, UpdateCategoryInput{Name: &name})
	suite.ErrorIs(err, ErrCategoryTaken)

	same := "Home"
	_, err = suite.categories.UpdateCategory(suite.ctx, user.ID, home.ID, UpdateCategoryInput{Name: &same})
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestListCategories_CountsAndScope() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")
	work, err := suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: alice.ID, Name: "Work"})
	suite.Require().NoError(err)
	_, err = suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: alice.ID, Name: "Admin"})
	suite.Require().NoError(err)
	_, err = suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: bob.ID, Name: "Bob's"})
	suite.Require().NoError(err)

	for _, title := range []string{"one", "two"} {
		_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
			UserID:   alice.ID,
			Title:    title,
			Date:     suite.today,
			Category: models.CustomCategory(work.ID),
		})
		suite.Require().NoError(err)
	}

	categories, err := suite.categories.ListCategories(suite.ctx, alice.ID, "", "")
	suite.Require().NoError(err)
	suite.Require().Len(categories, 2)
	suite.Equal("Admin", categories[0].Name)
	suite.Zero(categories[0].TaskCount)
	suite.Equal("Work", categories[1].Name)
	suite.EqualValues(2, categories[1].TaskCount)

	searched, err := suite.categories.ListCategories(suite.ctx, alice.ID, "wor", "")
	suite.Require().NoError(err)
	suite.Len(searched, 1)

	_, err = suite.categories.GetCategory(suite.ctx, bob.ID, work.ID)
	suite.ErrorIs(err, ErrCategoryNotFound)
	suite.ErrorIs(suite.categories.DeleteCategory(suite.ctx, bob.ID, work.ID), ErrCategoryNotFound)
}
