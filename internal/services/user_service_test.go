package services

import (
	"context"
	"time"

	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/repository"
	"github.com/taskflow/taskflow-api/internal/token"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

func (suite *ServiceTestSuite) TestUpdateProfile_Partial() {
	user := suite.signup("alice")

	updated, err := suite.users.UpdateProfile(suite.ctx, user.ID, UpdateProfileInput{
		FirstName: strPtr("Alice"),
		Email:     strPtr(user.Email),
	})
	suite.Require().NoError(err)
	suite.Equal("Alice", updated.FirstName)
	suite.Equal("alice", updated.Username)
	suite.Equal(user.Email, updated.Email)
}

func (suite *ServiceTestSuite) TestUpdateProfile_Conflicts() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")

	_, err := suite.users.UpdateProfile(suite.ctx, alice.ID, UpdateProfileInput{Username: strPtr("bob")})
	suite.ErrorIs(err, ErrUsernameTaken)

	_, err = suite.users.UpdateProfile(suite.ctx, alice.ID, UpdateProfileInput{Email: strPtr(bob.Email)})
	suite.ErrorIs(err, ErrEmailTaken)
}

// staleEmailLookups reports the next n emails as unused, as if another account
// claimed the address between the check and the write.
type staleEmailLookups struct {
	repository.UserRepository
	remaining int
}

func (r *staleEmailLookups) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if r.remaining > 0 {
		r.remaining--
		return nil, gorm.ErrRecordNotFound
	}
	return r.UserRepository.FindByEmail(ctx, email)
}

func (suite *ServiceTestSuite) TestUpdateProfile_RacingEmailIsEmailConflict() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")

	repo := &staleEmailLookups{UserRepository: repository.NewUserRepository(suite.db), remaining: 1}
	users := NewUserService(repo, suite.blobs)

	_, err := users.UpdateProfile(suite.ctx, alice.ID, UpdateProfileInput{Email: strPtr(bob.Email)})
	suite.ErrorIs(err, ErrEmailTaken)
	suite.NotErrorIs(err, ErrUsernameTaken)

	stored, err := repo.FindByID(suite.ctx, alice.ID)
	suite.Require().NoError(err)
	suite.Equal(alice.Email, stored.Email)
}

func (suite *ServiceTestSuite) TestSignup_RacingEmailIsEmailConflict() {
	bob := suite.signup("bob")

	repo := &staleEmailLookups{UserRepository: repository.NewUserRepository(suite.db), remaining: 1}
	auth := NewAuthService(repo, token.NewManager("test-secret", time.Hour, 24*time.Hour))

	_, err := auth.Signup(suite.ctx, SignupInput{Username: "carol", Email: bob.Email, Password: testPassword})
	suite.ErrorIs(err, ErrEmailTaken)
	suite.Equal(int64(2), suite.countRows(&models.User{}))
}

func (suite *ServiceTestSuite) TestUpdateProfile_WrongPasswordChangesNothing() {
	user := suite.signup("alice")

	_, err := suite.users.UpdateProfile(suite.ctx, user.ID, UpdateProfileInput{
		Username:        strPtr("alice-renamed"),
		NewPassword:     strPtr("brand-new-password"),
		CurrentPassword: "not-my-password",
	})
	suite.ErrorIs(err, ErrWrongPassword)
	suite.ErrorIs(err, ErrAuth)

	var stored models.User
	suite.Require().NoError(suite.db.First(&stored, user.ID).Error)
	suite.Equal("alice", stored.Username)
	suite.Equal(user.PasswordHash, stored.PasswordHash)
}

func (suite *ServiceTestSuite) TestUpdateProfile_PasswordRules() {
	user := suite.signup("alice")

	_, err := suite.users.UpdateProfile(suite.ctx, user.ID, UpdateProfileInput{NewPassword: strPtr("brand-new-password")})
	suite.ErrorIs(err, ErrCurrentPasswordRequired)

	_, err = suite.users.UpdateProfile(suite.ctx, user.ID, UpdateProfileInput{
		NewPassword:     strPtr("short"),
		CurrentPassword: testPassword,
	})
	suite.ErrorIs(err, ErrPasswordTooShort)

	_, err = suite.users.UpdateProfile(suite.ctx, user.ID, UpdateProfileInput{
		NewPassword:     strPtr("brand-new-password"),
		CurrentPassword: testPassword,
	})
	suite.Require().NoError(err)

	_, err = suite.auth.Login(suite.ctx, LoginInput{Username: "alice", Password: testPassword})
	suite.ErrorIs(err, ErrInvalidCredentials)
	_, err = suite.auth.Login(suite.ctx, LoginInput{Username: "alice", Password: "brand-new-password"})
	suite.NoError(err)
}

func (suite *ServiceTestSuite) TestDeleteAccount() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")
	_, err := suite.categories.CreateCategory(suite.ctx, CreateCategoryInput{UserID: alice.ID, Name: "Work"})
	suite.Require().NoError(err)
	task := suite.createTask(alice.ID, "Mine", suite.today, "")
	attachment := suite.upload(alice.ID, task.ID, "a.txt", []byte("a"))
	bobsTask := suite.createTask(bob.ID, "Bob's", suite.today, "")
	bobsAttachment := suite.upload(bob.ID, bobsTask.ID, "b.txt", []byte("b"))

	suite.ErrorIs(suite.users.DeleteAccount(suite.ctx, alice.ID, "wrong-password"), ErrWrongPassword)
	suite.EqualValues(2, suite.countRows(&models.User{}))

	suite.Require().NoError(suite.users.DeleteAccount(suite.ctx, alice.ID, testPassword))

	suite.EqualValues(1, suite.countRows(&models.User{}))
	suite.EqualValues(1, suite.countRows(&models.Task{}))
	suite.EqualValues(1, suite.countRows(&models.TaskAttachment{}))
	suite.Zero(suite.countRows(&models.TaskCategory{}))
	suite.False(suite.blobs.Has(attachment.File))
	suite.True(suite.blobs.Has(bobsAttachment.File))
}
