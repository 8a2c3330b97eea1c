package services

import (
	"bytes"
	"strings"

	"github.com/taskflow/taskflow-api/internal/constants"
	"github.com/taskflow/taskflow-api/internal/models"
	"github.com/taskflow/taskflow-api/internal/testutils"
)

func (suite *ServiceTestSuite) upload(userID, taskID uint64, name string, content []byte) *models.TaskAttachment {
	attachment, err := suite.attachments.Upload(suite.ctx, UploadAttachmentInput{
		UserID: userID,
		TaskID: taskID,
		File: &UploadFile{
			Name:        name,
			Size:        int64(len(content)),
			ContentType: "text/plain",
			Content:     bytes.NewReader(content),
		},
	})
	suite.Require().NoError(err)
	return attachment
}

func (suite *ServiceTestSuite) TestUpload_StoresContentAndMetadata() {
	user := suite.signup("alice")
	task := suite.createTask(user.ID, "Report", suite.today, "")

	attachment := suite.upload(user.ID, task.ID, "draft v1.txt", []byte("hello"))

	suite.Equal(task.ID, attachment.TaskID)
	suite.Equal("draft v1.txt", attachment.FileName)
	suite.EqualValues(5, attachment.FileSize)
	suite.Equal("text/plain", attachment.FileType)
	suite.True(strings.HasPrefix(attachment.File, constants.AttachmentKeyPrefix+"/2024/03/15/"))
	suite.True(suite.blobs.Has(attachment.File))

	listed, err := suite.attachments.List(suite.ctx, user.ID, task.ID)
	suite.Require().NoError(err)
	suite.Require().Len(listed, 1)
	suite.Equal(attachment.ID, listed[0].ID)
}

func (suite *ServiceTestSuite) TestUpload_SizeLimit() {
	user := suite.signup("alice")
	task := suite.createTask(user.ID, "Big files", suite.today, "")

	exact := make([]byte, constants.MaxAttachmentSize)
	suite.upload(user.ID, task.ID, "exact.bin", exact)

	tooBig := make([]byte, constants.MaxAttachmentSize+1)
	_, err := suite.attachments.Upload(suite.ctx, UploadAttachmentInput{
		UserID: user.ID,
		TaskID: task.ID,
		File:   &UploadFile{Name: "big.bin", Size: int64(len(tooBig)), Content: bytes.NewReader(tooBig)},
	})
	suite.ErrorIs(err, ErrFileTooLarge)
	suite.Equal(1, suite.blobs.Len())
	suite.EqualValues(1, suite.countRows(&models.TaskAttachment{}))
}

func (suite *ServiceTestSuite) TestUpload_UnderreportedSizeIsCaught() {
	user := suite.signup("alice")
	task := suite.createTask(user.ID, "Liar", suite.today, "")

	content := make([]byte, constants.MaxAttachmentSize+1)
	_, err := suite.attachments.Upload(suite.ctx, UploadAttachmentInput{
		UserID: user.ID,
		TaskID: task.ID,
		File:   &UploadFile{Name: "small.bin", Size: 10, Content: bytes.NewReader(content)},
	})
	suite.ErrorIs(err, ErrFileTooLarge)
	suite.Zero(suite.blobs.Len())
}

func (suite *ServiceTestSuite) TestUpload_Rejections() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")
	task := suite.createTask(alice.ID, "Mine", suite.today, "")

	_, err := suite.attachments.Upload(suite.ctx, UploadAttachmentInput{UserID: alice.ID, TaskID: task.ID})
	suite.ErrorIs(err, ErrNoFile)

	_, err = suite.attachments.Upload(suite.ctx, UploadAttachmentInput{
		UserID: bob.ID,
		TaskID: task.ID,
		File:   &UploadFile{Name: "x.txt", Size: 1, Content: strings.NewReader("x")},
	})
	suite.ErrorIs(err, ErrTaskNotFound)

	_, err = suite.attachments.List(suite.ctx, bob.ID, task.ID)
	suite.ErrorIs(err, ErrTaskNotFound)

	suite.Zero(suite.blobs.Len())
}

func (suite *ServiceTestSuite) TestUpload_StorageFailureLeavesNoRow() {
	user := suite.signup("alice")
	task := suite.createTask(user.ID, "Report", suite.today, "")

	suite.blobs.FailSave = true
	_, err := suite.attachments.Upload(suite.ctx, UploadAttachmentInput{
		UserID: user.ID,
		TaskID: task.ID,
		File:   &UploadFile{Name: "x.txt", Size: 1, Content: strings.NewReader("x")},
	})
	suite.ErrorIs(err, testutils.ErrBlobUnavailable)
	suite.Zero(suite.countRows(&models.TaskAttachment{}))
}

func (suite *ServiceTestSuite) TestDeleteAttachment() {
	alice := suite.signup("alice")
	bob := suite.signup("bob")
	task := suite.createTask(alice.ID, "Report", suite.today, "")
	other := suite.createTask(alice.ID, "Other", suite.today, "")
	attachment := suite.upload(alice.ID, task.ID, "a.txt", []byte("a"))

	suite.ErrorIs(suite.attachments.Delete(suite.ctx, bob.ID, task.ID, attachment.ID), ErrAttachmentNotFound)
	suite.ErrorIs(suite.attachments.Delete(suite.ctx, alice.ID, other.ID, attachment.ID), ErrAttachmentNotFound)

	suite.Require().NoError(suite.attachments.Delete(suite.ctx, alice.ID, task.ID, attachment.ID))
	suite.False(suite.blobs.Has(attachment.File))
	suite.Zero(suite.countRows(&models.TaskAttachment{}))
}

func (suite *ServiceTestSuite) TestDeleteAttachment_BlobFailureKeepsRow() {
	user := suite.signup("alice")
	task := suite.createTask(user.ID, "Report", suite.today, "")
	attachment := suite.upload(user.ID, task.ID, "a.txt", []byte("a"))

	suite.blobs.FailDelete = true
	err := suite.attachments.Delete(suite.ctx, user.ID, task.ID, attachment.ID)
	suite.ErrorIs(err, testutils.ErrBlobUnavailable)

	suite.EqualValues(1, suite.countRows(&models.TaskAttachment{}))
	suite.True(suite.blobs.Has(attachment.File))
}

func (suite *ServiceTestSuite) TestCreateTask_WithFiles() {
	user := suite.signup("alice")

	task, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		UserID: user.ID,
		Title:  "Trip",
		Date:   suite.today,
		Files: []UploadFile{
			{Name: "tickets.pdf", Size: 3, ContentType: "application/pdf", Content: strings.NewReader("pdf")},
			{Name: "map.png", Size: 3, ContentType: "image/png", Content: strings.NewReader("png")},
		},
	})
	suite.Require().NoError(err)
	suite.Len(task.Attachments, 2)
	suite.Equal(2, suite.blobs.Len())
}

func (suite *ServiceTestSuite) TestCreateTask_FileFailureRollsBackTask() {
	user := suite.signup("alice")

	_, err := suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		UserID: user.ID,
		Title:  "Trip",
		Date:   suite.today,
		Files:  []UploadFile{{Name: "big.bin", Size: constants.MaxAttachmentSize + 1, Content: strings.NewReader("x")}},
	})
	suite.ErrorIs(err, ErrFileTooLarge)
	suite.Zero(suite.countRows(&models.Task{}))

	suite.blobs.FailSave = true
	_, err = suite.tasks.CreateTask(suite.ctx, CreateTaskInput{
		UserID: user.ID,
		Title:  "Trip",
		Date:   suite.today,
		Files:  []UploadFile{{Name: "a.txt", Size: 1, Content: strings.NewReader("a")}},
	})
	suite.ErrorIs(err, testutils.ErrBlobUnavailable)
	suite.Zero(suite.countRows(&models.Task{}))
}
