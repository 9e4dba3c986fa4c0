package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/classfee-api/internal/dto"
	"github.com/noah-isme/classfee-api/internal/models"
	appErrors "github.com/noah-isme/classfee-api/pkg/errors"
)

func newStudentFixture() (*StudentService, *fakeStudentRepo, *fakeClassRepo) {
	classes := &fakeClassRepo{classes: []models.Class{
		{ID: "class1", Name: "Mathematics", Fee: 150},
		{ID: "class2", Name: "Science", Fee: 180},
	}}
	students := &fakeStudentRepo{}
	return NewStudentService(students, classes, nil, nil, zap.NewNop()), students, classes
}

func validStudentRequest() dto.StudentRequest {
	return dto.StudentRequest{Name: "John Doe", ParentName: "Jane Doe", PhoneNumber: "1234567890", ClassID: "class1"}
}

func TestStudentServiceCreateSnapshotsFee(t *testing.T) {
	svc, repo, _ := newStudentFixture()

	student, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, 150.0, student.ClassFee)
	assert.True(t, student.IsActive)
	assert.NotEmpty(t, student.ID)
	assert.Len(t, repo.students, 1)

	inactive := false
	req := validStudentRequest()
	req.IsActive = &inactive
	student, err = svc.Create(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, student.IsActive)
}

func TestStudentServiceCreateRejectsBadPhoneWithoutStoreCall(t *testing.T) {
	svc, repo, classes := newStudentFixture()

	req := validStudentRequest()
	req.PhoneNumber = "123"
	_, err := svc.Create(context.Background(), req)
	appErr := requireAppError(t, err, appErrors.ErrValidation.Code)
	assert.Equal(t, "Phone number must be 10 digits", appErr.Fields["phoneNumber"])
	assert.Zero(t, repo.calls)
	assert.Zero(t, classes.calls)
}

func TestStudentServiceCreateUnknownClass(t *testing.T) {
	svc, repo, _ := newStudentFixture()

	req := validStudentRequest()
	req.ClassID = "class9"
	_, err := svc.Create(context.Background(), req)
	appErr := requireAppError(t, err, appErrors.ErrNotFound.Code)
	assert.Equal(t, "class not found", appErr.Message)
	assert.Empty(t, repo.students)
}

func TestStudentServiceUpdateSnapshot(t *testing.T) {
	svc, repo, classes := newStudentFixture()
	repo.students = []models.Student{{ID: "student1", Name: "John Doe", ParentName: "Jane Doe", PhoneNumber: "1234567890", ClassID: "class1", ClassFee: 140, IsActive: true}}
	classes.classes[0].Fee = 160

	req := validStudentRequest()
	req.Name = "Johnny Doe"
	updated, err := svc.Update(context.Background(), "student1", req)
	require.NoError(t, err)
	assert.Equal(t, "Johnny Doe", updated.Name)
	assert.Equal(t, 140.0, updated.ClassFee, "same class keeps the old snapshot")

	req.ClassID = "class2"
	updated, err = svc.Update(context.Background(), "student1", req)
	require.NoError(t, err)
	assert.Equal(t, "class2", updated.ClassID)
	assert.Equal(t, 180.0, updated.ClassFee)

	_, err = svc.Update(context.Background(), "ghost", req)
	appErr := requireAppError(t, err, appErrors.ErrNotFound.Code)
	assert.Equal(t, "student not found", appErr.Message)
}

func TestStudentServiceList(t *testing.T) {
	svc, repo, _ := newStudentFixture()
	repo.students = []models.Student{
		{ID: "student1", ClassID: "class1", IsActive: true},
		{ID: "student4", ClassID: "class1", IsActive: false},
		{ID: "student2", ClassID: "class2", IsActive: true},
	}

	all, err := svc.List(context.Background(), dto.StudentListQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	inactive, err := svc.List(context.Background(), dto.StudentListQuery{ClassID: "class1", Active: "false"})
	require.NoError(t, err)
	require.Len(t, inactive, 1)
	assert.Equal(t, "student4", inactive[0].ID)

	_, err = svc.List(context.Background(), dto.StudentListQuery{Active: "maybe"})
	requireAppError(t, err, appErrors.ErrValidation.Code)
}
