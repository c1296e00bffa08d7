package tags

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

type MockTagRepo struct {
	mock.Mock
}

func (m *MockTagRepo) CreateTag(ctx context.Context, device, topic, label string) (*models.Device, *models.Topic, error) {
	args := m.Called(ctx, device, topic, label)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Device), args.Get(1).(*models.Topic), args.Error(2)
}

func (m *MockTagRepo) ListTopics(ctx context.Context) ([]models.Topic, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Topic), args.Error(1)
}

func (m *MockTagRepo) ListDevices(ctx context.Context) ([]models.Device, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Device), args.Error(1)
}

func (m *MockTagRepo) GetTopic(ctx context.Context, id string) (*models.Topic, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Topic), args.Error(1)
}

func (m *MockTagRepo) UpdateTopic(ctx context.Context, id string, topic, label *string) (*models.Topic, error) {
	args := m.Called(ctx, id, topic, label)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Topic), args.Error(1)
}

func (m *MockTagRepo) DeleteTopic(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTagRepo) EmployeeName(ctx context.Context, employeeID string) (string, error) {
	args := m.Called(ctx, employeeID)
	return args.String(0), args.Error(1)
}

func (m *MockTagRepo) TopicsByIDs(ctx context.Context, ids []string) ([]models.Topic, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Topic), args.Error(1)
}

func (m *MockTagRepo) AssignTopics(ctx context.Context, employeeID string, topicIDs []string) error {
	args := m.Called(ctx, employeeID, topicIDs)
	return args.Error(0)
}

func topicNamed(name string) models.Topic {
	return models.Topic{ID: uuid.New(), Topic: name, Label: name + "-label"}
}

func deviceNamed(name string) models.Device {
	return models.Device{ID: uuid.New(), Device: name}
}

func TestPairTopicsWithDevicesRoundRobin(t *testing.T) {
	topics := []models.Topic{topicNamed("t1"), topicNamed("t2"), topicNamed("t3")}
	devices := []models.Device{deviceNamed("d1"), deviceNamed("d2")}

	paired := pairTopicsWithDevices(topics, devices)
	require.Len(t, paired, 3)
	assert.Equal(t, "d1", *paired[0].Device)
	assert.Equal(t, "d2", *paired[1].Device)
	assert.Equal(t, "d1", *paired[2].Device)
}

func TestPairTopicsWithDevicesNoDevices(t *testing.T) {
	paired := pairTopicsWithDevices([]models.Topic{topicNamed("t1")}, nil)
	require.Len(t, paired, 1)
	assert.Nil(t, paired[0].Device)
}

func TestGetAllTagsAttachesFullDeviceList(t *testing.T) {
	repo := &MockTagRepo{}
	svc := NewTagService(repo, zap.NewNop())

	devices := []models.Device{deviceNamed("d1"), deviceNamed("d2")}
	repo.On("ListTopics", mock.Anything).Return([]models.Topic{topicNamed("t1"), topicNamed("t2")}, nil)
	repo.On("ListDevices", mock.Anything).Return(devices, nil)

	tags, err := svc.GetAllTags(t.Context())
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Len(t, tags[0].Devices, 2)
	assert.Len(t, tags[1].Devices, 2)
}

func TestCreateTagRequiresAllFields(t *testing.T) {
	svc := NewTagService(&MockTagRepo{}, zap.NewNop())

	_, _, err := svc.CreateTag(t.Context(), "plc-7", "", "flow")
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestAssignTopicsEmployeeRejectsMissingTopics(t *testing.T) {
	repo := &MockTagRepo{}
	svc := NewTagService(repo, zap.NewNop())

	employeeID := uuid.New().String()
	topicIDs := []string{uuid.New().String(), uuid.New().String()}
	repo.On("EmployeeName", mock.Anything, employeeID).Return("Lena Ortiz", nil)
	repo.On("TopicsByIDs", mock.Anything, topicIDs).Return([]models.Topic{topicNamed("t1")}, nil)

	_, err := svc.AssignTopicsEmployee(t.Context(), employeeID, topicIDs)
	assert.ErrorIs(t, err, models.ErrNotFound)
	repo.AssertNotCalled(t, "AssignTopics", mock.Anything, mock.Anything, mock.Anything)
}

func TestAssignTopicsEmployeePersistsAssignment(t *testing.T) {
	repo := &MockTagRepo{}
	svc := NewTagService(repo, zap.NewNop())

	employeeID := uuid.New().String()
	topics := []models.Topic{topicNamed("t1"), topicNamed("t2")}
	topicIDs := []string{topics[0].ID.String(), topics[1].ID.String()}
	repo.On("EmployeeName", mock.Anything, employeeID).Return("Lena Ortiz", nil)
	repo.On("TopicsByIDs", mock.Anything, topicIDs).Return(topics, nil)
	repo.On("AssignTopics", mock.Anything, employeeID, topicIDs).Return(nil)

	assignment, err := svc.AssignTopicsEmployee(t.Context(), employeeID, topicIDs)
	require.NoError(t, err)
	assert.Equal(t, "Lena Ortiz", assignment.EmployeeName)
	assert.Equal(t, 2, assignment.Count)
	repo.AssertExpectations(t)
}

func TestAssignTopicsEmployeeCollapsesDuplicateTopicIDs(t *testing.T) {
	repo := &MockTagRepo{}
	svc := NewTagService(repo, zap.NewNop())

	employeeID := uuid.New().String()
	topic := topicNamed("t1")
	id := topic.ID.String()
	repo.On("EmployeeName", mock.Anything, employeeID).Return("Lena Ortiz", nil)
	repo.On("TopicsByIDs", mock.Anything, []string{id}).Return([]models.Topic{topic}, nil)
	repo.On("AssignTopics", mock.Anything, employeeID, []string{id}).Return(nil)

	assignment, err := svc.AssignTopicsEmployee(t.Context(), employeeID, []string{id, id, id})
	require.NoError(t, err)
	assert.Equal(t, 1, assignment.Count)
	repo.AssertExpectations(t)
}

func TestAssignTopicsEmployeeUnknownEmployee(t *testing.T) {
	repo := &MockTagRepo{}
	svc := NewTagService(repo, zap.NewNop())

	employeeID := uuid.New().String()
	repo.On("EmployeeName", mock.Anything, employeeID).Return("", models.ErrNotFound)

	_, err := svc.AssignTopicsEmployee(t.Context(), employeeID, []string{uuid.New().String()})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
