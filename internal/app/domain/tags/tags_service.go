package tags

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sarayu-iot/admin-api/internal/app/models"
)

var _ Service = (*ServiceImpl)(nil)

type Service interface {
	CreateTag(ctx context.Context, device, topic, label string) (*models.Device, *models.Topic, error)
	// GetAllTags pairs every topic with the full device list.
	GetAllTags(ctx context.Context) ([]models.TopicWithDevices, error)
	// GetAllTopics pairs topics with devices round-robin so dashboards
	// get exactly one device name per topic.
	GetAllTopics(ctx context.Context) ([]models.TopicWithDevice, error)
	GetTag(ctx context.Context, id string) (*models.Topic, error)
	UpdateTag(ctx context.Context, id string, topic, label *string) (*models.Topic, error)
	DeleteTag(ctx context.Context, id string) error
	AssignTopicsEmployee(ctx context.Context, employeeID string, topicIDs []string) (*models.TopicAssignment, error)
}

type ServiceImpl struct {
	logger *zap.Logger
	repo   Repository
}

func NewTagService(repo Repository, logger *zap.Logger) *ServiceImpl {
	return &ServiceImpl{logger: logger, repo: repo}
}

func (s *ServiceImpl) CreateTag(ctx context.Context, device, topic, label string) (*models.Device, *models.Topic, error) {
	if device == "" || topic == "" || label == "" {
		return nil, nil, fmt.Errorf("device, topic and label are required: %w", models.ErrBadRequest)
	}
	d, tp, err := s.repo.CreateTag(ctx, device, topic, label)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("Tag created",
		zap.String("device", d.Device), zap.String("topic", tp.Topic), zap.String("label", tp.Label))
	return d, tp, nil
}

func (s *ServiceImpl) GetAllTags(ctx context.Context) ([]models.TopicWithDevices, error) {
	topics, err := s.repo.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	devices, err := s.repo.ListDevices(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.TopicWithDevices, 0, len(topics))
	for _, tp := range topics {
		out = append(out, models.TopicWithDevices{Topic: tp, Devices: devices})
	}
	return out, nil
}

func (s *ServiceImpl) GetAllTopics(ctx context.Context) ([]models.TopicWithDevice, error) {
	topics, err := s.repo.ListTopics(ctx)
	if err != nil {
		return nil, err
	}
	devices, err := s.repo.ListDevices(ctx)
	if err != nil {
		return nil, err
	}
	return pairTopicsWithDevices(topics, devices), nil
}

func pairTopicsWithDevices(topics []models.Topic, devices []models.Device) []models.TopicWithDevice {
	out := make([]models.TopicWithDevice, 0, len(topics))
	for i, tp := range topics {
		entry := models.TopicWithDevice{Topic: tp}
		if len(devices) > 0 {
			name := devices[i%len(devices)].Device
			entry.Device = &name
		}
		out = append(out, entry)
	}
	return out
}

func (s *ServiceImpl) GetTag(ctx context.Context, id string) (*models.Topic, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid tag id: %w", models.ErrBadRequest)
	}
	return s.repo.GetTopic(ctx, id)
}

func (s *ServiceImpl) UpdateTag(ctx context.Context, id string, topic, label *string) (*models.Topic, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid tag id: %w", models.ErrBadRequest)
	}
	return s.repo.UpdateTopic(ctx, id, topic, label)
}

func (s *ServiceImpl) DeleteTag(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid tag id: %w", models.ErrBadRequest)
	}
	return s.repo.DeleteTopic(ctx, id)
}

func (s *ServiceImpl) AssignTopicsEmployee(ctx context.Context, employeeID string, topicIDs []string) (*models.TopicAssignment, error) {
	if employeeID == "" || len(topicIDs) == 0 {
		return nil, fmt.Errorf("employeeId and topicIds are required: %w", models.ErrBadRequest)
	}
	empID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, fmt.Errorf("invalid employee id: %w", models.ErrBadRequest)
	}
	// Repeated ids collapse to one assignment; the lookup below returns
	// each topic once, so the count check must compare against the set.
	seen := make(map[string]struct{}, len(topicIDs))
	unique := make([]string, 0, len(topicIDs))
	for _, id := range topicIDs {
		if _, err := uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid topic id %s: %w", id, models.ErrBadRequest)
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	name, err := s.repo.EmployeeName(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	topics, err := s.repo.TopicsByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}
	if len(topics) != len(unique) {
		return nil, fmt.Errorf("one or more topics not found: %w", models.ErrNotFound)
	}

	if err := s.repo.AssignTopics(ctx, employeeID, unique); err != nil {
		return nil, err
	}

	s.logger.Info("Topics assigned",
		zap.String("employeeID", employeeID), zap.Int("count", len(topics)))
	return &models.TopicAssignment{
		EmployeeID:     empID,
		EmployeeName:   name,
		AssignedTopics: topics,
		Count:          len(topics),
	}, nil
}
