package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/admin/cosmic-connect/internal/domain"
	"github.com/admin/cosmic-connect/internal/pkg/logger"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type publisherMock struct {
	mock.Mock
}

func (m *publisherMock) Publish(ctx context.Context, event domain.Event) error {
	return m.Called(ctx, event).Error(0)
}

func TestDispatcherSwallowsPublishErrors(t *testing.T) {
	pub := &publisherMock{}
	event := domain.NewEvent(domain.EventPaymentSubmitted, uuid.New(), uuid.New(), time.Now())
	pub.On("Publish", mock.Anything, event).Return(errors.New("broker down")).Once()

	d := NewDispatcher(pub, logger.Discard())
	assert.NoError(t, d.Publish(context.Background(), event))
	pub.AssertExpectations(t)
}

func TestDispatcherWithoutPublisher(t *testing.T) {
	var d *Dispatcher
	assert.NoError(t, d.Publish(context.Background(), domain.Event{}))
	assert.NoError(t, NewDispatcher(nil, logger.Discard()).Publish(context.Background(), domain.Event{}))
}
