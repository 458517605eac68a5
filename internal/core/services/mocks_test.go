package services

import (
	"context"
	"sync"

	"github.com/DonaldKnut/jevahapp-backend-sub012/internal/core/domain"

	"github.com/stretchr/testify/mock"
)

type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Register(uploadID, ownerID string) *domain.UploadSession {
	args := m.Called(uploadID, ownerID)
	return args.Get(0).(*domain.UploadSession)
}

func (m *MockSessionStore) Clear(uploadID string) {
	m.Called(uploadID)
}

type MockAudioExtractor struct {
	mock.Mock
}

func (m *MockAudioExtractor) ExtractAudio(ctx context.Context, data []byte, mimeType string) ([]byte, error) {
	args := m.Called(ctx, data, mimeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type MockFrameExtractor struct {
	mock.Mock
}

func (m *MockFrameExtractor) ExtractFrames(ctx context.Context, data []byte, mimeType string, count int) ([][]byte, error) {
	args := m.Called(ctx, data, mimeType, count)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]byte), args.Error(1)
}

type MockTranscriber struct {
	mock.Mock
}

func (m *MockTranscriber) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	args := m.Called(ctx, audio, mimeType)
	return args.String(0), args.Error(1)
}

type MockDocumentExtractor struct {
	mock.Mock
}

func (m *MockDocumentExtractor) ExtractText(ctx context.Context, data []byte, mimeType string) string {
	args := m.Called(ctx, data, mimeType)
	return args.String(0)
}

type MockModerationClient struct {
	mock.Mock
}

func (m *MockModerationClient) Moderate(ctx context.Context, input domain.ModerationInput) (domain.ModerationVerdict, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.ModerationVerdict), args.Error(1)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, sub domain.UploadSubmission) (*domain.VerificationOutcome, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VerificationOutcome), args.Error(1)
}

type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) SaveMedia(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) SaveThumbnail(ctx context.Context, filename string, data []byte) (string, error) {
	args := m.Called(ctx, filename, data)
	return args.String(0), args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}

type MockMediaRepository struct {
	mock.Mock
}

func (m *MockMediaRepository) Create(ctx context.Context, media *domain.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockMediaRepository) Update(ctx context.Context, media *domain.Media) error {
	args := m.Called(ctx, media)
	return args.Error(0)
}

func (m *MockMediaRepository) GetByID(ctx context.Context, id string) (*domain.Media, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Media), args.Error(1)
}

func (m *MockMediaRepository) GetUnderReview(ctx context.Context, olderThan int) ([]domain.Media, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]domain.Media), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(to, subject, body string) error {
	args := m.Called(to, subject, body)
	return args.Error(0)
}

// recordingPublisher captures the progress stream so tests can assert on
// event ordering and terminal events.
type recordingPublisher struct {
	mu     sync.Mutex
	events []domain.ProgressEvent
}

func (p *recordingPublisher) Publish(event domain.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []domain.ProgressEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ProgressEvent, len(p.events))
	copy(out, p.events)
	return out
}
