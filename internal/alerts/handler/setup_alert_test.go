package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jonboulle/clockwork"
	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"aqalert/internal/alerts/repository"
	"aqalert/internal/alerts/service"
	"aqalert/internal/alerts/validator"
	"aqalert/internal/config"
	"aqalert/internal/notify"
	"aqalert/internal/observability"
	apperrors "aqalert/pkg/errors"
	"aqalert/pkg/logger"
	"aqalert/pkg/model"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Config{
		Level:  logger.ERROR,
		Format: logger.JSON,
		Output: io.Discard,
	})
}

// ────────────────────────────────────────────────
// Status mapping with a mocked service
// ────────────────────────────────────────────────

type mockSetupAlertService struct {
	setupFunc func(ctx context.Context, req *model.SetupAlertRequest) (*model.SetupResult, error)
}

func (m *mockSetupAlertService) SetupAlert(ctx context.Context, req *model.SetupAlertRequest) (*model.SetupResult, error) {
	if m.setupFunc != nil {
		return m.setupFunc(ctx, req)
	}
	return &model.SetupResult{Message: "Alert setup successful", UserID: "abc123"}, nil
}

func postSetupAlert(t *testing.T, h *SetupAlertHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	router := httprouter.New()
	h.RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/setup-alert", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSetupAlert_Success(t *testing.T) {
	h := NewSetupAlertHandler(&mockSetupAlertService{}, testLogger())

	rec := postSetupAlert(t, h, `{"alertType":"sms","phoneNumber":"07896543210","location":"Leeds","lat":53.8,"long":-1.5}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	var result model.SetupResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.Message != "Alert setup successful" {
		t.Errorf("message = %q", result.Message)
	}
	if result.UserID != "abc123" {
		t.Errorf("userId = %q", result.UserID)
	}
}

func TestSetupAlert_InvalidJSON(t *testing.T) {
	h := NewSetupAlertHandler(&mockSetupAlertService{}, testLogger())

	rec := postSetupAlert(t, h, `{"alertType":`)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSetupAlert_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation error", apperrors.Validation("alertType must be sms or email"), http.StatusBadRequest},
		{"limit exceeded", apperrors.LimitExceeded("Maximum 5 locations allowed per user"), http.StatusBadRequest},
		{"duplicate location", apperrors.Conflict("Alert already exists for this location"), http.StatusConflict},
		{"gateway failure", apperrors.BadGateway("Alert setup failed - notification service unavailable", nil), http.StatusBadGateway},
		{"store failure", apperrors.Internal("Failed to setup alert", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSetupAlertHandler(&mockSetupAlertService{
				setupFunc: func(ctx context.Context, req *model.SetupAlertRequest) (*model.SetupResult, error) {
					return nil, tt.err
				},
			}, testLogger())

			rec := postSetupAlert(t, h, `{"alertType":"sms","phoneNumber":"07896543210","location":"Leeds","lat":53.8,"long":-1.5}`)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

// ────────────────────────────────────────────────
// End to end through the real service against an
// in-memory store and a stubbed gateway
// ────────────────────────────────────────────────

type memSubscriptionRepository struct {
	subs map[string]*model.Subscription
}

func newMemSubscriptionRepository() *memSubscriptionRepository {
	return &memSubscriptionRepository{subs: make(map[string]*model.Subscription)}
}

func (m *memSubscriptionRepository) FindByContact(ctx context.Context, contactID string) (*model.Subscription, error) {
	sub, ok := m.subs[contactID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return sub, nil
}

func (m *memSubscriptionRepository) AppendLocation(ctx context.Context, contactID, alertType string, loc model.Location, requestID string) (*model.Subscription, error) {
	sub, ok := m.subs[contactID]
	if !ok {
		sub = &model.Subscription{
			ID:          primitive.NewObjectID(),
			UserContact: contactID,
			AlertType:   alertType,
			RequestID:   requestID,
		}
		m.subs[contactID] = sub
	}
	sub.Locations = append(sub.Locations, loc)
	return sub, nil
}

func (m *memSubscriptionRepository) RemoveLocation(ctx context.Context, contactID string, loc model.Location) error {
	return nil
}

func (m *memSubscriptionRepository) EnsureIndexes(ctx context.Context) error {
	return nil
}

type stubGateway struct {
	err   error
	calls int
}

func (s *stubGateway) Send(ctx context.Context, payload notify.Payload, correlationID string) error {
	s.calls++
	return s.err
}

func newEndToEndHandler(repo repository.SubscriptionRepository, gateway service.Gateway) *SetupAlertHandler {
	log := testLogger()
	cfg := &config.Config{
		SMSTemplateID:   "sms-template-id",
		EmailTemplateID: "email-template-id",
	}
	svc := service.NewSetupAlertService(
		repo,
		validator.NewSetupAlertValidator(log),
		gateway,
		nil,
		observability.NewMetricsForTesting(),
		clockwork.NewFakeClock(),
		cfg,
		log,
	)
	return NewSetupAlertHandler(svc, log)
}

func TestSetupAlert_EndToEndSequence(t *testing.T) {
	repo := newMemSubscriptionRepository()
	h := newEndToEndHandler(repo, &stubGateway{})

	leeds := `{"alertType":"sms","phoneNumber":"07896543210","location":"Leeds","lat":53.8,"long":-1.5}`
	york := `{"alertType":"sms","phoneNumber":"07896543210","location":"York","lat":53.9,"long":-1.1}`

	rec := postSetupAlert(t, h, leeds)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first request: status = %d, want 201", rec.Code)
	}
	var result model.SetupResult
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.UserID == "" {
		t.Fatal("first request: expected a userId")
	}

	// Identical resubmission conflicts.
	rec = postSetupAlert(t, h, leeds)
	if rec.Code != http.StatusConflict {
		t.Fatalf("repeat request: status = %d, want 409", rec.Code)
	}

	// A different location for the same contact appends.
	rec = postSetupAlert(t, h, york)
	if rec.Code != http.StatusCreated {
		t.Fatalf("second location: status = %d, want 201", rec.Code)
	}

	sub, err := repo.FindByContact(context.Background(), "+447896543210")
	if err != nil {
		t.Fatalf("subscription not found after setup: %v", err)
	}
	if len(sub.Locations) != 2 {
		t.Errorf("stored locations = %d, want 2", len(sub.Locations))
	}
}

func TestSetupAlert_GatewayFailureEndToEnd(t *testing.T) {
	repo := newMemSubscriptionRepository()
	gateway := &stubGateway{err: &notify.GatewayError{Category: notify.CategoryConnectionRefused}}
	h := newEndToEndHandler(repo, gateway)

	rec := postSetupAlert(t, h, `{"alertType":"sms","phoneNumber":"07896543210","location":"Leeds","lat":53.8,"long":-1.5}`)
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}

	// The store must reflect the pre-request state.
	if _, err := repo.FindByContact(context.Background(), "+447896543210"); err == nil {
		t.Error("subscription was persisted despite notification failure")
	}
}
