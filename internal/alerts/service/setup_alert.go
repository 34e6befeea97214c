package service

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"

	"aqalert/internal/alerts/repository"
	alertvalidator "aqalert/internal/alerts/validator"
	"aqalert/internal/config"
	"aqalert/internal/events"
	"aqalert/internal/notify"
	"aqalert/internal/observability"
	"aqalert/pkg/contact"
	apperrors "aqalert/pkg/errors"
	"aqalert/pkg/location"
	"aqalert/pkg/logger"
	"aqalert/pkg/mask"
	"aqalert/pkg/middleware"
	"aqalert/pkg/model"
)

const publishTimeout = 5 * time.Second

type SetupAlertService interface {
	SetupAlert(ctx context.Context, req *model.SetupAlertRequest) (*model.SetupResult, error)
}

// Gateway is the notification side effect the workflow sequences against
// the durable write.
type Gateway interface {
	Send(ctx context.Context, payload notify.Payload, correlationID string) error
}

type setupAlertService struct {
	repo      repository.SubscriptionRepository
	validator *alertvalidator.SetupAlertValidator
	gateway   Gateway
	publisher events.Publisher
	metrics   *observability.Metrics
	clock     clockwork.Clock
	cfg       *config.Config
	log       *logger.Logger
}

func NewSetupAlertService(
	repo repository.SubscriptionRepository,
	validator *alertvalidator.SetupAlertValidator,
	gateway Gateway,
	publisher events.Publisher,
	metrics *observability.Metrics,
	clock clockwork.Clock,
	cfg *config.Config,
	log *logger.Logger,
) SetupAlertService {
	return &setupAlertService{
		repo:      repo,
		validator: validator,
		gateway:   gateway,
		publisher: publisher,
		metrics:   metrics,
		clock:     clock,
		cfg:       cfg,
		log:       log,
	}
}

// SetupAlert runs the registration workflow: validate, dedupe against the
// existing record, confirm through the notification service, then persist.
//
// The ordering is deliberate. The notification goes out before the durable
// write, so a gateway failure aborts the request with the store untouched
// and nothing to compensate. The one remaining partial-failure mode is a
// confirmed notification followed by a failed write, which is reported as an
// internal error for the caller to resubmit. Nothing in this workflow
// retries: a retry against the gateway could double-send a user-facing
// message.
func (s *setupAlertService) SetupAlert(ctx context.Context, req *model.SetupAlertRequest) (*model.SetupResult, error) {
	requestID := middleware.RequestIDFromContext(ctx)

	s.log.Info("Setup alert started",
		"request_id", requestID,
		"alert_type", req.AlertType,
		"location", req.Location,
		"phone_number", mask.Phone(req.PhoneNumber),
		"email_address", mask.Email(req.EmailAddress),
	)

	if err := s.validator.Validate(req); err != nil {
		s.metrics.SetupRequests.WithLabelValues(observability.OutcomeValidationError).Inc()
		appErr := apperrors.Validation(err.Error())
		var fieldErrs alertvalidator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			appErr = appErr.WithDetails(map[string]any{"field": fieldErrs[0].Field})
		}
		return nil, appErr
	}

	contactID := contact.Canonical(req.AlertType, req.PhoneNumber, req.EmailAddress)

	if err := s.checkExisting(ctx, contactID, req.Location, requestID); err != nil {
		return nil, err
	}

	if err := s.sendConfirmation(ctx, req, requestID); err != nil {
		s.metrics.SetupRequests.WithLabelValues(observability.OutcomeGatewayError).Inc()
		return nil, apperrors.BadGateway("Alert setup failed - notification service unavailable", err)
	}

	loc := model.Location{
		Location:    req.Location,
		Coordinates: []float64{*req.Long, *req.Lat},
		CreatedAt:   s.clock.Now().UTC().Truncate(time.Millisecond),
	}

	sub, err := s.repo.AppendLocation(ctx, contactID, req.AlertType, loc, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrContactExists) {
			s.log.Warn("Concurrent insert detected for contact",
				"request_id", requestID,
				"error", err,
			)
			s.metrics.SetupRequests.WithLabelValues(observability.OutcomeConflict).Inc()
			return nil, apperrors.Conflict("Location already exists for this user")
		}
		s.log.Error("Failed to persist subscription",
			"request_id", requestID,
			"error", err,
		)
		s.metrics.SetupRequests.WithLabelValues(observability.OutcomeInternalError).Inc()
		return nil, apperrors.Internal("Failed to setup alert", err)
	}
	if sub == nil {
		s.metrics.SetupRequests.WithLabelValues(observability.OutcomeInternalError).Inc()
		return nil, apperrors.Internal("Failed to process user data", nil)
	}

	userID := sub.ID.Hex()

	s.log.Info("Setup alert completed",
		"request_id", requestID,
		"user_id", userID,
		"location_count", len(sub.Locations),
		"is_new_user", len(sub.Locations) == 1,
	)

	s.publishSetupEvent(ctx, sub, req.Location, requestID)
	s.metrics.SetupRequests.WithLabelValues(observability.OutcomeCreated).Inc()

	return &model.SetupResult{
		Message: "Alert setup successful",
		UserID:  userID,
	}, nil
}

// checkExisting enforces the duplicate-location and five-location rules
// against the current record. The check and the later append are separate
// writes; the small race between them is accepted (see repository docs).
func (s *setupAlertService) checkExisting(ctx context.Context, contactID, newLocation, requestID string) error {
	existing, err := s.repo.FindByContact(ctx, contactID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil
		}
		s.log.Error("Failed to look up subscription",
			"request_id", requestID,
			"error", err,
		)
		s.metrics.SetupRequests.WithLabelValues(observability.OutcomeInternalError).Inc()
		return apperrors.Internal("Failed to setup alert", err)
	}

	for _, loc := range existing.Locations {
		if location.Same(loc.Location, newLocation) {
			s.log.Warn("Duplicate location detected",
				"request_id", requestID,
				"location", location.Normalize(newLocation),
			)
			s.metrics.SetupRequests.WithLabelValues(observability.OutcomeConflict).Inc()
			return apperrors.Conflict("Alert already exists for this location")
		}
	}

	if len(existing.Locations) >= model.MaxLocations {
		s.log.Warn("Location limit exceeded",
			"request_id", requestID,
			"location_count", len(existing.Locations),
		)
		s.metrics.SetupRequests.WithLabelValues(observability.OutcomeLimitExceeded).Inc()
		return apperrors.LimitExceeded("Maximum 5 locations allowed per user")
	}

	return nil
}

func (s *setupAlertService) sendConfirmation(ctx context.Context, req *model.SetupAlertRequest, requestID string) error {
	payload := notify.Payload{
		PhoneNumber:  req.PhoneNumber,
		EmailAddress: req.EmailAddress,
		TemplateID:   s.cfg.TemplateID(req.AlertType),
		// The raw location string as submitted, for message personalization.
		Personalisation: notify.Personalisation{Location: req.Location},
	}

	start := s.clock.Now()
	err := s.gateway.Send(ctx, payload, requestID)
	s.metrics.NotifyDuration.Observe(s.clock.Since(start).Seconds())

	if err != nil {
		s.log.Error("Notification call failed, aborting before persistence",
			"request_id", requestID,
			"error", err,
			"phone_number", mask.Phone(req.PhoneNumber),
			"email_address", mask.Email(req.EmailAddress),
			"template_id", mask.TemplateID(payload.TemplateID),
		)
		return err
	}

	return nil
}

// publishSetupEvent is fire-and-forget: the subscription is already durable
// and confirmed, so a publish failure is only counted and logged. The
// publish context is detached from the request so a client disconnect does
// not drop the event.
func (s *setupAlertService) publishSetupEvent(ctx context.Context, sub *model.Subscription, loc, requestID string) {
	if s.publisher == nil {
		return
	}

	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	event := events.SetupEvent{
		UserID:        sub.ID.Hex(),
		AlertType:     sub.AlertType,
		Location:      loc,
		LocationCount: len(sub.Locations),
		RequestID:     requestID,
		CreatedAt:     s.clock.Now().UTC(),
	}

	if err := s.publisher.PublishSetup(publishCtx, event); err != nil {
		s.metrics.EventsDropped.Inc()
		s.log.Warn("Failed to publish setup event",
			"request_id", requestID,
			"user_id", event.UserID,
			"error", err,
		)
	}
}
