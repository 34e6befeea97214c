package validator

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"aqalert/pkg/contact"
	"aqalert/pkg/logger"
	"aqalert/pkg/mask"
	"aqalert/pkg/model"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	return v[0].Message
}

// SetupAlertValidator checks a setup-alert payload before any side effect:
// struct shape first, then the contact rules that depend on the alert type.
type SetupAlertValidator struct {
	validate *validator.Validate
	log      *logger.Logger
}

func NewSetupAlertValidator(log *logger.Logger) *SetupAlertValidator {
	return &SetupAlertValidator{
		validate: validator.New(),
		log:      log,
	}
}

func (v *SetupAlertValidator) Validate(req *model.SetupAlertRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	return v.validateContact(req)
}

func (v *SetupAlertValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		var message string
		switch err.Field() {
		case "AlertType":
			message = "alertType must be sms or email"
		case "Location":
			message = "location is required"
		case "Lat", "Long":
			message = "location, lat, and long are required"
		default:
			message = fmt.Sprintf("failed on the '%s' rule", err.Tag())
		}
		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}

func (v *SetupAlertValidator) validateContact(req *model.SetupAlertRequest) error {
	switch req.AlertType {
	case model.AlertTypeSMS:
		if req.PhoneNumber == "" {
			return ValidationErrors{{
				Field:   "PhoneNumber",
				Message: "phoneNumber is required for sms alerts",
			}}
		}
		if !contact.IsValidMobile(req.PhoneNumber) {
			v.log.Warn("Invalid phone number format",
				"phone_number", mask.Phone(req.PhoneNumber),
			)
			return ValidationErrors{{
				Field:   "PhoneNumber",
				Message: "Invalid phone number format. Please provide a valid UK mobile number",
			}}
		}

	case model.AlertTypeEmail:
		if req.EmailAddress == "" {
			return ValidationErrors{{
				Field:   "EmailAddress",
				Message: "emailAddress is required for email alerts",
			}}
		}
		if !contact.IsValidEmail(req.EmailAddress) {
			v.log.Warn("Invalid email address format",
				"email_address", mask.Email(req.EmailAddress),
			)
			return ValidationErrors{{
				Field:   "EmailAddress",
				Message: "Invalid email address format. Please provide a valid email address",
			}}
		}
	}

	return nil
}
