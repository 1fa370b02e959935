package workflow

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/landreg/registry-backend/internal/validators"
)

// validate is the shared rule-set validator. Building it is not cheap, so it
// is constructed once per process.
var validate = newRuleValidator()

func newRuleValidator() *validator.Validate {
	v := validators.NewValidator()
	v.RegisterStructValidation(reissueStructLevel, ReissueDetails{})
	return v
}

// reissueStructLevel enforces the conditional requirement on reissue
// payloads: a lost certificate must be backed by a police report reference.
func reissueStructLevel(sl validator.StructLevel) {
	details := sl.Current().Interface().(ReissueDetails)
	if details.LostCertificate != nil && *details.LostCertificate && details.PoliceReportReference == "" {
		sl.ReportError(details.PoliceReportReference, "policeReportReference", "PoliceReportReference", "required", "")
	}
}

// ValidatePayload checks a candidate payload against the rule set for the
// given request type. It returns nil when the payload is valid, a
// *ValidationError carrying field-keyed messages when it is not, and
// ErrUnknownRequestType for a type outside the fixed set. Malformed but
// well-typed input never produces anything other than field errors.
func ValidatePayload(reqType RequestType, payload Payload) error {
	if !reqType.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRequestType, reqType)
	}

	fields := make(map[string]interface{})

	// Tagged-union discipline: the matching variant must be set and every
	// other variant must be absent.
	for t, variant := range payload.variants() {
		switch {
		case t == reqType && !variant.set:
			fields[variant.key] = "This field is required"
		case t != reqType && variant.set:
			fields[variant.key] = fmt.Sprintf("Must not be set on a %s request", reqType)
		}
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	if err := validate.Struct(payload.details(reqType)); err != nil {
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("running payload validation: %w", err)
		}
		return &ValidationError{Fields: validators.ParseValidationError(vErrs)}
	}
	return nil
}

// createRules mirrors the request-level constraints checked at filing time,
// on top of the type-specific payload rules.
type createRules struct {
	LandParcelID string   `json:"landParcelId" validate:"required,parcel_id"`
	Requester    Party    `json:"requester"`
	Documents    []string `json:"documents" validate:"required,min=1,dive,required"`
	Priority     Priority `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
}

// ValidateNewRequest checks everything a request must satisfy before it may
// enter PENDING: request-level fields, at least one supporting document, and
// the type-specific payload rules. Field errors from both levels are merged
// into one result.
func ValidateNewRequest(input CreateInput) error {
	if !input.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownRequestType, input.Type)
	}

	fields := make(map[string]interface{})

	err := validate.Struct(createRules{
		LandParcelID: input.LandParcelID,
		Requester:    input.Requester,
		Documents:    input.Documents,
		Priority:     input.Priority,
	})
	if err != nil {
		vErrs, ok := err.(validator.ValidationErrors)
		if !ok {
			return fmt.Errorf("running request validation: %w", err)
		}
		for k, v := range validators.ParseValidationError(vErrs) {
			fields[k] = v
		}
	}

	if err := ValidatePayload(input.Type, input.Payload); err != nil {
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			return err
		}
		for k, v := range vErr.Fields {
			fields[k] = v
		}
	}

	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}
