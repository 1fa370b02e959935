package validators

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	nationalIDRegex = regexp.MustCompile(`^[0-9]{12}$`)
	phoneRegex      = regexp.MustCompile(`^[0-9]{10,11}$`)
	parcelIDRegex   = regexp.MustCompile(`^[A-Z0-9_-]{5,50}$`)
)

// landUsePurposes is the closed set of land-use purposes recognized by the
// registry. Shared by split, change-of-purpose, and parcel records.
var landUsePurposes = map[string]bool{
	"residential":  true,
	"agricultural": true,
	"commercial":   true,
	"industrial":   true,
	"mixed_use":    true,
	"conservation": true,
	"other":        true,
}

// NewValidator builds the validator shared by the workflow rule set and the
// HTTP request decoding layer. Field names reported in errors follow the
// struct's json tags so they can be rendered to clients as-is.
func NewValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = validate.RegisterValidation("national_id", nationalIDValidation)
	_ = validate.RegisterValidation("phone_number", phoneValidation)
	_ = validate.RegisterValidation("land_purpose", landPurposeValidation)
	_ = validate.RegisterValidation("parcel_id", parcelIDValidation)
	return validate
}

func nationalIDValidation(fl validator.FieldLevel) bool {
	return nationalIDRegex.MatchString(fl.Field().String())
}

func phoneValidation(fl validator.FieldLevel) bool {
	return phoneRegex.MatchString(fl.Field().String())
}

func landPurposeValidation(fl validator.FieldLevel) bool {
	return landUsePurposes[fl.Field().String()]
}

func parcelIDValidation(fl validator.FieldLevel) bool {
	return parcelIDRegex.MatchString(fl.Field().String())
}

// IsValidLandPurpose reports whether the value belongs to the land-use
// purpose enum.
func IsValidLandPurpose(purpose string) bool {
	return landUsePurposes[purpose]
}

// ParseValidationError flattens validator errors into a field-keyed message map.
func ParseValidationError(errors validator.ValidationErrors) map[string]interface{} {
	fieldErrors := make(map[string]interface{})
	for _, err := range errors {
		fieldErrors[getFieldName(err)] = msgForFieldError(err)
	}
	return fieldErrors
}

// msgForFieldError gets the message for the given validation error (tag).
func msgForFieldError(fieldError validator.FieldError) string {
	switch fieldError.Tag() {
	case "required":
		return "This field is required"
	case "national_id":
		return "Must be a 12-digit national identity number"
	case "phone_number":
		return "Must be a 10 or 11-digit phone number"
	case "land_purpose":
		return "Unknown land-use purpose"
	case "parcel_id":
		return "Must be 5-50 characters of A-Z, 0-9, underscore or hyphen"
	case "email":
		return "Must be a valid email address"
	case "oneof":
		params := strings.Join(strings.Split(fieldError.Param(), " "), ", ")
		return fmt.Sprintf("Unexpected value %q. Expected one of the following values: %s", fieldError.Value(), params)
	case "min":
		if fieldError.Kind() == reflect.Slice || fieldError.Kind() == reflect.Array {
			return fmt.Sprintf("Must have at least %s elements", fieldError.Param())
		}
		return fmt.Sprintf("Must be at least %s characters long", fieldError.Param())
	case "max":
		if fieldError.Kind() == reflect.Slice || fieldError.Kind() == reflect.Array {
			return fmt.Sprintf("Must have at most %s elements", fieldError.Param())
		}
		return fmt.Sprintf("Must be at most %s characters long", fieldError.Param())
	case "gt":
		return fmt.Sprintf("Must be greater than %s", fieldError.Param())
	default:
		return "Invalid value"
	}
}

// getFieldName strips the root struct segment from the error namespace,
// leaving the json path of the offending field (e.g. "newOwner.nationalId").
func getFieldName(fieldError validator.FieldError) string {
	namespace := strings.SplitN(fieldError.Namespace(), ".", 2)
	if len(namespace) == 2 {
		return namespace[1]
	}
	return fieldError.Field()
}
