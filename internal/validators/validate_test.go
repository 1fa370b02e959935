package validators

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testOwner struct {
	NationalID string `json:"nationalId" validate:"required,national_id"`
	Phone      string `json:"phone" validate:"required,phone_number"`
}

type testRequest struct {
	ParcelID string    `json:"landParcelId" validate:"required,parcel_id"`
	Purpose  string    `json:"purpose" validate:"required,land_purpose"`
	Owner    testOwner `json:"newOwner"`
}

func TestCustomValidations(t *testing.T) {
	validate := NewValidator()

	testCases := []struct {
		name       string
		req        testRequest
		wantFields []string
	}{
		{
			name: "valid",
			req: testRequest{
				ParcelID: "HCM-Q1-00123",
				Purpose:  "residential",
				Owner:    testOwner{NationalID: "079123456789", Phone: "0912345678"},
			},
		},
		{
			name: "national id too short",
			req: testRequest{
				ParcelID: "HCM-Q1-00123",
				Purpose:  "residential",
				Owner:    testOwner{NationalID: "12345", Phone: "0912345678"},
			},
			wantFields: []string{"newOwner.nationalId"},
		},
		{
			name: "national id non numeric",
			req: testRequest{
				ParcelID: "HCM-Q1-00123",
				Purpose:  "agricultural",
				Owner:    testOwner{NationalID: "07912345678X", Phone: "0912345678"},
			},
			wantFields: []string{"newOwner.nationalId"},
		},
		{
			name: "bad purpose and phone",
			req: testRequest{
				ParcelID: "HCM-Q1-00123",
				Purpose:  "skyscraper",
				Owner:    testOwner{NationalID: "079123456789", Phone: "123"},
			},
			wantFields: []string{"purpose", "newOwner.phone"},
		},
		{
			name: "parcel id lowercase",
			req: testRequest{
				ParcelID: "hcm-q1-00123",
				Purpose:  "other",
				Owner:    testOwner{NationalID: "079123456789", Phone: "0912345678"},
			},
			wantFields: []string{"landParcelId"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := validate.Struct(tc.req)
			if len(tc.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var vErrs validator.ValidationErrors
			require.ErrorAs(t, err, &vErrs)
			fieldErrors := ParseValidationError(vErrs)
			for _, field := range tc.wantFields {
				assert.Contains(t, fieldErrors, field)
			}
			assert.Len(t, fieldErrors, len(tc.wantFields))
		})
	}
}

func TestParseValidationErrorMessages(t *testing.T) {
	validate := NewValidator()

	type body struct {
		Reason string `json:"reason" validate:"required,min=10,max=500"`
	}

	err := validate.Struct(body{Reason: "short"})
	var vErrs validator.ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	fieldErrors := ParseValidationError(vErrs)
	assert.Equal(t, "Must be at least 10 characters long", fieldErrors["reason"])

	err = validate.Struct(body{})
	require.ErrorAs(t, err, &vErrs)
	fieldErrors = ParseValidationError(vErrs)
	assert.Equal(t, "This field is required", fieldErrors["reason"])
}

func TestIsValidLandPurpose(t *testing.T) {
	for _, purpose := range []string{"residential", "agricultural", "commercial", "industrial", "mixed_use", "conservation", "other"} {
		assert.True(t, IsValidLandPurpose(purpose), purpose)
	}
	assert.False(t, IsValidLandPurpose("RESIDENTIAL"))
	assert.False(t, IsValidLandPurpose(""))
}
