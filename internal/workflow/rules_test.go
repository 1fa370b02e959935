package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/landreg/registry-backend/internal/utils"
)

func validTransferPayload() Payload {
	return Payload{Transfer: &TransferDetails{
		NewOwner: Party{
			NationalID: "079988776655",
			FullName:   "Tran Thi B",
			Phone:      "0909123456",
			Email:      "b@example.com",
		},
		Reason: "Sale of the parcel under notarized contract 123/2026",
	}}
}

func fieldErrors(t *testing.T, err error) map[string]interface{} {
	t.Helper()
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	return vErr.Fields
}

func TestValidatePayloadTransfer(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, ValidatePayload(TypeTransfer, validTransferPayload()))
	})

	t.Run("missing national id always reported", func(t *testing.T) {
		payload := validTransferPayload()
		payload.Transfer.NewOwner.NationalID = ""
		fields := fieldErrors(t, ValidatePayload(TypeTransfer, payload))
		assert.Contains(t, fields, "newOwner.nationalId")

		// Regardless of other fields' validity.
		payload.Transfer.NewOwner.FullName = ""
		payload.Transfer.Reason = "too short"
		fields = fieldErrors(t, ValidatePayload(TypeTransfer, payload))
		assert.Contains(t, fields, "newOwner.nationalId")
	})

	t.Run("reason length bounds", func(t *testing.T) {
		payload := validTransferPayload()
		payload.Transfer.Reason = "short"
		fields := fieldErrors(t, ValidatePayload(TypeTransfer, payload))
		assert.Contains(t, fields, "reason")

		payload.Transfer.Reason = strings.Repeat("x", 501)
		fields = fieldErrors(t, ValidatePayload(TypeTransfer, payload))
		assert.Contains(t, fields, "reason")
	})

	t.Run("missing variant", func(t *testing.T) {
		fields := fieldErrors(t, ValidatePayload(TypeTransfer, Payload{}))
		assert.Contains(t, fields, "transfer")
	})

	t.Run("stray variant rejected", func(t *testing.T) {
		payload := validTransferPayload()
		payload.Split = &SplitDetails{}
		fields := fieldErrors(t, ValidatePayload(TypeTransfer, payload))
		assert.Contains(t, fields, "split")
	})
}

func TestValidatePayloadSplit(t *testing.T) {
	valid := Payload{Split: &SplitDetails{
		NewParcels: []NewParcel{
			{Area: 120.5, Purpose: "residential"},
			{Area: 200, Purpose: "agricultural", Description: "remaining farmland"},
		},
		Reason: "Dividing inherited land between two siblings",
	}}
	assert.NoError(t, ValidatePayload(TypeSplit, valid))

	t.Run("single resulting parcel", func(t *testing.T) {
		payload := Payload{Split: &SplitDetails{
			NewParcels: []NewParcel{{Area: 120.5, Purpose: "residential"}},
			Reason:     "Dividing inherited land between two siblings",
		}}
		fields := fieldErrors(t, ValidatePayload(TypeSplit, payload))
		assert.Contains(t, fields, "newParcels")
	})

	t.Run("non positive area", func(t *testing.T) {
		payload := Payload{Split: &SplitDetails{
			NewParcels: []NewParcel{
				{Area: 0, Purpose: "residential"},
				{Area: 200, Purpose: "agricultural"},
			},
			Reason: "Dividing inherited land between two siblings",
		}}
		fields := fieldErrors(t, ValidatePayload(TypeSplit, payload))
		assert.Contains(t, fields, "newParcels[0].area")
	})

	t.Run("purpose outside enum", func(t *testing.T) {
		payload := Payload{Split: &SplitDetails{
			NewParcels: []NewParcel{
				{Area: 100, Purpose: "residential"},
				{Area: 200, Purpose: "castle"},
			},
			Reason: "Dividing inherited land between two siblings",
		}}
		fields := fieldErrors(t, ValidatePayload(TypeSplit, payload))
		assert.Contains(t, fields, "newParcels[1].purpose")
	})
}

func TestValidatePayloadMerge(t *testing.T) {
	valid := Payload{Merge: &MergeDetails{
		TargetParcelIDs: []string{"HN-BD-0017", "HN-BD-00018"},
		Reason:          "Consolidating two adjacent plots into one",
	}}
	assert.NoError(t, ValidatePayload(TypeMerge, valid))

	payload := Payload{Merge: &MergeDetails{
		TargetParcelIDs: []string{"HN-BD-00017"},
		Reason:          "Consolidating two adjacent plots into one",
	}}
	fields := fieldErrors(t, ValidatePayload(TypeMerge, payload))
	assert.Contains(t, fields, "targetParcelIds")

	payload = Payload{Merge: &MergeDetails{
		TargetParcelIDs: []string{"HN-BD-00017", ""},
		Reason:          "Consolidating two adjacent plots into one",
	}}
	fields = fieldErrors(t, ValidatePayload(TypeMerge, payload))
	assert.Contains(t, fields, "targetParcelIds[1]")
}

func TestValidatePayloadChangePurpose(t *testing.T) {
	valid := Payload{ChangePurpose: &ChangePurposeDetails{
		NewPurpose: "commercial",
		Reason:     "Converting the plot for a family-run shop",
	}}
	assert.NoError(t, ValidatePayload(TypeChangePurpose, valid))

	payload := Payload{ChangePurpose: &ChangePurposeDetails{
		NewPurpose: "spaceport",
		Reason:     "Converting the plot for a family-run shop",
	}}
	fields := fieldErrors(t, ValidatePayload(TypeChangePurpose, payload))
	assert.Contains(t, fields, "newPurpose")
}

func TestValidatePayloadReissueConditionalRequirement(t *testing.T) {
	reason := "Certificate damaged beyond recognition in a flood"

	t.Run("lost without police report fails", func(t *testing.T) {
		payload := Payload{Reissue: &ReissueDetails{
			Reason:          reason,
			LostCertificate: utils.PointOf(true),
		}}
		fields := fieldErrors(t, ValidatePayload(TypeReissue, payload))
		assert.Contains(t, fields, "policeReportReference")
	})

	t.Run("lost with police report passes", func(t *testing.T) {
		payload := Payload{Reissue: &ReissueDetails{
			Reason:                reason,
			LostCertificate:       utils.PointOf(true),
			PoliceReportReference: "PR-2026-08-1234",
		}}
		assert.NoError(t, ValidatePayload(TypeReissue, payload))
	})

	t.Run("not lost without police report passes", func(t *testing.T) {
		payload := Payload{Reissue: &ReissueDetails{
			Reason:          reason,
			LostCertificate: utils.PointOf(false),
		}}
		assert.NoError(t, ValidatePayload(TypeReissue, payload))
	})

	t.Run("lost flag itself is required", func(t *testing.T) {
		payload := Payload{Reissue: &ReissueDetails{Reason: reason}}
		fields := fieldErrors(t, ValidatePayload(TypeReissue, payload))
		assert.Contains(t, fields, "lostCertificate")
	})
}

func TestValidatePayloadUnknownType(t *testing.T) {
	err := ValidatePayload(RequestType("donation"), validTransferPayload())
	assert.ErrorIs(t, err, ErrUnknownRequestType)
}

func TestValidateNewRequest(t *testing.T) {
	valid := CreateInput{
		Type:         TypeTransfer,
		LandParcelID: "HCM-Q7-00042",
		Requester: Party{
			NationalID: "079123456789",
			FullName:   "Nguyen Van A",
			Phone:      "0912345678",
		},
		Payload:   validTransferPayload(),
		Documents: []string{"doc-1"},
	}
	assert.NoError(t, ValidateNewRequest(valid))

	t.Run("documents required", func(t *testing.T) {
		input := valid
		input.Documents = nil
		fields := fieldErrors(t, ValidateNewRequest(input))
		assert.Contains(t, fields, "documents")
	})

	t.Run("request and payload errors merged", func(t *testing.T) {
		input := valid
		input.LandParcelID = "x"
		input.Payload.Transfer = &TransferDetails{Reason: "short"}
		fields := fieldErrors(t, ValidateNewRequest(input))
		assert.Contains(t, fields, "landParcelId")
		assert.Contains(t, fields, "reason")
		assert.Contains(t, fields, "newOwner.nationalId")
	})

	t.Run("bad priority", func(t *testing.T) {
		input := valid
		input.Priority = Priority("asap")
		fields := fieldErrors(t, ValidateNewRequest(input))
		assert.Contains(t, fields, "priority")
	})

	t.Run("unknown type is structural", func(t *testing.T) {
		input := valid
		input.Type = RequestType("donation")
		assert.ErrorIs(t, ValidateNewRequest(input), ErrUnknownRequestType)
	})
}
