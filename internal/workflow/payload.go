package workflow

// Party identifies a person by national identity number. Used for the
// requester and, on transfers, the receiving owner.
type Party struct {
	NationalID string `json:"nationalId" validate:"required,national_id"`
	FullName   string `json:"fullName" validate:"required,min=2,max=100"`
	Phone      string `json:"phone" validate:"required,phone_number"`
	Email      string `json:"email,omitempty" validate:"omitempty,email,max=100"`
}

// TransferDetails is the payload for ownership transfers.
type TransferDetails struct {
	NewOwner Party  `json:"newOwner"`
	Reason   string `json:"reason" validate:"required,min=10,max=500"`
}

// NewParcel describes one parcel resulting from a split.
type NewParcel struct {
	Area        float64 `json:"area" validate:"required,gt=0"`
	Purpose     string  `json:"purpose" validate:"required,land_purpose"`
	Description string  `json:"description,omitempty" validate:"max=500"`
}

// SplitDetails is the payload for splitting one parcel into several.
type SplitDetails struct {
	NewParcels []NewParcel `json:"newParcels" validate:"required,min=2,dive"`
	Reason     string      `json:"reason" validate:"required,min=10,max=500"`
}

// MergeDetails is the payload for merging several parcels into the request's
// primary parcel.
type MergeDetails struct {
	TargetParcelIDs []string `json:"targetParcelIds" validate:"required,min=2,dive,required"`
	Reason          string   `json:"reason" validate:"required,min=10,max=500"`
}

// ChangePurposeDetails is the payload for land-use purpose changes.
type ChangePurposeDetails struct {
	NewPurpose string `json:"newPurpose" validate:"required,land_purpose"`
	Reason     string `json:"reason" validate:"required,min=10,max=500"`
}

// ReissueDetails is the payload for certificate reissuance. When the
// certificate is reported lost a police report reference becomes mandatory;
// that conditional requirement is enforced by a struct-level validation.
type ReissueDetails struct {
	Reason                string `json:"reason" validate:"required,min=10,max=500"`
	LostCertificate       *bool  `json:"lostCertificate" validate:"required"`
	PoliceReportReference string `json:"policeReportReference,omitempty"`
}

// Payload is the tagged union of type-specific request details. Exactly one
// variant must be set, and it must match the request's type — a transfer
// request can never smuggle split-only fields.
type Payload struct {
	Transfer      *TransferDetails      `json:"transfer,omitempty"`
	Split         *SplitDetails         `json:"split,omitempty"`
	Merge         *MergeDetails         `json:"merge,omitempty"`
	ChangePurpose *ChangePurposeDetails `json:"changePurpose,omitempty"`
	Reissue       *ReissueDetails       `json:"reissue,omitempty"`
}

// variants maps each request type to its union tag and whether it is set.
func (p Payload) variants() map[RequestType]struct {
	key string
	set bool
} {
	return map[RequestType]struct {
		key string
		set bool
	}{
		TypeTransfer:      {"transfer", p.Transfer != nil},
		TypeSplit:         {"split", p.Split != nil},
		TypeMerge:         {"merge", p.Merge != nil},
		TypeChangePurpose: {"changePurpose", p.ChangePurpose != nil},
		TypeReissue:       {"reissue", p.Reissue != nil},
	}
}

// details returns the variant value for the given type, or nil.
func (p Payload) details(t RequestType) interface{} {
	switch t {
	case TypeTransfer:
		if p.Transfer != nil {
			return *p.Transfer
		}
	case TypeSplit:
		if p.Split != nil {
			return *p.Split
		}
	case TypeMerge:
		if p.Merge != nil {
			return *p.Merge
		}
	case TypeChangePurpose:
		if p.ChangePurpose != nil {
			return *p.ChangePurpose
		}
	case TypeReissue:
		if p.Reissue != nil {
			return *p.Reissue
		}
	}
	return nil
}
