package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/landreg/registry-backend/internal/data"
	"github.com/landreg/registry-backend/internal/db"
	"github.com/landreg/registry-backend/internal/entities"
	"github.com/landreg/registry-backend/internal/workflow"
)

func Test_ParcelService_RegisterParcel(t *testing.T) {
	dbPool := &db.MockConnectionPool{}
	parcel := data.LandParcel{
		ID:              "HCM-Q1-00099",
		OwnerNationalID: testCitizen.ID,
		OwnerFullName:   "Nguyen Van A",
		Area:            120.5,
		Purpose:         "residential",
		Address:         "12 Le Loi, District 1",
	}

	t.Run("authority registers a parcel", func(t *testing.T) {
		mockParcels := data.MockLandParcelModel{}
		mockParcels.On("Insert", mock.Anything, dbPool, mock.AnythingOfType("data.LandParcel")).
			Run(func(args mock.Arguments) {
				inserted := args.Get(2).(data.LandParcel)
				assert.Equal(t, parcel.ID, inserted.ID)
				assert.Equal(t, data.ParcelStatusActive, inserted.Status)
				assert.False(t, inserted.CreatedAt.IsZero())
				assert.Equal(t, inserted.CreatedAt, inserted.UpdatedAt)
			}).
			Return(nil).
			Once()
		t.Cleanup(func() { mockParcels.AssertExpectations(t) })

		svc, err := NewParcelService(dbPool, &mockParcels)
		require.NoError(t, err)

		registered, err := svc.RegisterParcel(context.Background(), parcel, testAuthority)
		require.NoError(t, err)
		assert.Equal(t, data.ParcelStatusActive, registered.Status)
	})

	t.Run("other orgs are denied", func(t *testing.T) {
		mockParcels := data.MockLandParcelModel{}
		t.Cleanup(func() { mockParcels.AssertExpectations(t) })

		svc, err := NewParcelService(dbPool, &mockParcels)
		require.NoError(t, err)

		for _, actor := range []entities.Actor{testCitizen, testOfficer} {
			_, err = svc.RegisterParcel(context.Background(), parcel, actor)
			var uErr *workflow.UnauthorizedError
			require.ErrorAs(t, err, &uErr)
		}
	})
}

func Test_ParcelService_GetParcel(t *testing.T) {
	mockParcels := data.MockLandParcelModel{}
	mockParcels.On("GetByID", mock.Anything, "HCM-Q1-00042").
		Return(data.LandParcel{ID: "HCM-Q1-00042", OwnerNationalID: testCitizen.ID}, nil).
		Once()
	t.Cleanup(func() { mockParcels.AssertExpectations(t) })

	svc, err := NewParcelService(&db.MockConnectionPool{}, &mockParcels)
	require.NoError(t, err)

	parcel, err := svc.GetParcel(context.Background(), "HCM-Q1-00042")
	require.NoError(t, err)
	assert.Equal(t, testCitizen.ID, parcel.OwnerNationalID)
}

func Test_ParcelService_ListOwnerParcels(t *testing.T) {
	page := entities.PageParams{Limit: 50}

	t.Run("citizens default to their own holdings", func(t *testing.T) {
		mockParcels := data.MockLandParcelModel{}
		mockParcels.On("ListByOwner", mock.Anything, testCitizen.ID, page).
			Return([]data.LandParcel{{ID: "HCM-Q1-00042"}}, nil).
			Once()
		t.Cleanup(func() { mockParcels.AssertExpectations(t) })

		svc, err := NewParcelService(&db.MockConnectionPool{}, &mockParcels)
		require.NoError(t, err)

		parcels, err := svc.ListOwnerParcels(context.Background(), "", page, testCitizen)
		require.NoError(t, err)
		assert.Len(t, parcels, 1)
	})

	t.Run("citizen asking for another owner is denied", func(t *testing.T) {
		mockParcels := data.MockLandParcelModel{}
		t.Cleanup(func() { mockParcels.AssertExpectations(t) })

		svc, err := NewParcelService(&db.MockConnectionPool{}, &mockParcels)
		require.NoError(t, err)

		_, err = svc.ListOwnerParcels(context.Background(), "079987654321", page, testCitizen)
		var uErr *workflow.UnauthorizedError
		require.ErrorAs(t, err, &uErr)
	})

	t.Run("officials list any owner", func(t *testing.T) {
		mockParcels := data.MockLandParcelModel{}
		mockParcels.On("ListByOwner", mock.Anything, "079987654321", page).
			Return([]data.LandParcel{}, nil).
			Once()
		t.Cleanup(func() { mockParcels.AssertExpectations(t) })

		svc, err := NewParcelService(&db.MockConnectionPool{}, &mockParcels)
		require.NoError(t, err)

		_, err = svc.ListOwnerParcels(context.Background(), "079987654321", page, testOfficer)
		require.NoError(t, err)
	})
}
