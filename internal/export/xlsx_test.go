package export_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iTakecare/itakecarehub-sub001/internal/domain"
	"github.com/iTakecare/itakecarehub-sub001/internal/export"
)

func TestOffersWorkbook(t *testing.T) {
	offers := []domain.Offer{
		{
			BaseModel:       domain.BaseModel{ID: uuid.New(), CreatedAt: time.Now()},
			ClientName:      "Acme SPRL",
			WorkflowStatus:  domain.StatusSent,
			Type:            domain.OfferTypeAdmin,
			Amount:          2200,
			CoefficientUsed: 3.0,
			MonthlyPayment:  66,
			Leaser:          &domain.Leaser{Name: "Grenke Lease"},
		},
		{
			BaseModel:      domain.BaseModel{ID: uuid.New(), CreatedAt: time.Now()},
			ClientName:     "Globex",
			WorkflowStatus: domain.StatusDraft,
			Type:           domain.OfferTypeClientRequest,
		},
	}

	f, err := export.OffersWorkbook(offers)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Offers")
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Acme SPRL", rows[1][1])
	assert.Equal(t, "Grenke Lease", rows[1][2])
	assert.Equal(t, "sent", rows[1][3])
	assert.Equal(t, "Globex", rows[2][1])
}

func TestOffersWorkbookEmpty(t *testing.T) {
	f, err := export.OffersWorkbook(nil)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Offers")
	require.NoError(t, err)
	require.Len(t, rows, 1) // header only
}
