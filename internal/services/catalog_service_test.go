package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"cabbie/internal/models/request_models"
)

func TestServiceTypesListsLowestRate(t *testing.T) {
	catalog := NewCatalogService(newTestCalculator(t))

	types := catalog.ServiceTypes()
	require.Len(t, types, 3)

	assert.Equal(t, "executive", types[0].Code)
	assert.Equal(t, "mpv", types[1].Code)
	assert.Equal(t, "standard", types[2].Code)

	std := types[2]
	assert.Equal(t, "Standard saloon", std.Name)
	assert.Equal(t, int64(200), std.FromPerMile)
	assert.Equal(t, int64(1000), std.MinimumFare)
	assert.Equal(t, "GBP", std.Currency)
	assert.Equal(t, 7, types[1].MaxPassengers)
}

func TestContactSubmit(t *testing.T) {
	tr := &captureTransport{}
	contact := NewContactService(newTestMailer(tr), zap.NewNop())

	req := request_models.ContactRequest{Name: "Ada", Email: "ada@example.com", Message: "Do you take card payments?"}
	require.NoError(t, contact.Submit(context.Background(), req))
	require.Len(t, tr.sent, 1)
	assert.Equal(t, "ops@cabbie.test", tr.sent[0].to)

	tr.err = errors.New("smtp down")
	err := contact.Submit(context.Background(), req)
	assert.Error(t, err)
}
