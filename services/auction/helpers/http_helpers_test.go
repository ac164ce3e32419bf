package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"auction-house/internal/auctionerrors"
	"auction-house/internal/locks"
	model "auction-house/internal/models"

	"github.com/stretchr/testify/require"
)

func TestMapErrorToHTTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		status int
	}{
		{auctionerrors.ErrAuctionNotFound, http.StatusNotFound},
		{auctionerrors.ErrUserNotFound, http.StatusNotFound},
		{auctionerrors.ErrNoBids, http.StatusNotFound},
		{auctionerrors.ErrNotificationNotFound, http.StatusNotFound},
		{auctionerrors.ErrMissingCaller, http.StatusUnauthorized},
		{auctionerrors.ErrNotAuthorized, http.StatusForbidden},
		{auctionerrors.ErrAuctionSettled, http.StatusConflict},
		{auctionerrors.ErrAlreadySubscribed, http.StatusConflict},
		{auctionerrors.ErrBelowHighestBid, http.StatusBadRequest},
		{auctionerrors.ErrMalformedAmount, http.StatusBadRequest},
		{auctionerrors.ErrAuctionEnded, http.StatusBadRequest},
		{auctionerrors.ErrInvalidTransition, http.StatusBadRequest},
		{auctionerrors.ErrInvalidAuctionState, http.StatusBadRequest},
		{auctionerrors.ErrSelfSubscription, http.StatusBadRequest},
		{ErrInvalidID, http.StatusBadRequest},
		{locks.ErrLockTimeout, http.StatusServiceUnavailable},
		{errors.New("database failure"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		wrapped := fmt.Errorf("service: %w", tc.err)
		status, message := MapErrorToHTTP(wrapped)
		require.Equal(t, tc.status, status, "error %v", tc.err)
		require.NotEmpty(t, message)
	}
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		`{"amount": 150.5}`:    "150.5",
		`{"amount": "150.50"}`: "150.50",
		`{"amount": "abc"}`:    "abc",
		`{"amount": 1e3}`:      "1e3",
	}
	for body, want := range tests {
		var req PlaceBidRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req), body)
		require.Equal(t, Amount(want), req.Amount, body)
	}
}

func TestOptionalTime(t *testing.T) {
	t.Parallel()

	var absent UpdateAuctionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"description":"x"}`), &absent))
	require.False(t, absent.AuctionEnd.Set)

	var cleared UpdateAuctionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"auction_end":null}`), &cleared))
	require.True(t, cleared.AuctionEnd.Set)
	require.Nil(t, cleared.AuctionEnd.Value)

	var set UpdateAuctionRequest
	require.NoError(t, json.Unmarshal([]byte(`{"auction_end":"2026-03-01T12:00:00+02:00"}`), &set))
	require.True(t, set.AuctionEnd.Set)
	require.Equal(t, time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), *set.AuctionEnd.Value)

	var bad UpdateAuctionRequest
	require.Error(t, json.Unmarshal([]byte(`{"auction_end":"tomorrow"}`), &bad))
}

func TestToAuctionPatch(t *testing.T) {
	t.Parallel()

	price := Amount("12.345")
	status := "closed"
	patch, err := ToAuctionPatch(UpdateAuctionRequest{InitialPrice: &price, Status: &status})
	require.NoError(t, err)
	require.Equal(t, "12.35", patch.InitialPrice.StringFixed(2))
	require.Equal(t, model.StatusClosed, *patch.Status)
	require.False(t, patch.AuctionEndSet)

	badPrice := Amount("twelve")
	_, err = ToAuctionPatch(UpdateAuctionRequest{InitialPrice: &badPrice})
	require.True(t, errors.Is(err, auctionerrors.ErrInvalidAuction))

	badStatus := "archived"
	_, err = ToAuctionPatch(UpdateAuctionRequest{Status: &badStatus})
	require.True(t, errors.Is(err, auctionerrors.ErrInvalidAuctionState))
}

func TestParseCaller(t *testing.T) {
	t.Parallel()

	id, err := ParseCaller("42")
	require.NoError(t, err)
	require.Equal(t, int64(42), id)

	for _, raw := range []string{"", "abc", "0", "-3"} {
		_, err := ParseCaller(raw)
		require.True(t, errors.Is(err, auctionerrors.ErrMissingCaller), raw)
	}
}
