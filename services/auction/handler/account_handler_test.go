package handler

import (
	"net/http"
	"testing"

	"auction-house/internal/auctionerrors"
	model "auction-house/internal/models"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func TestFollowHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	router := newTestRouter(NewAuctionHandler(mockService))

	tests := []struct {
		name           string
		method         string
		caller         int64
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "follow",
			method: http.MethodPost,
			caller: 2,
			mockSetup: func() {
				mockService.EXPECT().Follow(gomock.Any(), int64(2), int64(1)).Return(nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "subscribed successfully",
		},
		{
			name:   "follow_duplicate",
			method: http.MethodPost,
			caller: 3,
			mockSetup: func() {
				mockService.EXPECT().Follow(gomock.Any(), int64(3), int64(1)).Return(auctionerrors.ErrAlreadySubscribed)
			},
			expectedStatus: http.StatusConflict,
			expectedMsg:    "already subscribed",
		},
		{
			name:   "follow_self",
			method: http.MethodPost,
			caller: 1,
			mockSetup: func() {
				mockService.EXPECT().Follow(gomock.Any(), int64(1), int64(1)).Return(auctionerrors.ErrSelfSubscription)
			},
			expectedStatus: http.StatusBadRequest,
			expectedMsg:    "cannot subscribe to yourself",
		},
		{
			name:           "follow_anonymous",
			method:         http.MethodPost,
			mockSetup:      func() {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "missing caller identity",
		},
		{
			name:   "unfollow_missing",
			method: http.MethodDelete,
			caller: 4,
			mockSetup: func() {
				mockService.EXPECT().Unfollow(gomock.Any(), int64(4), int64(1)).Return(auctionerrors.ErrNotSubscribed)
			},
			expectedStatus: http.StatusNotFound,
			expectedMsg:    "not subscribed",
		},
		{
			name:   "list_followers",
			method: http.MethodGet,
			mockSetup: func() {
				mockService.EXPECT().ListFollowers(gomock.Any(), int64(1)).Return([]model.User{{ID: 2, DisplayName: "alice"}}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "followers retrieved successfully",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			w, resp := doRequest(t, router, tc.method, "/users/1/followers", tc.caller, nil)
			require.Equal(t, tc.expectedStatus, w.Code)
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

func TestNotificationHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	router := newTestRouter(NewAuctionHandler(mockService))

	mockService.EXPECT().ListNotifications(gomock.Any(), int64(2)).
		Return([]model.Notification{{ID: 5, UserID: 2, Kind: model.KindWin, Payload: []byte(`{"auction_id":7}`)}}, nil)
	w, resp := doRequest(t, router, http.MethodGet, "/notifications", 2, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := resp["data"].([]any)
	require.Len(t, list, 1)
	first := list[0].(map[string]any)
	require.Equal(t, "win", first["kind"])
	require.Equal(t, float64(7), first["payload"].(map[string]any)["auction_id"])

	mockService.EXPECT().MarkNotificationRead(gomock.Any(), int64(2), int64(5)).Return(nil)
	w, _ = doRequest(t, router, http.MethodPatch, "/notifications/5/read", 2, nil)
	require.Equal(t, http.StatusOK, w.Code)

	mockService.EXPECT().MarkNotificationRead(gomock.Any(), int64(3), int64(5)).Return(auctionerrors.ErrNotificationNotFound)
	w, _ = doRequest(t, router, http.MethodPatch, "/notifications/5/read", 3, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	w, _ = doRequest(t, router, http.MethodGet, "/notifications", 0, nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOrderHandlers(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := NewMockAuctionServiceInterface(ctrl)
	router := newTestRouter(NewAuctionHandler(mockService))

	mockService.EXPECT().ListOrders(gomock.Any(), int64(9)).
		Return([]model.Order{{AuctionID: 7, ItemName: "Guitar", WinningPrice: "150.00"}}, nil)
	w, resp := doRequest(t, router, http.MethodGet, "/orders", 9, nil)
	require.Equal(t, http.StatusOK, w.Code)
	order := resp["data"].([]any)[0].(map[string]any)
	require.Equal(t, "150.00", order["winned_price"])

	mockService.EXPECT().ToggleDelivery(gomock.Any(), int64(9), int64(7)).
		Return(model.Order{AuctionID: 7, Delivered: true}, nil)
	w, resp = doRequest(t, router, http.MethodPatch, "/orders/7/delivery", 9, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, true, resp["data"].(map[string]any)["delivered"])

	mockService.EXPECT().ToggleDelivery(gomock.Any(), int64(2), int64(7)).
		Return(model.Order{}, auctionerrors.ErrNotAuthorized)
	w, _ = doRequest(t, router, http.MethodPatch, "/orders/7/delivery", 2, nil)
	require.Equal(t, http.StatusForbidden, w.Code)
}
