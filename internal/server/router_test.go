package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	model "auction-house/internal/models"
	handler "auction-house/services/auction/handler"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestRouter_CallerIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockService := handler.NewMockAuctionServiceInterface(ctrl)
	router := SetupRouter(mockService)

	tests := []struct {
		name           string
		method         string
		path           string
		caller         string
		body           string
		mockSetup      func()
		expectedStatus int
		expectedMsg    string
	}{
		{
			name:   "anonymous_browse",
			method: http.MethodGet,
			path:   "/auctions/3",
			mockSetup: func() {
				mockService.EXPECT().GetAuction(gomock.Any(), int64(3)).
					Return(model.Auction{ID: 3, InitialPrice: decimal.NewFromInt(10)}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedMsg:    "auction retrieved successfully",
		},
		{
			name:           "bid_without_header",
			method:         http.MethodPost,
			path:           "/auctions/3/bids",
			body:           `{"amount": 20}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "missing caller identity",
		},
		{
			name:           "bid_with_garbage_header",
			method:         http.MethodPost,
			path:           "/auctions/3/bids",
			caller:         "alice",
			body:           `{"amount": 20}`,
			mockSetup:      func() {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "missing caller identity",
		},
		{
			name:   "bid_with_header",
			method: http.MethodPost,
			path:   "/auctions/3/bids",
			caller: "2",
			body:   `{"amount": 20}`,
			mockSetup: func() {
				mockService.EXPECT().PlaceBid(gomock.Any(), int64(3), int64(2), "20").
					Return(model.Bid{ID: 1, AuctionID: 3, BidderID: 2, Amount: decimal.NewFromInt(20)}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedMsg:    "bid recorded successfully",
		},
		{
			name:           "orders_require_caller",
			method:         http.MethodGet,
			path:           "/orders",
			mockSetup:      func() {},
			expectedStatus: http.StatusUnauthorized,
			expectedMsg:    "missing caller identity",
		},
		{
			name:           "health",
			method:         http.MethodGet,
			path:           "/healthz",
			mockSetup:      func() {},
			expectedStatus: http.StatusOK,
			expectedMsg:    "ok",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			tc.mockSetup()

			req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
			req.Header.Set("Content-Type", "application/json")
			if tc.caller != "" {
				req.Header.Set(CallerHeader, tc.caller)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tc.expectedStatus, w.Code)
			require.NotEmpty(t, w.Header().Get(RequestIDHeader))

			var resp map[string]any
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			require.Contains(t, resp["message"], tc.expectedMsg)
		})
	}
}

func TestRequestLoggerMiddleware_KeepsRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestLoggerMiddleware)
	router.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
}
