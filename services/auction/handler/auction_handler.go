package handler

import (
	"context"
	"net/http"

	model "auction-house/internal/models"
	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

//go:generate mockgen -destination=mock_service.go -package=handler auction-house/services/auction/handler AuctionServiceInterface

type AuctionServiceInterface interface {
	CreateAuction(ctx context.Context, ownerID int64, in model.NewAuction) (model.Auction, error)
	GetAuction(ctx context.Context, auctionID int64) (model.Auction, error)
	ListAuctions(ctx context.Context, search string) ([]model.Auction, error)
	ListAuctionsByOwner(ctx context.Context, ownerID int64) ([]model.Auction, error)
	UpdateAuction(ctx context.Context, auctionID, callerID int64, patch model.AuctionPatch) (model.Auction, error)
	PlaceBid(ctx context.Context, auctionID, bidderID int64, rawAmount string) (model.Bid, error)
	ListBids(ctx context.Context, auctionID int64) ([]model.Bid, error)
	HighestBid(ctx context.Context, auctionID int64) (model.Bid, error)
	Follow(ctx context.Context, callerID, targetID int64) error
	Unfollow(ctx context.Context, callerID, targetID int64) error
	ListFollowers(ctx context.Context, userID int64) ([]model.User, error)
	ListNotifications(ctx context.Context, callerID int64) ([]model.Notification, error)
	MarkNotificationRead(ctx context.Context, callerID, notificationID int64) error
	ListOrders(ctx context.Context, callerID int64) ([]model.Order, error)
	ToggleDelivery(ctx context.Context, callerID, auctionID int64) (model.Order, error)
}

type AuctionHandler struct {
	service AuctionServiceInterface
}

func NewAuctionHandler(service AuctionServiceInterface) *AuctionHandler {
	return &AuctionHandler{service: service}
}

// CreateAuctionHandler handles POST /auctions
func (h *AuctionHandler) CreateAuctionHandler(c *gin.Context) {
	callerID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "CreateAuctionHandler", err, nil)
		return
	}

	var req helpers.CreateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "CreateAuctionHandler", err)
		return
	}

	in, err := helpers.ToNewAuction(req)
	if err != nil {
		helpers.RespondError(c, "CreateAuctionHandler", err, map[string]any{"owner_id": callerID})
		return
	}

	auction, err := h.service.CreateAuction(c.Request.Context(), callerID, in)
	if err != nil {
		helpers.RespondError(c, "CreateAuctionHandler", err, map[string]any{"owner_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewAuctionResponse(auction), "auction created successfully")
	helpers.LogSuccess("CreateAuctionHandler", "auction created successfully", map[string]any{
		"auction_id": auction.ID,
		"owner_id":   callerID,
	})
}

// ListAuctionsHandler handles GET /auctions?search=
func (h *AuctionHandler) ListAuctionsHandler(c *gin.Context) {
	search := c.Query("search")
	list, err := h.service.ListAuctions(c.Request.Context(), search)
	if err != nil {
		helpers.RespondError(c, "ListAuctionsHandler", err, map[string]any{"search": search})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponses(list), "auctions retrieved successfully")
}

// GetAuctionHandler handles GET /auctions/:auction_id
func (h *AuctionHandler) GetAuctionHandler(c *gin.Context) {
	auctionID, err := helpers.ParseID(c, "auction_id")
	if err != nil {
		helpers.RespondError(c, "GetAuctionHandler", err, nil)
		return
	}

	auction, err := h.service.GetAuction(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "GetAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(auction), "auction retrieved successfully")
}

// UpdateAuctionHandler handles PATCH /auctions/:auction_id
func (h *AuctionHandler) UpdateAuctionHandler(c *gin.Context) {
	callerID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "UpdateAuctionHandler", err, nil)
		return
	}
	auctionID, err := helpers.ParseID(c, "auction_id")
	if err != nil {
		helpers.RespondError(c, "UpdateAuctionHandler", err, nil)
		return
	}

	var req helpers.UpdateAuctionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "UpdateAuctionHandler", err)
		return
	}

	patch, err := helpers.ToAuctionPatch(req)
	if err != nil {
		helpers.RespondError(c, "UpdateAuctionHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	auction, err := h.service.UpdateAuction(c.Request.Context(), auctionID, callerID, patch)
	if err != nil {
		helpers.RespondError(c, "UpdateAuctionHandler", err, map[string]any{"auction_id": auctionID, "caller_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponse(auction), "auction updated successfully")
	helpers.LogSuccess("UpdateAuctionHandler", "auction updated successfully", map[string]any{
		"auction_id": auctionID,
		"settled":    auction.IsSettled(),
	})
}

// PlaceBidHandler handles POST /auctions/:auction_id/bids
func (h *AuctionHandler) PlaceBidHandler(c *gin.Context) {
	callerID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, nil)
		return
	}
	auctionID, err := helpers.ParseID(c, "auction_id")
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, nil)
		return
	}

	var req helpers.PlaceBidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.HandleBindError(c, "PlaceBidHandler", err)
		return
	}

	bid, err := h.service.PlaceBid(c.Request.Context(), auctionID, callerID, string(req.Amount))
	if err != nil {
		helpers.RespondError(c, "PlaceBidHandler", err, map[string]any{
			"auction_id": auctionID,
			"bidder_id":  callerID,
			"amount":     string(req.Amount),
		})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, helpers.NewBidResponse(bid), "bid recorded successfully")
	helpers.LogSuccess("PlaceBidHandler", "bid recorded successfully", map[string]any{
		"bid_id":     bid.ID,
		"auction_id": auctionID,
		"bidder_id":  callerID,
		"amount":     bid.Amount.StringFixed(2),
	})
}

// ListBidsHandler handles GET /auctions/:auction_id/bids
func (h *AuctionHandler) ListBidsHandler(c *gin.Context) {
	auctionID, err := helpers.ParseID(c, "auction_id")
	if err != nil {
		helpers.RespondError(c, "ListBidsHandler", err, nil)
		return
	}

	bids, err := h.service.ListBids(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "ListBidsHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponses(bids), "bids retrieved successfully")
	helpers.LogSuccess("ListBidsHandler", "bids retrieved successfully", map[string]any{
		"auction_id": auctionID,
		"count":      len(bids),
	})
}

// HighestBidHandler handles GET /auctions/:auction_id/highest
func (h *AuctionHandler) HighestBidHandler(c *gin.Context) {
	auctionID, err := helpers.ParseID(c, "auction_id")
	if err != nil {
		helpers.RespondError(c, "HighestBidHandler", err, nil)
		return
	}

	bid, err := h.service.HighestBid(c.Request.Context(), auctionID)
	if err != nil {
		helpers.RespondError(c, "HighestBidHandler", err, map[string]any{"auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewBidResponse(bid), "highest bid retrieved successfully")
}
