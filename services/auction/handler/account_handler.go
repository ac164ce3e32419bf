package handler

import (
	"net/http"

	"auction-house/services/auction/helpers"
	"auction-house/utils"

	"github.com/gin-gonic/gin"
)

// ListAuctionsByOwnerHandler handles GET /users/:user_id/auctions
func (h *AuctionHandler) ListAuctionsByOwnerHandler(c *gin.Context) {
	userID, err := helpers.ParseID(c, "user_id")
	if err != nil {
		helpers.RespondError(c, "ListAuctionsByOwnerHandler", err, nil)
		return
	}

	list, err := h.service.ListAuctionsByOwner(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "ListAuctionsByOwnerHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewAuctionResponses(list), "auctions retrieved successfully")
}

// ListFollowersHandler handles GET /users/:user_id/followers
func (h *AuctionHandler) ListFollowersHandler(c *gin.Context) {
	userID, err := helpers.ParseID(c, "user_id")
	if err != nil {
		helpers.RespondError(c, "ListFollowersHandler", err, nil)
		return
	}

	followers, err := h.service.ListFollowers(c.Request.Context(), userID)
	if err != nil {
		helpers.RespondError(c, "ListFollowersHandler", err, map[string]any{"user_id": userID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, followers, "followers retrieved successfully")
}

// FollowHandler handles POST /users/:user_id/followers
func (h *AuctionHandler) FollowHandler(c *gin.Context) {
	callerID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "FollowHandler", err, nil)
		return
	}
	targetID, err := helpers.ParseID(c, "user_id")
	if err != nil {
		helpers.RespondError(c, "FollowHandler", err, nil)
		return
	}

	if err := h.service.Follow(c.Request.Context(), callerID, targetID); err != nil {
		helpers.RespondError(c, "FollowHandler", err, map[string]any{"caller_id": callerID, "target_id": targetID})
		return
	}

	utils.JSONResponse(c, http.StatusCreated, nil, "subscribed successfully")
	helpers.LogSuccess("FollowHandler", "subscribed successfully", map[string]any{"caller_id": callerID, "target_id": targetID})
}

// UnfollowHandler handles DELETE /users/:user_id/followers
func (h *AuctionHandler) UnfollowHandler(c *gin.Context) {
	callerID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "UnfollowHandler", err, nil)
		return
	}
	targetID, err := helpers.ParseID(c, "user_id")
	if err != nil {
		helpers.RespondError(c, "UnfollowHandler", err, nil)
		return
	}

	if err := h.service.Unfollow(c.Request.Context(), callerID, targetID); err != nil {
		helpers.RespondError(c, "UnfollowHandler", err, map[string]any{"caller_id": callerID, "target_id": targetID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "unsubscribed successfully")
}

// ListNotificationsHandler handles GET /notifications
func (h *AuctionHandler) ListNotificationsHandler(c *gin.Context) {
	callerID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "ListNotificationsHandler", err, nil)
		return
	}

	list, err := h.service.ListNotifications(c.Request.Context(), callerID)
	if err != nil {
		helpers.RespondError(c, "ListNotificationsHandler", err, map[string]any{"caller_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, list, "notifications retrieved successfully")
}

// MarkNotificationReadHandler handles PATCH /notifications/:notification_id/read
func (h *AuctionHandler) MarkNotificationReadHandler(c *gin.Context) {
	callerID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "MarkNotificationReadHandler", err, nil)
		return
	}
	notificationID, err := helpers.ParseID(c, "notification_id")
	if err != nil {
		helpers.RespondError(c, "MarkNotificationReadHandler", err, nil)
		return
	}

	if err := h.service.MarkNotificationRead(c.Request.Context(), callerID, notificationID); err != nil {
		helpers.RespondError(c, "MarkNotificationReadHandler", err, map[string]any{"caller_id": callerID, "notification_id": notificationID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, nil, "notification marked as read")
}

// ListOrdersHandler handles GET /orders
func (h *AuctionHandler) ListOrdersHandler(c *gin.Context) {
	callerID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "ListOrdersHandler", err, nil)
		return
	}

	orders, err := h.service.ListOrders(c.Request.Context(), callerID)
	if err != nil {
		helpers.RespondError(c, "ListOrdersHandler", err, map[string]any{"caller_id": callerID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, orders, "orders retrieved successfully")
}

// ToggleDeliveryHandler handles PATCH /orders/:auction_id/delivery
func (h *AuctionHandler) ToggleDeliveryHandler(c *gin.Context) {
	callerID, err := helpers.CallerID(c)
	if err != nil {
		helpers.RespondError(c, "ToggleDeliveryHandler", err, nil)
		return
	}
	auctionID, err := helpers.ParseID(c, "auction_id")
	if err != nil {
		helpers.RespondError(c, "ToggleDeliveryHandler", err, nil)
		return
	}

	order, err := h.service.ToggleDelivery(c.Request.Context(), callerID, auctionID)
	if err != nil {
		helpers.RespondError(c, "ToggleDeliveryHandler", err, map[string]any{"caller_id": callerID, "auction_id": auctionID})
		return
	}

	utils.JSONResponse(c, http.StatusOK, order, "delivery status updated")
	helpers.LogSuccess("ToggleDeliveryHandler", "delivery status updated", map[string]any{
		"auction_id": auctionID,
		"delivered":  order.Delivered,
	})
}
