package server

import (
	handler "auction-house/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(auctionService handler.AuctionServiceInterface) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(auctionService)

	router.GET("/healthz", HealthHandler)

	// browsing is anonymous
	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.ListBidsHandler)
		auctions.GET("/:auction_id/highest", auctionHandler.HighestBidHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/auctions", auctionHandler.ListAuctionsByOwnerHandler)
		users.GET("/:user_id/followers", auctionHandler.ListFollowersHandler)
	}

	authed := router.Group("", RequireCaller)
	{
		authed.POST("/auctions", auctionHandler.CreateAuctionHandler)
		authed.PATCH("/auctions/:auction_id", auctionHandler.UpdateAuctionHandler)
		authed.POST("/auctions/:auction_id/bids", auctionHandler.PlaceBidHandler)

		authed.POST("/users/:user_id/followers", auctionHandler.FollowHandler)
		authed.DELETE("/users/:user_id/followers", auctionHandler.UnfollowHandler)

		authed.GET("/notifications", auctionHandler.ListNotificationsHandler)
		authed.PATCH("/notifications/:notification_id/read", auctionHandler.MarkNotificationReadHandler)

		authed.GET("/orders", auctionHandler.ListOrdersHandler)
		authed.PATCH("/orders/:auction_id/delivery", auctionHandler.ToggleDeliveryHandler)
	}

	return router
}
