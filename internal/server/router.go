package server

import (
	"auction-engine/internal/broadcast"
	"auction-engine/internal/engine"
	handler "auction-engine/services/auction/handler"

	"github.com/gin-gonic/gin"
)

// SetupRouter configures all Gin routes for the application
func SetupRouter(eng *engine.Engine, hub *broadcast.Hub) *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	auctionHandler := handler.NewAuctionHandler(eng)

	bids := router.Group("/bids")
	{
		bids.POST("", auctionHandler.PlaceBidHandler)
	}

	autobids := router.Group("/autobids")
	{
		autobids.POST("", auctionHandler.SetAutoBidHandler)
	}

	budgets := router.Group("/budgets")
	{
		budgets.POST("", auctionHandler.SetBudgetHandler)
		budgets.GET("/:user_id", auctionHandler.GetBudgetHandler)
	}

	auctions := router.Group("/auctions")
	{
		auctions.GET("", auctionHandler.ListAuctionsHandler)
		auctions.GET("/:auction_id", auctionHandler.GetAuctionHandler)
		auctions.GET("/:auction_id/bids", auctionHandler.GetBidHistoryHandler)
	}

	users := router.Group("/users")
	{
		users.GET("/:user_id/bids", auctionHandler.GetUserBidsHandler)
	}

	router.POST("/webhook", auctionHandler.WebhookHandler)

	if hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			hub.ServeWS(c.Writer, c.Request)
		})
	}

	return router
}
