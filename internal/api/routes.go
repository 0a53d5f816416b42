package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api/v1")
	{
		api.GET("/health", handler.Health)

		api.POST("/predict", handler.Predict)
		api.POST("/predict/batch", handler.PredictBatch)
		api.POST("/predict/csv", handler.PredictCSV)

		api.POST("/explain", handler.Explain)
		api.GET("/feature-importance", handler.FeatureImportance)

		api.POST("/report", handler.GenerateReport)
		api.GET("/report/download/:filename", handler.DownloadReport)

		api.GET("/valuations", handler.RecentValuations)
		api.GET("/valuations/stats", handler.ValuationStats)

		api.GET("/neighborhoods", handler.Neighborhoods)
		api.GET("/options", handler.FormOptions)
	}
}
