// Package routes registers the scenario engine's thin HTTP edge: route
// paths and method dispatch only, no business logic. The façade behind it
// is the only boundary that matters per spec §1.
package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/AvnerHilu2025/ginom-mockup/internal/app/controllers"
	"github.com/AvnerHilu2025/ginom-mockup/internal/app/middleware"
	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/service"
	"github.com/AvnerHilu2025/ginom-mockup/internal/infrastructure/database"
)

// SetupRouter builds the gin engine and wires every controller.
func SetupRouter(engine *service.ScenarioEngine, pool *database.ConnectionPool) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RateLimiter(middleware.RateLimiterConfig{
		Rate:  20,
		Burst: 40,
	}))

	scenarioCtl := controllers.NewScenarioController(engine)
	simCtl := controllers.NewSimController(engine)
	depCtl := controllers.NewDependencyController(engine)
	healthCtl := controllers.NewHealthController(pool)

	r.GET("/health", healthCtl.Health)

	api := r.Group("/api")
	{
		scenarios := api.Group("/scenarios")
		scenarios.Use(middleware.CacheByParams(3*time.Second, "limit", "bucket_ticks"))
		{
			scenarios.POST("/prepare", scenarioCtl.Prepare)
			scenarios.GET("", scenarioCtl.ListPrepared)
			scenarios.GET("/:id", scenarioCtl.DescribePrepared)
			scenarios.GET("/:id/timeline", scenarioCtl.Timeline)
		}

		runs := api.Group("/runs")
		{
			runs.POST("", simCtl.Start)
			runs.GET("/:id", simCtl.State)
			runs.GET("/:id/ticks/:tick", simCtl.Tick)
		}

		deps := api.Group("/dependencies")
		{
			deps.GET("/chain", depCtl.Chain)
			deps.GET("/graph", depCtl.Graph)
		}
	}

	return r
}
