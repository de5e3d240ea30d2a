package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/model"
	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/service"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/response"
)

// DependencyController fronts the dependency resolver's chain/graph
// operations.
type DependencyController struct {
	engine *service.ScenarioEngine
}

// NewDependencyController wires a controller around engine.
func NewDependencyController(engine *service.ScenarioEngine) *DependencyController {
	return &DependencyController{engine: engine}
}

// Chain handles GET /api/dependencies/chain?asset_id=&direction=&max_depth=.
func (ctl *DependencyController) Chain(c *gin.Context) {
	assetID := c.Query("asset_id")
	if assetID == "" {
		response.Fail(c, enginerr.BadInput("asset_id is required"))
		return
	}
	direction := model.Direction(c.DefaultQuery("direction", string(model.Downstream)))
	maxDepth, err := strconv.Atoi(c.DefaultQuery("max_depth", "1"))
	if err != nil {
		response.Fail(c, enginerr.BadInput("max_depth must be an integer"))
		return
	}

	result, err := ctl.engine.Chain(assetID, direction, maxDepth)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}

// Graph handles GET /api/dependencies/graph?city=.
func (ctl *DependencyController) Graph(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		response.Fail(c, enginerr.BadInput("city is required"))
		return
	}
	result, err := ctl.engine.Graph(city)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}
