package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/service"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/response"
)

// SimController fronts the façade's start/state/tick operations.
type SimController struct {
	engine *service.ScenarioEngine
}

// NewSimController wires a controller around engine.
func NewSimController(engine *service.ScenarioEngine) *SimController {
	return &SimController{engine: engine}
}

type startRequest struct {
	InstanceID string `json:"instance_id" binding:"required"`
}

// Start handles POST /api/runs.
func (ctl *SimController) Start(c *gin.Context) {
	var req startRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, enginerr.BadInput(err.Error()))
		return
	}
	state, err := ctl.engine.Start(req.InstanceID)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, state)
}

// State handles GET /api/runs/:id.
func (ctl *SimController) State(c *gin.Context) {
	state, err := ctl.engine.State(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, state)
}

// Tick handles GET /api/runs/:id/ticks/:tick.
func (ctl *SimController) Tick(c *gin.Context) {
	tickIndex, err := strconv.Atoi(c.Param("tick"))
	if err != nil {
		response.Fail(c, enginerr.BadInput("tick_index must be an integer"))
		return
	}
	result, err := ctl.engine.Tick(c.Param("id"), tickIndex)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, result)
}
