package controllers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/AvnerHilu2025/ginom-mockup/internal/domain/service"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
	"github.com/AvnerHilu2025/ginom-mockup/internal/error/response"
)

// ScenarioController fronts the façade's prepare/list/describe/timeline
// operations.
type ScenarioController struct {
	engine *service.ScenarioEngine
}

// NewScenarioController wires a controller around engine.
func NewScenarioController(engine *service.ScenarioEngine) *ScenarioController {
	return &ScenarioController{engine: engine}
}

type anchorRequest struct {
	Type string  `json:"type" binding:"required"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}

type prepareRequest struct {
	City          string          `json:"city" binding:"required"`
	Scenario      string          `json:"scenario" binding:"required"`
	DurationHours int             `json:"duration_hours"`
	TickMinutes   int             `json:"tick_minutes"`
	RepairCrews   int             `json:"repair_crews"`
	Anchors       []anchorRequest `json:"anchors"`
	Seed          *int64          `json:"seed,omitempty"`
}

// Prepare handles POST /api/scenarios/prepare.
func (ctl *ScenarioController) Prepare(c *gin.Context) {
	var req prepareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, enginerr.BadInput(err.Error()))
		return
	}

	anchors := make([]service.AnchorInput, 0, len(req.Anchors))
	for _, a := range req.Anchors {
		anchors = append(anchors, service.AnchorInput{Type: a.Type, Lat: a.Lat, Lng: a.Lng})
	}

	summary, err := ctl.engine.Prepare(service.PrepareRequest{
		City:          req.City,
		Scenario:      req.Scenario,
		DurationHours: req.DurationHours,
		TickMinutes:   req.TickMinutes,
		RepairCrews:   req.RepairCrews,
		Anchors:       anchors,
		Seed:          req.Seed,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, summary)
}

// ListPrepared handles GET /api/scenarios?limit=.
func (ctl *ScenarioController) ListPrepared(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	out, err := ctl.engine.ListPrepared(limit)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, out)
}

// DescribePrepared handles GET /api/scenarios/:id.
func (ctl *ScenarioController) DescribePrepared(c *gin.Context) {
	detail, err := ctl.engine.DescribePrepared(c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, detail)
}

// Timeline handles GET /api/scenarios/:id/timeline?bucket_ticks=.
func (ctl *ScenarioController) Timeline(c *gin.Context) {
	bucketTicks, _ := strconv.Atoi(c.DefaultQuery("bucket_ticks", "1"))
	out, err := ctl.engine.Timeline(c.Param("id"), bucketTicks)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.Success(c, out)
}
