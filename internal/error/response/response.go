// Package response renders façade results and enginerr.Error failures into
// the gin JSON envelope the edge exposes.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/AvnerHilu2025/ginom-mockup/internal/error/enginerr"
)

// Success writes data as a 200 JSON body, unwrapped — the façade's return
// value already is the full summary/state/payload the caller asked for.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Fail renders err as spec §7's {error, details?, required_anchor?} shape.
// Any error that is not an *enginerr.Error is treated as INTERNAL.
func Fail(c *gin.Context, err error) {
	e, ok := enginerr.As(err)
	if !ok {
		e = enginerr.Internal(err)
	}

	body := gin.H{"error": e.Kind()}
	if e.Details != "" {
		body["details"] = e.Details
	}
	if e.RequiredAnchor != "" {
		body["required_anchor"] = e.RequiredAnchor
	}
	c.JSON(e.HTTPStatus(), body)
}
