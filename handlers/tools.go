package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobfit/backend/tools"
)

// GetTools returns available tools for introspection
// @Summary List tools
// @Description Tools exposed to external agents over MCP
// @Tags Tools
// @Produce json
// @Success 200 {object} map[string]interface{} "Tool definitions"
// @Router /api/tools [get]
func GetTools(registry *tools.ToolRegistry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"tools": registry.GetToolDefinitions(),
		})
	}
}
