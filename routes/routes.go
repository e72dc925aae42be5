package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"watchsync/metrics"
	"watchsync/services/lobby"
	"watchsync/services/registry"
	"watchsync/services/ws"
)

// SetupRoutes wires the HTTP surface: the websocket endpoint plus the
// small operational endpoints around it.
func SetupRoutes(router *gin.Engine, server *ws.Server, store *lobby.Store, reg *registry.Registry, m *metrics.Metrics) {
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/stats", func(c *gin.Context) {
		lobbies, members := store.Counts()
		c.JSON(http.StatusOK, gin.H{
			"lobbies":     lobbies,
			"members":     members,
			"connections": reg.Count(),
		})
	})

	router.GET("/metrics", gin.WrapH(m.Handler(func() {
		lobbies, _ := store.Counts()
		m.SetActiveLobbies(lobbies)
		m.SetConnectedClients(reg.Count())
	})))

	router.GET("/ws", server.Handle)
}
