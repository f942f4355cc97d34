package server

import (
	"fmt"
	"net"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/mmr-tortoise/worklog/internal/model"
	"github.com/mmr-tortoise/worklog/internal/port"
	"github.com/mmr-tortoise/worklog/internal/repository"
	"github.com/mmr-tortoise/worklog/internal/store"
)

// NewRouter builds the gin engine with all tracker routes registered.
// Split out from Run so tests can drive it with httptest.
func NewRouter(repo *repository.Repository) *gin.Engine {
	handler := NewHandler(repo)

	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/healthz", handler.Healthz)

	api := router.Group("/api")
	{
		api.GET("/dashboard", handler.GetDashboard)
		api.POST("/log", handler.PostLog)
		api.DELETE("/log/:company/:date", handler.DeleteLog)
		api.POST("/goal", handler.PostGoal)
		api.POST("/tasks", handler.PostTask)
		api.PUT("/tasks/:company/:id", handler.PutTask)
		api.DELETE("/tasks/:company/:id", handler.DeleteTask)
	}

	return router
}

// Run loads the config, wires the store and repository, and serves
// until the process is stopped.
func Run(configPath string) error {
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	// Checking before binding turns "address already in use" into a
	// clear message with its own exit code.
	if p := portFromAddr(cfg.Server.Addr); p > 0 && !port.NewScanner().IsAvailable(p) {
		return model.NewCLIError(model.ExitPortInUse,
			fmt.Sprintf("port %d is already in use", p))
	}

	repo := repository.New(store.New(cfg.Server.DataFile))
	router := NewRouter(repo)

	logrus.Infof("tracker server listening on %s", cfg.Server.Addr)
	return router.Run(cfg.Server.Addr)
}

// portFromAddr extracts the numeric port from a listen address like
// ":5000" or "127.0.0.1:5000". Returns 0 when none can be parsed.
func portFromAddr(addr string) int {
	_, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		return 0
	}
	p, err := strconv.Atoi(portStr)
	if err != nil {
		return 0
	}
	return p
}
