package app

import (
	"context"
	"time"

	"agent-settings-api/internal/cache"
	"agent-settings-api/internal/config"
	"agent-settings-api/internal/handlers"
	"agent-settings-api/internal/metrics"
	"agent-settings-api/internal/models"
	"agent-settings-api/internal/realtime"
	"agent-settings-api/internal/repository"
	"agent-settings-api/internal/routes"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// App is the wired service.
type App struct {
	Router  *gin.Engine
	Metrics *metrics.Metrics
	Roles   *repository.RoleRepository
	Agents  *repository.AgentRepository

	janitors []func(ctx context.Context, interval time.Duration) <-chan struct{}
	log      *logrus.Logger
}

func newCache[V any](name string, cfg config.CacheConfig, clk clock.Clock, m *metrics.Metrics) *cache.TTLCache[string, V] {
	return cache.NewTTLCache[string, V](cfg.TTL, cache.Options{
		Name:            name,
		ConcurrencySafe: true,
		Clock:           clk,
		Observer:        m.CacheObserver(name),
	})
}

// New wires repositories, caches and routes on top of db. clk may be nil.
func New(cfg *config.Config, db *gorm.DB, logger *logrus.Logger, clk clock.Clock) *App {
	if clk == nil {
		clk = clock.New()
	}
	m := metrics.New()

	roleRows := newCache[models.Role]("roles", cfg.Cache, clk, m)
	roleLists := newCache[[]models.Role]("role_lists", cfg.Cache, clk, m)
	agentRows := newCache[models.Agent]("agents", cfg.Cache, clk, m)
	agentLists := newCache[[]models.Agent]("agent_lists", cfg.Cache, clk, m)

	roles := repository.NewRoleRepository(db, roleRows, roleLists)
	agents := repository.NewAgentRepository(db, roles, agentRows, agentLists)

	h := handlers.NewHandler(roles, agents, realtime.GetHub(), m, logger)

	return &App{
		Router:  routes.SetupRoutes(h, m, logger),
		Metrics: m,
		Roles:   roles,
		Agents:  agents,
		janitors: []func(context.Context, time.Duration) <-chan struct{}{
			roleRows.StartJanitor, roleLists.StartJanitor,
			agentRows.StartJanitor, agentLists.StartJanitor,
		},
		log: logger,
	}
}

// StartJanitors starts background sweeps on every cache until ctx is done.
// The returned channel closes once all sweepers have stopped.
func (a *App) StartJanitors(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	chans := make([]<-chan struct{}, 0, len(a.janitors))
	for _, start := range a.janitors {
		chans = append(chans, start(ctx, interval))
	}
	if interval > 0 {
		a.log.WithField("interval", interval.String()).Info("cache janitors started")
	}
	go func() {
		defer close(done)
		for _, ch := range chans {
			<-ch
		}
	}()
	return done
}
