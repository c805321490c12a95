package task

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/egubrno/svr-dashboard-go/cache"
	"github.com/egubrno/svr-dashboard-go/config"
	"github.com/egubrno/svr-dashboard-go/market"
)

type Tasks struct {
	cron            *cron.Cron
	cnfg            *config.AppConfig
	WarmupTask      func()
	MaintenanceTask func()
}

func NewTasks(svc *market.Service, c *cache.Cache, cnfg *config.AppConfig) *Tasks {
	logger := slog.Default().With("module", "tasks")
	return &Tasks{
		cron:            cron.New(),
		cnfg:            cnfg,
		WarmupTask:      NewWarmupTask(logger.With(slog.String("task", "warmup")), svc, cnfg.Gui.GetDefaultCountry()),
		MaintenanceTask: NewMaintenanceTask(logger.With(slog.String("task", "maintenance")), c),
	}
}

func (t *Tasks) Run() {
	_, err := t.cron.AddFunc("@hourly", t.WarmupTask)
	if err != nil {
		panic(err)
	}
	_, err = t.cron.AddFunc(t.cnfg.Cache.GetPurgeAt(), t.MaintenanceTask)
	if err != nil {
		panic(err)
	}
	t.cron.Start()
}

func (t *Tasks) Stop() context.Context {
	return t.cron.Stop()
}
