package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
	"golang.org/x/sync/errgroup"
)

// healthHandler reports runtime info, host metrics and whether guidance is
// configured. Metrics that cannot be read mark the status as degraded.
func (s *Server) healthHandler(c echo.Context) error {
	ctx := c.Request().Context()

	var (
		v          *mem.VirtualMemoryStat
		cpuPercent []float64
		d          *disk.UsageStat
		hInfo      *host.InfoStat
	)

	// errgroup manages the goroutines and cancels context on error
	g, grpCtx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		v, err = mem.VirtualMemoryWithContext(grpCtx)
		return err
	})
	g.Go(func() (err error) {
		cpuPercent, err = cpu.PercentWithContext(grpCtx, 0, false)
		return err
	})
	g.Go(func() (err error) {
		d, err = disk.UsageWithContext(grpCtx, "/")
		return err
	})
	g.Go(func() (err error) {
		hInfo, err = host.InfoWithContext(grpCtx)
		return err
	})

	status := "online"
	resp := map[string]interface{}{
		"guidance": map[string]interface{}{
			"configured": s.guidance != nil && s.guidance.Configured(),
			"provider":   s.cfg.LLM.Provider,
		},
		"breathing_sessions": s.sockets.Count(),
		"runtime": map[string]interface{}{
			"uptime":     time.Since(s.startTime).String(),
			"start_time": s.startTime.Format(time.RFC3339),
		},
	}

	if err := g.Wait(); err != nil {
		requestLogger(c).Warn().Err(err).Msg("Could not collect all host metrics")
		status = "degraded"
		resp["error"] = err.Error()
	}
	resp["status"] = status

	if hInfo != nil {
		runtime := resp["runtime"].(map[string]interface{})
		runtime["os"] = hInfo.OS
		runtime["platform"] = hInfo.Platform
		runtime["arch"] = hInfo.KernelArch
		runtime["hostname"] = hInfo.Hostname
	}
	if len(cpuPercent) > 0 {
		resp["cpu"] = map[string]interface{}{
			"usage_percent": fmt.Sprintf("%.2f%%", cpuPercent[0]),
		}
	}
	if v != nil {
		resp["memory"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(v.Total)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", v.UsedPercent),
		}
	}
	if d != nil {
		resp["disk"] = map[string]interface{}{
			"total_gb":     fmt.Sprintf("%.2f GB", float64(d.Total)/1024/1024/1024),
			"used_percent": fmt.Sprintf("%.2f%%", d.UsedPercent),
		}
	}

	return c.JSON(http.StatusOK, resp)
}
