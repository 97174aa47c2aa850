// Command loadtest drives the bridge in-process the way a host would and
// prints a delivery report.
package main

import (
	"fmt"
	"im-core/bridge"
	"im-core/runtime"
	"log/slog"
	"os"
	"strconv"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"github.com/shirou/gopsutil/process"
)

const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Load test terminated with error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return exitRuntime, err
	}
	rssBefore := rss(p)

	registry := runtime.NewRegistry(log)
	report, err := simulate(bridge.New(registry, log), cfg, log)
	if err != nil {
		return exitRuntime, err
	}
	cpu := cpuUsage(p, log)

	header := fmt.Sprintf("  ====== %d rooms / %d participants / %d messages each ======",
		cfg.Rooms, cfg.Participants, cfg.Messages)
	if cfg.Colours {
		header = color.New(color.BgBlack, color.FgGreen).Render(header)
	}
	fmt.Println(header)

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	table.Append([]string{"Rooms", strconv.Itoa(report.Rooms)})
	table.Append([]string{"Participants", strconv.Itoa(report.Members)})
	table.Append([]string{"Messages sent", strconv.FormatInt(report.Sent, 10)})
	table.Append([]string{"Messages failed", strconv.FormatInt(report.Failed, 10)})
	table.Append([]string{"Deliveries", fmt.Sprintf("%d / %d", report.Delivered, report.Expected)})
	table.Append([]string{"Duration", report.Duration.String()})
	table.Append([]string{"Deliveries/s", fmt.Sprintf("%.0f", float64(report.Delivered)/report.Duration.Seconds())})
	table.Append([]string{"RSS before", formatBytes(rssBefore)})
	table.Append([]string{"RSS after", formatBytes(rss(p))})
	table.Append([]string{"CPU", cpu})
	table.Append([]string{"Outstanding buffers", strconv.Itoa(report.Outstanding)})
	table.Render()

	if report.Delivered != report.Expected || report.Outstanding != 0 {
		return exitRuntime, fmt.Errorf("delivered %d of %d, %d buffers outstanding",
			report.Delivered, report.Expected, report.Outstanding)
	}
	return exitOK, nil
}

type cpuSampler interface {
	CPUPercent() (float64, error)
}

func cpuUsage(p cpuSampler, log *slog.Logger) string {
	percent, err := p.CPUPercent()
	if err != nil {
		log.Warn("CPU usage unavailable", "error", err)
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", percent)
}

func rss(p *process.Process) uint64 {
	mem, err := p.MemoryInfo()
	if err != nil {
		return 0
	}
	return mem.RSS
}

func formatBytes(b uint64) string {
	return fmt.Sprintf("%.1f MiB", float64(b)/(1<<20))
}
