// Command scoreboard renders a live ranking overlay from a spreadsheet and
// serves it to streaming software over HTTP.
package main

import (
	"context"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/scoreboard/pkg/logger"
)

func main() {
	// Custom system metrics replace the default Go collectors.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		_, _ = os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	if err := rootCmd().Execute(); err != nil {
		logger.Get().Error(context.Background(), "command failed", logger.Error(err))
		os.Exit(1)
	}
}
