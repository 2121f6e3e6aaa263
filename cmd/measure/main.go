package main

import (
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogpu/gg"

	"screen-measure/config"
	"screen-measure/logutil"
	"screen-measure/session"
)

func main() {
	bounds := flag.Bool("bounds", false, "Start the bounds tool (drag to select regions)")
	horizontal := flag.Bool("horizontal", true, "Measure along the horizontal axis")
	vertical := flag.Bool("vertical", true, "Measure along the vertical axis")
	flag.Parse()

	cfg := config.Load()
	logutil.Setup(cfg.EnableFileLogging)
	if cfg.EnableFileLogging {
		gg.SetLogger(slog.New(slog.NewTextHandler(log.Writer(), nil)))
	}

	core := session.New(session.Options{})
	defer core.Close()

	completed := make(chan struct{}, 1)
	core.SetToolCompletionEvent(func() {
		select {
		case completed <- struct{}{}:
		default:
		}
	})

	var err error
	if *bounds {
		err = core.StartBoundsTool()
	} else {
		err = core.StartMeasureTool(*horizontal, *vertical)
	}
	if err != nil {
		log.Fatalf("Failed to start tool: %v", err)
	}
	log.Printf("Measurement session started")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)

	select {
	case <-completed:
		log.Printf("Session completed")
	case sig := <-sigs:
		log.Printf("Received signal %v, shutting down", sig)
	}
	core.ResetState()
}
