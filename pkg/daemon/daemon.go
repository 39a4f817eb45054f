// Package daemon serves the battery health API over a unix socket.
package daemon

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/battcheck/battcheck/pkg/checker"
	"github.com/battcheck/battcheck/pkg/config"
	"github.com/battcheck/battcheck/pkg/events"
)

var (
	conf        config.Config
	checkWorker *checker.Worker
	sseHub      *events.Hub
	sched       *Scheduler
)

func setupRoutes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(ginLogger(logrus.StandardLogger()))
	router.GET("/batteries", getBatteries)
	router.POST("/checks", postCheck)
	router.GET("/checks/last", getLastCheck)
	router.GET("/checks/state", getCheckState)
	router.GET("/events", getEvents)
	router.GET("/system", getSystem)
	router.GET("/config", getConfig)
	router.PUT("/schedule", putSchedule)
	router.DELETE("/schedule", deleteSchedule)
	router.GET("/version", getVersion)

	return router
}

func Run(configPath string, unixSocketPath string, allowNonRoot bool) error {
	router := setupRoutes()

	var err error
	conf, err = config.NewFile(configPath)
	if err != nil {
		logrus.Fatalf("failed to parse config during startup: %v", err)
	}
	logrus.WithFields(conf.(*config.File).LogrusFields()).Infof("config loaded")

	if !checkAdminRights() {
		// powercfg may refuse to write the report without elevation.
		logrus.Warn("running without administrator rights; report generation may fail")
	}

	// Receive SIGHUP to reload config
	go func() {
		sigc := make(chan os.Signal, 1)
		signal.Notify(sigc, syscall.SIGHUP)
		for range sigc {
			if err := conf.Load(); err != nil {
				logrus.Errorf("failed to reload config: %v", err)
				continue
			}
			logrus.Infof("config reloaded")
			applySchedule(conf.Schedule())
		}
	}()

	sseHub = events.NewHub()
	chk := checker.New(conf.ReportPath())
	chk.Generator.WaitTimeout = conf.ReportWait()
	checkWorker = checker.NewWorker(chk, sseHub)

	sched = NewScheduler(runScheduledCheck, scheduledCheckPreCheck,
		func(data any) {
			logrus.Infof("scheduled check upcoming at %v", data)
		},
		func(data any) {
			logrus.Errorf("scheduled check error: %v", data)
		})
	sched.Start()
	applySchedule(conf.Schedule())

	srv := &http.Server{
		Handler: router,
	}

	// Create the socket to listen on:
	l, err := net.Listen("unix", unixSocketPath)
	if err != nil {
		logrus.Fatal(err)
	}

	if conf.AllowNonRootAccess() || allowNonRoot {
		logrus.Infof("non-root access is allowed, changing permissions of %s to 0777", unixSocketPath)
		if err := os.Chmod(unixSocketPath, 0777); err != nil {
			logrus.Fatal(err)
		}
	}

	// Serve HTTP on unix socket
	go func() {
		logrus.Infof("http server listening on %s", l.Addr().String())
		if err := srv.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatal(err)
		}
	}()

	// Handle common process-killing signals so we can gracefully shut down:
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigc
	logrus.Infof("caught signal %s: shutting down", sig)

	sched.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("server shutdown: %v", err)
	}
	_ = l.Close()

	return nil
}

// applySchedule points the scheduler at the configured cron expression,
// or parks it when the expression is empty.
func applySchedule(expr string) {
	if expr == "" {
		sched.Clear()
		return
	}
	if err := sched.Schedule(expr); err != nil {
		logrus.Errorf("invalid schedule %q: %v", expr, err)
	}
}

// runScheduledCheck is the scheduler task: one check against the
// configured default battery. An already-running manual check simply
// wins; the scheduled one is skipped, not queued.
func runScheduledCheck() error {
	return checkWorker.Trigger(conf.DefaultBattery(), checker.Callbacks{})
}

// scheduledCheckPreCheck keeps the scheduler from firing powercfg on a
// machine with nothing to measure.
func scheduledCheckPreCheck() error {
	if !batteryPresent() {
		return checker.ErrNoBattery
	}
	return nil
}
