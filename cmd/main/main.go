package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	"time"

	"coinsreg/pkg/config"
	"coinsreg/pkg/info"
	"coinsreg/pkg/model"
	"coinsreg/pkg/xetcd"
	"coinsreg/pkg/xlog"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var logger = xlog.GetLogger()

var (
	fApp      string
	fInstance string
	fLogDir   string
	fLogFile  string

	fTickers string
	fStatus  bool
	fType    string
	fFile    string
)

var (
	apps = map[string]func(ctx context.Context) error{
		"registry":  startRegistry,
		"ingress":   startIngress,
		"fm":        startFiledbMonitor,
		"orderbook": startOrderbook,
		"prepare":   startPrepare,
	}
)

func init() {
	flag.StringVar(&fApp, "app", "", "registry, ingress, fm, orderbook or prepare")
	flag.StringVar(&fInstance, "instance", "main", "registry instance name")
	flag.StringVar(&fLogDir, "logdir", "", "")
	flag.StringVar(&fLogFile, "logfile", "", "")

	flag.StringVar(&fTickers, "tickers", "", "ingress: comma separated tickers")
	flag.BoolVar(&fStatus, "status", true, "ingress: value to set")
	flag.StringVar(&fType, "type", "status", "ingress: status or check")
	flag.StringVar(&fFile, "file", "", "orderbook: orderbook json file")
}

func main() {
	var err error
	flag.Parse()

	start, ok := apps[fApp]
	if !ok {
		validApps := make([]string, 0, len(apps))
		for k := range apps {
			validApps = append(validApps, k)
		}
		sort.Strings(validApps)
		panic("invalid app, only (" + strings.Join(validApps, ", ") + ") avaliable")
	}

	// Initialize the Shared config
	config.EasyInit()

	// Initialize the logger
	if fLogDir == "" {
		fLogDir = filepath.Join(config.Shared.DataDir, "logs")
	}
	if fLogFile == "" {
		fLogFile = fApp + ".log"
	}
	logPath := filepath.Join(fLogDir, fLogFile)
	xlog.Init(fApp, logPath, nil)
	defer xlog.Sync()
	logger.Info(info.Banner(fApp))
	logger.Infof("xlog in %s", logPath)

	// Handle signals
	go handleSignals()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Initialize the etcd instance
	if config.Shared.Etcd.Main.Enabled {
		err = xetcd.InitShared(config.Shared.Etcd.Main.Url)
		if err != nil {
			logger.Errorf("xetcd.InitShared failed with err:%s", err)
			panic(err)
		}
	}

	// Initialize the database instances(mysql, redis)
	err = model.DBInit()
	if err != nil {
		logger.Errorf("model.DBInit failed with err:%s", err)
		panic(err)
	}

	// Start the app
	err = start(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error(err)
		xlog.Sync()
		os.Exit(1)
	}
}

// handleSignals handles linux signals
//
//	Function 1: Change log level via SIGUSR1 signal
//		docker exec <container_id> sh -c 'export XLOG_LVL=TRACE && kill -SIGUSR1 1'
func handleSignals() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGUSR1)

	for sig := range sigChan {
		if sig != syscall.SIGUSR1 {
			continue
		}
		// Read log level from environment variable
		level := os.Getenv("XLOG_LVL")
		if level == "" {
			continue
		}
		logger.SetLevel(level)
		logger.Infof("Log level set to %s via signal", logger.LevelName())
	}
}

// natsURL nats url of the instance, etcd first then config
func natsURL(ctx context.Context) string {
	return xetcd.Resolve(ctx, xetcd.KeyNatsService(fInstance), config.Shared.Nats.Url)
}

// serveMetrics exposes the default prometheus registry until ctx is done
func serveMetrics(ctx context.Context, addr string) {
	if addr == "" {
		return
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Infof("metrics listening %s", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Errorf("metrics server failed with err:%s", err)
	}
}

// splitTickers "KMD, BTC" -> [KMD BTC], tickers are case-sensitive
func splitTickers(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}
