package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/hamed0406/appsentry/internal/battery"
	"github.com/hamed0406/appsentry/internal/config"
	"github.com/hamed0406/appsentry/internal/discovery"
	"github.com/hamed0406/appsentry/internal/httpapi"
	"github.com/hamed0406/appsentry/internal/httpapi/middleware"
	"github.com/hamed0406/appsentry/internal/logging"
	"github.com/hamed0406/appsentry/internal/repo/memory"
)

func main() {
	cfg, err := config.Load(os.Getenv("APPSENTRY_CONFIG"))
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(cfg.LogDir, false)
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	store := memory.New() // later: swap to a DB-backed store

	// seed the app store from the repository the server sits in
	if root := os.Getenv("REPO_ROOT"); root != "" {
		apps, err := discovery.NewScanner(logger).Discover(root)
		if err != nil {
			logger.Warn("discover_error", zap.Error(err))
		}
		for i := range apps {
			_ = store.PutApp(context.Background(), &apps[i])
		}
	}

	runner := battery.NewRunner(
		logger,
		cfg.Monitoring.ProbeTimeout.Std(),
		cfg.QualityScale(),
		cfg.Recommendations,
	)

	keys := middleware.Keys{
		Read:  splitKeys(os.Getenv("PUBLIC_API_KEYS")),
		Admin: splitKeys(os.Getenv("ADMIN_API_KEYS")),
	}
	api := httpapi.NewServer(logger, store, store, runner, keys)

	logger.Info("api_listen", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, api.Router()); err != nil {
		log.Fatal(err)
	}
}

func splitKeys(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, k := range strings.Split(s, ",") {
		if k = strings.TrimSpace(k); k != "" {
			out = append(out, k)
		}
	}
	return out
}
