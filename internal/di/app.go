package di

import (
	"log/slog"
	"net/http"

	"github.com/myevertour/guide-server-go/internal/config"
	"github.com/myevertour/guide-server-go/internal/metrics"
)

// App 은 애플리케이션 구성 요소를 묶는다.
type App struct {
	Server  *http.Server
	Logger  *slog.Logger
	Config  *config.Config
	Metrics *metrics.Store
}
