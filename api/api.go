package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cryptofactor/internal/config"
	"cryptofactor/internal/domain"
	"cryptofactor/internal/logger"
	"cryptofactor/internal/repository"
	l1_service "cryptofactor/internal/service/l1"
	l3_service "cryptofactor/internal/service/l3"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ApiHandler serves backtests against a panel that is loaded once at
// startup and shared read-only by every request.
type ApiHandler struct {
	Index             *l1_service.PanelIndex
	Defaults          config.StrategyConfig
	BacktestService   l3_service.BacktestService
	SweepService      l3_service.SweepService
	ResultsRepository repository.ResultsRepository
	SweepParallel     int
	MaxSweepEntries   int
}

func (m ApiHandler) InitializeRouterEngine() *gin.Engine {
	router := gin.Default()
	router.Use(cors.Default())
	router.Use(m.logRequestMiddlware)

	router.GET("/", func(ctx *gin.Context) {
		ctx.JSON(200, map[string]string{"message": "welcome to cryptofactor"})
	})
	router.GET("/factors", m.factors)
	router.POST("/backtest", m.backtest)
	router.POST("/sweep", m.sweep)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

func (m ApiHandler) StartApi(port int) error {
	return m.InitializeRouterEngine().Run(fmt.Sprintf(":%d", port))
}

func returnErrorJson(err error, c *gin.Context) {
	code := http.StatusInternalServerError
	var paramsErr domain.ParamsError
	if errors.As(err, &paramsErr) {
		code = http.StatusBadRequest
	}
	returnErrorJsonCode(err, c, code)
}

func returnErrorJsonCode(err error, c *gin.Context, code int) {
	logger.FromContext(c.Request.Context()).Errorw("request failed", "status", code, "error", err)
	c.AbortWithStatusJSON(code, gin.H{
		"error": err.Error(),
	})
}

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (r responseBodyWriter) Write(b []byte) (int, error) {
	r.body.Write(b)
	return r.ResponseWriter.Write(b)
}

// logRequestMiddlware attaches a request scoped logger and records the
// request in the prometheus collectors.
func (m ApiHandler) logRequestMiddlware(ctx *gin.Context) {
	w := &responseBodyWriter{body: &bytes.Buffer{}, ResponseWriter: ctx.Writer}
	ctx.Writer = w

	requestID := uuid.New()
	ctx.Set("requestID", requestID.String())
	ctx.Header("X-Request-ID", requestID.String())

	log := logger.FromContext(ctx.Request.Context()).With("requestID", requestID.String())
	ctx.Request = ctx.Request.WithContext(logger.NewContext(ctx.Request.Context(), log))

	start := time.Now()
	ctx.Next()
	elapsed := time.Since(start)

	route := ctx.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := ctx.Writer.Status()
	observeRequest(route, ctx.Request.Method, status, elapsed)

	fields := []interface{}{
		"method", ctx.Request.Method,
		"route", route,
		"status", status,
		"durationMs", elapsed.Milliseconds(),
		"ip", ctx.ClientIP(),
	}
	if status >= 400 {
		fields = append(fields, "response", w.body.String())
		log.Warnw("request completed", fields...)
		return
	}
	log.Infow("request completed", fields...)
}
