package api

import (
	"sort"
	"time"

	"github.com/labstack/echo/v4"

	models "MarketPulse/internal/domain/models"
	domrepo "MarketPulse/internal/domain/repository"
	"MarketPulse/internal/usecase"
	xhttp "MarketPulse/pkg/http"
	xlogger "MarketPulse/pkg/logger"
	"MarketPulse/pkg/util"
)

// AnalysisEchoHandler exposes the fetch, analysis and stress pipelines
// over HTTP.
type AnalysisEchoHandler struct {
	logger   *xlogger.Logger
	fetcher  *usecase.FetchOrchestrator
	analyzer *usecase.MarketAnalyzer
	stress   *usecase.StressEngine
	hub      *ProgressHub
	store    domrepo.BarStore // may be nil
}

func NewAnalysisEchoHandler(
	logger *xlogger.Logger,
	fetcher *usecase.FetchOrchestrator,
	analyzer *usecase.MarketAnalyzer,
	stress *usecase.StressEngine,
	hub *ProgressHub,
	store domrepo.BarStore,
) *AnalysisEchoHandler {
	return &AnalysisEchoHandler{
		logger:   logger,
		fetcher:  fetcher,
		analyzer: analyzer,
		stress:   stress,
		hub:      hub,
		store:    store,
	}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.POST("/fetch", h.Fetch)
	g.POST("/analysis", h.Analysis)
	g.POST("/stress", h.Stress)
	g.GET("/stress/periods", h.StressPeriods)
	e.GET("/ws/progress", h.hub.Handle)
	e.GET("/healthz", h.Health)
}

func (h *AnalysisEchoHandler) Fetch(c echo.Context) error {
	req := &models.FetchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q, verr := h.query(req.Tickers, req.From, req.To, req.Granularity, req.BypassCache)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.fetcher.Fetch(c.Request().Context(), q, h.hub.Broadcast)
	if err != nil {
		h.logger.Error("fetch usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Analysis(c echo.Context) error {
	req := &models.AnalysisRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	q, verr := h.query(req.Tickers, req.From, req.To, "", req.BypassCache)
	if verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	res, err := h.analyzer.Analyze(c.Request().Context(), q, req.Lookback, h.hub.Broadcast)
	if err != nil {
		h.logger.Error("analysis usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Stress(c echo.Context) error {
	req := &models.StressRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	periods := h.stress.Periods()
	if req.PeriodID != "" {
		period, err := h.stress.Period(req.PeriodID)
		if err != nil {
			return xhttp.NotFoundResponse(c, err.Error())
		}
		periods = []models.StressTestPeriod{period}
	}

	tickers := make([]string, 0, len(req.Weights))
	for t := range req.Weights {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)

	results := make([]*models.StressTestResult, 0, len(periods))
	for _, period := range periods {
		fetched, err := h.fetcher.Fetch(c.Request().Context(), usecase.FetchQuery{
			Tickers:     tickers,
			Start:       period.StartDate,
			End:         period.EndDate,
			Granularity: domrepo.GranDay,
		}, h.hub.Broadcast)
		if err != nil {
			h.logger.Error("stress fetch error", xlogger.Error(err))
			return xhttp.AppErrorResponse(c, err)
		}
		res, err := h.stress.Run(req.Weights, req.Capital, period, fetched.Series)
		if err != nil {
			return xhttp.BadRequestResponse(c, err.Error())
		}
		results = append(results, res)
	}
	return xhttp.SuccessResponse(c, results)
}

func (h *AnalysisEchoHandler) StressPeriods(c echo.Context) error {
	return xhttp.SuccessResponse(c, h.stress.Periods())
}

func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if h.store != nil {
		if err := h.store.Health(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["store"] = err.Error()
		} else {
			status["store"] = "ok"
		}
	}
	return xhttp.SuccessResponse(c, status)
}

func (h *AnalysisEchoHandler) query(tickers []string, from, to, gran string, bypass bool) (usecase.FetchQuery, interface{}) {
	start, ok := util.ParseTime(from)
	if !ok {
		return usecase.FetchQuery{}, []xhttp.ValidationError{{Code: "ERR_DATE", Field: "from", Message: "unparseable date"}}
	}
	end, ok := util.ParseTime(to)
	if !ok {
		return usecase.FetchQuery{}, []xhttp.ValidationError{{Code: "ERR_DATE", Field: "to", Message: "unparseable date"}}
	}
	if !end.After(start) {
		return usecase.FetchQuery{}, []xhttp.ValidationError{{Code: "ERR_DATE", Field: "to", Message: "to must be after from"}}
	}
	if end.Sub(start) < 24*time.Hour {
		return usecase.FetchQuery{}, []xhttp.ValidationError{{Code: "ERR_DATE", Field: "to", Message: "range must span at least one day"}}
	}
	return usecase.FetchQuery{
		Tickers:     tickers,
		Start:       start,
		End:         end,
		Granularity: domrepo.NormalizeGranularity(gran),
		BypassCache: bypass,
	}, nil
}
