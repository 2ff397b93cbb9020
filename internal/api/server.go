// Package api exposes the evaluation engine and bias detector over HTTP.
// The evaluation surface runs on gin; the audit read surface is a separate
// chi router so the two can be served on different ports.
package api

import (
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"ethica/adapters/metrics"
	"ethica/domain/core"
	"ethica/domain/dataset"
	"ethica/internal/bias"
	"ethica/internal/logging"
	"ethica/internal/report"
)

// Server is the evaluation HTTP server
type Server struct {
	router   *gin.Engine
	engine   *metrics.Engine
	detector *bias.Detector
	renderer *report.Renderer
	logger   *logging.Logger
}

// NewServer creates an evaluation server wired to the given engine and detector
func NewServer(engine *metrics.Engine, detector *bias.Detector, logger *logging.Logger) *Server {
	s := &Server{
		router:   gin.Default(),
		engine:   engine,
		detector: detector,
		renderer: report.NewRenderer(),
		logger:   logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.GET("/api/health", s.handleHealth)
	s.router.GET("/api/metrics", s.handleListMetrics)
	s.router.POST("/api/evaluate", s.handleEvaluate)
	s.router.POST("/api/bias", s.handleBias)
}

// Handler exposes the underlying router for tests and custom servers
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start runs the server on the given address, blocking until it exits
func (s *Server) Start(addr string) error {
	s.logger.Info("evaluation API listening on %s", addr)
	return s.router.Run(addr)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleListMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"metrics": s.engine.ListMetrics()})
}

// EvaluateRequest is the POST /api/evaluate body
type EvaluateRequest struct {
	YTrue               []float64           `json:"y_true" binding:"required"`
	YPred               []float64           `json:"y_pred" binding:"required"`
	Probabilities       []float64           `json:"probabilities"`
	ProtectedAttributes map[string][]string `json:"protected_attributes" binding:"required"`
	Metrics             []string            `json:"metrics"`
	Format              string              `json:"format"`
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rep, err := s.engine.Evaluate(c.Request.Context(), metrics.EvalInput{
		YTrue:         req.YTrue,
		YPred:         req.YPred,
		Probabilities: req.Probabilities,
		Attributes:    req.ProtectedAttributes,
		Metrics:       req.Metrics,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	switch req.Format {
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", s.renderer.Fairness(rep))
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", s.renderer.HTML(s.renderer.Fairness(rep)))
	default:
		c.JSON(http.StatusOK, rep)
	}
}

// BiasRequest is the POST /api/bias body. Data is column-oriented; every
// column must have the same length.
type BiasRequest struct {
	Data                map[string][]string `json:"data" binding:"required"`
	ProtectedAttributes []string            `json:"protected_attributes" binding:"required"`
	TargetColumn        string              `json:"target_column"`
	Format              string              `json:"format"`
}

func (s *Server) handleBias(c *gin.Context) {
	var req BiasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	table, err := tableFromColumns(req.Data)
	if err != nil {
		s.renderError(c, err)
		return
	}

	rep, err := s.detector.Analyze(table, req.ProtectedAttributes, req.TargetColumn)
	if err != nil {
		s.renderError(c, err)
		return
	}

	switch req.Format {
	case "markdown":
		c.Data(http.StatusOK, "text/markdown; charset=utf-8", s.renderer.Bias(rep))
	case "html":
		c.Data(http.StatusOK, "text/html; charset=utf-8", s.renderer.HTML(s.renderer.Bias(rep)))
	default:
		c.JSON(http.StatusOK, rep)
	}
}

func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case core.IsInvalidInputError(err):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case core.IsNotFoundError(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		s.logger.Error("request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func tableFromColumns(columns map[string][]string) (*dataset.Table, error) {
	if len(columns) == 0 {
		return nil, core.ErrEmptyDataset
	}

	headers := make([]string, 0, len(columns))
	for name := range columns {
		headers = append(headers, name)
	}
	sort.Strings(headers)

	length := len(columns[headers[0]])
	for _, name := range headers[1:] {
		if len(columns[name]) != length {
			return nil, core.NewLengthMismatchError("column "+name, length, len(columns[name]))
		}
	}

	rows := make([]dataset.Row, length)
	for i := range rows {
		row := make(dataset.Row, len(headers))
		for name, values := range columns {
			row[name] = values[i]
		}
		rows[i] = row
	}
	return dataset.New(headers, rows), nil
}
