package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/zeu5/mdp-dp/compare"
	"github.com/zeu5/mdp-dp/config"
	"github.com/zeu5/mdp-dp/dp"
	"github.com/zeu5/mdp-dp/logging"
	"github.com/zeu5/mdp-dp/mdp"
	"github.com/zeu5/mdp-dp/models"
	"github.com/zeu5/mdp-dp/store"
)

var (
	errUnknownModel = errors.New("unknown model")
	errNoStore      = errors.New("run storage is not configured")
)

// modelRequest names a catalog model or carries an inline description.
type modelRequest struct {
	Model string            `json:"model"`
	Spec  *config.ModelSpec `json:"spec"`
	Gamma *float64          `json:"gamma"`
	Start mdp.State         `json:"start"`
}

type solveRequest struct {
	modelRequest
	Algorithm string  `json:"algorithm"`
	Theta     float64 `json:"theta"`
	MaxSweeps int     `json:"max_sweeps"`
	Workers   int     `json:"workers"`
	History   bool    `json:"history"`
}

type compareRequest struct {
	modelRequest
	Theta    float64 `json:"theta"`
	Episodes int     `json:"episodes"`
	Horizon  int     `json:"horizon"`
	Seed     uint64  `json:"seed"`
}

func (r *modelRequest) build() (*mdp.Model, mdp.State, error) {
	switch {
	case r.Model != "":
		sc, ok := models.Lookup(r.Model)
		if !ok {
			return nil, "", errUnknownModel
		}
		gamma := models.DefaultDiscount
		if r.Gamma != nil {
			gamma = *r.Gamma
		}
		m, err := sc.Build(gamma)
		if err != nil {
			return nil, "", err
		}
		start := sc.Start
		if r.Start != "" {
			start = r.Start
		}
		return m, start, nil
	case r.Spec != nil:
		if r.Gamma != nil {
			r.Spec.Discount = r.Gamma
		}
		if r.Start != "" {
			r.Spec.Start = r.Start
		}
		m, err := r.Spec.Build()
		if err != nil {
			return nil, "", err
		}
		start, err := r.Spec.StartState(m)
		if err != nil {
			return nil, "", err
		}
		return m, start, nil
	}
	return nil, "", mdp.Misconfigured("request needs a model name or a spec")
}

func (s *Server) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errUnknownModel), errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, mdp.ErrModelValidation), errors.Is(err, mdp.ErrConfiguration):
		status = http.StatusBadRequest
	case errors.Is(err, dp.ErrNotConverged):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, errNoStore):
		status = http.StatusServiceUnavailable
	}
	if status == http.StatusInternalServerError {
		logging.NewEvent(s.logger.Error()).Add(logging.Component("server"), logging.ErrorField(err)).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

func (s *Server) handleModels(c *gin.Context) {
	out := make([]gin.H, 0)
	for _, sc := range models.Catalog() {
		out = append(out, gin.H{
			"name":        sc.Name,
			"description": sc.Description,
			"start":       sc.Start,
		})
	}
	c.JSON(http.StatusOK, gin.H{"models": out})
}

func (s *Server) handleSolve(c *gin.Context) {
	req := solveRequest{Algorithm: string(dp.AlgorithmPolicyIteration)}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	alg, err := dp.ParseAlgorithm(req.Algorithm)
	if err != nil {
		s.fail(c, err)
		return
	}
	m, _, err := req.build()
	if err != nil {
		s.fail(c, err)
		return
	}

	run := s.defaults.Merge(config.RunConfig{Theta: req.Theta, MaxSweeps: req.MaxSweeps, Workers: req.Workers})
	if err := run.Validate(); err != nil {
		s.fail(c, err)
		return
	}
	opts := append(run.SolveOptions(), dp.WithHistory(req.History), dp.WithObserver(logging.SweepObserver(s.logger)))
	res, err := dp.Solve(c.Request.Context(), m, alg, opts...)
	if err != nil {
		s.fail(c, err)
		return
	}
	logging.Solved(s.logger, m.Name(), res)

	body := gin.H{"model": m.Name(), "result": res}
	if s.runs != nil {
		id, err := s.runs.Save(c.Request.Context(), m.Name(), res)
		if err != nil {
			s.fail(c, err)
			return
		}
		body["run_id"] = id
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) handleCompare(c *gin.Context) {
	req := compareRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to unmarshal request"})
		return
	}
	m, start, err := req.build()
	if err != nil {
		s.fail(c, err)
		return
	}
	run := s.defaults.Merge(config.RunConfig{Theta: req.Theta, Episodes: req.Episodes, Horizon: req.Horizon, Seed: req.Seed})
	if err := run.Validate(); err != nil {
		s.fail(c, err)
		return
	}

	report, err := compare.Compare(c.Request.Context(), m, start, compare.Options{
		Theta:         run.Theta,
		Workers:       run.Workers,
		MaxSweeps:     run.MaxSweeps,
		MaxIterations: run.MaxIterations,
		Simulation:    run.Simulation(),
	})
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.runs == nil {
		s.fail(c, errNoStore)
		return
	}
	limit := 0
	if l := c.Query("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	runs, err := s.runs.List(c.Request.Context(), limit)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.runs == nil {
		s.fail(c, errNoStore)
		return
	}
	run, err := s.runs.Load(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}
