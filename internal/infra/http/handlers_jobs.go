package http

import (
	"errors"
	"net/http"
	"strconv"

	"jobly/internal/domain"

	"github.com/gin-gonic/gin"
)

type jobCreateRequest struct {
	Title         string  `json:"title" binding:"required"`
	Salary        *int    `json:"salary" binding:"omitempty,min=0"`
	Equity        *string `json:"equity"`
	CompanyHandle string  `json:"companyHandle" binding:"required,max=25"`
}

type jobUpdateRequest struct {
	Title  *string `json:"title" binding:"omitempty,min=1"`
	Salary *int    `json:"salary" binding:"omitempty,min=0"`
	Equity *string `json:"equity"`
}

type jobQuery struct {
	Title     *string `form:"title"`
	MinSalary *int    `form:"minSalary" binding:"omitempty,min=0"`
	HasEquity *bool   `form:"hasEquity"`
}

func (s *Server) handleCreateJob(c *gin.Context) {
	if s.jobs == nil {
		writeError(c, errors.New("job store not configured"))
		return
	}
	var req jobCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if !validEquity(req.Equity) {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "equity must be a decimal between 0 and 1")
		return
	}
	job, err := s.jobs.Create(c.Request.Context(), domain.Job{
		Title:         req.Title,
		Salary:        req.Salary,
		Equity:        req.Equity,
		CompanyHandle: req.CompanyHandle,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"job": job})
}

func (s *Server) handleListJobs(c *gin.Context) {
	if s.jobs == nil {
		writeError(c, errors.New("job store not configured"))
		return
	}
	if !allowOnlyQuery(c, "title", "minSalary", "hasEquity") {
		return
	}
	var q jobQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	jobs, err := s.jobs.FindAll(c.Request.Context(), domain.JobFilter{
		Title:     q.Title,
		MinSalary: q.MinSalary,
		HasEquity: q.HasEquity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

func (s *Server) handleGetJob(c *gin.Context) {
	if s.jobs == nil {
		writeError(c, errors.New("job store not configured"))
		return
	}
	id, ok := jobIDParam(c)
	if !ok {
		return
	}
	job, err := s.jobs.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (s *Server) handleUpdateJob(c *gin.Context) {
	if s.jobs == nil {
		writeError(c, errors.New("job store not configured"))
		return
	}
	id, ok := jobIDParam(c)
	if !ok {
		return
	}
	var req jobUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if !validEquity(req.Equity) {
		writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "equity must be a decimal between 0 and 1")
		return
	}
	job, err := s.jobs.Update(c.Request.Context(), id, domain.JobPatch{
		Title:  req.Title,
		Salary: req.Salary,
		Equity: req.Equity,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"job": job})
}

func (s *Server) handleDeleteJob(c *gin.Context) {
	if s.jobs == nil {
		writeError(c, errors.New("job store not configured"))
		return
	}
	id, ok := jobIDParam(c)
	if !ok {
		return
	}
	if err := s.jobs.Remove(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

func jobIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		writeErrorCode(c, http.StatusNotFound, "NOT_FOUND", "no job: "+c.Param("id"))
		return 0, false
	}
	return id, true
}

// validEquity accepts nil or a decimal string in [0, 1].
func validEquity(equity *string) bool {
	if equity == nil {
		return true
	}
	v, err := strconv.ParseFloat(*equity, 64)
	return err == nil && v >= 0 && v <= 1
}
