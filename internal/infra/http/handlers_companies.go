package http

import (
	"errors"
	"net/http"

	"jobly/internal/domain"

	"github.com/gin-gonic/gin"
)

type companyCreateRequest struct {
	Handle       string  `json:"handle" binding:"required,max=25"`
	Name         string  `json:"name" binding:"required"`
	Description  string  `json:"description"`
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

type companyUpdateRequest struct {
	Name         *string `json:"name" binding:"omitempty,min=1"`
	Description  *string `json:"description"`
	NumEmployees *int    `json:"numEmployees" binding:"omitempty,min=0"`
	LogoURL      *string `json:"logoUrl" binding:"omitempty,url"`
}

type companyQuery struct {
	NameLike     *string `form:"nameLike"`
	MinEmployees *int    `form:"minEmployees" binding:"omitempty,min=0"`
	MaxEmployees *int    `form:"maxEmployees" binding:"omitempty,min=0"`
}

func (s *Server) handleCreateCompany(c *gin.Context) {
	if s.companies == nil {
		writeError(c, errors.New("company store not configured"))
		return
	}
	var req companyCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	company, err := s.companies.Create(c.Request.Context(), domain.Company{
		Handle:       req.Handle,
		Name:         req.Name,
		Description:  req.Description,
		NumEmployees: req.NumEmployees,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

func (s *Server) handleListCompanies(c *gin.Context) {
	if s.companies == nil {
		writeError(c, errors.New("company store not configured"))
		return
	}
	if !allowOnlyQuery(c, "nameLike", "minEmployees", "maxEmployees") {
		return
	}
	var q companyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		writeBindError(c, err)
		return
	}
	if q.MinEmployees != nil && q.MaxEmployees != nil && *q.MinEmployees > *q.MaxEmployees {
		writeErrorCode(c, http.StatusBadRequest, "BAD_REQUEST", "minEmployees cannot be greater than maxEmployees")
		return
	}
	companies, err := s.companies.FindAll(c.Request.Context(), domain.CompanyFilter{
		NameLike:     q.NameLike,
		MinEmployees: q.MinEmployees,
		MaxEmployees: q.MaxEmployees,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"companies": companies})
}

func (s *Server) handleGetCompany(c *gin.Context) {
	if s.companies == nil {
		writeError(c, errors.New("company store not configured"))
		return
	}
	company, err := s.companies.Get(c.Request.Context(), c.Param("handle"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (s *Server) handleUpdateCompany(c *gin.Context) {
	if s.companies == nil {
		writeError(c, errors.New("company store not configured"))
		return
	}
	var req companyUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	company, err := s.companies.Update(c.Request.Context(), c.Param("handle"), domain.CompanyPatch{
		Name:         req.Name,
		Description:  req.Description,
		NumEmployees: req.NumEmployees,
		LogoURL:      req.LogoURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company})
}

func (s *Server) handleDeleteCompany(c *gin.Context) {
	if s.companies == nil {
		writeError(c, errors.New("company store not configured"))
		return
	}
	handle := c.Param("handle")
	if err := s.companies.Remove(c.Request.Context(), handle); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": handle})
}

// allowOnlyQuery rejects query parameters outside names.
func allowOnlyQuery(c *gin.Context, names ...string) bool {
	allowed := make(map[string]struct{}, len(names))
	for _, n := range names {
		allowed[n] = struct{}{}
	}
	for key := range c.Request.URL.Query() {
		if _, ok := allowed[key]; !ok {
			writeErrorCode(c, http.StatusBadRequest, "INVALID_REQUEST", "unknown query parameter "+key)
			return false
		}
	}
	return true
}
