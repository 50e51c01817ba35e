package http

import (
	"errors"
	"fmt"
	"net/http"

	"jobly/internal/domain"

	"github.com/gin-gonic/gin"
)

type userCreateRequest struct {
	Username  string `json:"username" binding:"required,max=25"`
	Password  string `json:"password" binding:"required,min=5,max=20"`
	FirstName string `json:"firstName" binding:"required,max=30"`
	LastName  string `json:"lastName" binding:"required,max=30"`
	Email     string `json:"email" binding:"required,email,max=60"`
	IsAdmin   bool   `json:"isAdmin"`
}

type userUpdateRequest struct {
	FirstName *string `json:"firstName" binding:"omitempty,min=1,max=30"`
	LastName  *string `json:"lastName" binding:"omitempty,min=1,max=30"`
	Password  *string `json:"password" binding:"omitempty,min=5,max=20"`
	Email     *string `json:"email" binding:"omitempty,email,max=60"`
	IsAdmin   *bool   `json:"isAdmin"`
}

func (s *Server) handleCreateUser(c *gin.Context) {
	if s.auth == nil {
		writeError(c, errors.New("user store not configured"))
		return
	}
	var req userCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	user, token, err := s.auth.CreateUser(c.Request.Context(), domain.NewUser{
		Username:  req.Username,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user, "token": token})
}

func (s *Server) handleListUsers(c *gin.Context) {
	if s.users == nil {
		writeError(c, errors.New("user store not configured"))
		return
	}
	users, err := s.users.FindAll(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (s *Server) handleGetUser(c *gin.Context) {
	if s.users == nil {
		writeError(c, errors.New("user store not configured"))
		return
	}
	user, err := s.users.Get(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) handleUpdateUser(c *gin.Context) {
	if s.users == nil {
		writeError(c, errors.New("user store not configured"))
		return
	}
	var req userUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	if req.IsAdmin != nil {
		if identity, _ := getIdentity(c); identity == nil || !identity.IsAdmin {
			writeError(c, fmt.Errorf("%w: only admins may change isAdmin", domain.ErrForbidden))
			return
		}
	}
	user, err := s.users.Update(c.Request.Context(), c.Param("username"), domain.UserPatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
		IsAdmin:   req.IsAdmin,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (s *Server) handleDeleteUser(c *gin.Context) {
	if s.users == nil {
		writeError(c, errors.New("user store not configured"))
		return
	}
	username := c.Param("username")
	if err := s.users.Remove(c.Request.Context(), username); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": username})
}

func (s *Server) handleApplyToJob(c *gin.Context) {
	if s.users == nil {
		writeError(c, errors.New("user store not configured"))
		return
	}
	id, ok := jobIDParam(c)
	if !ok {
		return
	}
	if err := s.users.ApplyToJob(c.Request.Context(), c.Param("username"), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": id})
}
