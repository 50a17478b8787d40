package server

import (
	"fmt"
	"net/http"

	"github.com/etnz/dcf/store"
	"github.com/gin-gonic/gin"
)

func (s *Server) listProperties(c *gin.Context) {
	list, err := s.store.Properties(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) createProperty(c *gin.Context) {
	var p store.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	p, err := s.store.CreateProperty(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (s *Server) getProperty(c *gin.Context) {
	p, err := s.store.Property(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) updateProperty(c *gin.Context) {
	var p store.Property
	if err := c.ShouldBindJSON(&p); err != nil {
		fail(c, fmt.Errorf("%w: %w", errBadRequest, err))
		return
	}
	p.ID = c.Param("id")
	p, err := s.store.UpdateProperty(c.Request.Context(), p)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (s *Server) deleteProperty(c *gin.Context) {
	if err := s.store.DeleteProperty(c.Request.Context(), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
