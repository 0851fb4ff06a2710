package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"cabbie/internal/models/request_models"
	"cabbie/internal/services"
	"cabbie/pkg/utils"
)

// SiteController serves the public marketing endpoints and the health probe.
type SiteController struct {
	catalog services.CatalogServiceInterface
	contact services.ContactServiceInterface
	db      *gorm.DB
	redis   *redis.Client
}

func NewSiteController(
	catalog services.CatalogServiceInterface,
	contact services.ContactServiceInterface,
	db *gorm.DB,
	redisClient *redis.Client,
) *SiteController {
	return &SiteController{catalog: catalog, contact: contact, db: db, redis: redisClient}
}

// ServiceTypes godoc
// @Summary List vehicle classes
// @Tags Site
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Router /services [get]
func (s *SiteController) ServiceTypes(c *gin.Context) {
	utils.RespondSuccess(c, s.catalog.ServiceTypes(), "Service types fetched successfully")
}

// Contact godoc
// @Summary Send an enquiry
// @Tags Site
// @Accept json
// @Produce json
// @Param request body request_models.ContactRequest true "Enquiry"
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Failure 429 {object} utils.APIResponse
// @Router /contact [post]
func (s *SiteController) Contact(c *gin.Context) {
	var req request_models.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := s.contact.Submit(c.Request.Context(), req); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Thanks, we will be in touch shortly")
}

// Healthz reports whether the database and redis (when configured) answer.
func (s *SiteController) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok"}
	healthy := true

	if s.db != nil {
		sqlDB, err := s.db.DB()
		if err == nil {
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			checks["database"] = err.Error()
			healthy = false
		}
	}
	if s.redis != nil {
		checks["redis"] = "ok"
		if err := s.redis.Ping(ctx).Err(); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}
	}

	if !healthy {
		c.JSON(http.StatusServiceUnavailable, utils.APIResponse{
			Status: "error", Code: http.StatusServiceUnavailable, Message: "unhealthy", Data: checks,
		})
		return
	}
	utils.RespondSuccess(c, checks, "ok")
}
