package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community_server/server/community/domain"
	"community_server/server/community/service"
	"community_server/server/common/transport/httpresp"
)

type musicRequest struct {
	MusicURL string `json:"musicUrl"`
}

type filmRequest struct {
	FilmURL string `json:"filmUrl"`
}

type createBannerRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	ImageURL    *string `json:"imageUrl"`
	CTALabel    *string `json:"ctaLabel" binding:"omitempty,max=64"`
	CTAURL      *string `json:"ctaUrl"`
	SortOrder   int     `json:"sortOrder"`
	IsActive    *bool   `json:"isActive"`
}

func (h *Handler) getMusic(c *gin.Context) {
	c.JSON(http.StatusOK, MusicResponse{MusicURL: h.site.Setting(c.Request.Context(), domain.SettingMusicURL)})
}

func (h *Handler) setMusic(c *gin.Context) {
	var req musicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	value, err := h.site.SetMediaURL(c.Request.Context(), domain.SettingMusicURL, req.MusicURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, MusicResponse{MusicURL: value})
}

func (h *Handler) getFilm(c *gin.Context) {
	c.JSON(http.StatusOK, FilmResponse{FilmURL: h.site.Setting(c.Request.Context(), domain.SettingFilmURL)})
}

func (h *Handler) setFilm(c *gin.Context) {
	var req filmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	value, err := h.site.SetMediaURL(c.Request.Context(), domain.SettingFilmURL, req.FilmURL)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, FilmResponse{FilmURL: value})
}

func (h *Handler) listBanners(c *gin.Context) {
	c.JSON(http.StatusOK, h.site.ActiveBanners(c.Request.Context()))
}

func (h *Handler) createBanner(c *gin.Context) {
	var req createBannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}
	banner, err := h.site.CreateBanner(c.Request.Context(), service.BannerInput{
		Title:       req.Title,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		CTALabel:    req.CTALabel,
		CTAURL:      req.CTAURL,
		SortOrder:   req.SortOrder,
		IsActive:    req.IsActive,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, banner)
}

func (h *Handler) deleteBanner(c *gin.Context) {
	if err := h.site.DeleteBanner(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpresp.NewOKResponse())
}
