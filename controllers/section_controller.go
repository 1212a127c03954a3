package controllers

import (
	"errors"
	"net/http"

	"github.com/Kirtivanjode/wanderwithkii/models"
	"github.com/Kirtivanjode/wanderwithkii/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SectionController struct {
	DB      *gorm.DB
	Uploads *UploadController
	Log     *zap.SugaredLogger
}

type SectionRequest struct {
	Type        *string `form:"type" json:"type"`
	Title       *string `form:"title" json:"title"`
	Description *string `form:"description" json:"description"`
	Content1    *string `form:"content1" json:"content1"`
	Content2    *string `form:"content2" json:"content2"`
	SortOrder   *int    `form:"sortOrder" json:"sortOrder"`

	// sort_order is the name older clients send.
	SortOrderAlias *int `form:"sort_order" json:"sort_order"`
}

type sectionView struct {
	models.WebsiteSection
	ImageName *string `json:"imageName"`
}

func NewSectionController(db *gorm.DB, uploads *UploadController, log *zap.SugaredLogger) *SectionController {
	return &SectionController{DB: db, Uploads: uploads, Log: log}
}

func validSectionType(t string) bool {
	switch t {
	case models.SectionHero, models.SectionStory, models.SectionDestination:
		return true
	}
	return false
}

func (r *SectionRequest) validate(create bool) error {
	if create && (trimmed(r.Type) == "" || trimmed(r.Title) == "") {
		return badRequest("Type and title are required")
	}
	if r.Type != nil && !validSectionType(trimmed(r.Type)) {
		return badRequest("Type must be hero, story or destination")
	}
	if r.Title != nil && trimmed(r.Title) == "" {
		return badRequest("Title cannot be empty")
	}
	return nil
}

func (r *SectionRequest) apply(s *models.WebsiteSection) {
	if r.Type != nil {
		s.Type = trimmed(r.Type)
	}
	if r.Title != nil {
		s.Title = trimmed(r.Title)
	}
	if r.Description != nil {
		s.Description = utils.SanitizeRich(*r.Description)
	}
	if r.Content1 != nil {
		s.Content1 = utils.SanitizeRich(*r.Content1)
	}
	if r.Content2 != nil {
		s.Content2 = utils.SanitizeRich(*r.Content2)
	}
	if r.SortOrder != nil {
		s.SortOrder = *r.SortOrder
	} else if r.SortOrderAlias != nil {
		s.SortOrder = *r.SortOrderAlias
	}
}

func (sc *SectionController) views(c *gin.Context) *gorm.DB {
	return sc.DB.WithContext(c.Request.Context()).
		Model(&models.WebsiteSection{}).
		Select("website_sections.*, images.name AS image_name").
		Joins("LEFT JOIN images ON images.id = website_sections.image_id")
}

// GetSections lists website sections in display order.
func (sc *SectionController) GetSections(c *gin.Context) {
	sections := []sectionView{}
	if err := sc.views(c).
		Order("website_sections.sort_order, website_sections.id").
		Scan(&sections).Error; err != nil {
		serverError(c, sc.Log, err, "Failed to fetch website sections")
		return
	}
	c.JSON(http.StatusOK, sections)
}

func (sc *SectionController) GetSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var section sectionView
	result := sc.views(c).Where("website_sections.id = ?", id).Limit(1).Scan(&section)
	if result.Error != nil {
		serverError(c, sc.Log, result.Error, "Failed to fetch website section")
		return
	}
	if result.RowsAffected == 0 {
		respondMessage(c, http.StatusNotFound, "Section not found")
		return
	}
	c.JSON(http.StatusOK, section)
}

func (sc *SectionController) CreateSection(c *gin.Context) {
	var req SectionRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.validate(true); err != nil {
		respondValidation(c, err)
		return
	}
	img, err := sc.Uploads.readImage(c, "image")
	if err != nil {
		uploadError(c, sc.Log, err)
		return
	}

	var section models.WebsiteSection
	req.apply(&section)
	err = sc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if _, err := attachImage(tx, &section.ImageID, img); err != nil {
			return err
		}
		return tx.Create(&section).Error
	})
	if err != nil {
		serverError(c, sc.Log, err, "Failed to create section")
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Message: "Section created successfully", ID: section.ID})
}

func (sc *SectionController) UpdateSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req SectionRequest
	if err := c.ShouldBind(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := req.validate(false); err != nil {
		respondValidation(c, err)
		return
	}
	img, err := sc.Uploads.readImage(c, "image")
	if err != nil {
		uploadError(c, sc.Log, err)
		return
	}

	var retired uint
	err = sc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var section models.WebsiteSection
		if err := tx.First(&section, id).Error; err != nil {
			return err
		}
		req.apply(&section)
		old, err := attachImage(tx, &section.ImageID, img)
		if err != nil {
			return err
		}
		if err := tx.Save(&section).Error; err != nil {
			return err
		}
		retired = old
		return deleteImages(tx, old)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Section not found")
			return
		}
		serverError(c, sc.Log, err, "Failed to update section")
		return
	}
	sc.Uploads.forget(c.Request.Context(), retired)
	respondMessage(c, http.StatusOK, "Section updated successfully")
}

func (sc *SectionController) DeleteSection(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var imageID uint
	err := sc.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var section models.WebsiteSection
		if err := tx.First(&section, id).Error; err != nil {
			return err
		}
		if err := tx.Delete(&section).Error; err != nil {
			return err
		}
		if section.ImageID != nil {
			imageID = *section.ImageID
		}
		return deleteImages(tx, imageID)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondMessage(c, http.StatusNotFound, "Section not found")
			return
		}
		serverError(c, sc.Log, err, "Failed to delete section")
		return
	}
	sc.Uploads.forget(c.Request.Context(), imageID)
	respondMessage(c, http.StatusOK, "Section deleted successfully")
}
