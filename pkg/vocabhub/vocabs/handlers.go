package vocabs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/solidhub/vocabhub/pkg/vocabhub/auth"
)

// Handler exposes the vocabulary service over REST.
type Handler struct {
	service *Service
}

// NewHandler creates a new vocabs handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// CreateVocabularyRequest creates a vocabulary either from an explicit
// name (slug optional) or by importing the ontology document at link.
type CreateVocabularyRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
	Link string `json:"link"`
}

// UpdateVocabularyRequest is a partial vocabulary update
type UpdateVocabularyRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Slug        *string `json:"slug"`
	Link        *string `json:"link"`
}

// CreatePropertyRequest is the request to create a property
type CreatePropertyRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Domain      string `json:"domain"`
	Range       string `json:"range"`
}

// CreateClassRequest is the request to create a class
type CreateClassRequest struct {
	Name        string `json:"name" binding:"required"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Inherits    string `json:"inherits"`
}

// UpdateItemRequest is a partial update for a property or class; Domain
// and Range apply to properties, Inherits to classes.
type UpdateItemRequest struct {
	Name        *string `json:"name"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	Domain      *string `json:"domain"`
	Range       *string `json:"range"`
	Inherits    *string `json:"inherits"`
}

// List returns all vocabularies
// @Summary List vocabularies
// @Tags vocabs
// @Produce json
// @Success 200 {array} models.Vocabulary
// @Router /vocabs [get]
func (h *Handler) List(c *gin.Context) {
	vocabularies, err := h.service.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vocabularies"})
		return
	}
	c.JSON(http.StatusOK, vocabularies)
}

// Get returns one vocabulary by slug
// @Summary Get a vocabulary
// @Tags vocabs
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Success 200 {object} models.Vocabulary
// @Failure 404 {object} map[string]string "Vocabulary not found"
// @Router /vocabs/{vocab} [get]
func (h *Handler) Get(c *gin.Context) {
	vocabulary, err := h.service.GetOne(c.Request.Context(), c.Param("vocab"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch vocabulary"})
		return
	}
	if vocabulary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vocabulary not found"})
		return
	}
	c.JSON(http.StatusOK, vocabulary)
}

// Create creates a vocabulary from a name or imports one from a link
// @Summary Create or import a vocabulary
// @Tags vocabs
// @Accept json
// @Produce json
// @Param request body CreateVocabularyRequest true "Vocabulary details"
// @Success 201 {object} models.Vocabulary
// @Failure 400 {object} map[string]string "Neither name nor link given"
// @Failure 404 {object} map[string]string "Nothing extractable at link"
// @Failure 409 {object} map[string]string "Slug already taken"
// @Security BearerAuth
// @Router /vocabs [post]
func (h *Handler) Create(c *gin.Context) {
	webID, _ := auth.GetWebID(c)

	var req CreateVocabularyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch {
	case req.Name != "":
		vocabulary, err := h.service.Create(c.Request.Context(), req.Name, webID, req.Slug)
		if errors.Is(err, ErrVocabExists) {
			c.JSON(http.StatusConflict, gin.H{"error": "Vocabulary already exists"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create vocabulary"})
			return
		}
		c.JSON(http.StatusCreated, vocabulary)
	case req.Link != "":
		vocabulary, err := h.service.CreateFromLink(c.Request.Context(), req.Link, webID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to import vocabulary"})
			return
		}
		if vocabulary == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "No vocabulary found at link"})
			return
		}
		c.JSON(http.StatusCreated, vocabulary)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either name or link is required"})
	}
}

// Update applies a partial update to a vocabulary
// @Summary Update a vocabulary
// @Tags vocabs
// @Accept json
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Param request body UpdateVocabularyRequest true "Fields to update"
// @Success 201 {object} models.Vocabulary
// @Failure 404 {object} map[string]string "Vocabulary not found"
// @Security BearerAuth
// @Router /vocabs/{vocab} [post]
func (h *Handler) Update(c *gin.Context) {
	webID, _ := auth.GetWebID(c)

	var req UpdateVocabularyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vocabulary, err := h.service.Update(c.Request.Context(), c.Param("vocab"), webID, VocabularyUpdate{
		Name:        req.Name,
		Description: req.Description,
		Slug:        req.Slug,
		Link:        req.Link,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update vocabulary"})
		return
	}
	if vocabulary == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vocabulary not found"})
		return
	}
	c.JSON(http.StatusCreated, vocabulary)
}

// Delete deletes a vocabulary and everything it owns
// @Summary Delete a vocabulary
// @Tags vocabs
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Success 200 {boolean} boolean
// @Security BearerAuth
// @Router /vocabs/{vocab} [delete]
func (h *Handler) Delete(c *gin.Context) {
	ok, err := h.service.Delete(c.Request.Context(), c.Param("vocab"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete vocabulary"})
		return
	}
	c.JSON(http.StatusOK, ok)
}

// ListProperties returns all properties of a vocabulary
// @Summary List properties
// @Tags vocabs
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Success 200 {array} models.Property
// @Router /vocabs/{vocab}/properties [get]
func (h *Handler) ListProperties(c *gin.Context) {
	properties, err := h.service.GetProperties(c.Request.Context(), c.Param("vocab"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch properties"})
		return
	}
	c.JSON(http.StatusOK, properties)
}

// ListClasses returns all classes of a vocabulary
// @Summary List classes
// @Tags vocabs
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Success 200 {array} models.RdfClass
// @Router /vocabs/{vocab}/classes [get]
func (h *Handler) ListClasses(c *gin.Context) {
	classes, err := h.service.GetClasses(c.Request.Context(), c.Param("vocab"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch classes"})
		return
	}
	c.JSON(http.StatusOK, classes)
}

// CreateProperty creates a property in a vocabulary
// @Summary Create a property
// @Tags vocabs
// @Accept json
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Param request body CreatePropertyRequest true "Property details"
// @Success 201 {object} models.Property
// @Failure 404 {object} map[string]string "Vocabulary not found"
// @Security BearerAuth
// @Router /vocabs/{vocab}/properties [post]
func (h *Handler) CreateProperty(c *gin.Context) {
	webID, _ := auth.GetWebID(c)

	var req CreatePropertyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.service.CreateProperty(c.Request.Context(), c.Param("vocab"), PropertyParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Domain:      req.Domain,
		Range:       req.Range,
		Creator:     webID,
	})
	if errors.Is(err, ErrVocabNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vocabulary not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create property"})
		return
	}
	c.JSON(http.StatusCreated, property)
}

// CreateClass creates a class in a vocabulary
// @Summary Create a class
// @Tags vocabs
// @Accept json
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Param request body CreateClassRequest true "Class details"
// @Success 201 {object} models.RdfClass
// @Failure 404 {object} map[string]string "Vocabulary not found"
// @Security BearerAuth
// @Router /vocabs/{vocab}/classes [post]
func (h *Handler) CreateClass(c *gin.Context) {
	webID, _ := auth.GetWebID(c)

	var req CreateClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	class, err := h.service.CreateClass(c.Request.Context(), c.Param("vocab"), ClassParams{
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Inherits:    req.Inherits,
		Creator:     webID,
	})
	if errors.Is(err, ErrVocabNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Vocabulary not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create class"})
		return
	}
	c.JSON(http.StatusCreated, class)
}

// GetItem returns a property or class of a vocabulary by slug. The two
// share one path segment; properties win when both carry the slug.
// @Summary Get a property or class
// @Tags vocabs
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Param item path string true "Property or class slug"
// @Success 200 {object} interface{}
// @Failure 404 {object} map[string]string "Neither found"
// @Router /vocabs/{vocab}/{item} [get]
func (h *Handler) GetItem(c *gin.Context) {
	ctx := c.Request.Context()
	vocab, item := c.Param("vocab"), c.Param("item")

	property, err := h.service.GetProperty(ctx, vocab, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	if property != nil {
		c.JSON(http.StatusOK, property)
		return
	}

	class, err := h.service.GetClass(ctx, vocab, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	if class != nil {
		c.JSON(http.StatusOK, class)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// UpdateItem updates a property or class of a vocabulary by slug
// @Summary Update a property or class
// @Tags vocabs
// @Accept json
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Param item path string true "Property or class slug"
// @Param request body UpdateItemRequest true "Fields to update"
// @Success 201 {object} interface{}
// @Failure 404 {object} map[string]string "Neither found"
// @Security BearerAuth
// @Router /vocabs/{vocab}/{item} [post]
func (h *Handler) UpdateItem(c *gin.Context) {
	webID, _ := auth.GetWebID(c)
	ctx := c.Request.Context()
	vocab, item := c.Param("vocab"), c.Param("item")

	var req UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	property, err := h.service.GetProperty(ctx, vocab, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	if property != nil {
		updated, err := h.service.UpdateProperty(ctx, vocab, item, webID, PropertyUpdate{
			Name:        req.Name,
			Slug:        req.Slug,
			Description: req.Description,
			Domain:      req.Domain,
			Range:       req.Range,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update property"})
			return
		}
		c.JSON(http.StatusCreated, updated)
		return
	}

	class, err := h.service.GetClass(ctx, vocab, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	if class != nil {
		updated, err := h.service.UpdateClass(ctx, vocab, item, webID, ClassUpdate{
			Name:        req.Name,
			Slug:        req.Slug,
			Description: req.Description,
			Inherits:    req.Inherits,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update class"})
			return
		}
		c.JSON(http.StatusCreated, updated)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// DeleteItem deletes a property or class of a vocabulary by slug
// @Summary Delete a property or class
// @Tags vocabs
// @Produce json
// @Param vocab path string true "Vocabulary slug"
// @Param item path string true "Property or class slug"
// @Success 200 {boolean} boolean
// @Failure 404 {object} map[string]string "Neither found"
// @Security BearerAuth
// @Router /vocabs/{vocab}/{item} [delete]
func (h *Handler) DeleteItem(c *gin.Context) {
	ctx := c.Request.Context()
	vocab, item := c.Param("vocab"), c.Param("item")

	property, err := h.service.GetProperty(ctx, vocab, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	if property != nil {
		ok, err := h.service.DeleteProperty(ctx, vocab, item)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete property"})
			return
		}
		c.JSON(http.StatusOK, ok)
		return
	}

	class, err := h.service.GetClass(ctx, vocab, item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch item"})
		return
	}
	if class != nil {
		ok, err := h.service.DeleteClass(ctx, vocab, item)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete class"})
			return
		}
		c.JSON(http.StatusOK, ok)
		return
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

// RegisterRoutes registers vocabulary routes. Reads are public; mutations
// go through the auth middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, requireAuth gin.HandlerFunc) {
	rg.GET("/vocabs", h.List)
	rg.GET("/vocabs/:vocab", h.Get)
	rg.GET("/vocabs/:vocab/properties", h.ListProperties)
	rg.GET("/vocabs/:vocab/classes", h.ListClasses)
	rg.GET("/vocabs/:vocab/:item", h.GetItem)

	rg.POST("/vocabs", requireAuth, h.Create)
	rg.POST("/vocabs/:vocab", requireAuth, h.Update)
	rg.DELETE("/vocabs/:vocab", requireAuth, h.Delete)
	rg.POST("/vocabs/:vocab/properties", requireAuth, h.CreateProperty)
	rg.POST("/vocabs/:vocab/classes", requireAuth, h.CreateClass)
	rg.POST("/vocabs/:vocab/:item", requireAuth, h.UpdateItem)
	rg.DELETE("/vocabs/:vocab/:item", requireAuth, h.DeleteItem)
}
