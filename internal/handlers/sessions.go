package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/storekart/variant-service/internal/catalog"
	"github.com/storekart/variant-service/internal/session"
	"github.com/storekart/variant-service/internal/variant"
)

// CreateSessionRequest starts an edit session for a product
type CreateSessionRequest struct {
	Catalog   CatalogRef        `json:"catalog" binding:"required"`
	Selection catalog.Selection `json:"selection"`
	Variants  []variant.Variant `json:"variants"`
}

// StageImpactRequest stages an options change for confirmation
type StageImpactRequest struct {
	Catalog   CatalogRef        `json:"catalog" binding:"required"`
	Selection catalog.Selection `json:"selection" binding:"required"`
}

// ResolveRequest picks the merge policy for a staged options change
type ResolveRequest struct {
	Catalog CatalogRef `json:"catalog" binding:"required"`
	Policy  string     `json:"policy" binding:"required"`
}

// UpdateVariantsRequest replaces the session's variant list
type UpdateVariantsRequest struct {
	Variants []variant.Variant `json:"variants"`
}

var sessionStore *session.Store

// InitSessions wires the session store used by the session endpoints.
func InitSessions(store *session.Store) {
	sessionStore = store
}

// CreateSession starts an edit session
// POST /internal/sessions
func CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}

	cat, err := resolveCatalog(c, req.Catalog)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"catalog": err.Error()}})
		return
	}

	attrs := cat.SelectedAttributes(req.Selection)
	names := make([]string, len(attrs))
	for i, a := range attrs {
		names[i] = a.Name
	}

	sess := sessionStore.Create(req.Catalog.CategoryID, req.Selection, names, req.Variants)
	c.JSON(http.StatusCreated, sess)
}

// GetSession returns a live edit session
// GET /internal/sessions/:sessionId
func GetSession(c *gin.Context) {
	sess, err := sessionStore.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

// StageSessionImpact reconciles the session's variants against a new
// selection and stages the impact for confirmation
// POST /internal/sessions/:sessionId/impact
func StageSessionImpact(c *gin.Context) {
	var req StageImpactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}

	sess, err := sessionStore.Get(c.Param("sessionId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}

	cat, err := resolveCatalog(c, req.Catalog)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"catalog": err.Error()}})
		return
	}

	impact := reconciler.Reconcile(sess.Variants, sess.AttrNames, &cat, req.Selection)
	if err := sessionStore.StageImpact(sess.ID, impact, req.Selection); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, impact)
}

// ResolveSession applies a merge policy to the staged impact
// POST /internal/sessions/:sessionId/resolve
func ResolveSession(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}

	policy, ok := variant.ParsePolicy(req.Policy)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"policy": "must be one of regenerate_all, smart_merge, keep_existing"}})
		return
	}

	cat, err := resolveCatalog(c, req.Catalog)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"catalog": err.Error()}})
		return
	}

	next, err := sessionStore.Resolve(c.Param("sessionId"), policy, &cat)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, session.ErrNoPendingImpact):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"variants": next})
}

// UpdateSessionVariants replaces the session's variant list; blocked while
// an options change is pending
// PUT /internal/sessions/:sessionId/variants
func UpdateSessionVariants(c *gin.Context) {
	var req UpdateVariantsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": gin.H{"body": err.Error()}})
		return
	}

	err := sessionStore.UpdateVariants(c.Param("sessionId"), req.Variants)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		case errors.Is(err, session.ErrPendingImpact):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
