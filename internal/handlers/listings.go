package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/topprix/listing-service/internal/aggregate"
	"github.com/topprix/listing-service/internal/backend"
	"github.com/topprix/listing-service/internal/lifecycle"
	"github.com/topprix/listing-service/internal/pagination"
	"github.com/topprix/listing-service/internal/search"
	"github.com/topprix/listing-service/internal/stores"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
)

// Handler bundles the listing endpoints' dependencies.
type Handler struct {
	agg    *aggregate.Aggregator
	dir    *stores.Directory
	logger zerolog.Logger
	now    func() time.Time
}

// New creates the listing handler set.
func New(agg *aggregate.Aggregator, dir *stores.Directory, logger *zerolog.Logger) *Handler {
	return &Handler{
		agg:    agg,
		dir:    dir,
		logger: logger.With().Str("component", "handlers").Logger(),
		now:    time.Now,
	}
}

// ListListingsRequest represents query parameters for listing a collection
type ListListingsRequest struct {
	Page       int      `form:"page" binding:"omitempty,min=1"`
	Limit      int      `form:"limit" binding:"omitempty,min=1,max=200"`
	Active     string   `form:"active" binding:"omitempty,oneof=all active inactive"`
	CategoryID string   `form:"categoryId"`
	Search     string   `form:"q"`
	StoreIDs   []string `form:"storeId"`
	OwnerID    string   `form:"ownerId"`
}

// ClassifiedListing is a listing plus its derived lifecycle state. Status
// is recomputed on every request from the current time; "unknown" marks a
// listing whose dates could not be parsed, which never blanks the page.
type ClassifiedListing struct {
	backend.Listing
	Status        string `json:"status"`
	DaysRemaining *int   `json:"daysRemaining,omitempty"`
}

// statusUnknown is a presentation fallback, not a lifecycle status.
const statusUnknown = "unknown"

// ListListings returns one classified, normalized page of a collection
// GET /internal/listings/:collection?page=&limit=&active=&categoryId=&q=&storeId=&ownerId=
func (h *Handler) ListListings(c *gin.Context) {
	env, ok := h.resolve(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.classifyPage(env))
}

// resolve binds the request, resolves owner scope, and runs the aggregator.
// On failure it writes the error response and returns ok=false.
func (h *Handler) resolve(c *gin.Context) (pagination.PageEnvelope[backend.Listing], bool) {
	var zero pagination.PageEnvelope[backend.Listing]

	collection, ok := backend.CollectionFromSlug(c.Param("collection"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
		return zero, false
	}

	var req ListListingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return zero, false
	}
	if req.Page == 0 {
		req.Page = defaultPage
	}
	if req.Limit == 0 {
		req.Limit = defaultPageSize
	}
	if req.Active == "" {
		req.Active = string(aggregate.ActiveAll)
	}

	scope, ok := h.resolveScope(c, req)
	if !ok {
		return zero, false
	}

	criteria := aggregate.FetchCriteria{
		Collection: collection,
		Scope:      scope,
		Active:     aggregate.ActiveFilter(req.Active),
		CategoryID: req.CategoryID,
		Search:     search.Fold(req.Search),
		Page:       req.Page,
		PageSize:   req.Limit,
	}

	env, err := h.agg.ResolvePage(c.Request.Context(), criteria)
	if err != nil {
		var allFailed *aggregate.AllPartitionsFailedError
		if errors.As(err, &allFailed) {
			h.logger.Error().Err(err).Str("collection", string(collection)).Msg("All partitions failed")
		} else {
			h.logger.Error().Err(err).Str("collection", string(collection)).Msg("Listing fetch failed")
		}
		c.JSON(http.StatusBadGateway, gin.H{
			"error":     "failed to load listings",
			"retryable": true,
		})
		return zero, false
	}
	return env, true
}

// resolveScope turns the request's ownerId / storeId parameters into an
// owner scope. An ownerId wins over explicit store ids; neither means the
// whole catalog.
func (h *Handler) resolveScope(c *gin.Context, req ListListingsRequest) (aggregate.OwnerScope, bool) {
	if req.OwnerID != "" {
		ids, err := h.dir.StoresForOwner(c.Request.Context(), req.OwnerID)
		if err != nil {
			h.logger.Error().Err(err).Str("owner_id", req.OwnerID).Msg("Store resolution failed")
			c.JSON(http.StatusBadGateway, gin.H{
				"error":     "failed to resolve owner stores",
				"retryable": true,
			})
			return aggregate.OwnerScope{}, false
		}
		return aggregate.StoreScope(ids...), true
	}
	if len(req.StoreIDs) > 0 {
		return aggregate.StoreScope(req.StoreIDs...), true
	}
	return aggregate.GlobalScope(), true
}

// classifyPage runs every item of a page through the lifecycle classifier
// independently, so one bad item degrades to "unknown" instead of sinking
// the list.
func (h *Handler) classifyPage(env pagination.PageEnvelope[backend.Listing]) pagination.PageEnvelope[ClassifiedListing] {
	now := h.now()
	items := make([]ClassifiedListing, 0, len(env.Items))
	for _, item := range env.Items {
		items = append(items, h.classify(item, now))
	}
	return pagination.PageEnvelope[ClassifiedListing]{
		Items: items,
		Meta:  env.Meta,
	}
}

func (h *Handler) classify(item backend.Listing, now time.Time) ClassifiedListing {
	out := ClassifiedListing{Listing: item, Status: statusUnknown}

	end, err := lifecycle.ParseDate(item.EndDate)
	if err != nil {
		h.logger.Debug().Str("listing_id", item.ID).Str("end_date", item.EndDate).Msg("Unparsable end date")
		return out
	}

	window := lifecycle.Window{End: end}
	if item.StartDate != "" {
		if start, err := lifecycle.ParseDate(item.StartDate); err == nil {
			window.Start = &start
		}
		// An unparsable start degrades to the end-date-only variant; the
		// end date alone still yields a usable status.
	}

	cls := lifecycle.Classify(window, now)
	days := cls.DaysRemaining
	out.Status = string(cls.Status)
	out.DaysRemaining = &days
	return out
}
