package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/api/responses"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/api/validators"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/catalog"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
	pkgerrors "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/errors"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/logger"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/pagination"
)

type productAddonsResponse struct {
	Addons     []addonResponse `json:"addons"`
	NextCursor string          `json:"next_cursor,omitempty"`
}

type addonResponse struct {
	ID        uuid.UUID              `json:"id"`
	Title     string                 `json:"title"`
	Handle    string                 `json:"handle"`
	Thumbnail *string                `json:"thumbnail,omitempty"`
	Variants  []addonVariantResponse `json:"variants"`
	CreatedAt time.Time              `json:"created_at"`
}

type addonVariantResponse struct {
	ID         uuid.UUID  `json:"id"`
	Title      string     `json:"title"`
	PriceSetID *uuid.UUID `json:"price_set_id,omitempty"`
}

// ProductAddons lists the published addons attachable to a product's variants.
func ProductAddons(repo catalog.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog repository unavailable"))
			return
		}

		productID, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}

		addons, next, err := repo.ListProductAddons(r.Context(), productID, params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newProductAddonsResponse(addons, next))
	}
}

func newProductAddonsResponse(addons []models.Addon, next *pagination.Cursor) productAddonsResponse {
	resp := productAddonsResponse{Addons: make([]addonResponse, 0, len(addons))}
	for _, addon := range addons {
		variants := make([]addonVariantResponse, 0, len(addon.Variants))
		for _, variant := range addon.Variants {
			variants = append(variants, addonVariantResponse{
				ID:         variant.ID,
				Title:      variant.Title,
				PriceSetID: variant.PriceSetID,
			})
		}
		resp.Addons = append(resp.Addons, addonResponse{
			ID:        addon.ID,
			Title:     addon.Title,
			Handle:    addon.Handle,
			Thumbnail: addon.Thumbnail,
			Variants:  variants,
			CreatedAt: addon.CreatedAt,
		})
	}
	if next != nil {
		resp.NextCursor = pagination.EncodeCursor(*next)
	}
	return resp
}
