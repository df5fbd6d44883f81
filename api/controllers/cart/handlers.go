package cart

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/api/responses"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/api/validators"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/addoncart"
	cartrepo "github.com/ahmadsheraz5910/generic-restaurant-backend/internal/cart"
	pkgerrors "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/errors"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/logger"
)

// Fetch returns the cart with its line items.
func Fetch(repo cartrepo.Repository, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if repo == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart repository unavailable"))
			return
		}

		cartID, err := validators.ParsePathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := repo.FindByID(r.Context(), cartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				err = pkgerrors.New(pkgerrors.CodeNotFound, "cart not found")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// AddonLineItemAdd attaches a base variant plus addon selection to the cart.
func AddonLineItemAdd(svc addoncart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParsePathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload AddAddonLineItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.AddSelection(r.Context(), cartID, toAddSelectionInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, newCartResponse(record))
	}
}

// AddonLineItemUpdate edits the configuration anchored at a base line item.
func AddonLineItemUpdate(svc addoncart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParsePathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineItemID, err := validators.ParsePathUUID(r, "lineItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload UpdateAddonLineItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.UpdateSelection(r.Context(), cartID, lineItemID, toUpdateSelectionInput(payload))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// AddonLineItemRemove deletes one base line item and its attached addons.
func AddonLineItemRemove(svc addoncart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParsePathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		lineItemID, err := validators.ParsePathUUID(r, "lineItemId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveSelection(r.Context(), cartID, []uuid.UUID{lineItemID})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}

// AddonLineItemBatchRemove deletes several base line items in one locked pass.
func AddonLineItemBatchRemove(svc addoncart.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable"))
			return
		}

		cartID, err := validators.ParsePathUUID(r, "cartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload RemoveAddonLineItemsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		record, err := svc.RemoveSelection(r.Context(), cartID, payload.LineItemIDs)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, newCartResponse(record))
	}
}
