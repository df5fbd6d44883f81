package addoncart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/catalog"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/internal/pricing"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/config"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/db/models"
	pkgerrors "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/errors"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/logger"
	"github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/metrics"
	pkgredis "github.com/ahmadsheraz5910/generic-restaurant-backend/pkg/redis"
)

const (
	opAddSelection    = "add_selection"
	opUpdateSelection = "update_selection"
	opRemoveSelection = "remove_selection"
)

type cartStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Cart, error)
	RefreshTotals(ctx context.Context, cartID uuid.UUID) (*models.Cart, error)
}

type lineItemStore interface {
	CreateLineItems(ctx context.Context, items []models.LineItem) ([]models.LineItem, error)
	UpdateLineItems(ctx context.Context, items []models.LineItem) error
	DeleteLineItems(ctx context.Context, ids []uuid.UUID) error
	ListLineItems(ctx context.Context, cartID uuid.UUID) ([]models.LineItem, error)
}

type linkageLoader interface {
	LoadVariantLinkage(ctx context.Context, variantIDs []uuid.UUID) (map[uuid.UUID]catalog.VariantLinkage, error)
}

type cartLocker interface {
	CartLockKey(cartID string) string
	AcquireLock(ctx context.Context, key string, timeout, ttl, retryInterval time.Duration) (string, error)
	ReleaseLock(ctx context.Context, key, token string) error
}

type eventEmitter interface {
	EmitCartUpdated(ctx context.Context, cartID string)
}

// AddSelectionInput is one requested configuration: a base variant, its
// quantity, and the addon variants to attach.
type AddSelectionInput struct {
	BaseVariantID uuid.UUID
	Quantity      int
	Addons        []AddonSelection
}

// UpdateSelectionInput edits an existing configuration. Nil fields keep the
// previous value; a non-nil empty Addons slice means "remove all addons".
type UpdateSelectionInput struct {
	Quantity *int
	Addons   *[]AddonSelection
}

// Service is the add-on-aware cart reconciliation engine.
type Service interface {
	AddSelection(ctx context.Context, cartID uuid.UUID, input AddSelectionInput) (*models.Cart, error)
	UpdateSelection(ctx context.Context, cartID, lineItemID uuid.UUID, input UpdateSelectionInput) (*models.Cart, error)
	RemoveSelection(ctx context.Context, cartID uuid.UUID, lineItemIDs []uuid.UUID) (*models.Cart, error)
}

type service struct {
	carts      cartStore
	items      lineItemStore
	catalog    linkageLoader
	prices     priceCalculator
	locks      cartLocker
	emitter    eventEmitter
	lockCfg    config.CartLockConfig
	logg       *logger.Logger
	metrics    *metrics.ReconcileMetrics
	emitEvents bool
}

// NewService builds the reconciliation engine backed by the provided stack.
func NewService(
	carts cartStore,
	items lineItemStore,
	catalogRepo linkageLoader,
	prices priceCalculator,
	locks cartLocker,
	emitter eventEmitter,
	lockCfg config.CartLockConfig,
	logg *logger.Logger,
	reconcileMetrics *metrics.ReconcileMetrics,
	emitEvents bool,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if items == nil {
		return nil, fmt.Errorf("line item store required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if prices == nil {
		return nil, fmt.Errorf("price calculator required")
	}
	if locks == nil {
		return nil, fmt.Errorf("cart locker required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		carts:      carts,
		items:      items,
		catalog:    catalogRepo,
		prices:     prices,
		locks:      locks,
		emitter:    emitter,
		lockCfg:    lockCfg,
		logg:       logg,
		metrics:    reconcileMetrics,
		emitEvents: emitEvents,
	}, nil
}

// AddSelection attaches an addon configuration to the cart, merging with an
// existing identical configuration instead of duplicating it.
func (s *service) AddSelection(ctx context.Context, cartID uuid.UUID, input AddSelectionInput) (*models.Cart, error) {
	if input.Quantity < 1 {
		return nil, s.failure(opAddSelection, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1"))
	}
	return s.reconcile(ctx, opAddSelection, cartID, func(ctx context.Context, cart *models.Cart, index *CartIndex) (*Plan, Linkage, error) {
		linkage, err := s.catalog.LoadVariantLinkage(ctx, []uuid.UUID{input.BaseVariantID})
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading addon linkage")
		}

		requested := map[uuid.UUID][]uuid.UUID{input.BaseVariantID: addonIDs(input.Addons)}
		if err := ValidateCombination(linkage, requested); err != nil {
			return nil, nil, err
		}

		plan, err := PlanGroup(index, linkage, GroupRequest{
			BaseVariantID:  input.BaseVariantID,
			BaseQuantity:   input.Quantity,
			AddonsProvided: true,
			Addons:         input.Addons,
		})
		if err != nil {
			return nil, nil, err
		}
		return plan, linkage, nil
	})
}

// UpdateSelection edits the configuration anchored at the given base line
// item: quantity, addon set, or both.
func (s *service) UpdateSelection(ctx context.Context, cartID, lineItemID uuid.UUID, input UpdateSelectionInput) (*models.Cart, error) {
	if input.Quantity != nil && *input.Quantity < 0 {
		return nil, s.failure(opUpdateSelection, pkgerrors.New(pkgerrors.CodeValidation, "quantity cannot be negative"))
	}
	return s.reconcile(ctx, opUpdateSelection, cartID, func(ctx context.Context, cart *models.Cart, index *CartIndex) (*Plan, Linkage, error) {
		target := index.BaseByID(lineItemID)
		if target == nil {
			return nil, nil, pkgerrors.New(pkgerrors.CodeItemNotFound,
				fmt.Sprintf("line item %s not found in cart", lineItemID))
		}

		linkage, err := s.catalog.LoadVariantLinkage(ctx, []uuid.UUID{target.VariantID})
		if err != nil {
			return nil, nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading addon linkage")
		}

		quantity := target.Quantity
		if input.Quantity != nil {
			quantity = *input.Quantity
		}

		req := GroupRequest{
			BaseVariantID: target.VariantID,
			BaseQuantity:  quantity,
			TargetItemID:  &lineItemID,
		}
		if input.Addons != nil {
			req.AddonsProvided = true
			req.Addons = *input.Addons
			requested := map[uuid.UUID][]uuid.UUID{target.VariantID: addonIDs(req.Addons)}
			if err := ValidateCombination(linkage, requested); err != nil {
				return nil, nil, err
			}
		}

		plan, err := PlanGroup(index, linkage, req)
		if err != nil {
			return nil, nil, err
		}
		return plan, linkage, nil
	})
}

// RemoveSelection deletes the referenced base line items and cascades to the
// addon items sharing their signatures.
func (s *service) RemoveSelection(ctx context.Context, cartID uuid.UUID, lineItemIDs []uuid.UUID) (*models.Cart, error) {
	if len(lineItemIDs) == 0 {
		return nil, s.failure(opRemoveSelection, pkgerrors.New(pkgerrors.CodeValidation, "at least one line item id is required"))
	}
	return s.reconcile(ctx, opRemoveSelection, cartID, func(ctx context.Context, cart *models.Cart, index *CartIndex) (*Plan, Linkage, error) {
		plan, err := PlanRemoval(index, lineItemIDs)
		if err != nil {
			return nil, nil, err
		}
		return plan, nil, nil
	})
}

// reconcile runs the shared lock → load → plan → price → mutate → refresh →
// emit pipeline. The lock is released on every exit path.
func (s *service) reconcile(
	ctx context.Context,
	operation string,
	cartID uuid.UUID,
	build func(ctx context.Context, cart *models.Cart, index *CartIndex) (*Plan, Linkage, error),
) (cart *models.Cart, err error) {
	start := time.Now()
	ctx = s.logg.WithOperation(s.logg.WithCartID(ctx, cartID.String()), operation)

	defer func() {
		s.metrics.ObserveDuration(operation, time.Since(start))
		if err != nil {
			err = s.failure(operation, err)
		}
	}()

	key := s.locks.CartLockKey(cartID.String())
	lockStart := time.Now()
	token, lockErr := s.locks.AcquireLock(ctx, key, s.lockCfg.AcquireTimeout, s.lockCfg.TTL, s.lockCfg.RetryInterval)
	s.metrics.ObserveLockWait(operation, time.Since(lockStart))
	if lockErr != nil {
		if errors.Is(lockErr, pkgredis.ErrLockTimeout) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeLockTimeout, lockErr,
				fmt.Sprintf("cart %s is locked by another request", cartID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, lockErr, "acquiring cart lock")
	}
	defer func() {
		if releaseErr := s.locks.ReleaseLock(ctx, key, token); releaseErr != nil {
			s.logg.Warn(ctx, fmt.Sprintf("releasing cart lock: %v", releaseErr))
		}
	}()

	current, err := s.carts.FindByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("cart %s not found", cartID))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "loading cart")
	}
	if current.Completed() {
		return nil, pkgerrors.New(pkgerrors.CodeCartCompleted,
			fmt.Sprintf("cart %s is already completed", cartID))
	}

	items, err := s.items.ListLineItems(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "listing line items")
	}
	index := BuildIndex(items)

	plan, linkage, err := build(ctx, current, index)
	if err != nil {
		return nil, err
	}
	if plan.Empty() {
		return current, nil
	}

	if err := resolveAddonPrices(ctx, s.prices, linkage, plan, pricing.Context{
		Currency:   current.Currency,
		RegionID:   current.RegionID,
		CustomerID: current.CustomerID,
	}); err != nil {
		return nil, err
	}

	if err := s.apply(ctx, operation, cartID, index, plan); err != nil {
		return nil, err
	}

	updated, err := s.carts.RefreshTotals(ctx, cartID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refreshing cart totals")
	}

	if s.emitEvents && s.emitter != nil {
		s.emitter.EmitCartUpdated(ctx, cartID.String())
	}

	s.logg.Info(ctx, "cart reconciled")
	return updated, nil
}

// apply issues the planned mutations: deletions first (cascades must land
// before or with their base deletion), then the four independent action lists
// concurrently. Every mutation records its inverse before the next may fail.
func (s *service) apply(ctx context.Context, operation string, cartID uuid.UUID, index *CartIndex, plan *Plan) error {
	jrnl := &journal{}

	mutErr := s.applyMutations(ctx, cartID, index, plan, jrnl)
	if mutErr == nil {
		return nil
	}

	failedSteps, rollbackErr := jrnl.rollback(ctx)
	if rollbackErr != nil {
		s.metrics.IncCompensationFailure(operation)
		s.logg.Error(ctx, fmt.Sprintf("COMPENSATION FAILURE: cart %s requires manual reconciliation, failed steps: %v",
			cartID, failedSteps), rollbackErr)
		return pkgerrors.Wrap(pkgerrors.CodeCompensation, rollbackErr,
			fmt.Sprintf("rollback failed after: %v", mutErr)).
			WithDetails(map[string]any{"failed_steps": failedSteps})
	}

	s.logg.Warn(ctx, fmt.Sprintf("cart mutation rolled back: %v", mutErr))
	return mutErr
}

func (s *service) applyMutations(ctx context.Context, cartID uuid.UUID, index *CartIndex, plan *Plan, jrnl *journal) error {
	if len(plan.DeleteItemIDs) > 0 {
		deleted := make([]models.LineItem, 0, len(plan.DeleteItemIDs))
		for _, id := range plan.DeleteItemIDs {
			if item, ok := index.Item(id); ok {
				deleted = append(deleted, item)
			}
		}
		if err := s.items.DeleteLineItems(ctx, plan.DeleteItemIDs); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "deleting line items")
		}
		jrnl.record("restore deleted line items", func(ctx context.Context) error {
			_, err := s.items.CreateLineItems(ctx, deleted)
			return err
		})
	}

	g, gctx := errgroup.WithContext(ctx)

	createLists := []struct {
		name    string
		creates []ItemCreate
	}{
		{name: "base", creates: plan.CreateBaseItems},
		{name: "addon", creates: plan.CreateAddonItems},
	}
	for _, list := range createLists {
		if len(list.creates) == 0 {
			continue
		}
		items := make([]models.LineItem, 0, len(list.creates))
		for _, create := range list.creates {
			items = append(items, buildLineItem(cartID, create))
		}
		name := list.name
		g.Go(func() error {
			created, err := s.items.CreateLineItems(gctx, items)
			if err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("creating %s line items", name))
			}
			ids := make([]uuid.UUID, 0, len(created))
			for _, item := range created {
				ids = append(ids, item.ID)
			}
			jrnl.record(fmt.Sprintf("delete created %s line items", name), func(ctx context.Context) error {
				return s.items.DeleteLineItems(ctx, ids)
			})
			return nil
		})
	}

	updateLists := []struct {
		name    string
		updates []ItemUpdate
	}{
		{name: "base", updates: plan.UpdateBaseItems},
		{name: "addon", updates: plan.UpdateAddonItems},
	}
	for _, list := range updateLists {
		if len(list.updates) == 0 {
			continue
		}
		items := make([]models.LineItem, 0, len(list.updates))
		previous := make([]models.LineItem, 0, len(list.updates))
		for _, update := range list.updates {
			item := update.Previous
			item.Quantity = update.Quantity
			item.UnitPriceCents = update.UnitPriceCents
			item.Metadata = update.Metadata
			items = append(items, item)
			previous = append(previous, update.Previous)
		}
		name := list.name
		g.Go(func() error {
			if err := s.items.UpdateLineItems(gctx, items); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, fmt.Sprintf("updating %s line items", name))
			}
			jrnl.record(fmt.Sprintf("restore previous %s line items", name), func(ctx context.Context) error {
				return s.items.UpdateLineItems(ctx, previous)
			})
			return nil
		})
	}

	return g.Wait()
}

func (s *service) failure(operation string, err error) error {
	code := pkgerrors.CodeInternal
	if typed := pkgerrors.As(err); typed != nil {
		code = typed.Code()
	}
	s.metrics.IncFailure(operation, string(code))
	return err
}

func buildLineItem(cartID uuid.UUID, create ItemCreate) models.LineItem {
	return models.LineItem{
		CartID:         cartID,
		VariantID:      create.VariantID,
		Title:          create.Title,
		Thumbnail:      create.Thumbnail,
		Quantity:       create.Quantity,
		UnitPriceCents: create.UnitPriceCents,
		Metadata:       create.Metadata,
	}
}

func addonIDs(selections []AddonSelection) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(selections))
	for _, sel := range selections {
		ids = append(ids, sel.AddonVariantID)
	}
	return ids
}
