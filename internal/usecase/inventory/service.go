package inventory

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"pantry/internal/bootstrap/logging"
	domain "pantry/internal/domain/inventory"
	"pantry/internal/errs"
	"pantry/internal/ports"
)

type Service struct {
	repo  ports.InventoryRepository
	uow   ports.UnitOfWork
	now   func() time.Time
	newID func() string
}

func NewService(repo ports.InventoryRepository, uow ports.UnitOfWork) *Service {
	return &Service{
		repo:  repo,
		uow:   uow,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

func (s *Service) ListItems(ctx context.Context, ownerID string) ([]domain.Item, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if strings.TrimSpace(ownerID) == "" {
		return nil, errs.Invalid(domain.ErrOwnerRequired)
	}

	items, err := s.repo.ListItems(ctx, strings.TrimSpace(ownerID))
	if err != nil {
		return nil, errs.Wrap(err, "list inventory items")
	}
	return items, nil
}

// AddItem validates the input and stores a new item with a fresh id.
func (s *Service) AddItem(ctx context.Context, input domain.NewItemInput) (domain.Item, error) {
	if ctx == nil {
		return domain.Item{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return domain.Item{}, errs.Wrap(err, "check context")
	}

	normalized, unit, err := input.Normalize()
	if err != nil {
		return domain.Item{}, errs.Invalid(err)
	}

	item := domain.Item{
		ID:        s.newID(),
		OwnerID:   normalized.OwnerID,
		Name:      normalized.Name,
		Quantity:  normalized.Quantity,
		Unit:      unit,
		CreatedAt: s.now().UTC().Format(time.RFC3339Nano),
	}

	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.AddItem(txCtx, item)
	}); err != nil {
		return domain.Item{}, errs.Wrap(err, "add inventory item")
	}

	logging.Info(ctx, "inventory item added",
		slog.String("component", "inventory"),
		slog.String("item_id", item.ID),
		slog.String("name", item.Name),
	)
	return item, nil
}

func (s *Service) DeleteItem(ctx context.Context, ownerID string, itemID string) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	ownerID = strings.TrimSpace(ownerID)
	itemID = strings.TrimSpace(itemID)
	if ownerID == "" {
		return errs.Invalid(domain.ErrOwnerRequired)
	}
	if itemID == "" {
		return errs.NotFound(domain.ErrItemNotFound)
	}

	err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		return s.repo.DeleteItem(txCtx, ownerID, itemID)
	})
	if errors.Is(err, domain.ErrItemNotFound) {
		return errs.NotFound(err)
	}
	if err != nil {
		return errs.Wrap(err, "delete inventory item")
	}
	return nil
}
