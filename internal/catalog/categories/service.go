package categories

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/tsena-shop/tsena/internal/catalog/groups"
	"github.com/tsena-shop/tsena/internal/shared"
)

// GroupDirectory resolves owning groups at creation time.
type GroupDirectory interface {
	Get(ctx context.Context, id string) (groups.Group, error)
}

// Notifier publishes reference-data change events.
type Notifier interface {
	Publish(ctx context.Context, collection string) error
}

// Collection is the logical collection name announced on changes.
const Collection = "categories"

type Service struct {
	repo     Repository
	groups   GroupDirectory
	notifier Notifier
	logger   *slog.Logger
}

func NewService(repo Repository, groupDir GroupDirectory, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, groups: groupDir, notifier: notifier, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Category, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByGroup(ctx context.Context, groupID string) ([]Category, error) {
	if groupID == "" {
		return s.repo.List(ctx)
	}
	return s.repo.ListByGroup(ctx, groupID)
}

func (s *Service) Get(ctx context.Context, id string) (Category, error) {
	if id == "" {
		return Category{}, errors.New("categories: id required")
	}
	return s.repo.Get(ctx, id)
}

// Create validates that the owning group exists before inserting. The
// constraint is soft: a group removed between check and insert is tolerated
// and caught by reconciliation, not enforced transactionally.
func (s *Service) Create(ctx context.Context, nom, groupID string) (Category, error) {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		return Category{}, errors.New("categories: name is required")
	}
	if groupID == "" {
		return Category{}, ErrUnknownGroup
	}
	if _, err := s.groups.Get(ctx, groupID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return Category{}, ErrUnknownGroup
		}
		return Category{}, err
	}
	c, err := s.repo.Create(ctx, nom, groupID)
	if err != nil {
		return Category{}, err
	}
	s.notifyChanged(ctx)
	return c, nil
}

func (s *Service) Update(ctx context.Context, id, nom string) error {
	nom = strings.TrimSpace(nom)
	if id == "" {
		return errors.New("categories: id required")
	}
	if nom == "" {
		return errors.New("categories: name is required")
	}
	if err := s.repo.Update(ctx, id, nom); err != nil {
		return err
	}
	s.notifyChanged(ctx)
	return nil
}

// Delete refuses to remove a category that still counts products.
func (s *Service) Delete(ctx context.Context, id string) error {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.Count > 0 {
		return ErrHasProducts
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.notifyChanged(ctx)
	return nil
}

func (s *Service) notifyChanged(ctx context.Context) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, Collection); err != nil && s.logger != nil {
		s.logger.Warn("publish category change", slog.Any("error", err))
	}
}
