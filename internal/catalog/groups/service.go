package groups

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Notifier publishes reference-data change events so admin lists refresh
// without manual reload.
type Notifier interface {
	Publish(ctx context.Context, collection string) error
}

// Collection is the logical collection name announced on changes.
const Collection = "groupes"

type Service struct {
	repo     Repository
	notifier Notifier
	logger   *slog.Logger
}

func NewService(repo Repository, notifier Notifier, logger *slog.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, logger: logger}
}

func (s *Service) List(ctx context.Context) ([]Group, error) {
	return s.repo.List(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Group, error) {
	if id == "" {
		return Group{}, errors.New("groups: id required")
	}
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, nom string) (Group, error) {
	nom = strings.TrimSpace(nom)
	if nom == "" {
		return Group{}, errors.New("groups: name is required")
	}
	g, err := s.repo.Create(ctx, nom)
	if err != nil {
		return Group{}, err
	}
	s.notifyChanged(ctx)
	return g, nil
}

func (s *Service) Update(ctx context.Context, id, nom string) error {
	nom = strings.TrimSpace(nom)
	if id == "" {
		return errors.New("groups: id required")
	}
	if nom == "" {
		return errors.New("groups: name is required")
	}
	if err := s.repo.Update(ctx, id, nom); err != nil {
		return err
	}
	s.notifyChanged(ctx)
	return nil
}

// Delete refuses to remove a group that still counts products.
func (s *Service) Delete(ctx context.Context, id string) error {
	g, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if g.NombreProduit > 0 {
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
		s.logger.Warn("publish group change", slog.Any("error", err))
	}
}
