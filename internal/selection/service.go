package selection

import (
	"context"
	"errors"
	"log"
	"strings"
)

var ErrEmptyDeviceID = errors.New("device id required")

// Service keeps the in-memory set authoritative for reads and mirrors
// changes into the repository when one is configured.
type Service struct {
	set  *MemorySet
	repo *Repository
}

func NewService(set *MemorySet, repo *Repository) *Service {
	return &Service{set: set, repo: repo}
}

func (s *Service) Set() *MemorySet { return s.set }

// Sync replaces the in-memory set with the repository contents. Seeds are
// merged in and written back so a fresh database picks them up.
func (s *Service) Sync(ctx context.Context, seeds []string) error {
	if s.repo == nil {
		s.set.Replace(append(s.set.IDs(), seeds...))
		return nil
	}
	for _, id := range seeds {
		if err := s.repo.Select(ctx, id); err != nil {
			return err
		}
	}
	ids, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.set.Replace(ids)
	log.Printf("selection synced: %d devices", len(ids))
	return nil
}

func (s *Service) Select(ctx context.Context, deviceID string) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return ErrEmptyDeviceID
	}
	if s.repo != nil {
		if err := s.repo.Select(ctx, deviceID); err != nil {
			return err
		}
	}
	s.set.Select(deviceID)
	return nil
}

func (s *Service) Deselect(ctx context.Context, deviceID string) error {
	deviceID = strings.TrimSpace(deviceID)
	if deviceID == "" {
		return ErrEmptyDeviceID
	}
	if s.repo != nil {
		if err := s.repo.Deselect(ctx, deviceID); err != nil {
			return err
		}
	}
	s.set.Deselect(deviceID)
	return nil
}

func (s *Service) IDs() []string { return s.set.IDs() }
