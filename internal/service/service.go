package service

import (
	"github.com/sirupsen/logrus"

	"github.com/carson-networks/ledger-sync/internal/storage"
	"github.com/carson-networks/ledger-sync/internal/timeboundary"
)

const (
	defaultLimit  = 50
	defaultOffset = timeboundary.DefaultOffsetMinutes
)

// Options configures the EntryService. Zero values fall back to defaults.
type Options struct {
	PageLimit          int
	CivilOffsetMinutes *int
	Logger             *logrus.Logger
}

// Service holds all business logic services.
type Service struct {
	Entry *EntryService
}

// NewService creates a new Service with the given storage.
func NewService(store *storage.Storage, opts Options) *Service {
	return &Service{
		Entry: NewEntryService(store, opts),
	}
}
