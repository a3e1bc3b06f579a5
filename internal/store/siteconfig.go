package store

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/suncrest/suncrest-server/internal/domain"
)

const keySiteConfig = "siteconfig:current"

// GetSiteConfig retrieves the site configuration singleton.
// Returns the default configuration if none has been saved yet.
func (s *Store) GetSiteConfig(ctx context.Context) (*domain.SiteConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cfg domain.SiteConfig

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keySiteConfig))
		if errors.Is(err, badger.ErrKeyNotFound) {
			// Return defaults if not set
			cfg = *domain.NewSiteConfig()
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &cfg)
		})
	})

	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ReplaceSiteConfig replaces the stored site configuration wholesale.
// The record is never patched field-by-field; callers submit the full
// document they want served.
func (s *Store) ReplaceSiteConfig(ctx context.Context, cfg *domain.SiteConfig) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal site config: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keySiteConfig), data)
	})
}

// ResetSiteConfig deletes any stored customization and returns the defaults
// that will be served from now on.
func (s *Store) ResetSiteConfig(ctx context.Context) (*domain.SiteConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	err := s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(keySiteConfig))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("reset site config: %w", err)
	}

	return domain.NewSiteConfig(), nil
}
