package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/baldhumanity/neat-go/neat"
)

const keyPrefix = "genotype/"

// BadgerConfig configures a BadgerDB-backed archive.
type BadgerConfig struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path string
	// InMemory keeps everything in RAM; used by tests.
	InMemory bool
	// Logger receives BadgerDB's internal messages. Nil silences them.
	Logger *slog.Logger
}

// badgerLogger routes BadgerDB's logger interface into slog.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore archives genotypes in a BadgerDB key-value store under the
// "genotype/<id>" keys.
type BadgerStore struct {
	db   *badger.DB
	opts []neat.Option
}

// OpenBadgerStore opens (creating if needed) the database described by cfg.
func OpenBadgerStore(cfg BadgerConfig, opts ...neat.Option) (*BadgerStore, error) {
	var bopts badger.Options
	if cfg.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("path is required for persistent archive")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("create archive directory %s: %w", cfg.Path, err)
		}
		bopts = badger.DefaultOptions(cfg.Path)
	}
	bopts = bopts.WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		bopts = bopts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		bopts = bopts.WithLogger(nil)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger archive: %w", err)
	}
	return &BadgerStore{db: db, opts: opts}, nil
}

func genotypeKey(id string) []byte { return []byte(keyPrefix + id) }

// Put stores g under its ID, replacing any earlier entry.
func (s *BadgerStore) Put(ctx context.Context, g *neat.Genotype) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encode(g)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(genotypeKey(g.ID), b)
	})
}

// Get loads the genotype archived under id. The bool is false when none is.
func (s *BadgerStore) Get(ctx context.Context, id string) (*neat.Genotype, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	var b []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(genotypeKey(id))
		if err != nil {
			return err
		}
		b, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read genotype %s: %w", id, err)
	}
	g, err := decode(id, b, s.opts)
	if err != nil {
		return nil, false, err
	}
	return g, true, nil
}

// List returns the archived ids in key order.
func (s *BadgerStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var ids []string
	err := s.db.View(func(txn *badger.Txn) error {
		iopts := badger.DefaultIteratorOptions
		iopts.PrefetchValues = false
		iopts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(iopts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			ids = append(ids, string(it.Item().Key()[len(keyPrefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list genotypes: %w", err)
	}
	return ids, nil
}

// Delete removes id, returning ErrNotFound when it is not archived.
func (s *BadgerStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(genotypeKey(id)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrNotFound
			}
			return err
		}
		return txn.Delete(genotypeKey(id))
	})
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
