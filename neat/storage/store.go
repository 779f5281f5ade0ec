// Package storage archives genotypes by id. Values are stored in the text
// model format, so an archived genotype is rebuilt and validated on every Get.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/baldhumanity/neat-go/neat"
)

// ErrNotFound is returned by Delete for an unknown id.
var ErrNotFound = errors.New("genotype not found")

// Store is a genotype archive. Fitness is not archived; only structure is.
type Store interface {
	Put(ctx context.Context, g *neat.Genotype) error
	Get(ctx context.Context, id string) (*neat.Genotype, bool, error)
	List(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id string) error
	Close() error
}

// NewStore opens the backend named by cfg.Backend ("memory" or "badger").
// opts are applied to every genotype the store rebuilds.
func NewStore(cfg neat.ArchiveConfig, logger *slog.Logger, opts ...neat.Option) (Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(opts...), nil
	case "badger":
		return OpenBadgerStore(BadgerConfig{Path: cfg.Path, Logger: logger}, opts...)
	default:
		return nil, fmt.Errorf("unknown archive backend '%s'", cfg.Backend)
	}
}

func encode(g *neat.Genotype) ([]byte, error) {
	if g.ID == "" {
		return nil, errors.New("genotype has no id")
	}
	var buf bytes.Buffer
	if err := neat.WriteModel(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(id string, data []byte, opts []neat.Option) (*neat.Genotype, error) {
	all := make([]neat.Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, neat.WithID(id))
	g, err := neat.ReadModel(bytes.NewReader(data), all...)
	if err != nil {
		return nil, fmt.Errorf("decode genotype %s: %w", id, err)
	}
	return g, nil
}
