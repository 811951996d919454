package ports

import (
	"context"

	"goclean/domain/cleaning"
	"goclean/domain/core"
)

// VersionStore is the insert-only log of completed runs
type VersionStore interface {
	Put(ctx context.Context, v *cleaning.Version) error
	Get(ctx context.Context, id core.VersionID) (*cleaning.Version, error)
	List(ctx context.Context) ([]*cleaning.Version, error)
}
