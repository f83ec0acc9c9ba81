// Package source defines the adapter contracts for fetching design
// documents and exported icon assets. The core pipeline only ever sees
// these interfaces; network transports live outside the repository.
package source

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/figgo/figgo/internal/codegen"
	"github.com/figgo/figgo/internal/design"
)

// assetFetchLimit bounds the concurrent per-icon asset fetches.
const assetFetchLimit = 4

// DocumentSource fetches one raw design document.
type DocumentSource interface {
	Document(ctx context.Context) (*design.Document, error)
}

// AssetSource resolves one exported icon asset by node id.
type AssetSource interface {
	Asset(ctx context.Context, nodeID string) (codegen.IconAsset, error)
}

// ResolveAssets fetches every asset through a bounded pool. Fetches are
// independent and order-insensitive; results are keyed by node id. The
// first error cancels the remaining fetches.
func ResolveAssets(ctx context.Context, src AssetSource, nodeIDs []string) (map[string]codegen.IconAsset, error) {
	out := make(map[string]codegen.IconAsset, len(nodeIDs))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(assetFetchLimit)
	for _, id := range nodeIDs {
		id := id
		g.Go(func() error {
			asset, err := src.Asset(ctx, id)
			if err != nil {
				return fmt.Errorf("resolving asset for node %s: %w", id, err)
			}
			mu.Lock()
			out[id] = asset
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Local serves a document from disk and assets from a static map. It backs
// the CLI's manifest mode and tests.
type Local struct {
	DocumentPath string
	Assets       map[string]codegen.IconAsset
}

// Document implements DocumentSource.
func (l *Local) Document(_ context.Context) (*design.Document, error) {
	return design.Load(l.DocumentPath)
}

// Asset implements AssetSource.
func (l *Local) Asset(_ context.Context, nodeID string) (codegen.IconAsset, error) {
	asset, ok := l.Assets[nodeID]
	if !ok {
		return codegen.IconAsset{}, fmt.Errorf("no asset mapped for node %s", nodeID)
	}
	return asset, nil
}
