package source

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/figgo/figgo/internal/codegen"
)

func TestLocalDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "design.json")
	payload := `{"name":"fixture","document":{"id":"1:2","name":"Card","type":"FRAME"}}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0644))

	src := &Local{DocumentPath: path}
	doc, err := src.Document(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fixture", doc.Name)
	assert.Equal(t, "1:2", doc.Root.ID)
}

func TestLocalAsset(t *testing.T) {
	src := &Local{Assets: map[string]codegen.IconAsset{
		"1:4": {ImportPath: "./assets/icon-search.svg", Width: 24, Height: 24},
	}}

	asset, err := src.Asset(context.Background(), "1:4")
	require.NoError(t, err)
	assert.Equal(t, "./assets/icon-search.svg", asset.ImportPath)

	_, err = src.Asset(context.Background(), "9:9")
	assert.Error(t, err)
}

func TestResolveAssets(t *testing.T) {
	assets := map[string]codegen.IconAsset{}
	var ids []string
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("1:%d", i)
		ids = append(ids, id)
		assets[id] = codegen.IconAsset{ImportPath: "./assets/" + id + ".svg", Width: 24, Height: 24}
	}

	got, err := ResolveAssets(context.Background(), &Local{Assets: assets}, ids)
	require.NoError(t, err)
	assert.Equal(t, assets, got)
}

func TestResolveAssetsBoundedConcurrency(t *testing.T) {
	var inFlight, peak atomic.Int32
	src := countingSource{inFlight: &inFlight, peak: &peak}

	ids := make([]string, 32)
	for i := range ids {
		ids[i] = fmt.Sprintf("1:%d", i)
	}
	_, err := ResolveAssets(context.Background(), src, ids)
	require.NoError(t, err)
	assert.LessOrEqual(t, peak.Load(), int32(assetFetchLimit))
}

func TestResolveAssetsFirstErrorWins(t *testing.T) {
	src := &Local{Assets: map[string]codegen.IconAsset{"1:1": {}}}
	_, err := ResolveAssets(context.Background(), src, []string{"1:1", "9:9"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "9:9")
}

type countingSource struct {
	inFlight *atomic.Int32
	peak     *atomic.Int32
}

func (c countingSource) Asset(ctx context.Context, nodeID string) (codegen.IconAsset, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		p := c.peak.Load()
		if n <= p || c.peak.CompareAndSwap(p, n) {
			break
		}
	}
	select {
	case <-ctx.Done():
		return codegen.IconAsset{}, errors.New("canceled")
	default:
	}
	return codegen.IconAsset{ImportPath: "./assets/" + nodeID + ".svg"}, nil
}
