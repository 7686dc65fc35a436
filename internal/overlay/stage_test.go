package overlay

import (
	"context"
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"

	"damage-dashboard/internal/domain/entity"
)

func TestStage_ShowLoadedAssetPaintsImmediately(t *testing.T) {
	st := NewStage(nil)
	err := st.Show(NewLoadedAsset(solidImage(20, 20, color.White)), []entity.Detection{dent()})
	require.NoError(t, err)

	before, after, ok := st.Surfaces()
	require.True(t, ok)
	require.NotSame(t, before, after)
	require.Equal(t, 1, after.ListenerCount())
	require.Equal(t, 0, before.ListenerCount())

	after.PointerMove(5, 5)
	require.Equal(t, "Dent (95%)", st.Controller().Tooltip().Text)
}

func TestStage_DeferredPaint(t *testing.T) {
	st := NewStage(nil)
	asset := LoadAsset(pngBytes(t, solidImage(20, 20, color.White)))
	require.NoError(t, st.Show(asset, []entity.Detection{dent()}))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, err := asset.Wait(ctx)
	require.NoError(t, err)

	_, after, ok := st.Surfaces()
	require.True(t, ok)
	w, h := after.Size()
	require.Equal(t, 20, w)
	require.Equal(t, 20, h)
}

func TestStage_NotPaintedBeforeLoad(t *testing.T) {
	st := NewStage(nil)
	require.NoError(t, st.Show(newAsset(), nil))

	_, _, ok := st.Surfaces()
	require.False(t, ok)
}

func TestStage_StaleLoadIsDropped(t *testing.T) {
	st := NewStage(nil)

	slow := newAsset()
	require.NoError(t, st.Show(slow, []entity.Detection{dent()}))
	require.NoError(t, st.Show(NewLoadedAsset(solidImage(8, 8, color.White)), nil))

	slow.complete(solidImage(20, 20, color.White), nil)

	_, after, ok := st.Surfaces()
	require.True(t, ok)
	w, _ := after.Size()
	require.Equal(t, 8, w)
	require.False(t, st.Controller().OnPointerMove(5, 5).Visible)
	require.Equal(t, uint64(2), st.Generation())
}

func TestStage_ClearCancelsPendingPaint(t *testing.T) {
	st := NewStage(nil)
	pending := newAsset()
	require.NoError(t, st.Show(pending, nil))

	st.Clear()
	pending.complete(solidImage(4, 4, color.White), nil)

	_, _, ok := st.Surfaces()
	require.False(t, ok)
}

func TestStage_LoadFailure(t *testing.T) {
	st := NewStage(nil)
	err := st.Show(NewLoadedAsset(nil), []entity.Detection{dent()})
	require.True(t, eris.Is(err, ErrAssetLoad))

	_, _, ok := st.Surfaces()
	require.False(t, ok)
	require.False(t, st.Controller().Bound())
}

func TestStage_DeferredLoadFailureGoesToHandler(t *testing.T) {
	var (
		mu  sync.Mutex
		got error
	)
	st := NewStage(func(err error) {
		mu.Lock()
		got = err
		mu.Unlock()
	})

	pending := newAsset()
	require.NoError(t, st.Show(pending, nil))
	pending.complete(nil, errors.New("network down"))

	mu.Lock()
	defer mu.Unlock()
	require.True(t, eris.Is(got, ErrAssetLoad))
	require.Contains(t, got.Error(), "network down")
}

func TestStage_ReshowReleasesOldSurfaces(t *testing.T) {
	st := NewStage(nil)
	require.NoError(t, st.Show(NewLoadedAsset(solidImage(20, 20, color.White)), []entity.Detection{dent()}))
	oldBefore, oldAfter, _ := st.Surfaces()

	require.NoError(t, st.Show(NewLoadedAsset(solidImage(20, 20, color.White)), []entity.Detection{dent()}))
	_, after, _ := st.Surfaces()

	require.True(t, oldBefore.Closed())
	require.True(t, oldAfter.Closed())
	require.Equal(t, 0, oldAfter.ListenerCount())
	require.Equal(t, 1, after.ListenerCount())
}

func TestStage_RepaintIsPixelIdentical(t *testing.T) {
	st := NewStage(nil)
	img := solidImage(20, 20, color.White)
	dets := []entity.Detection{dent()}

	require.NoError(t, st.Show(NewLoadedAsset(img), dets))
	_, first, _ := st.Surfaces()
	require.NoError(t, st.Show(NewLoadedAsset(img), dets))
	_, second, _ := st.Surfaces()

	require.Equal(t, first.Image().Pix, second.Image().Pix)
}
