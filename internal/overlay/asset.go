package overlay

import (
	"bytes"
	"context"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"sync"

	"github.com/rotisserie/eris"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrAssetLoad: изображение не удалось загрузить, рисовать нечего.
var ErrAssetLoad = eris.New("image asset failed to load")

// LoadCallback вызывается один раз, когда загрузка завершилась.
type LoadCallback func(img image.Image, err error)

// Asset изображение, которое декодируется асинхронно.
type Asset struct {
	mu        sync.Mutex
	img       image.Image
	err       error
	loaded    bool
	callbacks []LoadCallback
	done      chan struct{}
}

func newAsset() *Asset {
	return &Asset{done: make(chan struct{})}
}

// LoadAsset запускает декодирование байтов в отдельной горутине.
func LoadAsset(data []byte) *Asset {
	a := newAsset()
	go func() {
		a.complete(Decode(data))
	}()
	return a
}

// NewLoadedAsset оборачивает уже готовое изображение.
func NewLoadedAsset(img image.Image) *Asset {
	a := newAsset()
	if img == nil {
		a.complete(nil, eris.Wrap(ErrAssetLoad, "nil image"))
	} else {
		a.complete(img, nil)
	}
	return a
}

// Decode декодирует jpeg, png, gif, webp, bmp и tiff.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, eris.Wrap(ErrAssetLoad, "empty image data")
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrapf(ErrAssetLoad, "decode: %v", err)
	}
	if img.Bounds().Empty() {
		return nil, eris.Wrapf(ErrAssetLoad, "%s image has no pixels", format)
	}
	return img, nil
}

// Result возвращает изображение, если загрузка уже завершилась.
func (a *Asset) Result() (img image.Image, loaded bool, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.img, a.loaded, a.err
}

// OnLoad регистрирует обратный вызов. Если загрузка уже завершена,
// вызов происходит сразу, в той же горутине.
func (a *Asset) OnLoad(cb LoadCallback) {
	a.mu.Lock()
	if a.loaded {
		img, err := a.img, a.err
		a.mu.Unlock()
		cb(img, err)
		return
	}
	a.callbacks = append(a.callbacks, cb)
	a.mu.Unlock()
}

// Wait блокируется до завершения загрузки и всех обратных вызовов.
func (a *Asset) Wait(ctx context.Context) (image.Image, error) {
	select {
	case <-a.done:
		img, _, err := a.Result()
		return img, err
	case <-ctx.Done():
		return nil, eris.Wrap(ctx.Err(), "wait for image asset")
	}
}

func (a *Asset) complete(img image.Image, err error) {
	a.mu.Lock()
	if a.loaded {
		a.mu.Unlock()
		return
	}
	a.img, a.err, a.loaded = img, err, true
	callbacks := a.callbacks
	a.callbacks = nil
	a.mu.Unlock()

	for _, cb := range callbacks {
		cb(img, err)
	}
	close(a.done)
}
