package hero

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"image"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"golang.org/x/sync/singleflight"

	"github.com/cyzmcl/Lunarian/pkg/cache"
	"github.com/cyzmcl/Lunarian/pkg/observability"
)

// DefaultCacheTTL is how long located boxes are kept.
const DefaultCacheTTL = 7 * 24 * time.Hour

// Cached memoizes another locator. "No hero" answers are cached too; other
// errors are not. Concurrent lookups of one key share a single inner call,
// which runs detached from caller cancellation; Inner should bound its own
// duration, as [Remote] does.
type Cached struct {
	Inner Locator
	Cache cache.Cache
	Keyer cache.Keyer
	TTL   time.Duration

	// Name separates entries of different detectors sharing a cache.
	Name   string
	Logger *log.Logger

	group singleflight.Group
}

// NewCached wraps inner. Nil dependencies get defaults.
func NewCached(inner Locator, c cache.Cache, keyer cache.Keyer, name string, logger *log.Logger) *Cached {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Cached{Inner: inner, Cache: c, Keyer: keyer, TTL: DefaultCacheTTL, Name: name, Logger: logger}
}

type cachedEntry struct {
	BBox *BBox `json:"bbox"`
}

// Locate implements [Locator].
func (c *Cached) Locate(ctx context.Context, img image.Image, seed *BBox) (*BBox, error) {
	opts := cache.HeroKeyOpts{Locator: c.Name}
	if seed.Usable() {
		opts.Seed = &[4]int{seed.X1, seed.Y1, seed.X2, seed.Y2}
	}
	key := c.Keyer.HeroKey(ImageHash(img), opts)

	if b, hit := c.lookup(ctx, key); hit {
		observability.Cache().OnCacheHit(ctx, "hero")
		if !b.Usable() {
			return nil, ErrNoHero
		}
		return b, nil
	}
	observability.Cache().OnCacheMiss(ctx, "hero")

	// The flight is shared, so it must outlive any one caller's context.
	// Each caller still stops waiting when its own context ends.
	fctx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		b, err := c.Inner.Locate(fctx, img, seed)
		if err != nil && !errors.Is(err, ErrNoHero) {
			return nil, err
		}
		c.store(fctx, key, b)
		return b, nil
	})
	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		return nil, r.Err
	}
	b, _ := r.Val.(*BBox)
	if !b.Usable() {
		return nil, ErrNoHero
	}
	out := *b
	return &out, nil
}

func (c *Cached) lookup(ctx context.Context, key string) (*BBox, bool) {
	data, hit, err := c.Cache.Get(ctx, key)
	if err != nil {
		c.Logger.Warn("hero cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		return nil, false
	}
	var e cachedEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return e.BBox, true
}

func (c *Cached) store(ctx context.Context, key string, b *BBox) {
	if !b.Usable() {
		b = nil
	}
	data, err := json.Marshal(cachedEntry{BBox: b})
	if err != nil {
		return
	}
	if err := c.Cache.Set(ctx, key, data, c.TTL); err != nil {
		c.Logger.Warn("hero cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "hero", len(data))
}

// ImageHash returns a content hash of img's pixels and size.
func ImageHash(img image.Image) string {
	n, ok := img.(*image.NRGBA)
	if !ok || n.Rect.Min != (image.Point{}) || n.Stride != 4*n.Rect.Dx() {
		n = imaging.Clone(img)
	}
	buf := make([]byte, 8, 8+len(n.Pix))
	binary.BigEndian.PutUint32(buf[0:], uint32(n.Rect.Dx()))
	binary.BigEndian.PutUint32(buf[4:], uint32(n.Rect.Dy()))
	return cache.Hash(append(buf, n.Pix...))
}
