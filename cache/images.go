package cache

import (
	"bytes"
	"context"
	"encoding/gob"
	"fmt"
	"time"
)

// CachedImage is what the image endpoint needs to answer without the database.
type CachedImage struct {
	Name        string
	ContentType string
	Data        []byte
}

// Images caches image payloads keyed by image id and thumbnail width.
// Width 0 is the stored original.
type Images struct {
	store  Store
	ttl    time.Duration
	widths []int
}

func NewImages(store Store, ttl time.Duration, widths []int) *Images {
	return &Images{store: store, ttl: ttl, widths: widths}
}

func imageKey(id uint, width int) string {
	if width == 0 {
		return fmt.Sprintf("image:%d", id)
	}
	return fmt.Sprintf("image:%d:w%d", id, width)
}

func (c *Images) Get(ctx context.Context, id uint, width int) (*CachedImage, error) {
	raw, err := c.store.Get(ctx, imageKey(id, width))
	if err != nil {
		return nil, err
	}
	var img CachedImage
	if err := gob.NewDecoder(bytes.NewReader(raw)).Decode(&img); err != nil {
		return nil, fmt.Errorf("decode cached image: %w", err)
	}
	return &img, nil
}

func (c *Images) Set(ctx context.Context, id uint, width int, img *CachedImage) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(img); err != nil {
		return fmt.Errorf("encode cached image: %w", err)
	}
	return c.store.Set(ctx, imageKey(id, width), buf.Bytes(), c.ttl)
}

// Invalidate drops the original and every thumbnail of the given images.
func (c *Images) Invalidate(ctx context.Context, ids ...uint) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, 0, len(ids)*(len(c.widths)+1))
	for _, id := range ids {
		keys = append(keys, imageKey(id, 0))
		for _, w := range c.widths {
			keys = append(keys, imageKey(id, w))
		}
	}
	return c.store.Delete(ctx, keys...)
}
