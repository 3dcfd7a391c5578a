package cart

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	redisclient "github.com/farmlink/marketplace/cmd/redis"
	"github.com/farmlink/marketplace/model"
	"github.com/redis/go-redis/v9"
)

// CartRepository is the durable per-buyer cart store backed by Redis
// hashes. One hash per buyer, one field per product.
type CartRepository interface {
	GetCart(ctx context.Context, buyerID uint64) ([]model.CartItem, error)
	GetItem(ctx context.Context, buyerID, productID uint64) (*model.CartItem, error)
	SetItem(ctx context.Context, buyerID uint64, item *model.CartItem) error
	RemoveItem(ctx context.Context, buyerID, productID uint64) error
	RemoveItems(ctx context.Context, buyerID uint64, productIDs []uint64) error
	Clear(ctx context.Context, buyerID uint64) error

	// SetCheckoutResult stores a checkout response under the buyer's
	// idempotency token. Tokens are client-chosen, so the key is scoped
	// per buyer; one buyer's token can never surface another buyer's
	// response. Returns false when the token already exists.
	SetCheckoutResult(ctx context.Context, buyerID uint64, token, payload string, ttl time.Duration) (bool, error)
	GetCheckoutResult(ctx context.Context, buyerID uint64, token string) (string, error)
}

type cartRepo struct{}

func NewCartRepository() CartRepository {
	return &cartRepo{}
}

func cartKey(buyerID uint64) string {
	return "cart:" + strconv.FormatUint(buyerID, 10)
}

func idempotencyKey(buyerID uint64, token string) string {
	return "checkout:idem:" + strconv.FormatUint(buyerID, 10) + ":" + token
}

func (r *cartRepo) GetCart(ctx context.Context, buyerID uint64) ([]model.CartItem, error) {
	client := redisclient.Get()
	if client == nil {
		return nil, nil
	}
	fields, err := client.HGetAll(ctx, cartKey(buyerID)).Result()
	if err != nil {
		return nil, err
	}
	items := make([]model.CartItem, 0, len(fields))
	for _, raw := range fields {
		var item model.CartItem
		if err := json.Unmarshal([]byte(raw), &item); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (r *cartRepo) GetItem(ctx context.Context, buyerID, productID uint64) (*model.CartItem, error) {
	client := redisclient.Get()
	if client == nil {
		return nil, nil
	}
	raw, err := client.HGet(ctx, cartKey(buyerID), strconv.FormatUint(productID, 10)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var item model.CartItem
	if err := json.Unmarshal([]byte(raw), &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepo) SetItem(ctx context.Context, buyerID uint64, item *model.CartItem) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	raw, err := json.Marshal(item)
	if err != nil {
		return err
	}
	return client.HSet(ctx, cartKey(buyerID), strconv.FormatUint(item.ProductID, 10), raw).Err()
}

func (r *cartRepo) RemoveItem(ctx context.Context, buyerID, productID uint64) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.HDel(ctx, cartKey(buyerID), strconv.FormatUint(productID, 10)).Err()
}

func (r *cartRepo) RemoveItems(ctx context.Context, buyerID uint64, productIDs []uint64) error {
	client := redisclient.Get()
	if client == nil || len(productIDs) == 0 {
		return nil
	}
	fields := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		fields = append(fields, strconv.FormatUint(id, 10))
	}
	return client.HDel(ctx, cartKey(buyerID), fields...).Err()
}

func (r *cartRepo) Clear(ctx context.Context, buyerID uint64) error {
	client := redisclient.Get()
	if client == nil {
		return nil
	}
	return client.Del(ctx, cartKey(buyerID)).Err()
}

func (r *cartRepo) SetCheckoutResult(ctx context.Context, buyerID uint64, token, payload string, ttl time.Duration) (bool, error) {
	client := redisclient.Get()
	if client == nil {
		return true, nil
	}
	return client.SetNX(ctx, idempotencyKey(buyerID, token), payload, ttl).Result()
}

func (r *cartRepo) GetCheckoutResult(ctx context.Context, buyerID uint64, token string) (string, error) {
	client := redisclient.Get()
	if client == nil {
		return "", nil
	}
	val, err := client.Get(ctx, idempotencyKey(buyerID, token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
