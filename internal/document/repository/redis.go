package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/gogotex/gogotex/backend/go-editor/internal/document"
	"github.com/redis/go-redis/v9"
)

// RedisRepo implements Repository on Redis. Each document is stored as JSON under
// "<prefix>doc:<id>"; "<prefix>docs" holds every id and "<prefix>owner:<owner>"
// holds the ids of one owner.
type RedisRepo struct {
	client *redis.Client
	prefix string
}

// NewRedisRepo creates a Redis-backed document repository. Prefix may be empty.
func NewRedisRepo(client *redis.Client, prefix string) *RedisRepo {
	if prefix == "" {
		prefix = "editor:"
	}
	return &RedisRepo{client: client, prefix: prefix}
}

func (r *RedisRepo) docKey(id string) string      { return r.prefix + "doc:" + id }
func (r *RedisRepo) ownerKey(owner string) string { return r.prefix + "owner:" + owner }
func (r *RedisRepo) indexKey() string             { return r.prefix + "docs" }

func (r *RedisRepo) Create(ctx context.Context, doc *document.Document) (string, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	ok, err := r.client.SetNX(ctx, r.docKey(doc.ID), b, 0).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("document already exists: %s", doc.ID)
	}
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, r.indexKey(), doc.ID)
	pipe.SAdd(ctx, r.ownerKey(doc.OwnerID), doc.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (r *RedisRepo) Get(ctx context.Context, id string) (*document.Document, error) {
	b, err := r.client.Get(ctx, r.docKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var d document.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *RedisRepo) FindDraftByOwner(ctx context.Context, ownerID string) (*document.Document, error) {
	ids, err := r.client.SMembers(ctx, r.ownerKey(ownerID)).Result()
	if err != nil {
		return nil, err
	}
	docs, err := r.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	var latest *document.Document
	for _, d := range docs {
		if d.OwnerID != ownerID || d.Status != document.StatusDraft {
			continue
		}
		if latest == nil || d.UpdatedAt.After(latest.UpdatedAt) {
			latest = d
		}
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}

func (r *RedisRepo) List(ctx context.Context) ([]*document.Document, error) {
	ids, err := r.client.SMembers(ctx, r.indexKey()).Result()
	if err != nil {
		return nil, err
	}
	out, err := r.load(ctx, ids)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UpdatedAt.After(out[j].UpdatedAt) })
	return out, nil
}

// load fetches the given ids, skipping ids whose value has disappeared.
func (r *RedisRepo) load(ctx context.Context, ids []string) ([]*document.Document, error) {
	if len(ids) == 0 {
		return []*document.Document{}, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.docKey(id)
	}
	vals, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*document.Document, 0, len(vals))
	for _, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		var d document.Document
		if err := json.Unmarshal([]byte(s), &d); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, nil
}

func (r *RedisRepo) Update(ctx context.Context, doc *document.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	ok, err := r.client.SetXX(ctx, r.docKey(doc.ID), b, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return r.client.SAdd(ctx, r.ownerKey(doc.OwnerID), doc.ID).Err()
}

func (r *RedisRepo) Delete(ctx context.Context, id string) error {
	d, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, r.docKey(id))
	pipe.SRem(ctx, r.indexKey(), id)
	pipe.SRem(ctx, r.ownerKey(d.OwnerID), id)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *RedisRepo) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
