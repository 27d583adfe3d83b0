package repository

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
)

const (
	// DiscussionCacheTTL 讨论缓存的逻辑过期时间
	DiscussionCacheTTL = 5 * time.Minute
)

// discussionRepository 协调层，协调缓存和数据库
type discussionRepository struct {
	db           domain.DiscussionRepository
	cache        domain.DiscussionCache
	rebuildGroup singleflight.Group
}

var _ domain.DiscussionRepository = (*discussionRepository)(nil)

// NewDiscussionRepository 创建协调层repository
func NewDiscussionRepository(db domain.DiscussionRepository, cache domain.DiscussionCache) *discussionRepository {
	return &discussionRepository{
		db:    db,
		cache: cache,
	}
}

// Fetch 列表查询直接走数据库
func (r *discussionRepository) Fetch(ctx context.Context, opts domain.ListOptions) ([]domain.Discussion, error) {
	return r.db.Fetch(ctx, opts)
}

// GetByID 使用逻辑过期策略避免缓存击穿
func (r *discussionRepository) GetByID(ctx context.Context, id int64) (domain.Discussion, error) {
	d, expired, err := r.cache.GetDiscussion(ctx, id)
	if err == nil {
		if expired {
			go r.rebuild(context.Background(), id)
		}
		return d, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		logrus.Warnf("failed to get discussion %d from cache: %v", id, err)
	}

	// 缓存未命中，使用singleflight避免缓存击穿
	result, err, _ := r.rebuildGroup.Do(rebuildKey(id), func() (any, error) {
		return r.load(ctx, id)
	})
	if err != nil {
		return domain.Discussion{}, err
	}
	// singleflight 的结果被所有等待者共享，每个调用方拿到独立副本
	d = result.(domain.Discussion)
	return d.Clone(), nil
}

func (r *discussionRepository) FetchByQuestion(ctx context.Context, questionID int64, solutions bool) ([]domain.Discussion, error) {
	return r.db.FetchByQuestion(ctx, questionID, solutions)
}

func (r *discussionRepository) CountByQuestion(ctx context.Context, questionID int64) (int64, error) {
	return r.db.CountByQuestion(ctx, questionID)
}

func (r *discussionRepository) Store(ctx context.Context, d *domain.Discussion) error {
	return r.db.Store(ctx, d)
}

// Mutate 写数据库后删除缓存
func (r *discussionRepository) Mutate(ctx context.Context, id int64, fn func(d *domain.Discussion) error) (domain.Discussion, error) {
	d, err := r.db.Mutate(ctx, id, fn)
	if err != nil {
		return domain.Discussion{}, err
	}
	r.invalidate(ctx, id)
	return d, nil
}

func (r *discussionRepository) Delete(ctx context.Context, id int64) error {
	if err := r.db.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, id)
	return nil
}

// IncrementViews 不删除缓存，缓存中的浏览量在逻辑过期前允许落后
func (r *discussionRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	return r.db.IncrementViews(ctx, id)
}

func (r *discussionRepository) FetchIDs(ctx context.Context, cursor, limit int64) ([]int64, error) {
	return r.db.FetchIDs(ctx, cursor, limit)
}

func (r *discussionRepository) load(ctx context.Context, id int64) (domain.Discussion, error) {
	d, err := r.db.GetByID(ctx, id)
	if err != nil {
		return domain.Discussion{}, err
	}
	if err := r.cache.SetDiscussion(ctx, &d, DiscussionCacheTTL); err != nil {
		logrus.Warnf("failed to set discussion %d cache: %v", id, err)
	}
	return d, nil
}

// rebuild 异步重建讨论缓存
func (r *discussionRepository) rebuild(ctx context.Context, id int64) {
	_, err, _ := r.rebuildGroup.Do(rebuildKey(id), func() (any, error) {
		d, err := r.load(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			// 讨论已删除，清理缓存
			_ = r.cache.DeleteDiscussion(ctx, id)
		}
		return d, err
	})
	if err != nil {
		logrus.Errorf("rebuild discussion cache failed for id %d: %v", id, err)
	}
}

// invalidate 删除缓存失败只记录日志，数据库已经是最新的
func (r *discussionRepository) invalidate(ctx context.Context, id int64) {
	if err := r.cache.DeleteDiscussion(ctx, id); err != nil {
		logrus.Errorf("failed to delete discussion %d cache: %v", id, err)
	}
}

func rebuildKey(id int64) string {
	return "discussion:" + strconv.FormatInt(id, 10)
}
