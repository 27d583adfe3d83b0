package discussion

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/idgen"
)

const (
	// userBatchSize bounds a single GetByIDs call while resolving a tree
	userBatchSize = 100
	// bloomWarmupPage is the page size used to load every id into the bloom filter
	bloomWarmupPage = 1000
)

type Service struct {
	discussionRepo domain.DiscussionRepository
	userRepo       domain.UserRepository
	bloomRepo      domain.BloomRepository
	newID          func() (int64, error)
	now            func() time.Time
}

var _ domain.DiscussionUsecase = (*Service)(nil)

// NewService will create a new discussion service object
func NewService(d domain.DiscussionRepository, u domain.UserRepository, b domain.BloomRepository) *Service {
	return &Service{
		discussionRepo: d,
		userRepo:       u,
		bloomRepo:      b,
		newID:          idgen.New,
		now:            time.Now,
	}
}

func (s *Service) Fetch(ctx context.Context, opts domain.ListOptions) ([]domain.Discussion, error) {
	opts.Search = strings.TrimSpace(opts.Search)
	res, err := s.discussionRepo.Fetch(ctx, opts)
	if err != nil {
		return nil, err
	}
	return s.resolveList(ctx, res)
}

func (s *Service) GetByID(ctx context.Context, id int64) (domain.Discussion, error) {
	if err := s.mustExist(ctx, id); err != nil {
		return domain.Discussion{}, err
	}
	res, err := s.discussionRepo.GetByID(ctx, id)
	if err != nil {
		return domain.Discussion{}, err
	}
	return res, s.resolve(ctx, &res)
}

func (s *Service) FetchByQuestion(ctx context.Context, questionID int64) ([]domain.Discussion, error) {
	res, err := s.discussionRepo.FetchByQuestion(ctx, questionID, false)
	if err != nil {
		return nil, err
	}
	return s.resolveList(ctx, res)
}

func (s *Service) FetchSolutions(ctx context.Context, questionID int64) ([]domain.Discussion, error) {
	res, err := s.discussionRepo.FetchByQuestion(ctx, questionID, true)
	if err != nil {
		return nil, err
	}
	return s.resolveList(ctx, res)
}

func (s *Service) CountByQuestion(ctx context.Context, questionID int64) (int64, error) {
	return s.discussionRepo.CountByQuestion(ctx, questionID)
}

func (s *Service) Store(ctx context.Context, d *domain.Discussion) error {
	if err := d.Validate(); err != nil {
		return err
	}

	mentions, err := domain.ExtractMentions(ctx, d.Content, s.userRepo.GetByUsername)
	if err != nil {
		return fmt.Errorf("extract mentions: %w", err)
	}
	d.Mentions = mentions
	d.Reactions = domain.Reactions{Likes: []int64{}, Dislikes: []int64{}}
	d.Replies = []domain.ReplyNode{}
	d.Views = 0
	d.IsPinned = false
	if d.Tags == nil {
		d.Tags = []string{}
	}

	if err := s.discussionRepo.Store(ctx, d); err != nil {
		return err
	}
	if err := s.bloomRepo.Add(ctx, d.ID); err != nil {
		logrus.Errorf("failed to add discussion %d to bloom filter: %v", d.ID, err)
	}
	return s.resolve(ctx, d)
}

func (s *Service) AddReply(ctx context.Context, discussionID, authorID int64, content string, parent domain.ReplyPath) (domain.Discussion, error) {
	if strings.TrimSpace(content) == "" {
		return domain.Discussion{}, fmt.Errorf("content is required: %w", domain.ErrBadParamInput)
	}
	if err := s.mustExist(ctx, discussionID); err != nil {
		return domain.Discussion{}, err
	}

	// 在事务外解析 @ 提及，避免持锁期间查询用户表
	mentions, err := domain.ExtractMentions(ctx, content, s.userRepo.GetByUsername)
	if err != nil {
		return domain.Discussion{}, fmt.Errorf("extract mentions: %w", err)
	}
	replyID, err := s.newID()
	if err != nil {
		return domain.Discussion{}, fmt.Errorf("generate reply id: %w", err)
	}
	reply := domain.ReplyNode{
		ID:        replyID,
		Author:    domain.User{ID: authorID},
		Content:   content,
		Reactions: domain.Reactions{Likes: []int64{}, Dislikes: []int64{}},
		Mentions:  mentions,
	}

	res, err := s.discussionRepo.Mutate(ctx, discussionID, func(d *domain.Discussion) error {
		return d.AddReply(parent, reply, s.now())
	})
	if err != nil {
		return domain.Discussion{}, err
	}
	return res, s.resolve(ctx, &res)
}

func (s *Service) React(ctx context.Context, discussionID, userID int64, kind domain.ReactionKind, path domain.ReplyPath) (domain.Discussion, error) {
	if err := s.mustExist(ctx, discussionID); err != nil {
		return domain.Discussion{}, err
	}

	res, err := s.discussionRepo.Mutate(ctx, discussionID, func(d *domain.Discussion) error {
		state, err := d.React(path, userID, kind, s.now())
		if err != nil {
			return err
		}
		if path.IsRoot() {
			logrus.Debugf("user %d %s discussion %d: now %s", userID, kind, discussionID, state)
		} else {
			logrus.Debugf("user %d %s reply %s of discussion %d: now %s", userID, kind, path, discussionID, state)
		}
		return nil
	})
	if err != nil {
		return domain.Discussion{}, err
	}
	return res, s.resolve(ctx, &res)
}

func (s *Service) Edit(ctx context.Context, discussionID, requesterID int64, edit domain.DiscussionEdit) (domain.Discussion, error) {
	if err := s.mustExist(ctx, discussionID); err != nil {
		return domain.Discussion{}, err
	}

	res, err := s.discussionRepo.Mutate(ctx, discussionID, func(d *domain.Discussion) error {
		if d.Author.ID != requesterID {
			return domain.ErrNotDiscussionOwner
		}
		return d.ApplyEdit(edit, s.now())
	})
	if err != nil {
		return domain.Discussion{}, err
	}
	return res, s.resolve(ctx, &res)
}

func (s *Service) Delete(ctx context.Context, discussionID, requesterID int64) error {
	if err := s.mustExist(ctx, discussionID); err != nil {
		return err
	}
	existing, err := s.discussionRepo.GetByID(ctx, discussionID)
	if err != nil {
		return err
	}
	if existing.Author.ID != requesterID {
		return domain.ErrNotDiscussionOwner
	}
	return s.discussionRepo.Delete(ctx, discussionID)
}

func (s *Service) IncrementViews(ctx context.Context, discussionID int64) (int64, error) {
	if err := s.mustExist(ctx, discussionID); err != nil {
		return 0, err
	}
	return s.discussionRepo.IncrementViews(ctx, discussionID)
}

// InitBloomFilter loads every existing discussion id into the bloom filter
func (s *Service) InitBloomFilter(ctx context.Context) error {
	var (
		cursor int64
		total  int
	)
	for {
		ids, err := s.discussionRepo.FetchIDs(ctx, cursor, bloomWarmupPage)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			break
		}
		if err := s.bloomRepo.BulkAdd(ctx, ids); err != nil {
			return err
		}
		total += len(ids)
		cursor = ids[len(ids)-1]
	}
	logrus.Infof("bloom filter initialized with %d discussions", total)
	return nil
}

// mustExist 布隆过滤器判定不存在时直接返回 404，过滤器出错时放行
func (s *Service) mustExist(ctx context.Context, id int64) error {
	exists, err := s.bloomRepo.Exists(ctx, id)
	if err != nil {
		logrus.Warnf("bloom filter check failed for discussion %d: %v", id, err)
		return nil
	}
	if !exists {
		return domain.ErrDiscussionNotFound
	}
	return nil
}

func (s *Service) resolve(ctx context.Context, d *domain.Discussion) error {
	users, err := s.fetchUsers(ctx, d.UserIDs())
	if err != nil {
		return err
	}
	d.FillUsers(users)
	return nil
}

func (s *Service) resolveList(ctx context.Context, list []domain.Discussion) ([]domain.Discussion, error) {
	if len(list) == 0 {
		return list, nil
	}
	seen := make(map[int64]bool)
	ids := make([]int64, 0, len(list))
	for i := range list {
		for _, id := range list[i].UserIDs() {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}

	users, err := s.fetchUsers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].FillUsers(users)
	}
	return list, nil
}

// fetchUsers loads ids in batches of userBatchSize, concurrently
func (s *Service) fetchUsers(ctx context.Context, ids []int64) (map[int64]domain.User, error) {
	res := make(map[int64]domain.User, len(ids))
	if len(ids) == 0 {
		return res, nil
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < len(ids); start += userBatchSize {
		batch := ids[start:min(start+userBatchSize, len(ids))]
		g.Go(func() error {
			users, err := s.userRepo.GetByIDs(ctx, batch)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, u := range users {
				res[u.ID] = u
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve users: %w", err)
	}
	return res, nil
}
