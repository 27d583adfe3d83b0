package mysql

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Guyuepp/Go-Clean-Architecture-Forum/domain"
	"github.com/Guyuepp/Go-Clean-Architecture-Forum/internal/repository/mysql/model"
)

// columns rewritten when an aggregate is replaced; id, author, category,
// question and creation time never change after insert
var mutableColumns = []string{
	"title", "content", "approach", "tags",
	"likes", "dislikes", "mentions", "replies",
	"likes_count", "reply_count", "is_pinned", "updated_at",
}

type discussionRepository struct {
	DB *gorm.DB
}

// mysql层只负责数据库操作
var _ domain.DiscussionRepository = (*discussionRepository)(nil)

// NewDiscussionDBRepository 创建数据库操作层
func NewDiscussionDBRepository(db *gorm.DB) *discussionRepository {
	return &discussionRepository{db}
}

func (m *discussionRepository) Fetch(ctx context.Context, opts domain.ListOptions) ([]domain.Discussion, error) {
	var rows []model.Discussion
	query := m.DB.WithContext(ctx).
		Model(&model.Discussion{}).
		Where("question_id IS NULL")

	if opts.Category != "" {
		query = query.Where("category = ?", string(opts.Category))
	}
	if opts.Search != "" {
		pattern := likePattern(opts.Search)
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(category) LIKE ?)",
			pattern, pattern, pattern)
	}

	err := query.Order(orderClause(opts.Filter)).
		Limit(domain.ListLimit).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	res := make([]domain.Discussion, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

// orderClause maps a listing filter to its ORDER BY; unknown filters sort like trending
func orderClause(filter domain.ListFilter) string {
	switch filter {
	case domain.FilterNewest:
		return "created_at DESC"
	case domain.FilterOldest:
		return "created_at ASC"
	case domain.FilterMostLiked:
		return "likes_count DESC, created_at DESC"
	default:
		return "views DESC, created_at DESC"
	}
}

func (m *discussionRepository) GetByID(ctx context.Context, id int64) (domain.Discussion, error) {
	var row model.Discussion
	err := m.DB.WithContext(ctx).First(&row, "id = ?", id).Error
	if err != nil {
		return domain.Discussion{}, discussionNotFoundOr(err)
	}
	return row.ToDomain(), nil
}

func (m *discussionRepository) FetchByQuestion(ctx context.Context, questionID int64, solutions bool) ([]domain.Discussion, error) {
	var rows []model.Discussion
	query := m.DB.WithContext(ctx).Where("question_id = ?", questionID)
	if solutions {
		query = query.Where("category = ?", string(domain.CategorySolutions))
	} else {
		query = query.Where("category <> ?", string(domain.CategorySolutions))
	}

	if err := query.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}

	res := make([]domain.Discussion, len(rows))
	for i := range rows {
		res[i] = rows[i].ToDomain()
	}
	return res, nil
}

func (m *discussionRepository) CountByQuestion(ctx context.Context, questionID int64) (int64, error) {
	var count int64
	err := m.DB.WithContext(ctx).
		Model(&model.Discussion{}).
		Where("question_id = ? AND category <> ?", questionID, string(domain.CategorySolutions)).
		Count(&count).Error
	return count, err
}

func (m *discussionRepository) Store(ctx context.Context, d *domain.Discussion) error {
	row := model.NewDiscussionFromDomain(d)
	if err := m.DB.WithContext(ctx).Create(row).Error; err != nil {
		return err
	}
	d.ID = row.ID
	d.CreatedAt = row.CreatedAt
	d.UpdatedAt = row.UpdatedAt
	return nil
}

func (m *discussionRepository) Mutate(ctx context.Context, id int64, fn func(d *domain.Discussion) error) (domain.Discussion, error) {
	var res domain.Discussion
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row model.Discussion
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&row, "id = ?", id).Error
		if err != nil {
			return discussionNotFoundOr(err)
		}

		d := row.ToDomain()
		if err := fn(&d); err != nil {
			return err
		}

		updated := model.NewDiscussionFromDomain(&d)
		result := tx.Model(updated).Select(mutableColumns).Updates(updated)
		if result.Error != nil {
			return result.Error
		}
		res = d
		return nil
	})
	if err != nil {
		return domain.Discussion{}, err
	}
	return res, nil
}

func (m *discussionRepository) Delete(ctx context.Context, id int64) error {
	result := m.DB.WithContext(ctx).Delete(&model.Discussion{}, id)
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return domain.ErrDiscussionNotFound
	}
	return nil
}

func (m *discussionRepository) IncrementViews(ctx context.Context, id int64) (int64, error) {
	var views []int64
	err := m.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Discussion{}).
			Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrDiscussionNotFound
		}
		return tx.Model(&model.Discussion{}).Where("id = ?", id).Pluck("views", &views).Error
	})
	if err != nil {
		return 0, err
	}
	if len(views) == 0 {
		logrus.Warnf("discussion %d vanished while counting a view", id)
		return 0, domain.ErrDiscussionNotFound
	}
	return views[0], nil
}

func (m *discussionRepository) FetchIDs(ctx context.Context, cursor, limit int64) (ids []int64, err error) {
	err = m.DB.WithContext(ctx).
		Model(&model.Discussion{}).
		Select("id").
		Where("id > ?", cursor).
		Order("id").
		Limit(int(limit)).
		Find(&ids).Error
	return
}

func discussionNotFoundOr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrDiscussionNotFound
	}
	return err
}
