package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/totegamma/apub-playground"
	"github.com/totegamma/apub-playground/internal/domain"
	"github.com/totegamma/apub-playground/internal/infra/database/models"
	"github.com/totegamma/apub-playground/internal/store"
)

// PostRepository is a Postgres-backed store of posts.
type PostRepository struct {
	db *gorm.DB
}

func NewPostRepository(db *gorm.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Insert(ctx context.Context, post domain.Post) error {
	row := models.Post{
		ID:      post.ID.String(),
		Creator: post.Creator.String(),
		Text:    post.Text,
		Local:   post.Local,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		DoNothing: true,
	}).Create(&row).Error
}

func (r *PostRepository) Get(ctx context.Context, key string) (domain.Post, error) {
	var row models.Post
	err := r.db.WithContext(ctx).
		Where("id = ?", key).
		Take(&row).Error
	if err != nil {
		return domain.Post{}, translate(err, key)
	}
	return postFromModel(row)
}

func (r *PostRepository) List(ctx context.Context) ([]domain.Post, error) {
	var rows []models.Post
	err := r.db.WithContext(ctx).
		Order("c_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	posts := make([]domain.Post, 0, len(rows))
	for _, row := range rows {
		post, err := postFromModel(row)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (r *PostRepository) Len() int {
	var count int64
	if err := r.db.Model(&models.Post{}).Count(&count).Error; err != nil {
		return 0
	}
	return int(count)
}

func postFromModel(row models.Post) (domain.Post, error) {
	id, err := apub.ParseObjectID[domain.Post](row.ID)
	if err != nil {
		return domain.Post{}, err
	}
	creator, err := apub.ParseObjectID[domain.Actor](row.Creator)
	if err != nil {
		return domain.Post{}, err
	}
	return domain.Post{
		ID:      id,
		Creator: creator,
		Text:    row.Text,
		Local:   row.Local,
	}, nil
}

var _ store.Store[domain.Post] = (*PostRepository)(nil)
