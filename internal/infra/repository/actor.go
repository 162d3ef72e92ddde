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

// ActorRepository is a Postgres-backed store of actors.
type ActorRepository struct {
	db *gorm.DB
}

func NewActorRepository(db *gorm.DB) *ActorRepository {
	return &ActorRepository{db: db}
}

// Insert refreshes the addresses of an already known actor.
func (r *ActorRepository) Insert(ctx context.Context, actor domain.Actor) error {
	row := models.Actor{
		ID:        actor.ID.String(),
		Name:      actor.Name,
		Inbox:     actor.Inbox,
		Followers: actor.Followers,
		Local:     actor.Local,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "inbox", "followers"}),
	}).Create(&row).Error
}

func (r *ActorRepository) Get(ctx context.Context, key string) (domain.Actor, error) {
	var row models.Actor
	err := r.db.WithContext(ctx).First(&row, "id = ?", key).Error
	if err != nil {
		return domain.Actor{}, translate(err, key)
	}
	return actorFromModel(row)
}

func (r *ActorRepository) List(ctx context.Context) ([]domain.Actor, error) {
	var rows []models.Actor
	if err := r.db.WithContext(ctx).Order("c_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	actors := make([]domain.Actor, 0, len(rows))
	for _, row := range rows {
		actor, err := actorFromModel(row)
		if err != nil {
			return nil, err
		}
		actors = append(actors, actor)
	}
	return actors, nil
}

func (r *ActorRepository) Len() int {
	var count int64
	if err := r.db.Model(&models.Actor{}).Count(&count).Error; err != nil {
		return 0
	}
	return int(count)
}

func actorFromModel(row models.Actor) (domain.Actor, error) {
	id, err := apub.ParseObjectID[domain.Actor](row.ID)
	if err != nil {
		return domain.Actor{}, err
	}
	return domain.Actor{
		ID:        id,
		Name:      row.Name,
		Inbox:     row.Inbox,
		Followers: row.Followers,
		Local:     row.Local,
	}, nil
}

var _ store.Store[domain.Actor] = (*ActorRepository)(nil)
