package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/salon-scheduler/internal/models"
	"github.com/BruksfildServices01/salon-scheduler/internal/notify"
)

type NotificationGormRepository struct {
	db *gorm.DB
}

func NewNotificationGormRepository(db *gorm.DB) *NotificationGormRepository {
	return &NotificationGormRepository{db: db}
}

func (r *NotificationGormRepository) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationGormRepository) UpdateNotification(ctx context.Context, n *models.Notification) error {
	return r.db.WithContext(ctx).
		Model(n).
		Where("salon_id = ?", n.SalonID).
		Select("*").
		Omit("CreatedAt").
		Updates(n).Error
}

// ListPending returns pending notifications, oldest first. salonID 0
// means every salon.
func (r *NotificationGormRepository) ListPending(ctx context.Context, salonID uint, limit int) ([]models.Notification, error) {
	q := r.db.WithContext(ctx).Where("status = ?", models.NotificationPending)
	if salonID != 0 {
		q = q.Where("salon_id = ?", salonID)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}

	var out []models.Notification
	if err := q.Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

var _ notify.Store = (*NotificationGormRepository)(nil)
