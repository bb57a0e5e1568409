package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/shishobooks/shelf/pkg/models"
	"github.com/uptrace/bun"
)

type ListNotificationsOptions struct {
	Limit    *int
	Offset   *int
	MemberID *int
	Type     *string

	includeTotal bool
}

// Service records borrow and return notifications. Every notification is
// stored and also written to the request logger.
type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) NotifyBorrow(ctx context.Context, memberID int, title string) error {
	return svc.notify(ctx, models.NotificationTypeBorrow, memberID, title)
}

func (svc *Service) NotifyReturn(ctx context.Context, memberID int, title string) error {
	return svc.notify(ctx, models.NotificationTypeReturn, memberID, title)
}

func (svc *Service) notify(ctx context.Context, typ string, memberID int, title string) error {
	id, err := uuid.NewRandom()
	if err != nil {
		return errors.WithStack(err)
	}

	notification := &models.Notification{
		ID:        id.String(),
		CreatedAt: time.Now(),
		Type:      typ,
		MemberID:  memberID,
		Title:     title,
	}

	_, err = svc.db.
		NewInsert().
		Model(notification).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}

	logger.FromContext(ctx).Info("book "+typ+" notification", logger.Data{
		"notification_id": notification.ID,
		"type":            typ,
		"member_id":       memberID,
		"title":           title,
	})

	return nil
}

func (svc *Service) ListNotifications(ctx context.Context, opts ListNotificationsOptions) ([]*models.Notification, error) {
	n, _, err := svc.listNotificationsWithTotal(ctx, opts)
	return n, errors.WithStack(err)
}

func (svc *Service) ListNotificationsWithTotal(ctx context.Context, opts ListNotificationsOptions) ([]*models.Notification, int, error) {
	opts.includeTotal = true
	return svc.listNotificationsWithTotal(ctx, opts)
}

func (svc *Service) listNotificationsWithTotal(ctx context.Context, opts ListNotificationsOptions) ([]*models.Notification, int, error) {
	notifications := []*models.Notification{}
	var total int
	var err error

	// rowid breaks ties between notifications created in the same instant.
	q := svc.db.
		NewSelect().
		Model(&notifications).
		OrderExpr("n.created_at DESC, n.rowid DESC")

	if opts.MemberID != nil {
		q = q.Where("n.member_id = ?", *opts.MemberID)
	}
	if opts.Type != nil {
		q = q.Where("n.type = ?", *opts.Type)
	}
	if opts.Limit != nil {
		q = q.Limit(*opts.Limit)
	}
	if opts.Offset != nil {
		q = q.Offset(*opts.Offset)
	}

	if opts.includeTotal {
		total, err = q.ScanAndCount(ctx)
	} else {
		err = q.Scan(ctx)
	}
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return notifications, total, nil
}
