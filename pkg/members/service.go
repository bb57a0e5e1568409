package members

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shishobooks/shelf/pkg/errcodes"
	"github.com/shishobooks/shelf/pkg/models"
	"github.com/uptrace/bun"
)

type ListMembersOptions struct {
	Limit              *int
	Offset             *int
	IncludeDeactivated bool

	includeTotal bool
}

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

func (svc *Service) CreateMember(ctx context.Context, member *models.Member) error {
	member.Name = strings.TrimSpace(member.Name)
	if member.Name == "" {
		return errcodes.ValidationError("Member name cannot be empty")
	}

	now := time.Now()
	if member.CreatedAt.IsZero() {
		member.CreatedAt = now
	}
	member.UpdatedAt = member.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(member).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveMember(ctx context.Context, id int) (*models.Member, error) {
	member := &models.Member{}

	err := svc.db.
		NewSelect().
		Model(member).
		Where("m.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Member")
		}
		return nil, errors.WithStack(err)
	}

	return member, nil
}

// IsValidMember reports whether id belongs to a member who hasn't been
// deactivated.
func (svc *Service) IsValidMember(ctx context.Context, id int) (bool, error) {
	if id <= 0 {
		return false, nil
	}
	exists, err := svc.db.
		NewSelect().
		Model((*models.Member)(nil)).
		Where("m.id = ?", id).
		Where("m.deactivated_at IS NULL").
		Exists(ctx)
	return exists, errors.WithStack(err)
}

func (svc *Service) ListMembers(ctx context.Context, opts ListMembersOptions) ([]*models.Member, error) {
	m, _, err := svc.listMembersWithTotal(ctx, opts)
	return m, errors.WithStack(err)
}

func (svc *Service) ListMembersWithTotal(ctx context.Context, opts ListMembersOptions) ([]*models.Member, int, error) {
	opts.includeTotal = true
	return svc.listMembersWithTotal(ctx, opts)
}

func (svc *Service) listMembersWithTotal(ctx context.Context, opts ListMembersOptions) ([]*models.Member, int, error) {
	members := []*models.Member{}
	var total int
	var err error

	q := svc.db.
		NewSelect().
		Model(&members).
		Order("m.id ASC")

	if !opts.IncludeDeactivated {
		q = q.Where("m.deactivated_at IS NULL")
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

	return members, total, nil
}

// DeactivateMember stops a member from borrowing. Deactivating twice keeps the
// original timestamp.
func (svc *Service) DeactivateMember(ctx context.Context, id int) error {
	member, err := svc.RetrieveMember(ctx, id)
	if err != nil {
		return err
	}
	if !member.IsActive() {
		return nil
	}

	now := time.Now()
	member.DeactivatedAt = &now
	member.UpdatedAt = now

	_, err = svc.db.
		NewUpdate().
		Model(member).
		Column("deactivated_at", "updated_at").
		WherePK().
		Exec(ctx)
	return errors.WithStack(err)
}
