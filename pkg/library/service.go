package library

import (
	"context"
	"math"
	"strings"

	"github.com/pkg/errors"
	"github.com/shishobooks/shelf/pkg/errcodes"
	"github.com/shishobooks/shelf/pkg/models"
)

// BookStore owns book records. FindBook returns nil, nil when the title is
// unknown. Changes to a returned book only take effect once it is passed back
// to SaveBook.
type BookStore interface {
	FindBook(ctx context.Context, title string) (*models.Book, error)
	SaveBook(ctx context.Context, book *models.Book) error
	GetAllBooks(ctx context.Context) ([]*models.Book, error)
}

type MemberDirectory interface {
	IsValidMember(ctx context.Context, memberID int) (bool, error)
}

type Notifier interface {
	NotifyBorrow(ctx context.Context, memberID int, title string) error
	NotifyReturn(ctx context.Context, memberID int, title string) error
}

// Service holds the lending rules: it adjusts copy counts, checks members
// before lending, and reports borrows and returns. It keeps no state of its
// own. Errors from the collaborators are returned as is.
type Service struct {
	store    BookStore
	members  MemberDirectory
	notifier Notifier
}

func NewService(store BookStore, members MemberDirectory, notifier Notifier) *Service {
	return &Service{
		store:    store,
		members:  members,
		notifier: notifier,
	}
}

// AddBook adds copies of a title to the shelf, creating the book the first
// time the title is seen.
func (svc *Service) AddBook(ctx context.Context, title string, copies int) error {
	if strings.TrimSpace(title) == "" {
		return errcodes.InvalidArgument("title")
	}
	if copies <= 0 {
		return errcodes.InvalidArgument("copies")
	}

	book, err := svc.store.FindBook(ctx, title)
	if err != nil {
		return errors.WithStack(err)
	}

	if book == nil {
		book = &models.Book{Title: title, Copies: copies}
	} else {
		if book.Copies > math.MaxInt-copies {
			return errcodes.InvalidArgument("copies")
		}
		book.Copies += copies
	}

	return errors.WithStack(svc.store.SaveBook(ctx, book))
}

// BorrowBook lends one copy of title to the member. It returns false when no
// copy is on the shelf, which includes titles that were never added.
func (svc *Service) BorrowBook(ctx context.Context, memberID int, title string) (bool, error) {
	valid, err := svc.members.IsValidMember(ctx, memberID)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if !valid {
		return false, errcodes.InvalidOperation("invalid member")
	}

	book, err := svc.store.FindBook(ctx, title)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if book == nil || !book.IsAvailable() {
		return false, nil
	}

	book.Copies--
	if err := svc.store.SaveBook(ctx, book); err != nil {
		return false, errors.WithStack(err)
	}

	if err := svc.notifier.NotifyBorrow(ctx, memberID, title); err != nil {
		return false, errors.WithStack(err)
	}

	return true, nil
}

// ReturnBook puts one copy of title back on the shelf. Unknown titles are
// refused with false. The member is not checked.
func (svc *Service) ReturnBook(ctx context.Context, memberID int, title string) (bool, error) {
	book, err := svc.store.FindBook(ctx, title)
	if err != nil {
		return false, errors.WithStack(err)
	}
	if book == nil {
		return false, nil
	}
	if book.Copies == math.MaxInt {
		return false, errcodes.InvalidOperation("copy count limit reached")
	}

	book.Copies++
	if err := svc.store.SaveBook(ctx, book); err != nil {
		return false, errors.WithStack(err)
	}

	if err := svc.notifier.NotifyReturn(ctx, memberID, title); err != nil {
		return false, errors.WithStack(err)
	}

	return true, nil
}

// GetAvailableBooks returns the books with at least one copy, in the order the
// store lists them. The result is never nil.
func (svc *Service) GetAvailableBooks(ctx context.Context) ([]*models.Book, error) {
	all, err := svc.store.GetAllBooks(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	available := make([]*models.Book, 0, len(all))
	for _, book := range all {
		if book.IsAvailable() {
			available = append(available, book)
		}
	}
	return available, nil
}
