package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-api/internal/domains/book/model"
)

// fakeBookRepo is an in-memory stand-in for the postgres repository.
type fakeBookRepo struct {
	books  map[int64]*model.Book
	nextID int64

	existsByISBNErr error
	createErr       error

	createCalls int
	updateCalls int
	deleteCalls int

	lastFilter model.Filter
	lastLimit  int
	lastOffset int
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[int64]*model.Book{}, nextID: 1}
}

func (f *fakeBookRepo) Create(_ context.Context, book *model.Book) (int64, error) {
	f.createCalls++
	if f.createErr != nil {
		return 0, f.createErr
	}
	id := f.nextID
	f.nextID++
	stored := *book
	stored.ID = id
	f.books[id] = &stored
	return id, nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id int64) (*model.Book, error) {
	book, ok := f.books[id]
	if !ok {
		return nil, model.ErrBookNotFound
	}
	copied := *book
	return &copied, nil
}

func (f *fakeBookRepo) GetByISBN(_ context.Context, isbn string) (*model.Book, error) {
	for _, book := range f.books {
		if book.ISBN == isbn {
			copied := *book
			return &copied, nil
		}
	}
	return nil, model.ErrBookNotFound
}

func (f *fakeBookRepo) ExistsByISBN(_ context.Context, isbn string) (bool, error) {
	if f.existsByISBNErr != nil {
		return false, f.existsByISBNErr
	}
	for _, book := range f.books {
		if book.ISBN == isbn {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeBookRepo) Update(_ context.Context, book *model.Book) error {
	f.updateCalls++
	if _, ok := f.books[book.ID]; !ok {
		return model.ErrBookNotFound
	}
	copied := *book
	f.books[book.ID] = &copied
	return nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id int64) error {
	f.deleteCalls++
	if _, ok := f.books[id]; !ok {
		return model.ErrBookNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) List(_ context.Context, filter model.Filter, limit, offset int) ([]model.Book, int, error) {
	f.lastFilter = filter
	f.lastLimit = limit
	f.lastOffset = offset
	return nil, 0, nil
}

func Test_BookService_Create_AssignsID(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewService(repo)

	book, err := svc.Create(context.Background(), &model.Book{
		Title:  "As aventuras",
		Author: "Fulano",
		ISBN:   "123",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(1), book.ID)
	assert.Equal(t, 1, repo.createCalls)
}

func Test_BookService_Create_DuplicateISBN(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), &model.Book{Title: "a", Author: "b", ISBN: "123"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), &model.Book{Title: "c", Author: "d", ISBN: "123"})

	assert.ErrorIs(t, err, model.ErrISBNAlreadyExists)
	assert.Equal(t, 1, repo.createCalls, "the insert must not be attempted")
}

func Test_BookService_Create_UniquenessCheckFailure(t *testing.T) {
	repo := newFakeBookRepo()
	repo.existsByISBNErr = errors.New("connection reset")
	svc := NewService(repo)

	_, err := svc.Create(context.Background(), &model.Book{Title: "a", Author: "b", ISBN: "123"})

	assert.Error(t, err)
	assert.NotErrorIs(t, err, model.ErrISBNAlreadyExists)
	assert.Equal(t, 0, repo.createCalls)
}

func Test_BookService_GetByID_NotFound(t *testing.T) {
	svc := NewService(newFakeBookRepo())

	_, err := svc.GetByID(context.Background(), 99)

	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func Test_BookService_Update_NilID(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewService(repo)

	_, err := svc.Update(context.Background(), &model.Book{Title: "a", Author: "b"})
	assert.ErrorIs(t, err, model.ErrNilBookID)

	_, err = svc.Update(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrNilBookID)

	assert.Equal(t, 0, repo.updateCalls, "the store must not be touched")
}

func Test_BookService_Update_Persists(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.Book{Title: "a", Author: "b", ISBN: "123"})
	require.NoError(t, err)

	created.Title = "updated title"
	created.Author = "updated author"

	updated, err := svc.Update(context.Background(), created)
	require.NoError(t, err)
	assert.Equal(t, "updated title", updated.Title)

	stored, err := svc.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "updated title", stored.Title)
	assert.Equal(t, "updated author", stored.Author)
}

func Test_BookService_Delete_NilID(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewService(repo)

	err := svc.Delete(context.Background(), &model.Book{})
	assert.ErrorIs(t, err, model.ErrNilBookID)

	err = svc.Delete(context.Background(), nil)
	assert.ErrorIs(t, err, model.ErrNilBookID)

	assert.Equal(t, 0, repo.deleteCalls, "the store must not be touched")
}

func Test_BookService_Delete_Removes(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewService(repo)

	created, err := svc.Create(context.Background(), &model.Book{Title: "a", Author: "b", ISBN: "123"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created))

	_, err = svc.GetByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, model.ErrBookNotFound)
}

func Test_BookService_Find_TranslatesPaging(t *testing.T) {
	repo := newFakeBookRepo()
	svc := NewService(repo)

	filter := model.Filter{Title: "aventuras", Author: "Fulano"}
	_, _, err := svc.Find(context.Background(), filter, 2, 25)

	require.NoError(t, err)
	assert.Equal(t, filter, repo.lastFilter)
	assert.Equal(t, 25, repo.lastLimit)
	assert.Equal(t, 50, repo.lastOffset, "offset is page*size")
}
