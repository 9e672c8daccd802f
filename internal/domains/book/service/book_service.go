package service

import (
	"context"
	"fmt"

	"library-api/internal/domains/book/model"
	"library-api/internal/domains/book/repository"
)

type BookService struct {
	repo repository.RepositoryInterface
}

func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &BookService{repo: repo}
}

func (s *BookService) Create(ctx context.Context, book *model.Book) (*model.Book, error) {
	exists, err := s.repo.ExistsByISBN(ctx, book.ISBN)
	if err != nil {
		return nil, fmt.Errorf("check isbn uniqueness: %w", err)
	}
	if exists {
		return nil, model.ErrISBNAlreadyExists
	}

	id, err := s.repo.Create(ctx, book)
	if err != nil {
		return nil, err
	}

	book.ID = id
	return book, nil
}

func (s *BookService) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BookService) GetByISBN(ctx context.Context, isbn string) (*model.Book, error) {
	return s.repo.GetByISBN(ctx, isbn)
}

func (s *BookService) Update(ctx context.Context, book *model.Book) (*model.Book, error) {
	if book == nil || book.ID == 0 {
		return nil, model.ErrNilBookID
	}

	if err := s.repo.Update(ctx, book); err != nil {
		return nil, err
	}

	return book, nil
}

func (s *BookService) Delete(ctx context.Context, book *model.Book) error {
	if book == nil || book.ID == 0 {
		return model.ErrNilBookID
	}

	return s.repo.Delete(ctx, book.ID)
}

func (s *BookService) Find(ctx context.Context, filter model.Filter, page, size int) ([]model.Book, int, error) {
	return s.repo.List(ctx, filter, size, page*size)
}
