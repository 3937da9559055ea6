package services

import (
	"fmt"
	"time"

	"github.com/Shanilka-Yapa/Libricore/models"
	"github.com/go-playground/validator/v10"
)

// BookStore is the owner-scoped persistence contract for the catalogue
type BookStore interface {
	InsertBook(book *models.Book) error
	FindBooks(ownerID uint) ([]models.Book, error)
	DeleteBook(ownerID uint, id uint) (int64, error)
}

// CreateBookDTO represents the data for cataloguing a book
type CreateBookDTO struct {
	Title         string    `json:"title" validate:"required,max=255"`
	Author        string    `json:"author" validate:"required,max=255"`
	Genre         string    `json:"genre" validate:"omitempty,max=100"`
	PublishedDate time.Time `json:"publishedDate"`
	Description   string    `json:"description" validate:"omitempty,max=1000"`
	CoverImage    string    `json:"coverImage" validate:"omitempty,max=255"`
}

// BookService manages the book catalogue
type BookService struct {
	store     BookStore
	validator *validator.Validate
}

// NewBookService creates a new BookService instance
func NewBookService(store BookStore) *BookService {
	return &BookService{
		store:     store,
		validator: validator.New(),
	}
}

// List returns all catalogued books for the owner
func (s *BookService) List(ownerID uint) ([]models.Book, error) {
	return s.store.FindBooks(ownerID)
}

// Create adds a book to the owner's catalogue
func (s *BookService) Create(ownerID uint, dto CreateBookDTO) (*models.Book, error) {
	if err := s.validator.Struct(dto); err != nil {
		return nil, validationError(err)
	}

	book := &models.Book{
		OwnerID:       ownerID,
		Title:         dto.Title,
		Author:        dto.Author,
		Genre:         dto.Genre,
		PublishedDate: dto.PublishedDate,
		Description:   dto.Description,
		CoverImage:    dto.CoverImage,
	}

	if err := s.store.InsertBook(book); err != nil {
		return nil, fmt.Errorf("failed to insert book: %w", err)
	}

	return book, nil
}

// Delete removes a book from the owner's catalogue
func (s *BookService) Delete(ownerID uint, id uint) error {
	rows, err := s.store.DeleteBook(ownerID, id)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	if rows == 0 {
		return ErrBookNotFound
	}
	return nil
}
