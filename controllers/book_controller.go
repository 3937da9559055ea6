package controllers

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/Shanilka-Yapa/Libricore/middleware"
	"github.com/Shanilka-Yapa/Libricore/services"
	"github.com/Shanilka-Yapa/Libricore/utils"
	"github.com/gorilla/mux"
)

const maxCoverImageSize = 5 << 20 // 5 MiB

// BookController handles catalogue requests
type BookController struct {
	bookService *services.BookService
	uploadDir   string
}

// NewBookController creates a new BookController instance
func NewBookController(bookService *services.BookService, uploadDir string) *BookController {
	return &BookController{
		bookService: bookService,
		uploadDir:   uploadDir,
	}
}

// List handles listing the catalogue
func (c *BookController) List(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	books, err := c.bookService.List(caller.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"books": books})
}

// Create handles adding a book. The request is multipart form data so a
// cover image can be uploaded alongside the fields.
func (c *BookController) Create(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(maxCoverImageSize); err != nil {
		http.Error(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	dto := services.CreateBookDTO{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		Genre:       r.FormValue("genre"),
		Description: r.FormValue("description"),
	}

	if raw := r.FormValue("publishedDate"); raw != "" {
		publishedDate, err := time.Parse("2006-01-02", raw)
		if err != nil {
			http.Error(w, "Invalid publishedDate, expected YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		dto.PublishedDate = publishedDate
	}

	coverPath, err := c.saveCoverImage(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	dto.CoverImage = coverPath

	book, err := c.bookService.Create(caller.UserID, dto)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"book":    book,
	})
}

// Delete handles removing a book from the catalogue
func (c *BookController) Delete(w http.ResponseWriter, r *http.Request) {
	caller, err := middleware.CallerFromContext(r)
	if err != nil {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		http.Error(w, "Invalid book ID", http.StatusBadRequest)
		return
	}

	if err := c.bookService.Delete(caller.UserID, uint(id)); err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Book deleted successfully"})
}

// saveCoverImage stores an uploaded cover image under the upload
// directory and returns its relative path, or "" when none was sent
func (c *BookController) saveCoverImage(r *http.Request) (string, error) {
	file, header, err := r.FormFile("coverImage")
	if err != nil {
		if err == http.ErrMissingFile {
			return "", nil
		}
		return "", fmt.Errorf("invalid cover image upload")
	}
	defer file.Close()

	if err := os.MkdirAll(c.uploadDir, 0755); err != nil {
		return "", fmt.Errorf("failed to prepare upload directory")
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixNano(), filepath.Ext(header.Filename))
	path := filepath.Join(c.uploadDir, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to store cover image")
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		utils.LogError("Cover image write failed: %v", err)
		return "", fmt.Errorf("failed to store cover image")
	}

	return path, nil
}
