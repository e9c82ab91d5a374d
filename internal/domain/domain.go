// Package domain defines the bookmark and category records shared by the stores
// and the HTTP layer.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	MaxCategoryNameLength     = 50
	MaxURLLength              = 500
	MaxShortDescriptionLength = 100
)

// ErrValidation is wrapped by every field validation failure.
var ErrValidation = errors.New("validation failed")

// Category groups bookmarks under a name. Names are not unique.
type Category struct {
	ID      int64  `json:"id"`
	Name    string `json:"name" validate:"max=50,nonul"`
	OwnerID string `json:"ownerId"`
	// Bookmarks is a back-reference, filled only by reads that ask for it.
	Bookmarks []Bookmark `json:"bookmarks,omitempty"`
}

// Bookmark is a saved URL. CategoryID, when set, must point at a category with the
// same OwnerID.
type Bookmark struct {
	ID               int64     `json:"id"`
	URL              string    `json:"url" validate:"required,max=500,nonul"`
	ShortDescription string    `json:"shortDescription" validate:"required,max=100,nonul"`
	CategoryID       *int64    `json:"categoryId,omitempty" validate:"omitempty,gt=0"`
	Category         *Category `json:"category,omitempty"`
	OwnerID          string    `json:"ownerId"`
	CreatedAt        time.Time `json:"createdAt"`
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// PostgreSQL text cannot hold U+0000.
		if err := validate.RegisterValidation("nonul", func(fl validator.FieldLevel) bool {
			return !strings.ContainsRune(fl.Field().String(), 0)
		}); err != nil {
			panic(err)
		}
	})
	return validate
}

// Validate checks the caller-editable fields of a category.
func (c Category) Validate() error {
	return structError(validatorInstance().StructPartial(c, "Name"))
}

// Validate checks the caller-editable fields of a bookmark.
func (b Bookmark) Validate() error {
	return structError(validatorInstance().StructPartial(b, "URL", "ShortDescription", "CategoryID"))
}

// HasCategory reports whether the bookmark references a category.
func (b Bookmark) HasCategory() bool {
	return b.CategoryID != nil
}

func structError(err error) error {
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", fe.Field()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param()))
		case "nonul":
			msgs = append(msgs, fmt.Sprintf("%s must not contain NUL characters", fe.Field()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s must be positive", fe.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("%s is invalid", fe.Field()))
		}
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}
