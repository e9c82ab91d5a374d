package errx

import (
	"errors"
	"fmt"
	"testing"
)

func TestE(t *testing.T) {
	t.Run("returns nil when error is nil", func(t *testing.T) {
		if got := E("op", NotFound, nil); got != nil {
			t.Errorf("E() with nil error = %v, want nil", got)
		}
	})

	t.Run("constructs Error with all fields", func(t *testing.T) {
		root := errors.New("no rows")
		err := E("category.repo.Get", NotFound, root)

		var e *Error
		if !errors.As(err, &e) {
			t.Fatal("expected error to be of type *errx.Error")
		}
		if got, want := e.Op, "category.repo.Get"; got != want {
			t.Errorf("Op = %q, want %q", got, want)
		}
		if got, want := e.Kind, NotFound; got != want {
			t.Errorf("Kind = %v, want %v", got, want)
		}
		if !errors.Is(e.Err, root) {
			t.Errorf("Err = %v, want %v", e.Err, root)
		}
	})

	t.Run("preserves all error kinds", func(t *testing.T) {
		kinds := []Kind{Unknown, NotFound, Conflict, Invalid, Unauthorized, Forbidden, Unavailable, Internal, Misuse}
		root := errors.New("test error")

		for _, kind := range kinds {
			t.Run(kind.String(), func(t *testing.T) {
				if got := KindOf(E("operation", kind, root)); got != kind {
					t.Errorf("KindOf() = %v, want %v", got, kind)
				}
			})
		}
	})
}

func TestWrap(t *testing.T) {
	t.Run("keeps the inner kind", func(t *testing.T) {
		inner := E("bookmark.repo.DeleteOwned", Unauthorized, errors.New("no match"))
		outer := Wrap("bookmark.store.Delete", inner)

		if got := KindOf(outer); got != Unauthorized {
			t.Errorf("KindOf() = %v, want %v", got, Unauthorized)
		}
		if got := OpOf(outer); got != "bookmark.store.Delete" {
			t.Errorf("OpOf() = %q, want bookmark.store.Delete", got)
		}
	})

	t.Run("plain errors become Unknown", func(t *testing.T) {
		if got := KindOf(Wrap("op", errors.New("boom"))); got != Unknown {
			t.Errorf("KindOf() = %v, want %v", got, Unknown)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if Wrap("op", nil) != nil {
			t.Error("Wrap(nil) should be nil")
		}
	})
}

func TestError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "nil inner error returns op",
			err:  &Error{Op: "api.GetBookmark", Kind: NotFound},
			want: "api.GetBookmark",
		},
		{
			name: "empty op returns inner error message",
			err:  &Error{Kind: Unknown, Err: errors.New("root cause")},
			want: "root cause",
		},
		{
			name: "normal case formats op and error",
			err:  &Error{Op: "category.store.Delete", Kind: Unauthorized, Err: errors.New("root cause")},
			want: "category.store.Delete: root cause",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	t.Run("returns Unknown for standard and nil errors", func(t *testing.T) {
		if got := KindOf(errors.New("standard")); got != Unknown {
			t.Errorf("KindOf() = %v, want %v", got, Unknown)
		}
		if got := KindOf(nil); got != Unknown {
			t.Errorf("KindOf(nil) = %v, want %v", got, Unknown)
		}
	})

	t.Run("extracts kind through wrapping chain", func(t *testing.T) {
		repo := E("bookmark.repo.Get", Misuse, errors.New("released"))
		store := Wrap("bookmark.store.GetByID", repo)
		wrapped := fmt.Errorf("handler: %w", store)

		if got := KindOf(wrapped); got != Misuse {
			t.Errorf("KindOf() = %v, want %v", got, Misuse)
		}
	})
}

func TestIs(t *testing.T) {
	err := E("op", Unauthorized, errors.New("x"))
	if !Is(err, Unauthorized) {
		t.Error("Is(err, Unauthorized) = false, want true")
	}
	if Is(err, NotFound) {
		t.Error("Is(err, NotFound) = true, want false")
	}
	if Is(nil, Unknown) {
		t.Error("Is(nil, Unknown) = true, want false")
	}
}

func TestOpOf(t *testing.T) {
	if got := OpOf(errors.New("standard")); got != "" {
		t.Errorf("OpOf() = %q, want empty string", got)
	}

	root := errors.New("root")
	repo := E("category.repo.Insert", Unavailable, root)
	store := Wrap("category.store.Create", repo)
	if got, want := OpOf(store), "category.store.Create"; got != want {
		t.Errorf("OpOf() = %q, want %q", got, want)
	}
}

func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Unknown, "Unknown"},
		{NotFound, "NotFound"},
		{Conflict, "Conflict"},
		{Invalid, "Invalid"},
		{Unauthorized, "Unauthorized"},
		{Forbidden, "Forbidden"},
		{Unavailable, "Unavailable"},
		{Internal, "Internal"},
		{Misuse, "Misuse"},
		{Kind(99), "Kind(99)"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("Kind.String() = %q, want %q", got, tt.want)
			}
		})
	}
}
