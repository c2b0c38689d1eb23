package catalog

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
)

func setupService(t *testing.T) (*Service, *database.Database) {
	t.Helper()
	db, err := database.NewDatabase(config.Database{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "catalog.sqlite"),
	}, logger.Silent)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewService(db), db
}

func mustAuthor(t *testing.T, svc *Service, name string) *entities.Author {
	t.Helper()
	author, err := svc.AddAuthor(context.Background(), AuthorInput{Name: name})
	require.NoError(t, err)
	return author
}

func mustBook(t *testing.T, svc *Service, authorID uint, isbn, title, rating string) *entities.Book {
	t.Helper()
	book, err := svc.AddBook(context.Background(), BookInput{
		ISBN:     isbn,
		Title:    title,
		Rating:   rating,
		AuthorID: strconv.FormatUint(uint64(authorID), 10),
	})
	require.NoError(t, err)
	return book
}

func bookCount(t *testing.T, db *database.Database) int64 {
	t.Helper()
	count, err := db.Work(context.Background()).Books.Count()
	require.NoError(t, err)
	return count
}

func bookTitles(books []entities.Book) []string {
	out := make([]string, 0, len(books))
	for _, b := range books {
		out = append(out, b.Title)
	}
	return out
}

func TestAddAuthor(t *testing.T) {
	ctx := context.Background()

	t.Run("blank name is rejected without a write", func(t *testing.T) {
		svc, db := setupService(t)

		for _, name := range []string{"", "   ", "\t\n"} {
			_, err := svc.AddAuthor(ctx, AuthorInput{Name: name})
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Equal(t, MsgNameRequired, MessageOf(err))
		}

		count, err := db.Work(ctx).Authors.Count()
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("valid name is persisted trimmed and listed", func(t *testing.T) {
		svc, _ := setupService(t)

		author, err := svc.AddAuthor(ctx, AuthorInput{
			Name:        "  Ursula K. Le Guin ",
			BirthDate:   "1929-10-21",
			DateOfDeath: "not a date",
		})
		require.NoError(t, err)
		assert.Equal(t, "Ursula K. Le Guin", author.Name)

		authors, err := svc.ListAuthors(ctx)
		require.NoError(t, err)
		require.Len(t, authors, 1)
		assert.Equal(t, "Ursula K. Le Guin", authors[0].Name)
		assert.Equal(t, "1929-10-21", entities.FormatDate(authors[0].BirthDate))
		assert.Nil(t, authors[0].DateOfDeath)
	})

	t.Run("storage failure is reported generically", func(t *testing.T) {
		svc, db := setupService(t)
		require.NoError(t, db.Close())

		_, err := svc.AddAuthor(ctx, AuthorInput{Name: "Orwell"})
		require.Error(t, err)
		assert.Equal(t, KindStorage, KindOf(err))
		assert.Equal(t, MsgSaveAuthorFailed, MessageOf(err))
	})
}

func TestAddBook(t *testing.T) {
	ctx := context.Background()

	t.Run("round trip keeps every field", func(t *testing.T) {
		svc, _ := setupService(t)
		author := mustAuthor(t, svc, "George Orwell")

		created, err := svc.AddBook(ctx, BookInput{
			ISBN:            " 978-0451524935 ",
			Title:           "1984",
			PublicationYear: "1949",
			Rating:          "9",
			AuthorID:        strconv.FormatUint(uint64(author.ID), 10),
		})
		require.NoError(t, err)

		fetched, err := svc.BookDetail(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "978-0451524935", fetched.ISBN)
		assert.Equal(t, "1984", fetched.Title)
		require.NotNil(t, fetched.PublicationYear)
		assert.Equal(t, 1949, *fetched.PublicationYear)
		require.NotNil(t, fetched.Rating)
		assert.Equal(t, 9, *fetched.Rating)
		assert.Equal(t, author.ID, fetched.AuthorID)
		require.NotNil(t, fetched.Author)
		assert.Equal(t, "George Orwell", fetched.Author.Name)
	})

	t.Run("missing fields", func(t *testing.T) {
		svc, db := setupService(t)
		author := mustAuthor(t, svc, "Orwell")
		id := strconv.FormatUint(uint64(author.ID), 10)

		inputs := []BookInput{
			{Title: "1984", AuthorID: id},
			{ISBN: "1", AuthorID: id},
			{ISBN: "1", Title: "1984"},
			{ISBN: "1", Title: "1984", AuthorID: "abc"},
			{ISBN: "1", Title: "1984", AuthorID: "0"},
			{ISBN: "  ", Title: "1984", AuthorID: id},
		}
		for _, in := range inputs {
			_, err := svc.AddBook(ctx, in)
			require.Error(t, err)
			assert.Equal(t, KindValidation, KindOf(err))
			assert.Equal(t, MsgBookFieldsRequired, MessageOf(err))
		}
		assert.Zero(t, bookCount(t, db))
	})

	t.Run("unknown author performs no write", func(t *testing.T) {
		svc, db := setupService(t)

		for _, id := range []string{"42", "-3"} {
			_, err := svc.AddBook(ctx, BookInput{ISBN: "1", Title: "1984", AuthorID: id})
			require.Error(t, err)
			assert.Equal(t, KindNotFound, KindOf(err))
			assert.Equal(t, MsgSelectedAuthorGone, MessageOf(err))
		}
		assert.Zero(t, bookCount(t, db))
	})

	t.Run("duplicate isbn leaves store unchanged", func(t *testing.T) {
		svc, db := setupService(t)
		author := mustAuthor(t, svc, "Orwell")
		mustBook(t, svc, author.ID, "123", "1984", "")
		before := bookCount(t, db)

		_, err := svc.AddBook(ctx, BookInput{
			ISBN:     "123",
			Title:    "Animal Farm",
			AuthorID: strconv.FormatUint(uint64(author.ID), 10),
		})
		require.Error(t, err)
		assert.Equal(t, KindConflict, KindOf(err))
		assert.Equal(t, MsgDuplicateISBN, MessageOf(err))
		assert.Equal(t, before, bookCount(t, db))
	})

	t.Run("bad optional numbers are stored as absent", func(t *testing.T) {
		svc, _ := setupService(t)
		author := mustAuthor(t, svc, "Orwell")

		for i, rating := range []string{"0", "11", "seven", ""} {
			book, err := svc.AddBook(ctx, BookInput{
				ISBN:            "isbn-" + strconv.Itoa(i),
				Title:           "Book " + rating,
				PublicationYear: "nineteen",
				Rating:          rating,
				AuthorID:        strconv.FormatUint(uint64(author.ID), 10),
			})
			require.NoError(t, err)

			fetched, err := svc.BookDetail(ctx, book.ID)
			require.NoError(t, err)
			assert.Nil(t, fetched.Rating, "rating %q", rating)
			assert.Nil(t, fetched.PublicationYear)
		}
	})
}

func TestListBooks(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	smith := mustAuthor(t, svc, "Zadie Smith")
	orwell := mustAuthor(t, svc, "George Orwell")
	mustBook(t, svc, smith.ID, "111", "NW", "")
	mustBook(t, svc, orwell.ID, "222", "The Blacksmith's Tale", "")
	mustBook(t, svc, orwell.ID, "smith-333", "Burmese Days", "")
	mustBook(t, svc, orwell.ID, "444", "Animal Farm", "")

	t.Run("default sort is title only", func(t *testing.T) {
		list, err := svc.ListBooks(ctx, ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, SortTitle, list.Sort)
		assert.False(t, list.NoResults)
		assert.Equal(t, []string{"Animal Farm", "Burmese Days", "NW", "The Blacksmith's Tale"}, bookTitles(list.Books))
	})

	t.Run("author sort orders by author then title", func(t *testing.T) {
		list, err := svc.ListBooks(ctx, ListQuery{Sort: "AUTHOR"})
		require.NoError(t, err)
		assert.Equal(t, SortAuthor, list.Sort)
		assert.Equal(t, []string{"Animal Farm", "Burmese Days", "The Blacksmith's Tale", "NW"}, bookTitles(list.Books))
	})

	t.Run("unknown sort falls back to title", func(t *testing.T) {
		list, err := svc.ListBooks(ctx, ListQuery{Sort: "year"})
		require.NoError(t, err)
		assert.Equal(t, "year", list.Sort)
		assert.Equal(t, []string{"Animal Farm", "Burmese Days", "NW", "The Blacksmith's Tale"}, bookTitles(list.Books))
	})

	t.Run("search matches title isbn or author", func(t *testing.T) {
		list, err := svc.ListBooks(ctx, ListQuery{Query: " SMITH "})
		require.NoError(t, err)
		assert.Equal(t, "SMITH", list.Query)
		assert.False(t, list.NoResults)
		assert.ElementsMatch(t, []string{"NW", "The Blacksmith's Tale", "Burmese Days"}, bookTitles(list.Books))
	})

	t.Run("search without matches sets no results", func(t *testing.T) {
		list, err := svc.ListBooks(ctx, ListQuery{Query: "tolstoy"})
		require.NoError(t, err)
		assert.Empty(t, list.Books)
		assert.True(t, list.NoResults)
	})
}

func TestAuthorDetail(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	author := mustAuthor(t, svc, "Orwell")
	mustBook(t, svc, author.ID, "1", "burmese Days", "")
	mustBook(t, svc, author.ID, "2", "Animal Farm", "")
	mustBook(t, svc, author.ID, "3", "Coming Up for Air", "")

	found, books, err := svc.AuthorDetail(ctx, author.ID)
	require.NoError(t, err)
	assert.Equal(t, "Orwell", found.Name)
	assert.Equal(t, []string{"Animal Farm", "burmese Days", "Coming Up for Air"}, bookTitles(books))

	_, _, err = svc.AuthorDetail(ctx, 999)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, MsgAuthorNotFound, MessageOf(err))
}

func TestDeleteAuthor(t *testing.T) {
	ctx := context.Background()
	svc, db := setupService(t)

	author := mustAuthor(t, svc, "Orwell")
	other := mustAuthor(t, svc, "Huxley")
	var ids []uint
	for i, title := range []string{"1984", "Animal Farm", "Burmese Days"} {
		ids = append(ids, mustBook(t, svc, author.ID, "o-"+strconv.Itoa(i), title, "").ID)
	}
	kept := mustBook(t, svc, other.ID, "h-1", "Brave New World", "")

	require.NoError(t, svc.DeleteAuthor(ctx, author.ID))

	_, _, err := svc.AuthorDetail(ctx, author.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	for _, id := range ids {
		_, err := svc.BookDetail(ctx, id)
		assert.Equal(t, KindNotFound, KindOf(err), "book %d should be gone", id)
	}
	_, err = svc.BookDetail(ctx, kept.ID)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), bookCount(t, db))

	err = svc.DeleteAuthor(ctx, author.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, MsgAuthorNotFound, MessageOf(err))
}

func TestRateBook(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	author := mustAuthor(t, svc, "Orwell")
	book := mustBook(t, svc, author.ID, "1", "1984", "4")

	for _, raw := range []string{"0", "11", "abc", "", "7.5"} {
		_, err := svc.RateBook(ctx, book.ID, raw)
		require.Error(t, err, "rating %q", raw)
		assert.Equal(t, KindValidation, KindOf(err))
		assert.Equal(t, MsgInvalidRating, MessageOf(err))

		fetched, err := svc.BookDetail(ctx, book.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, *fetched.Rating)
	}

	rating, err := svc.RateBook(ctx, book.ID, " 7 ")
	require.NoError(t, err)
	assert.Equal(t, 7, rating)

	fetched, err := svc.BookDetail(ctx, book.ID)
	require.NoError(t, err)
	require.NotNil(t, fetched.Rating)
	assert.Equal(t, 7, *fetched.Rating)

	_, err = svc.RateBook(ctx, 999, "abc")
	assert.Equal(t, KindNotFound, KindOf(err), "unknown book is reported before the bad value")
	assert.Equal(t, MsgBookNotFound, MessageOf(err))
}

func TestDeleteBook(t *testing.T) {
	ctx := context.Background()
	svc, db := setupService(t)
	author := mustAuthor(t, svc, "Orwell")
	book := mustBook(t, svc, author.ID, "1", "1984", "")

	require.NoError(t, svc.DeleteBook(ctx, book.ID))
	assert.Zero(t, bookCount(t, db))

	err := svc.DeleteBook(ctx, book.ID)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, MsgBookNotFound, MessageOf(err))

	_, _, err = svc.AuthorDetail(ctx, author.ID)
	assert.NoError(t, err, "deleting a book keeps its author")
}

func TestRecommendations(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)
	author := mustAuthor(t, svc, "Various")
	mustBook(t, svc, author.ID, "1", "Unrated", "")
	mustBook(t, svc, author.ID, "2", "Zeta", "8")
	mustBook(t, svc, author.ID, "3", "Middling", "3")
	mustBook(t, svc, author.ID, "4", "Alpha", "8")

	books, err := svc.Recommendations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Zeta", "Middling", "Unrated"}, bookTitles(books))
}

func TestParseDate(t *testing.T) {
	d := ParseDate("2001-02-03")
	require.NotNil(t, d)
	assert.Equal(t, time.Date(2001, 2, 3, 0, 0, 0, 0, time.UTC), time.Time(*d))

	for _, raw := range []string{"", "  ", "03.02.2001", "2001-13-01", "2001-2-3", "yesterday"} {
		assert.Nil(t, ParseDate(raw), raw)
	}
}

func TestParseOptionalIntAndRating(t *testing.T) {
	assert.Equal(t, 1949, *ParseOptionalInt(" 1949 "))
	assert.Nil(t, ParseOptionalInt(""))
	assert.Nil(t, ParseOptionalInt("12abc"))

	assert.Equal(t, 1, *ParseRating("1"))
	assert.Equal(t, 10, *ParseRating("10"))
	assert.Nil(t, ParseRating("0"))
	assert.Nil(t, ParseRating("11"))
	assert.Nil(t, ParseRating("x"))
}

func TestErrorHelpers(t *testing.T) {
	err := newError(KindConflict, MsgDuplicateISBN, assert.AnError)

	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, err, &Error{Kind: KindConflict, Message: MsgDuplicateISBN})
	assert.Equal(t, "conflict", KindOf(err).String())
	assert.Equal(t, Kind(0), KindOf(assert.AnError))
	assert.Equal(t, msgUnexpectedCondition, MessageOf(assert.AnError))
}
