// Package cli implements the command line subcommands.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"bookshelf/internal/config"
	"bookshelf/internal/database"
	"bookshelf/internal/database/books"
	"bookshelf/internal/database/genres"
	"bookshelf/internal/entities"
	"bookshelf/internal/search"
)

func searchByTitle(title string) search.SearchFilters {
	f := search.DefaultFilters()
	f.Search = title
	return f
}

func defaultSort() search.SortOption {
	return search.DefaultSort()
}

// SeedCommand populates the database with a starter set of genres and
// classic books. Running it twice is safe: existing genres and titles
// are skipped.
type SeedCommand struct {
	DatabasePath string
	Verbose      bool
}

func NewSeedCommand() *SeedCommand {
	return &SeedCommand{}
}

// ParseFlags parses command line flags.
func (cmd *SeedCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s seed [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Populate the database with starter genres and books.\n\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

var seedGenres = []string{
	"Fiction",
	"Science Fiction",
	"Fantasy",
	"Dystopia",
	"Romance",
	"Mystery",
	"Thriller",
	"Horror",
	"Biography",
	"History",
	"Philosophy",
	"Poetry",
	"Adventure",
	"Classics",
	"Non-fiction",
}

type seedBook struct {
	title  string
	author string
	genre  string
	year   int
	pages  int
	rating int
	status entities.BookStatus
}

var seedBooks = []seedBook{
	{"1984", "George Orwell", "Dystopia", 1949, 328, 5, entities.StatusFinished},
	{"The Lord of the Rings", "J.R.R. Tolkien", "Fantasy", 1954, 1216, 5, entities.StatusFinished},
	{"Dune", "Frank Herbert", "Science Fiction", 1965, 412, 4, entities.StatusFinished},
	{"Pride and Prejudice", "Jane Austen", "Romance", 1813, 432, 4, entities.StatusFinished},
	{"The Name of the Rose", "Umberto Eco", "Mystery", 1980, 512, 0, entities.StatusReading},
	{"Meditations", "Marcus Aurelius", "Philosophy", 180, 256, 0, entities.StatusWantToRead},
}

// Run executes the seed command.
func (cmd *SeedCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	genreRepo := genres.NewRepository(db.DB)
	bookRepo := books.NewRepository(db.DB)

	byName := make(map[string]string, len(seedGenres))
	created := 0
	for _, name := range seedGenres {
		genre, err := genreRepo.Create(name)
		if errors.Is(err, genres.ErrDuplicateGenre) {
			genre, err = genreRepo.FindByName(name)
		}
		if err != nil {
			return fmt.Errorf("failed to seed genre %q: %w", name, err)
		}
		byName[name] = genre.ID
		created++
		if cmd.Verbose {
			log.Printf("Genre %q -> %s", name, genre.ID)
		}
	}

	seeded := 0
	for _, sb := range seedBooks {
		existing, _, err := bookRepo.List(searchByTitle(sb.title), defaultSort(), 1, 1)
		if err != nil {
			return fmt.Errorf("failed to check existing book %q: %w", sb.title, err)
		}
		if len(existing) > 0 {
			if cmd.Verbose {
				log.Printf("Book %q already present, skipping", sb.title)
			}
			continue
		}

		book := entities.Book{
			Title:   sb.title,
			Author:  sb.author,
			Year:    sb.year,
			Pages:   sb.pages,
			Rating:  sb.rating,
			Status:  sb.status,
			GenreID: byName[sb.genre],
		}
		if sb.status == entities.StatusFinished {
			book.CurrentPage = sb.pages
		}
		if err := bookRepo.Create(&book); err != nil {
			return fmt.Errorf("failed to seed book %q: %w", sb.title, err)
		}
		seeded++
	}

	log.Printf("Seeded %d genres and %d books into %s", created, seeded, cmd.DatabasePath)
	return nil
}
