package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"

	"github.com/mrlokans/library-catalog/internal/client"
	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// BooksCommand manages catalog books. The list action fetches books,
// authors and categories in parallel so the summary line can report
// totals for all three collections in one round trip's worth of time.
type BooksCommand struct {
	BaseURL       string
	SessionPath   string
	Action        string
	ID            uint
	Title         string
	ISBN          string
	Description   string
	PublishedYear int
	Pages         int
	Price         float64
	AuthorID      uint
	CategoryID    uint
	Filter        string
	Yes           bool

	setFlags map[string]bool
}

func NewBooksCommand() *BooksCommand {
	return &BooksCommand{setFlags: map[string]bool{}}
}

func (cmd *BooksCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("books", flag.ExitOnError)

	fs.StringVar(&cmd.BaseURL, "url", "", "API base URL (default http://localhost:8080/api)")
	fs.StringVar(&cmd.SessionPath, "session", "", "Path to the session file")
	fs.StringVar(&cmd.Action, "action", "list", "One of: list, show, create, update, delete")
	fs.UintVar(&cmd.ID, "id", 0, "Book id (required for show/update/delete)")
	fs.StringVar(&cmd.Title, "title", "", "Book title")
	fs.StringVar(&cmd.ISBN, "isbn", "", "Book ISBN")
	fs.StringVar(&cmd.Description, "description", "", "Book description")
	fs.IntVar(&cmd.PublishedYear, "year", 0, "Publication year")
	fs.IntVar(&cmd.Pages, "pages", 0, "Page count")
	fs.Float64Var(&cmd.Price, "price", 0, "Price")
	fs.UintVar(&cmd.AuthorID, "author-id", 0, "Author id the book belongs to")
	fs.UintVar(&cmd.CategoryID, "category-id", 0, "Category id the book belongs to")
	fs.StringVar(&cmd.Filter, "filter", "", "Client-side substring filter for list output")
	fs.BoolVar(&cmd.Yes, "yes", false, "Skip the delete confirmation prompt")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s books -action <action> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage catalog books.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s books -action list -filter dune\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s books -action create -title Dune -isbn 9780441013593 -year 1965 -pages 412 -price 9.99 -author-id 1 -category-id 2\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s books -action update -id 5 -price 12.50\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		cmd.setFlags[f.Name] = true
	})

	switch cmd.Action {
	case "list":
	case "show", "update", "delete":
		if cmd.ID == 0 {
			return fmt.Errorf("required flag -id not provided for action %q", cmd.Action)
		}
	case "create":
		for _, required := range []string{"title", "isbn", "year", "author-id", "category-id"} {
			if !cmd.setFlags[required] {
				return fmt.Errorf("flag -%s is required for create", required)
			}
		}
	default:
		return fmt.Errorf("unknown action: %s", cmd.Action)
	}
	return nil
}

func (cmd *BooksCommand) Run() error {
	c, err := newClient(cmd.BaseURL, cmd.SessionPath)
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch cmd.Action {
	case "list":
		return cmd.list(ctx, c)

	case "show":
		book, err := c.Books().Get(ctx, cmd.ID)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s\n", book.ID, book.Title)
		fmt.Printf("ISBN: %s\n", book.ISBN)
		fmt.Printf("Published: %d\n", book.PublishedYear)
		if book.Pages > 0 {
			fmt.Printf("Pages: %d\n", book.Pages)
		}
		fmt.Printf("Price: %.2f\n", book.Price)
		if book.Author != nil {
			fmt.Printf("Author: %s\n", book.Author.Name)
		}
		if book.Category != nil {
			fmt.Printf("Category: %s\n", book.Category.Name)
		}
		if book.Description != "" {
			fmt.Printf("Description: %s\n", book.Description)
		}
		return nil

	case "create":
		in := cmd.input()
		book, err := c.Books().Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Created book #%d %s\n\n", book.ID, book.Title)
		return cmd.refetch(ctx, c)

	case "update":
		in := cmd.input()
		book, err := c.Books().Update(ctx, cmd.ID, in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated book #%d %s\n\n", book.ID, book.Title)
		return cmd.refetch(ctx, c)

	case "delete":
		if !cmd.Yes && !confirm(fmt.Sprintf("Delete book #%d?", cmd.ID)) {
			fmt.Println("Aborted")
			return nil
		}
		if err := c.Books().Delete(ctx, cmd.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted book #%d\n\n", cmd.ID)
		return cmd.refetch(ctx, c)
	}
	return nil
}

// input builds a partial payload from the flags the user actually set.
func (cmd *BooksCommand) input() validation.BookInput {
	in := validation.BookInput{}
	if cmd.setFlags["title"] {
		in.Title = &cmd.Title
	}
	if cmd.setFlags["isbn"] {
		in.ISBN = &cmd.ISBN
	}
	if cmd.setFlags["description"] {
		in.Description = &cmd.Description
	}
	if cmd.setFlags["year"] {
		in.PublishedYear = &cmd.PublishedYear
	}
	if cmd.setFlags["pages"] {
		in.Pages = &cmd.Pages
	}
	if cmd.setFlags["price"] {
		in.Price = &cmd.Price
	}
	if cmd.setFlags["author-id"] {
		in.AuthorID = &cmd.AuthorID
	}
	if cmd.setFlags["category-id"] {
		in.CategoryID = &cmd.CategoryID
	}
	return in
}

func (cmd *BooksCommand) list(ctx context.Context, c *client.Client) error {
	var (
		wg         sync.WaitGroup
		books      []entities.Book
		authors    []entities.Author
		categories []entities.Category
		errs       [3]error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		books, errs[0] = c.Books().List(ctx)
	}()
	go func() {
		defer wg.Done()
		authors, errs[1] = c.Authors().List(ctx)
	}()
	go func() {
		defer wg.Done()
		categories, errs[2] = c.Categories().List(ctx)
	}()
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	cmd.printBooks(books)
	fmt.Printf("%d book(s) total, %d author(s), %d category(ies)\n", len(books), len(authors), len(categories))
	return nil
}

func (cmd *BooksCommand) refetch(ctx context.Context, c *client.Client) error {
	books, err := c.Books().List(ctx)
	if err != nil {
		return err
	}
	cmd.printBooks(books)
	return nil
}

func (cmd *BooksCommand) printBooks(books []entities.Book) {
	shown := 0
	for _, book := range books {
		authorName, categoryName := "", ""
		if book.Author != nil {
			authorName = book.Author.Name
		}
		if book.Category != nil {
			categoryName = book.Category.Name
		}
		if !matchesFilter(cmd.Filter, book.Title, book.ISBN, authorName, categoryName) {
			continue
		}
		fmt.Printf("%4d  %-35s %-25s %-20s %d  %.2f\n",
			book.ID, book.Title, authorName, categoryName, book.PublishedYear, book.Price)
		shown++
	}
	fmt.Printf("%d book(s) shown\n", shown)
}
