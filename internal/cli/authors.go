package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/mrlokans/library-catalog/internal/client"
	"github.com/mrlokans/library-catalog/internal/entities"
	"github.com/mrlokans/library-catalog/internal/validation"
)

// AuthorsCommand drives the authors screen: list with client-side
// filtering, create/update/delete with a full list refetch after every
// mutation, and a confirmation step before delete.
type AuthorsCommand struct {
	BaseURL     string
	SessionPath string
	Action      string
	ID          uint
	Name        string
	Email       string
	Bio         string
	Country     string
	Filter      string
	Yes         bool

	setFlags map[string]bool
}

func NewAuthorsCommand() *AuthorsCommand {
	return &AuthorsCommand{setFlags: map[string]bool{}}
}

func (cmd *AuthorsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("authors", flag.ExitOnError)

	fs.StringVar(&cmd.BaseURL, "url", "", "API base URL (default http://localhost:8080/api)")
	fs.StringVar(&cmd.SessionPath, "session", "", "Path to the session file")
	fs.StringVar(&cmd.Action, "action", "list", "One of: list, show, create, update, delete")
	fs.UintVar(&cmd.ID, "id", 0, "Author id (required for show/update/delete)")
	fs.StringVar(&cmd.Name, "name", "", "Author name")
	fs.StringVar(&cmd.Email, "email", "", "Author email")
	fs.StringVar(&cmd.Bio, "bio", "", "Author bio")
	fs.StringVar(&cmd.Country, "country", "", "Author country")
	fs.StringVar(&cmd.Filter, "filter", "", "Client-side substring filter for list output")
	fs.BoolVar(&cmd.Yes, "yes", false, "Skip the delete confirmation prompt")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s authors -action <action> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage catalog authors.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s authors -action list -filter tolkien\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s authors -action create -name \"Ursula K. Le Guin\" -email ursula@example.com\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s authors -action update -id 3 -country Japan\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s authors -action delete -id 3\n", os.Args[0])
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
		if cmd.Name == "" || cmd.Email == "" {
			return fmt.Errorf("flags -name and -email are required for create")
		}
	default:
		return fmt.Errorf("unknown action: %s", cmd.Action)
	}
	return nil
}

func (cmd *AuthorsCommand) Run() error {
	c, err := newClient(cmd.BaseURL, cmd.SessionPath)
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch cmd.Action {
	case "list":
		authors, err := c.Authors().List(ctx)
		if err != nil {
			return err
		}
		cmd.printAuthors(authors)
		return nil

	case "show":
		author, err := c.Authors().Get(ctx, cmd.ID)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s <%s>\n", author.ID, author.Name, author.Email)
		if author.Country != "" {
			fmt.Printf("Country: %s\n", author.Country)
		}
		if author.Bio != "" {
			fmt.Printf("Bio: %s\n", author.Bio)
		}
		fmt.Printf("Books (%d):\n", len(author.Books))
		for _, book := range author.Books {
			fmt.Printf("  #%d %s (%d)\n", book.ID, book.Title, book.PublishedYear)
		}
		return nil

	case "create":
		in := validation.AuthorInput{Name: &cmd.Name, Email: &cmd.Email}
		if cmd.setFlags["bio"] {
			in.Bio = &cmd.Bio
		}
		if cmd.setFlags["country"] {
			in.Country = &cmd.Country
		}
		author, err := c.Authors().Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Created author #%d %s\n\n", author.ID, author.Name)
		return cmd.refetch(ctx, c)

	case "update":
		in := validation.AuthorInput{}
		if cmd.setFlags["name"] {
			in.Name = &cmd.Name
		}
		if cmd.setFlags["email"] {
			in.Email = &cmd.Email
		}
		if cmd.setFlags["bio"] {
			in.Bio = &cmd.Bio
		}
		if cmd.setFlags["country"] {
			in.Country = &cmd.Country
		}
		author, err := c.Authors().Update(ctx, cmd.ID, in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated author #%d %s\n\n", author.ID, author.Name)
		return cmd.refetch(ctx, c)

	case "delete":
		if !cmd.Yes && !confirm(fmt.Sprintf("Delete author #%d and all of their books?", cmd.ID)) {
			fmt.Println("Aborted")
			return nil
		}
		if err := c.Authors().Delete(ctx, cmd.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted author #%d\n\n", cmd.ID)
		return cmd.refetch(ctx, c)
	}
	return nil
}

// refetch reloads and prints the full list after a mutation, so the
// output always reflects the latest server state.
func (cmd *AuthorsCommand) refetch(ctx context.Context, c *client.Client) error {
	authors, err := c.Authors().List(ctx)
	if err != nil {
		return err
	}
	cmd.printAuthors(authors)
	return nil
}

func (cmd *AuthorsCommand) printAuthors(authors []entities.Author) {
	shown := 0
	for _, author := range authors {
		if !matchesFilter(cmd.Filter, author.Name, author.Email, author.Country) {
			continue
		}
		var count int64
		if author.BooksCount != nil {
			count = *author.BooksCount
		}
		fmt.Printf("%4d  %-30s %-30s books: %d\n", author.ID, author.Name, author.Email, count)
		shown++
	}
	fmt.Printf("%d author(s)\n", shown)
}
