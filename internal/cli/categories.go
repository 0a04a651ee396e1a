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

// CategoriesCommand manages catalog categories with the same
// list/show/create/update/delete cycle as AuthorsCommand.
type CategoriesCommand struct {
	BaseURL     string
	SessionPath string
	Action      string
	ID          uint
	Name        string
	Description string
	Filter      string
	Yes         bool

	setFlags map[string]bool
}

func NewCategoriesCommand() *CategoriesCommand {
	return &CategoriesCommand{setFlags: map[string]bool{}}
}

func (cmd *CategoriesCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("categories", flag.ExitOnError)

	fs.StringVar(&cmd.BaseURL, "url", "", "API base URL (default http://localhost:8080/api)")
	fs.StringVar(&cmd.SessionPath, "session", "", "Path to the session file")
	fs.StringVar(&cmd.Action, "action", "list", "One of: list, show, create, update, delete")
	fs.UintVar(&cmd.ID, "id", 0, "Category id (required for show/update/delete)")
	fs.StringVar(&cmd.Name, "name", "", "Category name")
	fs.StringVar(&cmd.Description, "description", "", "Category description")
	fs.StringVar(&cmd.Filter, "filter", "", "Client-side substring filter for list output")
	fs.BoolVar(&cmd.Yes, "yes", false, "Skip the delete confirmation prompt")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s categories -action <action> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Manage catalog categories.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s categories -action create -name \"Science Fiction\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s categories -action delete -id 2 -yes\n", os.Args[0])
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
		if cmd.Name == "" {
			return fmt.Errorf("flag -name is required for create")
		}
	default:
		return fmt.Errorf("unknown action: %s", cmd.Action)
	}
	return nil
}

func (cmd *CategoriesCommand) Run() error {
	c, err := newClient(cmd.BaseURL, cmd.SessionPath)
	if err != nil {
		return err
	}
	ctx := context.Background()

	switch cmd.Action {
	case "list":
		categories, err := c.Categories().List(ctx)
		if err != nil {
			return err
		}
		cmd.printCategories(categories)
		return nil

	case "show":
		category, err := c.Categories().Get(ctx, cmd.ID)
		if err != nil {
			return err
		}
		fmt.Printf("#%d %s\n", category.ID, category.Name)
		if category.Description != "" {
			fmt.Printf("Description: %s\n", category.Description)
		}
		fmt.Printf("Books (%d):\n", len(category.Books))
		for _, book := range category.Books {
			fmt.Printf("  #%d %s (%d)\n", book.ID, book.Title, book.PublishedYear)
		}
		return nil

	case "create":
		in := validation.CategoryInput{Name: &cmd.Name}
		if cmd.setFlags["description"] {
			in.Description = &cmd.Description
		}
		category, err := c.Categories().Create(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Created category #%d %s\n\n", category.ID, category.Name)
		return cmd.refetch(ctx, c)

	case "update":
		in := validation.CategoryInput{}
		if cmd.setFlags["name"] {
			in.Name = &cmd.Name
		}
		if cmd.setFlags["description"] {
			in.Description = &cmd.Description
		}
		category, err := c.Categories().Update(ctx, cmd.ID, in)
		if err != nil {
			return err
		}
		fmt.Printf("Updated category #%d %s\n\n", category.ID, category.Name)
		return cmd.refetch(ctx, c)

	case "delete":
		if !cmd.Yes && !confirm(fmt.Sprintf("Delete category #%d and all of its books?", cmd.ID)) {
			fmt.Println("Aborted")
			return nil
		}
		if err := c.Categories().Delete(ctx, cmd.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted category #%d\n\n", cmd.ID)
		return cmd.refetch(ctx, c)
	}
	return nil
}

func (cmd *CategoriesCommand) refetch(ctx context.Context, c *client.Client) error {
	categories, err := c.Categories().List(ctx)
	if err != nil {
		return err
	}
	cmd.printCategories(categories)
	return nil
}

func (cmd *CategoriesCommand) printCategories(categories []entities.Category) {
	shown := 0
	for _, category := range categories {
		if !matchesFilter(cmd.Filter, category.Name, category.Description) {
			continue
		}
		var count int64
		if category.BooksCount != nil {
			count = *category.BooksCount
		}
		fmt.Printf("%4d  %-30s books: %d\n", category.ID, category.Name, count)
		shown++
	}
	fmt.Printf("%d category(ies)\n", shown)
}
