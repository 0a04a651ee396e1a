package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
)

// LoginCommand authenticates against the API and stores the session.
type LoginCommand struct {
	BaseURL     string
	SessionPath string
	Email       string
	Password    string
}

func NewLoginCommand() *LoginCommand {
	return &LoginCommand{}
}

func (cmd *LoginCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)

	fs.StringVar(&cmd.BaseURL, "url", "", "API base URL (default http://localhost:8080/api)")
	fs.StringVar(&cmd.SessionPath, "session", "", "Path to the session file")
	fs.StringVar(&cmd.Email, "email", "", "Account email (required)")
	fs.StringVar(&cmd.Password, "password", "", "Account password (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s login -email <email> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Log in to the catalog API and store the session locally.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Email == "" || cmd.Password == "" {
		return fmt.Errorf("required flags -email and -password not provided")
	}
	return nil
}

func (cmd *LoginCommand) Run() error {
	c, err := newClient(cmd.BaseURL, cmd.SessionPath)
	if err != nil {
		return err
	}

	user, err := c.Login(context.Background(), cmd.Email, cmd.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

// RegisterCommand creates an account and stores the issued session.
type RegisterCommand struct {
	BaseURL     string
	SessionPath string
	Name        string
	Email       string
	Password    string
}

func NewRegisterCommand() *RegisterCommand {
	return &RegisterCommand{}
}

func (cmd *RegisterCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)

	fs.StringVar(&cmd.BaseURL, "url", "", "API base URL (default http://localhost:8080/api)")
	fs.StringVar(&cmd.SessionPath, "session", "", "Path to the session file")
	fs.StringVar(&cmd.Name, "name", "", "Display name (required)")
	fs.StringVar(&cmd.Email, "email", "", "Account email (required)")
	fs.StringVar(&cmd.Password, "password", "", "Account password (required)")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s register -name <name> -email <email> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a catalog account and log in.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Name == "" || cmd.Email == "" || cmd.Password == "" {
		return fmt.Errorf("required flags -name, -email and -password not provided")
	}
	return nil
}

func (cmd *RegisterCommand) Run() error {
	c, err := newClient(cmd.BaseURL, cmd.SessionPath)
	if err != nil {
		return err
	}

	// The API requires an explicit confirmation field; the CLI confirms
	// with the same value it sends.
	user, err := c.Register(context.Background(), cmd.Name, cmd.Email, cmd.Password, cmd.Password)
	if err != nil {
		return err
	}

	fmt.Printf("Registered and logged in as %s <%s>\n", user.Name, user.Email)
	return nil
}

// LogoutCommand revokes the current token and clears the session file.
type LogoutCommand struct {
	BaseURL     string
	SessionPath string
}

func NewLogoutCommand() *LogoutCommand {
	return &LogoutCommand{}
}

func (cmd *LogoutCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ExitOnError)

	fs.StringVar(&cmd.BaseURL, "url", "", "API base URL (default http://localhost:8080/api)")
	fs.StringVar(&cmd.SessionPath, "session", "", "Path to the session file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s logout [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Revoke the current token and clear the stored session.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *LogoutCommand) Run() error {
	c, err := newClient(cmd.BaseURL, cmd.SessionPath)
	if err != nil {
		return err
	}

	if err := c.Logout(context.Background()); err != nil {
		return err
	}

	fmt.Println("Logged out")
	return nil
}
