package main

import (
	"fmt"
	"os"

	"github.com/mrlokans/library-catalog/internal/cli"
	"github.com/mrlokans/library-catalog/internal/config"
	"github.com/mrlokans/library-catalog/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the HTTP server
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "register":
		cmd := cli.NewRegisterCommand()
		runCommand(cmd, args)

	case "login":
		cmd := cli.NewLoginCommand()
		runCommand(cmd, args)

	case "logout":
		cmd := cli.NewLogoutCommand()
		runCommand(cmd, args)

	case "authors":
		cmd := cli.NewAuthorsCommand()
		runCommand(cmd, args)

	case "categories":
		cmd := cli.NewCategoriesCommand()
		runCommand(cmd, args)

	case "books":
		cmd := cli.NewBooksCommand()
		runCommand(cmd, args)

	case "-h", "--help", "help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

type command interface {
	ParseFlags(args []string) error
	Run() error
}

func runCommand(cmd command, args []string) {
	if err := cmd.ParseFlags(args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := cmd.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "Usage: %s <command> [options]\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  serve       Start the HTTP server (default if no command given)\n")
	fmt.Fprintf(os.Stderr, "  register    Create an account and store the session\n")
	fmt.Fprintf(os.Stderr, "  login       Authenticate and store the session\n")
	fmt.Fprintf(os.Stderr, "  logout      Revoke the stored session token\n")
	fmt.Fprintf(os.Stderr, "  authors     List and manage authors\n")
	fmt.Fprintf(os.Stderr, "  categories  List and manage categories\n")
	fmt.Fprintf(os.Stderr, "  books       List and manage books\n")
	fmt.Fprintf(os.Stderr, "\nUse '%s <command> -h' for help on a specific command.\n", os.Args[0])
}
