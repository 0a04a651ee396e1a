package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/mrlokans/library-catalog/internal/client"
	"github.com/mrlokans/library-catalog/internal/config"
)

// newClient builds an API client from the shared -url/-session flags,
// falling back to the environment-driven configuration.
func newClient(baseURL, sessionPath string) (*client.Client, error) {
	cfg := config.NewConfig()
	if baseURL == "" {
		baseURL = cfg.Client.BaseURL
	}
	if sessionPath == "" {
		sessionPath = cfg.Client.SessionPath
	}
	store := client.NewSessionStore(sessionPath)
	return client.New(baseURL, store)
}

// confirm asks the user for an explicit yes before destructive actions.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// matchesFilter applies the client-side search: case-insensitive
// substring match over the given values.
func matchesFilter(filter string, values ...string) bool {
	if filter == "" {
		return true
	}
	needle := strings.ToLower(filter)
	for _, value := range values {
		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}
	return false
}
