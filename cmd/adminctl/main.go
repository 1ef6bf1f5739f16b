package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"runtime/debug"
	"strings"

	"github.com/common-nighthawk/go-figure"

	"github.com/pawbook/go-admin-client/apiclient"
	"github.com/pawbook/go-admin-client/authapi"
	"github.com/pawbook/go-admin-client/credentials"
	"github.com/pawbook/go-admin-client/internal/config"
	"github.com/pawbook/go-admin-client/internal/logging"
	"github.com/pawbook/go-admin-client/session"
	"github.com/pawbook/go-admin-client/token"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %s\n", err)
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	logger := logging.New(c)

	store, err := credentials.NewFileStore(c.GetCredentialsFile())
	if err != nil {
		return fmt.Errorf("opening credential store: %w", err)
	}

	client := apiclient.New(c, logger)
	manager, err := session.NewManager(
		credentials.NewKeeper(store),
		token.NewEvaluator(),
		authapi.New(client),
		logger,
	)
	if err != nil {
		return fmt.Errorf("building session manager: %w", err)
	}
	client.SetSession(manager)

	if len(os.Args) < 2 {
		usage(c.GetAppName())
		return nil
	}

	ctx := context.Background()
	switch os.Args[1] {
	case "login":
		return login(ctx, manager)
	case "logout":
		manager.Logout(ctx)
		fmt.Println("Logged out")
		return nil
	case "whoami":
		return whoami(ctx, manager)
	case "refresh":
		if !manager.Refresh(ctx) {
			return errors.New("token refresh failed, log in again")
		}
		fmt.Println("Token refreshed")
		return nil
	default:
		usage(c.GetAppName())
		return fmt.Errorf("unknown command %q", os.Args[1])
	}
}

func login(ctx context.Context, manager *session.Manager) error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading email: %w", err)
	}

	fmt.Print("Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	profile, err := manager.Login(ctx, session.Credentials{
		Email:    strings.TrimSpace(email),
		Password: strings.TrimSpace(password),
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	fmt.Printf("Logged in as %s %s <%s>\n", profile.Name, profile.LastName, profile.Email)
	return nil
}

func whoami(ctx context.Context, manager *session.Manager) error {
	if !manager.IsAuthenticated() {
		return errors.New("not logged in")
	}
	profile, err := manager.FetchProfile(ctx)
	if err != nil {
		return fmt.Errorf("fetching profile: %w", err)
	}
	fmt.Printf("%s %s <%s>\n", profile.Name, profile.LastName, profile.Email)
	fmt.Printf("Role: %s\n", profile.Role)
	if len(profile.Roles) > 0 {
		fmt.Printf("Roles: %s\n", strings.Join(profile.Roles, ", "))
	}
	if len(profile.Permissions) > 0 {
		fmt.Printf("Permissions: %s\n", strings.Join(profile.Permissions, ", "))
	}
	return nil
}

func usage(appname string) {
	displayAppname(appname)
	fmt.Println("Usage: adminctl <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  login    Log in with email and password")
	fmt.Println("  logout   Log out and clear stored credentials")
	fmt.Println("  whoami   Show the current user profile")
	fmt.Println("  refresh  Force a token refresh")
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
