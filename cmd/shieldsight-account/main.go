package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/shieldsight/shieldsight-cli/internal/adapters/api"
	"github.com/shieldsight/shieldsight-cli/internal/adapters/session"
	"github.com/shieldsight/shieldsight-cli/internal/auth"
	"github.com/shieldsight/shieldsight-cli/internal/config"
	"github.com/shieldsight/shieldsight-cli/internal/core"
	"github.com/shieldsight/shieldsight-cli/internal/logging"
)

var (
	// Action flags
	doLogin   = flag.Bool("login", false, "Sign in with the identity provider")
	doSignup  = flag.Bool("signup", false, "Create an account")
	doProfile = flag.Bool("profile", false, "Show the account profile")
	doLogout  = flag.Bool("logout", false, "Clear the local session")

	// Credential flags
	name     = flag.String("name", "", "Display name (signup)")
	email    = flag.String("email", "", "Account email")
	password = flag.String("password", "", "Account password (or set SHIELDSIGHT_PASSWORD)")

	// Avatar flags
	avatarFile = flag.String("avatar", "", "Upload an avatar image file")

	// Contact flags
	contactSubject = flag.String("subject", "", "Contact message subject")
	contactMessage = flag.String("message", "", "Contact message body")

	// Misc flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	jsonLog    = flag.Bool("json-log", false, "Output logs in JSON format")
	configFile = flag.String("config", "", "Path to config file")
)

func main() {
	flag.Parse()

	logger, err := logging.InitConsoleLogger(*verbose, *jsonLog)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger); err != nil {
		logger.Fatal("Command failed", zap.Error(err))
	}
}

func run(logger *zap.Logger) error {
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	store, err := session.NewFileStore(cfg.GetString("session.path"))
	if err != nil {
		return err
	}

	authTimeout, err := cfg.GetDuration("auth.timeout")
	if err != nil {
		return fmt.Errorf("invalid auth timeout: %w", err)
	}
	authClient := auth.NewClient(cfg.GetString("auth.base_url"), authTimeout, logger)

	svc, err := auth.NewService(authClient, store, logger)
	if err != nil {
		return err
	}

	// Registered once at startup, torn down on exit.
	unsubscribe := svc.Session().Subscribe(func(s *core.Session) {
		if s == nil {
			logger.Debug("Session cleared")
			return
		}
		logger.Debug("Session updated", zap.String("email", s.Email))
	})
	defer unsubscribe()

	ctx := context.Background()

	switch {
	case *doSignup:
		return signup(ctx, svc)
	case *doLogin:
		return login(ctx, svc)
	case *doProfile:
		return profile(ctx, svc)
	case *doLogout:
		if err := svc.Logout(); err != nil {
			return err
		}
		fmt.Println("Signed out")
		return nil
	case *avatarFile != "":
		return uploadAvatar(ctx, cfg, svc, logger)
	case *contactSubject != "" || *contactMessage != "":
		return contact(ctx, cfg, logger)
	default:
		return fmt.Errorf("no action given: use -login, -signup, -profile, -logout, -avatar or -subject/-message")
	}
}

func loadConfig(logger *zap.Logger) (*config.Config, error) {
	if *configFile != "" {
		cfg, err := config.New()
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded configuration from file", zap.String("file", cfg.GetViper().ConfigFileUsed()))
		return cfg, nil
	}
	return config.NewFromViper(config.NewEmptyViper()), nil
}

func resolvePassword() (string, error) {
	if *password != "" {
		return *password, nil
	}
	if p := os.Getenv("SHIELDSIGHT_PASSWORD"); p != "" {
		return p, nil
	}
	return "", fmt.Errorf("password required: pass -password or set SHIELDSIGHT_PASSWORD")
}

func signup(ctx context.Context, svc *auth.Service) error {
	pass, err := resolvePassword()
	if err != nil {
		return err
	}
	if *name == "" || *email == "" {
		return fmt.Errorf("-name and -email are required for signup")
	}

	s, err := svc.Signup(ctx, auth.SignupRequest{Name: *name, Email: *email, Password: pass})
	if err != nil {
		return err
	}
	fmt.Printf("Account created and signed in as %s\n", s.Email)
	return nil
}

func login(ctx context.Context, svc *auth.Service) error {
	pass, err := resolvePassword()
	if err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("-email is required for login")
	}

	s, err := svc.Login(ctx, auth.Credentials{Email: *email, Password: pass})
	if err != nil {
		return err
	}
	fmt.Printf("Signed in as %s", s.Email)
	if !s.ExpiresAt.IsZero() {
		fmt.Printf(" (session valid until %s)", s.ExpiresAt.Local().Format(time.RFC1123))
	}
	fmt.Println()
	return nil
}

func profile(ctx context.Context, svc *auth.Service) error {
	p, err := svc.Profile(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("\n=== Profile ===\n")
	fmt.Printf("Name: %s\n", p.DisplayName)
	fmt.Printf("Email: %s\n", p.Email)
	if p.AvatarURL != "" {
		fmt.Printf("Avatar: %s\n", p.AvatarURL)
	}
	return nil
}

func uploadAvatar(ctx context.Context, cfg *config.Config, svc *auth.Service, logger *zap.Logger) error {
	current := svc.Session().Current()
	if current.Expired(time.Now()) {
		return auth.ErrNotAuthenticated
	}

	data, err := os.ReadFile(*avatarFile)
	if err != nil {
		return fmt.Errorf("failed to read avatar file: %w", err)
	}

	client, err := newAPIClient(cfg, logger)
	if err != nil {
		return err
	}
	url, err := client.UploadAvatar(ctx, *avatarFile, data, current.AccessToken)
	if err != nil {
		return err
	}
	if err := svc.SetAvatarURL(url); err != nil {
		return err
	}

	fmt.Printf("Avatar uploaded: %s\n", url)
	return nil
}

func contact(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	client, err := newAPIClient(cfg, logger)
	if err != nil {
		return err
	}

	msg := core.ContactMessage{
		Name:    *name,
		Email:   *email,
		Subject: *contactSubject,
		Message: *contactMessage,
	}
	if err := client.SubmitContact(ctx, msg); err != nil {
		return err
	}

	fmt.Println("Message sent")
	return nil
}

func newAPIClient(cfg *config.Config, logger *zap.Logger) (*api.Client, error) {
	timeout, err := cfg.GetDuration("api.timeout")
	if err != nil {
		return nil, fmt.Errorf("invalid API timeout: %w", err)
	}
	return api.NewClient(cfg.GetString("api.base_url"), timeout, logger), nil
}
