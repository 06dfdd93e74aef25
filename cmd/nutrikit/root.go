package main

import (
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/nutrihealth/nutrikit/modules/clinical"
	"github.com/nutrihealth/nutrikit/modules/nutrition"
	"github.com/nutrihealth/nutrikit/pkg/apiclient"
	"github.com/nutrihealth/nutrikit/pkg/config"
	"github.com/nutrihealth/nutrikit/pkg/logger"
	"github.com/nutrihealth/nutrikit/pkg/securestore"
	"github.com/nutrihealth/nutrikit/pkg/session"
)

// Config is the process configuration, loaded from the environment (and an
// optional .env file during development).
type Config struct {
	APIBaseURL  string        `env:"NUTRI_API_URL" envDefault:"http://localhost:8000/api"`
	HTTPTimeout time.Duration `env:"NUTRI_HTTP_TIMEOUT" envDefault:"10s"`

	// Storage selects where the session projection lives: the OS keyring by
	// default, or an encrypted file directory for headless hosts.
	Storage     string `env:"NUTRI_STORAGE" envDefault:"keyring"`
	StorageDir  string `env:"NUTRI_STORAGE_DIR"`
	StorageKey  string `env:"NUTRI_STORAGE_KEY"` // hex-encoded 32 bytes, file backend only
	KeyringName string `env:"NUTRI_KEYRING_SERVICE" envDefault:"nutrikit"`

	Debug bool `env:"NUTRI_DEBUG" envDefault:"false"`
}

// app is the explicit context object shared by every command: constructed
// once at process start, torn down at process exit. Nothing here is a
// package-level global.
type app struct {
	log       *slog.Logger
	client    *apiclient.Client
	session   *session.Manager
	clinical  *clinical.Service
	nutrition *nutrition.Service
}

func newApp() (*app, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}

	logOpts := []logger.Option{logger.WithService("nutrikit")}
	if cfg.Debug {
		logOpts = append(logOpts, logger.WithDevelopment())
	} else {
		logOpts = append(logOpts, logger.WithFormat(logger.FormatText), logger.WithLevel(slog.LevelWarn))
	}
	log := logger.New(logOpts...)
	logger.SetAsDefault(log)

	store, err := newStore(cfg)
	if err != nil {
		return nil, err
	}

	client := apiclient.New(cfg.APIBaseURL,
		apiclient.WithTimeout(cfg.HTTPTimeout),
		apiclient.WithLogger(log),
	)

	return &app{
		log:       log,
		client:    client,
		session:   session.New(client, store, session.WithLogger(log)),
		clinical:  clinical.NewService(client, clinical.WithLogger(log)),
		nutrition: nutrition.NewService(client, nutrition.WithLogger(log)),
	}, nil
}

func newStore(cfg Config) (securestore.Store, error) {
	switch cfg.Storage {
	case "keyring":
		return securestore.NewKeyring(cfg.KeyringName), nil
	case "file":
		dir := cfg.StorageDir
		if dir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return nil, fmt.Errorf("resolve home directory: %w", err)
			}
			dir = filepath.Join(home, ".nutrikit")
		}

		key, err := hex.DecodeString(cfg.StorageKey)
		if err != nil {
			return nil, fmt.Errorf("NUTRI_STORAGE_KEY must be hex-encoded: %w", err)
		}
		return securestore.NewEncryptedFile(dir, key)
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want keyring or file)", cfg.Storage)
	}
}

func newRootCommand() (*cobra.Command, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}

	root := &cobra.Command{
		Use:   "nutrikit",
		Short: "Client for the NutriHealth platform",
		Long: `nutrikit talks to the NutriHealth backend: authentication, profile
management, patient rosters for professionals and diet plans for patients.

The session token is kept in the OS keyring (or an encrypted file, see
NUTRI_STORAGE) and survives between invocations.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Rehydrate exactly once, before any role-based decision.
			a.session.CheckAuth(cmd.Context())
		},
	}

	root.AddCommand(
		newLoginCommand(a),
		newLogoutCommand(a),
		newRegisterCommand(a),
		newWhoamiCommand(a),
		newProfileCommand(a),
		newPatientsCommand(a),
		newPlanCommand(a),
	)

	return root, nil
}

// requireRole enforces the navigation branching of the mobile app: a command
// only makes sense for certain account roles.
func requireRole(a *app, roles ...session.Role) error {
	if a.session.Status() != session.StatusAuthenticated {
		return fmt.Errorf("not logged in (run `nutrikit login` first)")
	}

	user := a.session.User()
	if user == nil {
		return fmt.Errorf("profile not loaded yet; try again")
	}

	for _, role := range roles {
		if user.Role == role {
			return nil
		}
	}
	return fmt.Errorf("this command is not available for role %s", user.Role)
}
