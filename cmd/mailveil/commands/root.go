package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"mailveil/internal/app"
)

var (
	configFile string
	home       string
	backend    string
	passphrase string

	appCtx *app.App
)

// Execute runs the CLI.
func Execute() error {
	root := &cobra.Command{
		Use:          "mailveil",
		Short:        "Disposable email aliases with generated credentials",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadConfig(configFile)
			if err != nil {
				return err
			}
			if home != "" {
				cfg.Home = home
			}
			if backend != "" {
				cfg.Backend = backend
			}
			cfg.Passphrase = passphrase
			if cfg.Backend == app.BackendFileEncrypted && cfg.Passphrase == "" {
				cfg.Passphrase, err = promptPassphrase()
				if err != nil {
					return err
				}
			}

			appCtx, err = app.New(cmd.Context(), cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default mailveil.yaml)")
	root.PersistentFlags().StringVar(&home, "home", "", "state dir (default ~/.mailveil)")
	root.PersistentFlags().StringVar(&backend, "backend", "", "state backend: file, file-encrypted, redis, memory")
	root.PersistentFlags().StringVarP(&passphrase, "passphrase", "p", "", "passphrase for the encrypted backend")

	root.AddCommand(aliasCmd(), sessionCmd(), passwordCmd(), breachCmd())
	return root.Execute()
}

// promptPassphrase reads the vault passphrase without echoing it.
func promptPassphrase() (string, error) {
	fmt.Fprint(os.Stderr, "Passphrase: ")
	b, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("read passphrase: %w", err)
	}
	return string(b), nil
}
