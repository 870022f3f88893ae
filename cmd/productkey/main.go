// Command productkey mints a signup product key without going through the
// API.  It exists to bootstrap the first ADMIN account, since /auth/key is
// itself restricted to admins.
//
//	PRODUCT_KEY_SECRET=... productkey --email ada@example.com --role ADMIN
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/homelist/homelist-api/internal/logger"
	"github.com/homelist/homelist-api/internal/model"
	"github.com/homelist/homelist-api/internal/utils"
)

var errNoSecret = errors.New("PRODUCT_KEY_SECRET is not set")

func main() {
	_ = godotenv.Load()
	logger.SetupDefault(os.Stderr, logger.ParseLevel(os.Getenv("LOG_LEVEL")))

	if err := newRootCommand(os.Getenv).Execute(); err != nil {
		slog.Error("productkey failed", "error", err)
		os.Exit(1)
	}
}

func newRootCommand(getenv func(string) string) *cobra.Command {
	var (
		email    string
		roleName string
		cost     int
	)
	cmd := &cobra.Command{
		Use:           "productkey",
		Short:         "Mint a REALTOR or ADMIN signup product key",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			secret := getenv("PRODUCT_KEY_SECRET")
			if secret == "" {
				return errNoSecret
			}
			role, ok := model.ParseRole(roleName)
			if !ok || !role.Privileged() {
				return fmt.Errorf("role must be REALTOR or ADMIN, got %q", roleName)
			}
			key, err := utils.DeriveProductKey(secret, email, role, cost)
			if err != nil {
				return fmt.Errorf("derive product key: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), key)
			return err
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email the key is issued for")
	cmd.Flags().StringVar(&roleName, "role", "REALTOR", "REALTOR or ADMIN")
	cmd.Flags().IntVar(&cost, "cost", utils.DefaultBcryptCost, "bcrypt cost")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}
