package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/medghazouan/bidayalab/internal/actions"
	"github.com/medghazouan/bidayalab/internal/config"
	"github.com/medghazouan/bidayalab/internal/models"
	"github.com/spf13/cobra"
)

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage studio accounts",
}

var adminCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a studio account",
	Long: `Creates an account that can sign in at /portal-access.

The database is chosen by the same DB_DRIVER, DB_PATH and MONGODB_URI
settings the server reads.`,
	Args: cobra.NoArgs,
	RunE: runAdminCreate,
}

var adminListCmd = &cobra.Command{
	Use:   "list",
	Short: "List studio accounts",
	Args:  cobra.NoArgs,
	RunE:  runAdminList,
}

var (
	adminName     string
	adminEmail    string
	adminPassword string
	adminRole     string
)

func init() {
	adminCreateCmd.Flags().StringVar(&adminName, "name", "", "display name")
	adminCreateCmd.Flags().StringVar(&adminEmail, "email", "", "sign-in email")
	adminCreateCmd.Flags().StringVar(&adminPassword, "password", "", "password, at least 8 characters")
	adminCreateCmd.Flags().StringVar(&adminRole, "role", string(models.RoleAdmin), "admin or editor")
	_ = adminCreateCmd.MarkFlagRequired("email")
	_ = adminCreateCmd.MarkFlagRequired("password")

	adminCmd.AddCommand(adminCreateCmd, adminListCmd)
}

func openActions(ctx context.Context) (*actions.Actions, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	cfg.NewLogger()

	db := cfg.OpenStore()
	if err := db.Ping(ctx); err != nil {
		return nil, nil, fmt.Errorf("connect to %s: %w", cfg.DBDriver, err)
	}
	closeFn := func() { _ = db.Close(context.Background()) }
	return actions.New(db, nil, actions.Options{ImageDomains: cfg.ImageDomains}), closeFn, nil
}

func runAdminCreate(cmd *cobra.Command, _ []string) error {
	acts, closeFn, err := openActions(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	name := adminName
	if name == "" {
		name = adminEmail
	}
	admin, err := acts.Admins.Create(cmd.Context(), actions.CreateAdminInput{
		Name:     name,
		Email:    adminEmail,
		Password: adminPassword,
		Role:     models.Role(adminRole),
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Account %s (%s) created.\n", admin.Email, admin.Role)
	return nil
}

func runAdminList(cmd *cobra.Command, _ []string) error {
	acts, closeFn, err := openActions(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	admins, err := acts.Admins.List(cmd.Context())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "EMAIL\tNAME\tROLE\tCREATED")
	for _, a := range admins {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", a.Email, a.Name, a.Role, a.CreatedAt.Format("2006-01-02"))
	}
	return w.Flush()
}
