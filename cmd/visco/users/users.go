package users

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/crucial707/visco/cmd/visco/output"
	"github.com/crucial707/visco/cmd/visco/root"
	"github.com/crucial707/visco/internal/repo"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
		Long: `List or delete user accounts directly in the database.
Deleting a user also deletes all of their stored data.`,
	}

	usersCmd.AddCommand(listUsersCmd(), deleteUserCmd())
	root.GetRoot().AddCommand(usersCmd)
}

// ==========================
// List Users
// ==========================
func listUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all users",
		Args:  cobra.NoArgs,
		RunE:  runListUsers,
	}
	cmd.Flags().Bool("json", false, "print JSON instead of a table")
	return cmd
}

func runListUsers(cmd *cobra.Command, args []string) error {
	cfg, _, err := root.Setup()
	if err != nil {
		return err
	}
	db, err := root.OpenDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	users, err := repo.NewUserRepo(db).List(cmd.Context())
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return output.RenderJSON(users)
	}

	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		rows = append(rows, []interface{}{u.ID, u.Username, u.Email, u.Role, u.CreatedAt.Format("2006-01-02 15:04")})
	}
	output.RenderTable([]string{"ID", "Username", "Email", "Role", "Created"}, rows)
	return nil
}

// ==========================
// Delete User
// ==========================
func deleteUserCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user and all of their data",
		Args:  cobra.ExactArgs(1),
		RunE:  runDeleteUser,
	}
}

func runDeleteUser(cmd *cobra.Command, args []string) error {
	id, err := strconv.Atoi(args[0])
	if err != nil || id < 1 {
		return fmt.Errorf("invalid user id %q", args[0])
	}

	cfg, logger, err := root.Setup()
	if err != nil {
		return err
	}
	db, err := root.OpenDB(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	err = repo.NewUserRepo(db).Delete(cmd.Context(), id)
	if errors.Is(err, repo.ErrNotFound) {
		return fmt.Errorf("user %d not found", id)
	}
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	logger.Info("user deleted", "user_id", id)
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %d and their stored data.\n", id)
	return nil
}
