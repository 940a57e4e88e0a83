package keygen

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crucial707/visco/cmd/visco/root"
	"github.com/crucial707/visco/internal/crypt"
)

func init() {
	root.GetRoot().AddCommand(keygenCmd())
}

func keygenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keygen",
		Short: "Print a new ENCRYPTION_KEY",
		Long: `Generate a random 32-byte key for encrypting stored data and print it as URL-safe base64.
Keep it safe: losing the key makes all stored data unreadable.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := crypt.GenerateKey()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key)
			return nil
		},
	}
}
