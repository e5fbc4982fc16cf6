package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/torctl/torctl/internal/control"
)

// newHashPasswordCmd creates the hash-password command.
func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Hash a control password for torrc",
		Long: `Hash-password turns a password into a torrc HashedControlPassword value.

The output matches "tor --hash-password": the iterated and salted
OpenPGP S2K scheme over a random salt, rendered as 16:<hex>. Put the
value in torrc to enable password authentication:

  HashedControlPassword 16:...

With no argument the password is prompted for twice without echo.

Examples:
  # Prompt for the password
  torctl hash-password

  # Hash a password given on the command line
  torctl hash-password "my control password"`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHashPasswordCmd,
	}
}

// runHashPasswordCmd executes the hash-password command.
func runHashPasswordCmd(cmd *cobra.Command, args []string) error {
	var password string
	if len(args) == 1 {
		password = args[0]
	} else {
		first, err := readPassword("Password: ")
		if err != nil {
			return err
		}
		second, err := readPassword("Repeat password: ")
		if err != nil {
			return err
		}
		if first != second {
			return errors.New("passwords do not match")
		}
		password = first
	}

	if password == "" {
		return errors.New("password must not be empty")
	}

	hashed, err := control.HashPassword(password)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), hashed)
	return nil
}
