package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/episodl/episodl/auth"
	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/style"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func init() {
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authSetCmd, authDeleteCmd, authStatusCmd)

	authSetCmd.Flags().String("access-key-id", "", "Access key id of the upload bucket")
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage upload credentials stored in the system keyring",
	Long: `Manage upload credentials stored in the system keyring.

Without stored credentials uploads fall back to the default AWS credential chain
(environment, shared config, instance role).`,
}

var authSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the upload access key pair",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		accessKeyID, _ := cmd.Flags().GetString("access-key-id")
		if accessKeyID == "" {
			accessKeyID = prompt("Access key id: ", false)
		}
		secret := prompt("Secret access key: ", true)

		if accessKeyID == "" || secret == "" {
			handleErr(errors.New("both the access key id and the secret are required"))
		}

		handleErr(auth.SetCredentials(accessKeyID, secret))
		fmt.Printf("%s credentials stored\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

var authDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove"},
	Short:   "Remove the stored access key pair",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(auth.DeleteCredentials())
		fmt.Printf("%s credentials removed\n", style.Fg(color.Green)(icon.Get(icon.Success)))
	},
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether credentials are stored",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		accessKeyID, _, err := auth.Credentials()
		if errors.Is(err, auth.ErrNoCredentials) {
			fmt.Println(style.Faint("no credentials stored, the default AWS chain is used"))
			return
		}
		handleErr(err)

		fmt.Printf("%s access key id %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), style.Fg(color.Yellow)(accessKeyID))
	},
}

var stdin = bufio.NewReader(os.Stdin)

// prompt reads one line from stdin. Secret input is not echoed when stdin is a terminal.
func prompt(label string, secret bool) string {
	fmt.Print(label)

	fd := int(os.Stdin.Fd())
	if secret && term.IsTerminal(fd) {
		b, err := term.ReadPassword(fd)
		fmt.Println()
		handleErr(err)
		return strings.TrimSpace(string(b))
	}

	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}
