// Package cmd implements the command-line interface for episodl.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/episodl/episodl/auth"
	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/config"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/network"
	"github.com/episodl/episodl/pipeline"
	"github.com/episodl/episodl/publish"
	"github.com/episodl/episodl/session"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/where"
	cc "github.com/ivanpirog/coloredcobra"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// flagAliases maps alternative spellings onto the canonical flag names.
var flagAliases = map[string]string{
	"gdrive-upload": "upload",
	"latest":        "last",
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")

	rootCmd.PersistentFlags().StringP("icons", "I", "", "Set the visual icon variant (e.g., nerd, emoji, squares)")
	lo.Must0(rootCmd.RegisterFlagCompletionFunc("icons", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return icon.AvailableVariants(), cobra.ShellCompDirectiveDefault
	}))
	lo.Must0(viper.BindPFlag(key.IconsVariant, rootCmd.PersistentFlags().Lookup("icons")))

	rootCmd.PersistentFlags().StringP("cookies", "C", "", "Cookie file holding the authenticated session")
	lo.Must0(viper.BindPFlag(key.SessionCookies, rootCmd.PersistentFlags().Lookup("cookies")))

	rootCmd.Flags().Bool("upload", false, "Upload freshly assembled episodes (alias --gdrive-upload)")
	rootCmd.Flags().Bool("last", false, "Process only the newest episode (alias --latest)")
	rootCmd.Flags().StringP("episode", "e", "", "Process only the first episode whose name contains the token; ignored with --last")

	rootCmd.Flags().IntP("workers", "w", 1, "Number of segments fetched in parallel")
	lo.Must0(viper.BindPFlag(key.DownloadWorkers, rootCmd.Flags().Lookup("workers")))

	rootCmd.Flags().SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if canonical, ok := flagAliases[name]; ok {
			name = canonical
		}
		return pflag.NormalizedName(name)
	})
}

// rootCmd defines the entry point for the episodl application.
var rootCmd = &cobra.Command{
	Use:   constant.App,
	Short: "Download every episode of a subscription video catalog",
	Long: constant.AsciiArtLogo + "\n" +
		style.New().Italic(true).Foreground(color.HiRed).Render("    - Download every episode of a subscription video catalog"),
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			versionCmd.Run(versionCmd, args)
			return
		}

		handleErr(config.Check())
		CheckSession()
		handleErr(run(cmd.Context(), selection(cmd)))
	},
}

// selection translates the root flags into what the run processes.
// The first mode that applies wins: --last, then --episode, then all episodes.
func selection(cmd *cobra.Command) pipeline.Selection {
	sel := pipeline.Selection{
		Mode:   pipeline.All,
		Upload: lo.Must(cmd.Flags().GetBool("upload")),
	}

	if lo.Must(cmd.Flags().GetBool("last")) {
		sel.Mode = pipeline.Latest
		return sel
	}

	if token, ok := episodeToken(cmd).Get(); ok {
		sel.Mode = pipeline.ByID
		sel.Token = token
	}
	return sel
}

func episodeToken(cmd *cobra.Command) mo.Option[string] {
	if !cmd.Flags().Changed("episode") {
		return mo.None[string]()
	}
	return mo.Some(lo.Must(cmd.Flags().GetString("episode")))
}

// run executes one pipeline run until completion or interruption.
func run(ctx context.Context, sel pipeline.Selection) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := newClient()
	if err != nil {
		return err
	}

	publisher, err := newPublisher(sel.Upload)
	if err != nil {
		return err
	}

	report, err := pipeline.New(config.Pipeline(), client, publisher, os.Stdout).Run(ctx, sel)
	if err != nil {
		return err
	}
	return report.Err()
}

// newClient builds the session-authenticated client from the cookie file and network settings.
func newClient() (*network.Client, error) {
	path := where.Cookies()
	cookies, err := session.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load session from %s: %w", path, err)
	}
	log.Infof("session loaded from %s with cookies %s", path, strings.Join(cookies.Names(), ", "))

	return network.New(network.Options{
		Cookies:     cookies,
		Retries:     viper.GetInt(key.NetworkRetries),
		Backoff:     time.Duration(viper.GetInt(key.NetworkBackoff)) * time.Millisecond,
		Timeout:     time.Duration(viper.GetInt(key.NetworkTimeout)) * time.Second,
		Impersonate: viper.GetBool(key.NetworkImpersonate),
	}), nil
}

// newPublisher returns the configured upload target, or a no-op when uploads are off.
// Keyring credentials take precedence over the default AWS credential chain.
func newPublisher(upload bool) (publish.Publisher, error) {
	if !upload {
		return publish.Nop{}, nil
	}

	accessKeyID, secretAccessKey, err := auth.Credentials()
	if err != nil && !errors.Is(err, auth.ErrNoCredentials) {
		log.Warnf("keyring unavailable, using default credentials: %s", err)
	}

	s3, err := publish.NewS3(publish.Options{
		Bucket:          viper.GetString(key.PublishBucket),
		Folder:          viper.GetString(key.PublishFolder),
		Region:          viper.GetString(key.PublishRegion),
		Endpoint:        viper.GetString(key.PublishEndpoint),
		AccessKeyID:     accessKeyID,
		SecretAccessKey: secretAccessKey,
	})
	if errors.Is(err, publish.ErrNotConfigured) {
		return nil, fmt.Errorf("%w (try `%s config set %s <bucket>`)", err, constant.App, key.PublishBucket)
	}
	return s3, err
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", icon.Get(icon.Fail), strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
