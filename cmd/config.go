package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/config"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/log"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/where"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInfoCmd, configGetCmd, configSetCmd, configResetCmd, configWriteCmd, configDeleteCmd)

	configInfoCmd.Flags().BoolP("json", "j", false, "Print the fields as JSON")
	configInfoCmd.SetOut(os.Stdout)
	configGetCmd.SetOut(os.Stdout)

	configResetCmd.Flags().Bool("all", false, "Reset every key")
	configWriteCmd.Flags().BoolP("force", "f", false, "Replace an existing file")
}

// configFile is the location of the TOML settings file.
func configFile() string {
	return filepath.Join(where.Config(), constant.App+".toml")
}

func completeKeys(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return config.Keys(), cobra.ShellCompDirectiveNoFileComp
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect and change settings",
	Long: fmt.Sprintf(`Inspect and change settings.

Settings are read from %s.toml in the config directory (see "%s where --config")
and may be overridden by %s_ prefixed environment variables. Values are checked
against their type and range before they are saved.`, constant.App, constant.App, strings.ToUpper(constant.App)),
}

var configInfoCmd = &cobra.Command{
	Use:               "info [key...]",
	Short:             "Describe settings with their current value, default and accepted range",
	ValidArgsFunction: completeKeys,
	Run: func(cmd *cobra.Command, args []string) {
		keys := args
		if len(keys) == 0 {
			keys = config.Keys()
		}

		fields := lo.Map(keys, func(k string, _ int) config.Field {
			f, err := config.Lookup(k)
			handleErr(err)
			return f
		})

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(fields))
			return
		}

		if len(args) == 1 {
			cmd.Println(describe(&fields[0]))
			return
		}

		rows := lo.Map(fields, func(f config.Field, _ int) []string {
			return []string{f.Key, fmt.Sprint(f.Current()), fmt.Sprint(f.Value), f.Allowed()}
		})
		cmd.Println(renderTable([]string{"Key", "Value", "Default", "Accepts"}, rows))
	},
}

// describe renders one field in full.
func describe(f *config.Field) string {
	label := style.Fg(color.Blue)
	lines := []string{
		style.Faint(f.Description),
		label("Key:     ") + style.Fg(color.Purple)(f.Key),
		label("Env:     ") + f.Env(),
		label("Value:   ") + highlight(f.Current()),
		label("Default: ") + highlight(f.Value),
		label("Type:    ") + f.Kind(),
	}
	if allowed := f.Allowed(); allowed != "" {
		lines = append(lines, label("Accepts: ")+allowed)
	}
	return strings.Join(lines, "\n")
}

func highlight(v any) string {
	switch value := v.(type) {
	case bool:
		if value {
			return style.Fg(color.Green)("true")
		}
		return style.Fg(color.Red)("false")
	case string:
		if value == "" {
			return style.Faint(`""`)
		}
		return style.Fg(color.Yellow)(value)
	default:
		return fmt.Sprint(value)
	}
}

var configGetCmd = &cobra.Command{
	Use:               "get <key>",
	Short:             "Print the current value of a setting",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeKeys,
	Run: func(cmd *cobra.Command, args []string) {
		f, err := config.Lookup(args[0])
		handleErr(err)
		cmd.Println(f.Current())
	},
}

var configSetCmd = &cobra.Command{
	Use:               "set <key> <value>",
	Short:             "Check and save a new value for a setting",
	Example:           fmt.Sprintf("  %s config set download.workers 4\n  %s config set publish.bucket my-videos", constant.App, constant.App),
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: completeKeys,
	Run: func(cmd *cobra.Command, args []string) {
		v, err := config.Set(args[0], args[1])
		handleErr(err)
		handleErr(config.Save())

		log.Infof("config %s set to %v", args[0], v)
		fmt.Printf(
			"%s set %s to %s\n",
			style.Fg(color.Green)(icon.Get(icon.Success)),
			style.Fg(color.Purple)(args[0]),
			highlight(v),
		)
	},
}

var configResetCmd = &cobra.Command{
	Use:               "reset [key...]",
	Short:             "Restore settings to their defaults",
	ValidArgsFunction: completeKeys,
	Run: func(cmd *cobra.Command, args []string) {
		keys := args
		if lo.Must(cmd.Flags().GetBool("all")) {
			keys = config.Keys()
		}
		if len(keys) == 0 {
			handleErr(fmt.Errorf("name a key or pass --all"))
		}

		for _, k := range keys {
			handleErr(config.Reset(k))
		}
		handleErr(config.Save())

		fmt.Printf("%s reset %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), strings.Join(keys, ", "))
	},
}

var configWriteCmd = &cobra.Command{
	Use:   "write",
	Short: "Write the current settings to the config file",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		path := configFile()
		if lo.Must(cmd.Flags().GetBool("force")) {
			if err := filesystem.API().Remove(path); err != nil && !os.IsNotExist(err) {
				handleErr(err)
			}
		}

		handleErr(config.Save())
		fmt.Printf("%s wrote %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), path)
	},
}

var configDeleteCmd = &cobra.Command{
	Use:     "delete",
	Aliases: []string{"remove"},
	Short:   "Delete the config file, falling back to defaults and environment",
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(filesystem.API().Remove(configFile()))
		fmt.Printf("%s deleted %s\n", style.Fg(color.Green)(icon.Get(icon.Success)), configFile())
	},
}
