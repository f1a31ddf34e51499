package cmd

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/util"
	"github.com/episodl/episodl/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	"github.com/spf13/cobra"
)

// clearTarget is a location the clear command can remove.
type clearTarget struct {
	name     string
	argLong  string
	argShort mo.Option[string]
	location func() string
}

// Assembled episodes are never cleared from here.
var clearTargets = []clearTarget{
	{"segments directory", "segments", mo.Some("s"), where.Segments},
	{"history file", "history", mo.Some("H"), where.History},
	{"logs directory", "logs", mo.Some("l"), where.Logs},
	{"cache directory", "cache", mo.Some("c"), where.Cache},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	for _, target := range clearTargets {
		help := fmt.Sprintf("clear %s", target.name)
		if target.argShort.IsPresent() {
			clearCmd.Flags().BoolP(target.argLong, target.argShort.MustGet(), false, help)
		} else {
			clearCmd.Flags().Bool(target.argLong, false, help)
		}
	}
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove downloaded segments, history and logs",
	Long: `Remove downloaded segments, history and logs.

Assembled episodes are kept. Removing segments makes the next run of an
unfinished episode download it from scratch.`,
	Run: func(cmd *cobra.Command, args []string) {
		var anyCleared bool

		for _, target := range clearTargets {
			if !lo.Must(cmd.Flags().GetBool(target.argLong)) {
				continue
			}

			anyCleared = true
			erase := util.PrintErasable(fmt.Sprintf("%s Clearing %s...", icon.Get(icon.Progress), target.name))
			err := util.Delete(target.location())
			erase()
			if errors.Is(err, fs.ErrNotExist) {
				fmt.Printf("%s %s is already empty\n", icon.Get(icon.Skip), util.Capitalize(target.name))
				continue
			}
			handleErr(err)

			fmt.Printf("%s %s cleared\n", icon.Get(icon.Success), util.Capitalize(target.name))
		}

		if !anyCleared {
			handleErr(cmd.Help())
		}
	},
}
