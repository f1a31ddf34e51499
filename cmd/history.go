package cmd

import (
	"encoding/json"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/history"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/style"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().BoolP("json", "j", false, "Print the history as JSON")
	historyCmd.Flags().StringP("remove", "r", "", "Forget the record of an episode")
	historyCmd.SetOut(os.Stdout)
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed downloads, newest first",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if name := lo.Must(cmd.Flags().GetString("remove")); name != "" {
			handleErr(history.Remove(name))
			cmd.Printf("%s %s forgotten\n", style.Fg(color.Green)(icon.Get(icon.Success)), name)
			return
		}

		records, err := history.List()
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(records))
			return
		}

		if len(records) == 0 {
			cmd.Println("No episodes downloaded yet")
			return
		}

		rows := lo.Map(records, func(r *history.Record, _ int) []string {
			uploaded := ""
			if r.Uploaded {
				uploaded = icon.Get(icon.Upload) + " yes"
			}
			return []string{
				r.FullName,
				humanize.Bytes(uint64(r.Size)),
				humanize.Comma(int64(r.Segments)),
				uploaded,
				humanize.Time(r.CompletedAt),
			}
		})
		cmd.Println(renderTable([]string{"Episode", "Size", "Segments", "Uploaded", "Completed"}, rows, 1, 2))
	},
}
