package cmd

import (
	"encoding/json"
	"os"
	"strconv"

	"github.com/episodl/episodl/catalog"
	"github.com/episodl/episodl/color"
	"github.com/episodl/episodl/config"
	"github.com/episodl/episodl/episode"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/util"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolP("json", "j", false, "Print the catalog as JSON")
	listCmd.SetOut(os.Stdout)
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List catalog episodes and whether they are downloaded",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		handleErr(config.Check())
		CheckSession()
		client, err := newClient()
		handleErr(err)

		cfg := config.Pipeline()
		resolver := &catalog.Resolver{Client: client, URL: cfg.CatalogURL, Extension: cfg.Extension}
		episodes, err := resolver.Resolve(cmd.Context())
		handleErr(err)

		if lo.Must(cmd.Flags().GetBool("json")) {
			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			handleErr(encoder.Encode(episodes))
			return
		}

		rows := lo.Map(episodes, func(ep *episode.Episode, i int) []string {
			return []string{strconv.Itoa(i + 1), ep.FullName, ep.ShortName, downloadState(ep, cfg.OutputRoot)}
		})
		cmd.Println(renderTable([]string{"#", "Episode", "Short name", "State"}, rows, 0))
		cmd.Printf("%s\n", util.Quantify(len(episodes), "episode", "episodes"))
	},
}

// downloadState reports what a run would find for the episode without touching anything.
func downloadState(ep *episode.Episode, outputRoot string) string {
	fs := filesystem.API()

	switch {
	case lo.Must(fs.Exists(ep.OutputPath(outputRoot))):
		return style.Fg(color.Green)("downloaded")
	case lo.Must(fs.Exists(ep.LegacyOutputPath(outputRoot))):
		return style.Fg(color.Yellow)("needs rename")
	default:
		return style.Faint("missing")
	}
}
