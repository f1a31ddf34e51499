package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/episodl/episodl/constant"
	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/icon"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/style"
	"github.com/episodl/episodl/where"
)

// CheckSession exits with instructions when the session cookie file is missing.
func CheckSession() {
	path := where.Cookies()
	if exists, err := filesystem.API().Exists(path); err == nil && exists {
		return
	}

	printMissingSession(path)
	os.Exit(1)
}

func printMissingSession(path string) {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(style.HiRed).
		Padding(1, 2).
		Margin(1, 0)

	title := style.New().Bold(true).Foreground(style.HiRed).Render(fmt.Sprintf("%s Error: No Session", icon.Get(icon.Fail)))
	body := style.New().Foreground(style.Text).Render(fmt.Sprintf("The cookie file %s was not found.", path))

	accent := style.New().Foreground(style.AccentColor).Bold(true).Render
	suggestion := fmt.Sprintf(
		"\n\nExport the cookies of a signed-in browser session to that file, or point to one with:\n  %s",
		accent(fmt.Sprintf("%s config set %s /path/to/cookies.txt", constant.App, key.SessionCookies)),
	)

	fmt.Println(box.Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title,
			"\n",
			body,
			suggestion,
		),
	))
}
