// Package open reveals files and directories with the platform's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/episodl/episodl/constant"
)

// Start opens path without waiting for the handler to exit.
func Start(path string) error {
	cmd, err := Command(runtime.GOOS, path)
	if err != nil {
		return err
	}
	return cmd.Start()
}

// Command builds the handler invocation for goos.
func Command(goos, path string) (*exec.Cmd, error) {
	switch goos {
	case constant.Windows:
		return exec.Command(filepath.Join(os.Getenv("SYSTEMROOT"), "explorer.exe"), path), nil
	case constant.Darwin:
		return exec.Command("open", path), nil
	case constant.Linux:
		return exec.Command("xdg-open", path), nil
	case constant.Android:
		return exec.Command("termux-open", path), nil
	default:
		return nil, fmt.Errorf("opening files is not supported on %s", goos)
	}
}
