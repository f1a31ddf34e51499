// Package main is the entry point for the episodl application.
package main

import (
	"github.com/episodl/episodl/cmd"
	"github.com/episodl/episodl/config"
	"github.com/episodl/episodl/log"
	"github.com/samber/lo"
)

func main() {
	lo.Must0(config.Setup())
	lo.Must0(log.Setup())

	cmd.Execute()
}
