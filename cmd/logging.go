package cmd

import (
	"github.com/urfave/cli"
	"nerfscan/log"
)

var logger = log.New("nerfscan")

func setupLogging(ctx *cli.Context) {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
}
