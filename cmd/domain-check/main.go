package main

import (
	"os"

	"github.com/mikey/email-domain-verifier/internal/cli"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cli.SetVersionInfo(Version, BuildTime)
	os.Exit(cli.Execute())
}
