package pkg

import (
	"io"

	"github.com/urfave/cli"
)

// AppConfig carries the app's injectable collaborators. Zero values mean
// "the real thing": a token-authenticated GitHub client and os.Stdout.
type AppConfig struct {
	Walker AdvisoryWalker
	Output io.Writer
}

func (ac AppConfig) NewApp(version string) *cli.App {
	app := cli.NewApp()
	app.Name = "ghsa2md"
	app.Version = version

	app.Usage = "GitHub Security Advisory to Markdown converter"

	app.Commands = []cli.Command{
		{
			Name:   "convert",
			Usage:  "fetch advisories and write Markdown to stdout",
			Action: ac.convert,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "ecosystem",
					Usage: "only advisories affecting the specified package ecosystem (e.g. npm, pip)",
				},
				cli.StringFlag{
					Name:  "severity",
					Usage: "only advisories with the specified severity (low, medium, high, critical)",
				},
			},
		},
	}

	return app
}
