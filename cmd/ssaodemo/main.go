// Ssaodemo renders a procedural test scene through the ambient occlusion
// frame graph in an Ebitengine window.
//
// Keys: O toggles rendering.ssao, I tweens rendering.ssaoIntensity between
// its low and high values, F3 toggles the timing overlay.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "ssaodemo"
	app.Usage = "render a test scene through the ambient occlusion frame graph"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.IntFlag{
			Name:  "width",
			Value: 800,
			Usage: "render width in pixels",
		},
		cli.IntFlag{
			Name:  "height",
			Value: 600,
			Usage: "render height in pixels",
		},
		cli.StringFlag{
			Name:  "settings, s",
			Usage: "HCL settings file applied on top of the defaults",
		},
		cli.BoolFlag{
			Name:  "watch",
			Usage: "reload the settings file when it changes",
		},
		cli.StringFlag{
			Name:  "script",
			Usage: "JSON frame script to run, one step per frame",
		},
		cli.BoolFlag{
			Name:  "exit-after-script",
			Usage: "quit once the frame script has finished",
		},
		cli.BoolFlag{
			Name:  "release-inactive",
			Usage: "release framebuffers of disabled passes",
		},
		cli.StringFlag{
			Name:  "screenshot-dir",
			Value: "screenshots",
			Usage: "directory for frame script screenshots",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "enable debug logging and per-pass timings",
		},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
