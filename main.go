package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli"
	"nerfscan/cmd"
)

func main() {
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "nerfscan"
	app.Usage = "sample colored point clouds from trained volumetric scene models"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "sample-points",
			Usage: "render a camera path and extract a colored point cloud",
			Description: `
Restore a trained scene model from its checkpoint directory, render every
frame-step'th camera along the dataset camera path across all compute
devices, convert the per-ray sample weights into surface points via the
opaqueness threshold and write the aggregated point cloud container plus
per-frame color and depth previews to the output directory.`,
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "data-dir",
					Usage: "dataset root containing scene.json and camera paths",
				},
				cli.StringFlag{
					Name:  "output-dir",
					Usage: "directory receiving previews and the point cloud artifact",
				},
				cli.StringFlag{
					Name:  "train-dir",
					Usage: "training directory containing the checkpoints subdirectory",
				},
				cli.IntFlag{
					Name:  "frame-step",
					Value: 1,
					Usage: "stride through the camera path",
				},
				cli.StringFlag{
					Name:  "point-cloud-filename",
					Value: "pointcloud.zip",
					Usage: "point cloud container filename inside output-dir",
				},
				cli.IntFlag{
					Name:  "devices",
					Value: 0,
					Usage: "number of compute devices (0 selects all cpu cores)",
				},
				cli.IntFlag{
					Name:  "chunk",
					Value: 8192,
					Usage: "rays per device per dispatch",
				},
				cli.IntFlag{
					Name:  "samples",
					Value: 64,
					Usage: "samples per ray",
				},
				cli.Float64Flag{
					Name:  "opaqueness-threshold",
					Value: 0.5,
					Usage: "accumulated weight at which a ray is considered opaque",
				},
				cli.Int64Flag{
					Name:  "seed",
					Value: 0,
					Usage: "base seed for the per-device random streams",
				},
			},
			Action: cmd.SamplePoints,
		},
		{
			Name:  "visualize-point-cloud",
			Usage: "convert a point cloud container to the pcd interchange format",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "point-cloud-path",
					Usage: "path to a point cloud container artifact",
				},
			},
			Action: cmd.ConvertPointCloud,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
