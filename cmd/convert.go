package cmd

import (
	"errors"
	"path/filepath"
	"strings"

	"github.com/urfave/cli"
	"nerfscan/pointcloud"
)

// Convert a point cloud container artifact into the PCD interchange format,
// written as a sibling file next to the input.
func ConvertPointCloud(ctx *cli.Context) error {
	setupLogging(ctx)

	path := ctx.String("point-cloud-path")
	if path == "" {
		return errors.New("point-cloud-path is required")
	}

	pc, err := pointcloud.Read(path)
	if err != nil {
		return err
	}
	logger.Noticef("loaded %d points from %s", pc.Len(), path)

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".pcd"
	return pointcloud.WritePCD(out, pc)
}
