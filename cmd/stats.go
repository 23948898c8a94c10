package cmd

import (
	"bytes"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"nerfscan/render"
)

// Display per-device render statistics.
func displayDeviceStats(stats []render.DeviceStat) {
	var buf bytes.Buffer
	table := tablewriter.NewWriter(&buf)
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	table.SetHeader([]string{"Device", "Rays", "Render time"})
	for _, stat := range stats {
		table.Append([]string{
			fmt.Sprintf("%d", stat.Device),
			fmt.Sprintf("%d", stat.Rays),
			fmt.Sprintf("%s", stat.RenderTime),
		})
	}

	table.Render()
	logger.Noticef("device statistics\n%s", buf.String())
}
