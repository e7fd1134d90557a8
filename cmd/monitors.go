package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/bnema/nativewindow/internal/config"
	"github.com/bnema/nativewindow/internal/display"
	"github.com/bnema/nativewindow/internal/ui"
	"github.com/spf13/cobra"
)

// DisplayInfo represents the display information output
type DisplayInfo struct {
	Monitors []MonitorInfo `json:"monitors"`
	Error    string        `json:"error,omitempty"`
}

// MonitorInfo represents information about a single monitor
type MonitorInfo struct {
	Name        string  `json:"name"`
	X           int     `json:"x"`
	Y           int     `json:"y"`
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	RefreshRate int     `json:"refresh_rate"`
	Primary     bool    `json:"primary"`
	Scale       float32 `json:"scale"`
}

var jsonOutput bool

var monitorsCmd = &cobra.Command{
	Use:   "monitors",
	Short: "Show monitor configuration",
	Long:  `Display information about connected monitors and their layout.`,
	RunE:  runMonitors,
}

func init() {
	monitorsCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.AddCommand(monitorsCmd)
}

func runMonitors(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	layout, closeSession, err := openLayout()
	if err != nil {
		if jsonOutput {
			return json.NewEncoder(out).Encode(DisplayInfo{Error: err.Error()})
		}
		return fmt.Errorf("failed to read monitors: %w", err)
	}
	defer closeSession()

	monitors := layout.Monitors()

	if jsonOutput {
		info := DisplayInfo{Monitors: make([]MonitorInfo, len(monitors))}
		for i, mon := range monitors {
			info.Monitors[i] = MonitorInfo{
				Name:        mon.Name,
				X:           mon.X,
				Y:           mon.Y,
				Width:       mon.Width,
				Height:      mon.Height,
				RefreshRate: mon.RefreshRate,
				Primary:     mon.Primary,
				Scale:       mon.Scale,
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	if len(monitors) == 0 {
		fmt.Fprintln(out, ui.FormatResult(false, "No monitors connected"))
		return nil
	}

	rows := make([][]string, len(monitors))
	for i, mon := range monitors {
		primary := ""
		if mon.Primary {
			primary = ui.IconPrimary
		}
		rows[i] = []string{
			primary,
			mon.Name,
			fmt.Sprintf("%dx%d", mon.Width, mon.Height),
			fmt.Sprintf("%d,%d", mon.X, mon.Y),
			fmt.Sprintf("%dHz", mon.RefreshRate),
			fmt.Sprintf("%.2f", mon.Scale),
		}
	}
	fmt.Fprintln(out, ui.HeaderStyle.Render("Monitors"))
	fmt.Fprintln(out, ui.RenderTable([]string{"", "NAME", "SIZE", "POSITION", "REFRESH", "SCALE"}, rows))

	b := layout.Bounds()
	fmt.Fprintln(out, ui.FormatKeyValue("Desktop", fmt.Sprintf("%dx%d at %d,%d", b.Width, b.Height, b.X, b.Y)))
	return nil
}

func openLayout() (*display.Layout, func(), error) {
	s, err := openSession(config.Get())
	if err != nil {
		return nil, nil, err
	}
	layout, err := display.NewLayout(s.rt)
	if err != nil {
		_ = s.Close()
		return nil, nil, err
	}
	return layout, func() { _ = s.Close() }, nil
}
