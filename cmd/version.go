package cmd

import (
	"fmt"

	"github.com/bnema/nativewindow/internal/config"
	"github.com/bnema/nativewindow/internal/ui"
	"github.com/spf13/cobra"
)

var (
	// Version info set by main package
	Commit string
	Date   string

	versionNative bool
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "nativewindow %s\n", Version)
		if Commit != "" {
			fmt.Fprintln(out, ui.FormatKeyValue("commit", Commit))
		}
		if Date != "" {
			fmt.Fprintln(out, ui.FormatKeyValue("built", Date))
		}
		if !versionNative {
			return nil
		}

		s, err := openSession(config.Get())
		if err != nil {
			return err
		}
		defer s.Close()
		fmt.Fprintln(out, ui.FormatKeyValue("library", s.rt.Version()))
		vulkan, err := s.rt.VulkanSupported()
		if err != nil {
			return err
		}
		fmt.Fprintln(out, ui.FormatKeyValue("vulkan", vulkan))
		return nil
	},
}

func init() {
	versionCmd.Flags().BoolVar(&versionNative, "native", false, "also load the windowing library and report its version")
	rootCmd.AddCommand(versionCmd)
}
