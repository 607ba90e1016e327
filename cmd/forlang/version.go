package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"forlang/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print forlang version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type versionInfo struct {
	Version    string `json:"version"`
	GitCommit  string `json:"git_commit,omitempty"`
	GitMessage string `json:"git_message,omitempty"`
	BuildDate  string `json:"build_date,omitempty"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		useColor, err := colorEnabled(cmd, os.Stdout)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, version.Info(useColor))
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(versionInfo{
			Version:    version.Version,
			GitCommit:  version.GitCommit,
			GitMessage: version.GitMessage,
			BuildDate:  version.BuildDate,
		})
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
