package cmd

import (
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/shopfloor/jobsync/pkg/errors"
	"github.com/shopfloor/jobsync/pkg/jobs"
	"github.com/shopfloor/jobsync/pkg/report"
)

// newReportCommand creates the report command, which prints the
// correction report left by the last scan or sync.
func (a *App) newReportCommand() *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report [file]",
		Short: "Show the correction report from the last run",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			path := a.config.ReportFile
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				return errors.New("no report file: set scan.report_file or pass a path")
			}

			r, err := report.Read(path)
			if err != nil {
				return err
			}

			numeric, dates := 0, 0
			for _, entry := range r.Entries {
				if entry.Kind == jobs.KindNumeric {
					numeric++
				} else {
					dates++
				}
			}
			a.log.Info().
				Int("corrections", r.Len()).
				Int("numeric", numeric).
				Int("dates", dates).
				Msg("correction report")

			out, err := yaml.Marshal(r)
			if err != nil {
				return err
			}
			_, err = os.Stdout.Write(out)
			return err
		},
	}
	return reportCmd
}
