package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"prosafe_exporter/nsdp"
	"prosafe_exporter/prosafe"
)

var queryCmd = &cobra.Command{
	Use:   "query",
	Short: "Query switches once and print their port statistics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(flags.Targets) == 0 {
			return errors.New("At least one target must be specified")
		}
		targets := make([]prosafe.Target, 0, len(flags.Targets))
		for _, s := range flags.Targets {
			t, err := prosafe.ParseTarget(s)
			if err != nil {
				return err
			}
			targets = append(targets, t)
		}

		results, err := queryAll(targets, func(target prosafe.Target) *prosafe.Switch {
			sw := target.Switch()
			sw.Transport.Timeout = flags.Timeout
			return sw
		}, flags.Speed)

		failed := 0
		for _, res := range results {
			if res.err != nil {
				failed++
				continue
			}
			fmt.Println(res.render())
		}
		if err != nil && failed == len(results) {
			return errors.Wrapf(err, "All %d targets failed", failed)
		}
		return nil
	},
}

// queryAll queries every target concurrently. All targets run to completion;
// the returned error is the first failure.
func queryAll(targets []prosafe.Target, newSwitch func(prosafe.Target) *prosafe.Switch, withSpeed bool) ([]queryResult, error) {
	results := make([]queryResult, len(targets))
	locks := &prosafe.Locks{}
	eg := &errgroup.Group{}
	for i, target := range targets {
		eg.Go(func() error {
			results[i] = runQuery(target, newSwitch(target), locks, withSpeed)
			return results[i].err
		})
	}
	return results, eg.Wait()
}

type queryResult struct {
	target prosafe.Target
	ports  []nsdp.PortStat
	speeds map[uint8]nsdp.LinkSpeed
	err    error
}

// runQuery does one exchange per command under the switch's lock. A failed
// target is logged and reported in the result; it never aborts the others.
func runQuery(target prosafe.Target, sw *prosafe.Switch, locks *prosafe.Locks, withSpeed bool) queryResult {
	logger := log.WithPrefix(target.String())

	res := queryResult{target: target}
	locks.Do(sw.LockKey(), func() {
		ports, err := sw.PortStats()
		if err != nil {
			res.err = err
			return
		}
		res.ports = ports

		if !withSpeed {
			return
		}
		speeds, err := sw.SpeedStats()
		if err != nil {
			res.err = err
			return
		}
		res.speeds = make(map[uint8]nsdp.LinkSpeed, len(speeds))
		for _, s := range speeds {
			res.speeds[s.PortNo] = s.Link
		}
	})

	if res.err != nil {
		logger.Errorf("Failed to access: %s", res.err)
	} else {
		logger.Debugf("Received %d port stats", len(res.ports))
	}
	return res
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func (res *queryResult) render() string {
	headers := []string{"PORT", "RX", "TX", "ERRORS"}
	if res.speeds != nil {
		headers = append(headers, "LINK")
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, s := range res.ports {
		row := []string{
			strconv.Itoa(int(s.PortNo)),
			newByteSize(s.RecvBytes).String(),
			newByteSize(s.SendBytes).String(),
			strconv.FormatUint(s.ErrorPkts, 10),
		}
		if res.speeds != nil {
			link, ok := res.speeds[s.PortNo]
			if !ok {
				link = nsdp.LinkUnknown
			}
			row = append(row, link.String())
		}
		t.Row(row...)
	}

	return titleStyle.Render(res.target.String()) + "\n" + t.Render()
}

func init() {
	queryCmd.Flags().StringArrayVar(&flags.Targets, "target", nil, "Switch to query (host:interface), repeatable")
	queryCmd.Flags().BoolVar(&flags.Speed, "speed", false, "Also query link speeds")
}
