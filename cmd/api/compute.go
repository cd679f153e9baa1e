package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/LiftOffLLC/zenoti-sdk/pkg/availability"
	"github.com/LiftOffLLC/zenoti-sdk/pkg/config"
)

// computeInput is the file format read by the compute command. Times are RFC 3339.
type computeInput struct {
	CenterHours  availability.CenterHours         `json:"center_hours"`
	Therapists   []availability.TherapistSchedule `json:"therapists"`
	Duration     int                              `json:"duration"`
	From         *time.Time                       `json:"from,omitempty"`
	To           *time.Time                       `json:"to,omitempty"`
	TherapistIDs []string                         `json:"therapist_ids,omitempty"`
	Timezone     string                           `json:"timezone,omitempty"`
}

func computeCmd() *cobra.Command {
	var (
		file     string
		duration int
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute availability from a JSON file of center hours and schedules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			opts, err := cfg.Availability.EngineOptions()
			if err != nil {
				return err
			}

			in, err := readComputeInput(file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if duration > 0 {
				in.Duration = duration
			}
			return runCompute(cmd.OutOrStdout(), availability.NewEngine(opts), in)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "input file, - for stdin")
	cmd.Flags().IntVarP(&duration, "duration", "d", 0, "appointment duration in minutes, overrides the file")

	return cmd
}

func readComputeInput(path string, stdin io.Reader) (*computeInput, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	var in computeInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("failed to parse input: %w", err)
	}
	return &in, nil
}

func runCompute(out io.Writer, engine availability.Engine, in *computeInput) error {
	req := availability.AppointmentRequest{
		DurationMinutes: in.Duration,
		TherapistIDs:    in.TherapistIDs,
		Timezone:        in.Timezone,
	}
	if in.From != nil || in.To != nil {
		if in.From == nil || in.To == nil {
			return fmt.Errorf("from and to must be given together")
		}
		window, err := availability.NewTimeRange(*in.From, *in.To)
		if err != nil {
			return err
		}
		req.RequestedWindow = &window
	}

	result, err := engine.ComputeFiltered(in.CenterHours, in.Therapists, req)
	if err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(encoded))
	return err
}
