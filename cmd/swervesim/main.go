package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/mkrett/swervesim/internal/characterize"
	"github.com/mkrett/swervesim/internal/config"
	"github.com/mkrett/swervesim/internal/experiment"
	"github.com/mkrett/swervesim/internal/geom"
	"github.com/mkrett/swervesim/internal/logging"
	"github.com/mkrett/swervesim/internal/metrics"
	"github.com/mkrett/swervesim/internal/storage"
	"github.com/mkrett/swervesim/internal/viz"
)

var (
	dataDir  string
	debug    bool
	mode     string
	period   float64
	duration float64
	seed     int64
	profile  string
	angleDeg float64
	speed    float64
	rateRad  float64
	// Config file and preset
	configFile string
	preset     string
	// Characterization sweep
	holdSecs   float64
	startVolts float64
	stepVolts  float64
	levels     int
	// Plot column selection
	columns []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "swervesim",
		Short: "swerve module control simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".swervesim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a closed-loop session",
		RunE:  runSession,
	}
	addScheduleFlags(runCmd)

	charCmd := &cobra.Command{
		Use:   "characterize",
		Short: "sweep open-loop voltage and fit drive feedforward",
		RunE:  runCharacterize,
	}
	charCmd.Flags().Float64Var(&period, "period", config.DefaultPeriod, "control period")
	charCmd.Flags().Float64Var(&holdSecs, "hold", 1.5, "seconds to hold each voltage level")
	charCmd.Flags().Float64Var(&startVolts, "start", 1.0, "first voltage level")
	charCmd.Flags().Float64Var(&stepVolts, "step", 1.0, "voltage increment per level")
	charCmd.Flags().IntVar(&levels, "levels", 8, "number of voltage levels")
	charCmd.Flags().Int64Var(&seed, "seed", 0, "random seed")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "columns", []string{"angle_rad", "speed_mps", "turn_volts"}, "columns to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a session with live visualization",
		RunE:  runLive,
	}
	addScheduleFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("%-10s %s profile, %.0fs\n", name, p.Schedule.Profile, p.Duration)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, charCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScheduleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&mode, "mode", string(config.ModeSim), "gain mode: real, sim, replay")
	cmd.Flags().Float64Var(&period, "period", config.DefaultPeriod, "control period")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&profile, "profile", "step", "setpoint profile: step, reversal, spin, hold")
	cmd.Flags().Float64Var(&angleDeg, "angle", 57.3, "target angle (degrees)")
	cmd.Flags().Float64Var(&speed, "speed", 2.0, "target speed (m/s)")
	cmd.Flags().Float64Var(&rateRad, "rate", 1.0, "target angular rate (rad/s, spin profile)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig merges preset, config file, and flags, in rising precedence.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("mode") {
		cfg.Mode = config.Mode(mode)
	}
	if cmd.Flags().Changed("period") {
		cfg.Period = period
	}
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cmd.Flags().Changed("seed") || cfg.Seed == 0 {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("profile") {
		cfg.Schedule.Profile = profile
	}
	if cmd.Flags().Changed("angle") {
		cfg.Schedule.AngleRad = geom.DegToRad(angleDeg)
	}
	if cmd.Flags().Changed("speed") {
		cfg.Schedule.Speed = speed
	}
	if cmd.Flags().Changed("rate") {
		cfg.Schedule.RateRad = rateRad
	}

	if err := experiment.ValidateProfile(cfg.Schedule.Profile); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	logger := logging.New(debug)
	defer logger.Sync()

	harness, err := experiment.New(cfg, logger)
	if err != nil {
		return err
	}
	for _, m := range metrics.Default() {
		harness.AddMetric(m)
	}

	fmt.Printf("running %s profile in %s mode...\n", cfg.Schedule.Profile, cfg.Mode)
	start := time.Now()

	result, err := harness.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("cycles: %d\n", len(result.Records))
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
}

func runCharacterize(cmd *cobra.Command, args []string) error {
	logger := logging.New(debug)
	defer logger.Sync()

	cfg := characterize.Config{
		Period:     period,
		HoldSecs:   holdSecs,
		StartVolts: startVolts,
		StepVolts:  stepVolts,
		Levels:     levels,
		Seed:       seed,
	}

	fit, err := characterize.Run(context.Background(), cfg, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VOLTS\tVELOCITY (rad/s)")
	for _, s := range fit.Samples {
		fmt.Fprintf(w, "%.2f\t%.4f\n", s.Volts, s.VelocityRadPerSec)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nkS: %.5f V\n", fit.KS)
	fmt.Printf("kV: %.5f V/(rad/s)\n", fit.KV)
	fmt.Printf("R²: %.6f\n", fit.R2)

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tPROFILE\tTIME\tDURATION\tPERIOD")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\n",
			run.ID,
			run.Mode,
			run.Profile,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Period,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	header, rows, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("profile: %s (%s mode)\n", meta.Profile, meta.Mode)
	fmt.Printf("samples: %d\n\n", len(rows))

	for _, col := range columns {
		idx := -1
		for i, name := range header {
			if name == col {
				idx = i
				break
			}
		}
		if idx < 0 {
			fmt.Printf("unknown column %q, have %v\n", col, header)
			continue
		}

		data := make([]float64, len(rows))
		for i := range rows {
			if idx < len(rows[i]) {
				data[i] = rows[i][idx]
			}
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(col+" vs time"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	header, rows, err := st.LoadRecords(args[0])
	if err != nil {
		return err
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		fields := make([]string, len(row))
		for i, v := range row {
			fields[i] = strconv.FormatFloat(v, 'f', 6, 64)
		}
		if err := w.Write(fields); err != nil {
			return err
		}
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	harness, err := experiment.New(cfg, nil)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(harness, cfg))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
