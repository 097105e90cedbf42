package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/startup-sim/internal/config"
	"github.com/napolitain/startup-sim/internal/history"
	"github.com/napolitain/startup-sim/internal/loader"
	"github.com/napolitain/startup-sim/internal/platform/logger"
	"github.com/napolitain/startup-sim/internal/save"
	"github.com/napolitain/startup-sim/internal/sim"
	"github.com/napolitain/startup-sim/internal/ui"
)

var (
	seed       int64
	profile    string
	maxActions int
	autosave   bool
	noColor    bool
	dataPath   string
	saveFile   string
	loadGame   bool
	configFile string
	preset     string
	useTUI     bool
	historyDB  string
	verbose    bool
	scoreLimit int
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "startup",
		Short: "Turn-based startup simulator",
		Long: `Run a startup one month at a time: react to events, pick a few
actions per turn, and steer the company to an IPO before the cash runs out.`,
		Run: runGame,
	}

	rootCmd.Flags().Int64VarP(&seed, "seed", "s", config.DefaultSeed, "RNG seed")
	rootCmd.Flags().StringVarP(&profile, "profile", "p", "", "Starting profile id")
	rootCmd.Flags().IntVarP(&maxActions, "max-actions", "m", 0, "Actions per turn (clamped to the configured range)")
	rootCmd.Flags().BoolVarP(&autosave, "autosave", "a", false, "Save after every turn")
	rootCmd.Flags().StringVar(&saveFile, "save-file", config.DefaultSavePath, "Save file path")
	rootCmd.Flags().BoolVarP(&loadGame, "load", "l", false, "Resume from the save file")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML config file")
	rootCmd.Flags().StringVar(&preset, "preset", "", "Balance preset: casual, default or hard")
	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "Pick actions with the interactive picker")

	rootCmd.PersistentFlags().StringVarP(&dataPath, "data-path", "d", "data", "Directory with actions.json, events.json and profiles.json")
	rootCmd.PersistentFlags().StringVar(&historyDB, "history-db", "", "SQLite file recording finished runs")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")

	scoresCmd := &cobra.Command{
		Use:   "scores",
		Short: "List the best recorded runs",
		Run:   runScores,
	}
	scoresCmd.Flags().IntVarP(&scoreLimit, "limit", "n", 10, "Number of runs to show")
	rootCmd.AddCommand(scoresCmd)

	return rootCmd
}

// buildConfig layers preset or file, environment, then explicitly set flags
func buildConfig(cmd *cobra.Command, environ map[string]string) (config.Config, error) {
	var (
		cfg config.Config
		err error
	)
	if configFile != "" {
		cfg, err = config.Load(configFile)
	} else {
		cfg, err = config.Preset(preset)
	}
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(environ); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("profile") {
		cfg.Profile = profile
	}
	if flags.Changed("max-actions") {
		cfg.Actions.PerTurn = maxActions
	}
	if flags.Changed("autosave") {
		cfg.Autosave = autosave
	}
	if flags.Changed("save-file") || cfg.SavePath == "" {
		cfg.SavePath = saveFile
	}
	cfg.Normalize()
	return cfg, nil
}

func newLogger() *logger.Logger {
	var w io.Writer = io.Discard
	if verbose {
		w = os.Stderr
	}
	return logger.New(w, verbose)
}

func runGame(cmd *cobra.Command, args []string) {
	ui.SetColor(!noColor)
	log := newLogger()

	cfg, err := buildConfig(cmd, nil)
	if err != nil {
		color.Red("Error loading config: %v", err)
		os.Exit(1)
	}

	catalog, err := loader.New(dataPath, log).LoadCatalog()
	if err != nil {
		color.Red("Error loading catalog: %v", err)
		os.Exit(1)
	}

	var game *sim.Game
	if loadGame {
		state, err := save.Load(cfg.SavePath)
		if err != nil {
			color.Red("Error loading save: %v", err)
			os.Exit(1)
		}
		if cmd.Flags().Changed("seed") || cmd.Flags().Changed("profile") {
			color.Yellow("Warning: --seed and --profile are ignored when resuming a save")
		}
		game, err = sim.Restore(cfg, catalog, state, sim.WithLogger(log))
		if err != nil {
			color.Red("Error restoring save: %v", err)
			os.Exit(1)
		}
	} else {
		game, err = sim.NewGame(cfg, catalog, cfg.Profile, cfg.Seed, sim.WithLogger(log))
		if err != nil {
			color.Red("Error starting game: %v", err)
			os.Exit(1)
		}
	}

	renderer := ui.NewRenderer(os.Stdout, nil)
	var chooser ui.Chooser = ui.NewPrompter(os.Stdin, renderer)
	if useTUI {
		chooser = ui.NewPickerChooser(renderer)
	}

	opts := []ui.SessionOption{
		ui.WithSaveFile(cfg.SavePath, cfg.Autosave),
		ui.WithSessionLogger(log),
	}
	if historyDB != "" {
		store, err := history.Open(historyDB)
		if err != nil {
			color.Yellow("Warning: history disabled: %v", err)
		} else {
			defer store.Close()
			opts = append(opts, ui.WithHistory(store))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if _, err := ui.NewSession(game, renderer, chooser, opts...).Run(ctx); err != nil {
		log.Errorf("session ended with error: %v", err)
		color.Red("Error: %v", err)
		stop()
		os.Exit(1)
	}
}

func runScores(cmd *cobra.Command, args []string) {
	ui.SetColor(!noColor)
	if historyDB == "" {
		color.Red("Error: --history-db is required")
		os.Exit(1)
	}

	store, err := history.Open(historyDB)
	if err != nil {
		color.Red("Error opening history: %v", err)
		os.Exit(1)
	}
	defer store.Close()

	runs, err := store.Top(cmd.Context(), scoreLimit)
	if err != nil {
		color.Red("Error reading history: %v", err)
		os.Exit(1)
	}
	ui.NewRenderer(os.Stdout, nil).Scores(runs)
}
