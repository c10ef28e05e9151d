// Package main is the entry point for rtttl2midi CLI
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	outputFile string
	jsonOutput bool
	verbose    bool
	serverPort int
)

// logger is replaced by initLogger once flags are parsed
var logger = slog.Default()

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "rtttl2midi",
	Short: "Parse, format and convert RTTTL ring tones",
	Long: `rtttl2midi is a tool for working with RTTTL (Ring Tone Text Transfer
Language) ring tones. It parses and validates ring tones, rewrites them in
their shortest form and converts them to and from Standard MIDI Files.

<input> may be a file path, - for standard input, or an RTTTL string.

Examples:
  rtttl2midi parse "Auld L S:d=4,o=6,b=101:g5,c,8c,c,e"
  rtttl2midi parse ringtones.txt --json
  rtttl2midi fmt tune.rtttl
  rtttl2midi convert tune.rtttl -o tune.mid
  rtttl2midi rtttl2midi tune.rtttl
  rtttl2midi midi2rtttl melody.mid -o melody.rtttl
  rtttl2midi tui
  rtttl2midi serve --port 8080`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(verbose)
	},
	SilenceUsage: true,
}

var parseCmd = &cobra.Command{
	Use:   "parse <input>",
	Short: "Parse ring tones and print their tones",
	Long:  `Parses one ring tone per line. Lines that fail are reported with the offending token and parsing continues with the next line.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

var fmtCmd = &cobra.Command{
	Use:   "fmt <input>",
	Short: "Rewrite ring tones in canonical form",
	Args:  cobra.ExactArgs(1),
	RunE:  runFmt,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Auto-detect and convert between formats",
	Long:  `Automatically detects input format and converts to the output format based on file extension.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var rtttl2midiCmd = &cobra.Command{
	Use:   "rtttl2midi <input>",
	Short: "Convert RTTTL to MIDI format",
	Args:  cobra.ExactArgs(1),
	RunE:  runRTTTLToMIDI,
}

var midi2rtttlCmd = &cobra.Command{
	Use:   "midi2rtttl <input.mid>",
	Short: "Convert MIDI to RTTTL format",
	Args:  cobra.ExactArgs(1),
	RunE:  runMIDIToRTTTL,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch interactive terminal UI",
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	// parse command
	parseCmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the parsed sequences as JSON")

	// convert command
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")

	// rtttl2midi command
	rtttl2midiCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")

	// midi2rtttl command
	midi2rtttlCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .rtttl file path")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 8080, "Server port")

	// Add commands
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(rtttl2midiCmd)
	rootCmd.AddCommand(midi2rtttlCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// initLogger installs a text handler on stderr, at debug level when verbose
func initLogger(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	logger = slog.New(h)
	slog.SetDefault(logger)
}
