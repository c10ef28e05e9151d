package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
	"github.com/goccy/go-json"
	"github.com/hako/durafmt"
	"github.com/spf13/cobra"

	"github.com/james-see/rtttl2midi/pkg/api"
	"github.com/james-see/rtttl2midi/pkg/converter"
	"github.com/james-see/rtttl2midi/pkg/rtttl"
	"github.com/james-see/rtttl2midi/pkg/tui"
)

// input is the resolved <input> argument
type input struct {
	data []byte
	path string // empty for stdin and literal ring tones
}

// line is one non-blank line of RTTTL input
type line struct {
	num  int
	text string
}

// readInput resolves arg as stdin, a file or a literal ring tone
func readInput(arg string, stdin io.Reader) (input, error) {
	if arg == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return input{}, fmt.Errorf("failed to read stdin: %w", err)
		}
		return input{data: data}, nil
	}

	if info, err := os.Stat(arg); err == nil && !info.IsDir() {
		data, err := os.ReadFile(arg)
		if err != nil {
			return input{}, fmt.Errorf("failed to read input file: %w", err)
		}
		return input{data: data, path: arg}, nil
	}

	if strings.Contains(arg, ":") {
		return input{data: []byte(arg)}, nil
	}
	return input{}, fmt.Errorf("%s: no such file and not an RTTTL string", arg)
}

func splitLines(data []byte) []line {
	var lines []line
	for i, text := range strings.Split(string(data), "\n") {
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		lines = append(lines, line{num: i + 1, text: text})
	}
	return lines
}

// reportParseError prints the failing line with a marker under the offending token
func reportParseError(w io.Writer, l line, err error) {
	fmt.Fprintf(w, "line %d: %v\n", l.num, err)

	var perr *rtttl.ParseError
	if errors.As(err, &perr) && perr.Offset <= len(l.text) {
		column := utf8.RuneCountInString(l.text[:perr.Offset])
		fmt.Fprintf(w, "  %s\n  %s^\n", l.text, strings.Repeat(" ", column))
	}
}

func printSequence(w io.Writer, seq *rtttl.ToneSequence) {
	fmt.Fprintf(w, "%s\n", seq.Name())
	fmt.Fprintf(w, "  octave %d, duration %s, %d bpm, %d tones, %s\n",
		seq.DefaultOctave(), seq.DefaultDuration(), seq.BeatsPerMinute(), seq.Len(),
		durafmt.Parse(seq.Length()).LimitFirstN(2).String())

	bpm := float64(seq.BeatsPerMinute())
	for i, t := range seq.Tones() {
		pitch := "rest"
		if n, ok := t.Note(); ok {
			pitch = fmt.Sprintf("%-4s %8.2f Hz", n, n.Hz())
		}
		fmt.Fprintf(w, "  %3d  %-20s %6.3fs  %s\n", i+1, t.Duration, t.Seconds(bpm), pitch)
	}
}

func runParse(cmd *cobra.Command, args []string) error {
	in, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	lines := splitLines(in.data)
	if len(lines) == 0 {
		return errors.New("no ring tones found")
	}

	parsed := make([]api.SequenceJSON, 0, len(lines))
	failed := 0
	for _, l := range lines {
		seq, err := rtttl.Parse(l.text)
		if err != nil {
			failed++
			reportParseError(cmd.ErrOrStderr(), l, err)
			continue
		}
		logger.Debug("parsed ring tone", "line", l.num, "name", seq.Name(), "tones", seq.Len())

		if jsonOutput {
			parsed = append(parsed, api.NewSequenceJSON(seq))
			continue
		}
		printSequence(out, seq)
	}

	if jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(parsed); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d ring tones failed to parse", failed, len(lines))
	}
	return nil
}

func runFmt(cmd *cobra.Command, args []string) error {
	in, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	lines := splitLines(in.data)
	failed := 0
	for _, l := range lines {
		seq, err := rtttl.Parse(l.text)
		if err == nil {
			var canonical string
			if canonical, err = rtttl.Encode(seq); err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), canonical)
				continue
			}
		}
		failed++
		reportParseError(cmd.ErrOrStderr(), l, err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d ring tones failed to parse", failed, len(lines))
	}
	return nil
}

// inputFormat detects the format from the file extension, falling back to the content
func inputFormat(in input) converter.Format {
	if in.path != "" {
		if f := converter.DetectFormat(in.path); f != converter.FormatUnknown {
			return f
		}
	}
	return converter.DetectFormatFromContent(bytes.TrimSpace(in.data))
}

func runConvert(cmd *cobra.Command, args []string) error {
	in, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	from := inputFormat(in)
	if from == converter.FormatUnknown {
		return errors.New("cannot determine input format")
	}
	to := converter.DetectFormat(outputFile)
	if to == converter.FormatUnknown {
		return errors.New("cannot determine output format from filename")
	}

	conv := converter.New()
	seq, err := conv.Decode(in.data, from)
	if err != nil {
		return fmt.Errorf("conversion failed: %w", err)
	}
	return writeSequence(cmd, conv, seq, to, outputFile)
}

func runRTTTLToMIDI(cmd *cobra.Command, args []string) error {
	in, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	conv := converter.New()
	seq, err := conv.Decode(in.data, converter.FormatRTTTL)
	if err != nil {
		return err
	}
	return writeSequence(cmd, conv, seq, converter.FormatMIDI, getOutputPath(in, seq, ".mid"))
}

func runMIDIToRTTTL(cmd *cobra.Command, args []string) error {
	in, err := readInput(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	conv := converter.New()
	seq, err := conv.Decode(in.data, converter.FormatMIDI)
	if err != nil {
		return err
	}

	// Without a file name or -o the ring tone goes to stdout
	if in.path == "" && outputFile == "" {
		text, err := rtttl.Encode(seq)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	}
	return writeSequence(cmd, conv, seq, converter.FormatRTTTL, getOutputPath(in, seq, ".rtttl"))
}

func writeSequence(cmd *cobra.Command, conv *converter.Converter, seq *rtttl.ToneSequence, format converter.Format, output string) error {
	result, err := conv.Encode(seq, format)
	if err != nil {
		return err
	}
	if format == converter.FormatRTTTL {
		result = append(result, '\n')
	}

	if err := os.WriteFile(output, result, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	logger.Debug("wrote output", "path", output, "format", format, "size", humanize.Bytes(uint64(len(result))))
	fmt.Fprintf(cmd.OutOrStdout(), "Converted %s -> %s (%s, %s)\n",
		seq.Name(), output, humanize.Bytes(uint64(len(result))),
		durafmt.Parse(seq.Length()).LimitFirstN(2).String())
	return nil
}

// getOutputPath returns -o if set, else the input path or ring tone name with ext
func getOutputPath(in input, seq *rtttl.ToneSequence, ext string) string {
	if outputFile != "" {
		return outputFile
	}
	if in.path != "" {
		return strings.TrimSuffix(in.path, filepath.Ext(in.path)) + ext
	}
	return fileName(seq.Name()) + ext
}

// fileName turns a ring tone name into a safe file name
func fileName(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, strings.TrimSpace(name))
	if name == "" {
		return "ringtone"
	}
	return name
}

func runTUI(cmd *cobra.Command, args []string) error {
	return tui.Run()
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := api.DefaultConfig()
	cfg.Port = serverPort
	if !verbose {
		cfg.Mode = "release"
	}
	logger.Info("starting API server", "port", serverPort)
	return api.Run(cfg)
}
