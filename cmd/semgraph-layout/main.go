// Command semgraph-layout runs the layout pipeline (§4.9) over a
// GraphResponse and writes its JSON and/or SVG output to disk.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dshills/semgraph-layout/pkg/config"
	"github.com/dshills/semgraph-layout/pkg/diagnostics"
	"github.com/dshills/semgraph-layout/pkg/parity"
	"github.com/dshills/semgraph-layout/pkg/pipeline"
	"github.com/dshills/semgraph-layout/pkg/semgraph"
	"github.com/dshills/semgraph-layout/pkg/svgexport"
)

const version = "1.0.0"

var (
	graphPath     = flag.String("graph", "", "Path to GraphResponse JSON file, or - for stdin (required)")
	profilePath   = flag.String("profile", "", "Path to a parity profile YAML override (optional)")
	direction     = flag.String("direction", "horizontal", "Layout direction: horizontal or vertical")
	bundleFanout  = flag.Bool("bundle-fanout", false, "Split wide fan-out edges into virtual bundle nodes")
	debugChannels = flag.Bool("debug-channels", false, "Log bundler channel assignments and draw channel guides in SVG output")
	debugRoutes   = flag.Bool("debug-routes", false, "Log router point counts per edge")
	format        = flag.String("format", "json", "Export format: json, svg, or both")
	outputDir     = flag.String("output", ".", "Output directory for generated files")
	verbose       = flag.Bool("verbose", false, "Print a diagnostics summary to stdout")
	versionF      = flag.Bool("version", false, "Print version and exit")
	help          = flag.Bool("help", false, "Show help message")
)

type stdLogger struct{ verbose bool }

func (l stdLogger) Debugf(f string, args ...any) {
	if l.verbose {
		fmt.Fprintf(os.Stderr, f+"\n", args...)
	}
}

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("semgraph-layout version %s\n", version)
		os.Exit(0)
	}
	if *help {
		printHelp()
		os.Exit(0)
	}
	if *graphPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -graph flag is required")
		printUsage()
		os.Exit(1)
	}

	validFormats := map[string]bool{"json": true, "svg": true, "both": true}
	if !validFormats[*format] {
		fmt.Fprintf(os.Stderr, "Error: invalid format %q, must be one of: json, svg, both\n", *format)
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	dir := semgraph.LayoutDirection(*direction)
	if err := dir.Validate(); err != nil {
		return fmt.Errorf("invalid -direction: %w", err)
	}

	if *verbose {
		fmt.Printf("Loading graph response from %s\n", *graphPath)
	}
	resp, err := config.LoadGraphResponse(*graphPath)
	if err != nil {
		return fmt.Errorf("loading graph response: %w", err)
	}

	profile := parity.Default()
	if *profilePath != "" {
		if *verbose {
			fmt.Printf("Loading parity profile from %s\n", *profilePath)
		}
		profile, err = parity.LoadProfile(*profilePath)
		if err != nil {
			return fmt.Errorf("loading parity profile: %w", err)
		}
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	opts := pipeline.Options{
		LayoutDirection:   dir,
		BundleFanOutEdges: *bundleFanout,
		DebugChannels:     *debugChannels,
		DebugRoutes:       *debugRoutes,
		Logger:            stdLogger{verbose: *verbose || *debugChannels || *debugRoutes},
	}

	start := time.Now()
	if *verbose {
		fmt.Println("Running layout pipeline...")
	}
	result, err := pipeline.Run(ctx, resp, opts, profile)
	if err != nil {
		return fmt.Errorf("pipeline run failed: %w", err)
	}
	elapsed := time.Since(start)

	if *format == "json" || *format == "both" {
		if err := writeJSON(result.Elements); err != nil {
			return err
		}
	}
	if *format == "svg" || *format == "both" {
		if err := writeSVG(result.Elements, profile); err != nil {
			return err
		}
	}

	if *verbose {
		fmt.Printf("Completed in %v\n", elapsed)
		fmt.Println(diagnostics.Summary(result.Diagnostics.Report))
	}

	fmt.Printf("Successfully laid out %d nodes, %d edges in %v\n", len(result.Elements.Nodes), len(result.Elements.Edges), elapsed)
	return nil
}

func writeJSON(elems semgraph.LayoutElements) error {
	filename := filepath.Join(*outputDir, "layout.json")
	data, err := json.MarshalIndent(elems, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding layout.json: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", filename, err)
	}
	if *verbose {
		fmt.Printf("Wrote %d bytes to %s\n", len(data), filename)
	}
	return nil
}

func writeSVG(elems semgraph.LayoutElements, profile parity.Profile) error {
	filename := filepath.Join(*outputDir, "layout.svg")
	opts := svgexport.DefaultOptions()
	opts.DebugChannels = *debugChannels
	if err := svgexport.SaveToFile(elems, profile, filename, opts); err != nil {
		return fmt.Errorf("exporting SVG: %w", err)
	}
	if *verbose {
		info, _ := os.Stat(filename)
		if info != nil {
			fmt.Printf("Wrote %d bytes to %s\n", info.Size(), filename)
		}
	}
	return nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "\nUsage: semgraph-layout -graph <graph.json> [options]")
	fmt.Fprintln(os.Stderr, "\nRun 'semgraph-layout -help' for detailed help")
}

func printHelp() {
	fmt.Printf("semgraph-layout version %s\n\n", version)
	fmt.Println("Lays out a semantic symbol graph into positioned nodes and routed edges.")
	fmt.Println("\nUsage:")
	fmt.Println("  semgraph-layout -graph <graph.json> [options]")
	fmt.Println("\nRequired Flags:")
	fmt.Println("  -graph string")
	fmt.Println("        Path to GraphResponse JSON file, or - for stdin")
	fmt.Println("\nOptional Flags:")
	fmt.Println("  -profile string")
	fmt.Println("        Path to a parity profile YAML override")
	fmt.Println("  -direction string")
	fmt.Println("        Layout direction: horizontal or vertical (default: horizontal)")
	fmt.Println("  -bundle-fanout")
	fmt.Println("        Split wide fan-out edges into virtual bundle nodes")
	fmt.Println("  -debug-channels")
	fmt.Println("        Log channel assignments and draw channel guides in SVG output")
	fmt.Println("  -debug-routes")
	fmt.Println("        Log router point counts per edge")
	fmt.Println("  -format string")
	fmt.Println("        Export format: json, svg, or both (default: json)")
	fmt.Println("  -output string")
	fmt.Println("        Output directory for generated files (default: current directory)")
	fmt.Println("  -verbose")
	fmt.Println("        Print a diagnostics summary to stdout")
	fmt.Println("  -version")
	fmt.Println("        Print version and exit")
	fmt.Println("  -help")
	fmt.Println("        Show this help message")
	fmt.Println("\nExamples:")
	fmt.Println("  # Lay out a graph with default JSON export")
	fmt.Println("  semgraph-layout -graph graph.json")
	fmt.Println("\n  # Lay out with a custom profile and both export formats")
	fmt.Println("  semgraph-layout -graph graph.json -profile tight.yaml -format both -output ./out")
	fmt.Println("\n  # Pipe graph JSON on stdin and inspect channel bundling")
	fmt.Println("  cat graph.json | semgraph-layout -graph - -debug-channels -verbose")
}
