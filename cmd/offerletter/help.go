package main

import (
	"fmt"
	"io"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: offerletter <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  export     Export letter files to PDF and DOCX")
	fmt.Fprintln(w, "  render     Write the styled HTML of a letter")
	fmt.Fprintln(w, "  generate   Draft a letter from a free-text request")
	fmt.Fprintln(w, "  reorder    Move a section of a letter")
	fmt.Fprintln(w, "  themes     List themes and their layouts")
	fmt.Fprintln(w, "  doctor     Check the browser, output sink and environment")
	fmt.Fprintln(w, "  version    Show version information")
	fmt.Fprintln(w, "  help       Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'offerletter help <command>' for details on a specific command.")
}

// printCommonUsage prints the flags shared by every command.
func printCommonUsage(w io.Writer) {
	fmt.Fprintln(w, "Common:")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show detailed timing and debug logs")
	fmt.Fprintln(w, "      --log-format <s>      Log format: text, json")
}

// printExportUsage prints usage for the export command.
func printExportUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: offerletter export <letter|dir>... [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export letter files (.yaml, .yml, .json) to PDF and DOCX.")
	fmt.Fprintln(w, "Artifacts are named <candidate>_Offer_Letter.<ext>.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output:")
	fmt.Fprintln(w, "  -o, --output <dir>        Output directory (directory sink)")
	fmt.Fprintln(w, "  -f, --format <s>          Format: pdf, docx, all (default pdf)")
	fmt.Fprintln(w, "      --sink <s>            Artifact sink: dir, minio")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel exporters (0 = auto)")
	fmt.Fprintln(w, "  -t, --timeout <d>         Export timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --metrics-file <path> Write Prometheus metrics textfile")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --pdf-mode <s>        Mode: raster, vector")
	fmt.Fprintln(w, "  -p, --page-size <s>       Page size: letter, a4, legal")
	fmt.Fprintln(w, "      --orientation <s>     Orientation: portrait, landscape")
	fmt.Fprintln(w, "      --margin <f>          Margin in inches (0-3.0)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Presentation:")
	fmt.Fprintln(w, "      --theme <s>           Override the letter theme")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles and template")
	fmt.Fprintln(w)
	printCommonUsage(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  OFFERLETTER_CONFIG, OFFERLETTER_TIMEOUT, OFFERLETTER_WORKERS,")
	fmt.Fprintln(w, "  OFFERLETTER_OUTPUT_DIR, OFFERLETTER_PDF_MODE, OFFERLETTER_PAGE_SIZE,")
	fmt.Fprintln(w, "  OFFERLETTER_ASSET_PATH, OFFERLETTER_LOG_LEVEL,")
	fmt.Fprintln(w, "  OFFERLETTER_MINIO_ACCESS_KEY, OFFERLETTER_MINIO_SECRET_KEY")
}

// printRenderUsage prints usage for the render command.
func printRenderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: offerletter render <letter> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Write the styled HTML of a letter.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -o, --output <path>       Output HTML file (default stdout)")
	fmt.Fprintln(w, "      --editable            Keep drag handles and the editable body")
	fmt.Fprintln(w, "      --theme <s>           Override the letter theme")
	fmt.Fprintln(w, "      --asset-path <dir>    Custom styles and template")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printGenerateUsage prints usage for the generate command.
func printGenerateUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: offerletter generate <request...> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Draft letter fields from a free-text request with Gemini.")
	fmt.Fprintln(w, "The API key is read from the variable named by assist.apiKeyEnv")
	fmt.Fprintln(w, "(default GEMINI_API_KEY); a .env file is loaded if present.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "  -o, --output <path>       Output letter file (default stdout)")
	fmt.Fprintln(w, "  -b, --base <letter>       Letter file the fields are merged into")
	fmt.Fprintln(w, "      --model <s>           Model name")
	fmt.Fprintln(w, "  -t, --timeout <d>         Generation timeout (e.g., 30s, 2m)")
	fmt.Fprintln(w, "      --json                Write JSON instead of YAML")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printReorderUsage prints usage for the reorder command.
func printReorderUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: offerletter reorder <letter> --from <i> --to <j> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Move the section at index i to index j. Only flow themes")
	fmt.Fprintln(w, "(classic, modern, regal, formal) can be reordered.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "      --from <i>            Index of the section to move")
	fmt.Fprintln(w, "      --to <j>              Destination index")
	fmt.Fprintln(w, "  -o, --output <path>       Output letter file (default stdout)")
	fmt.Fprintln(w, "      --json                Write JSON instead of YAML")
	fmt.Fprintln(w)
	printCommonUsage(w)
}

// printThemesUsage prints usage for the themes command.
func printThemesUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: offerletter themes [--json]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "List themes with their layout and section order.")
}

// printDoctorUsage prints doctor command usage.
func printDoctorUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: offerletter doctor [--json] [--config <name>]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Check what exports need: the browser for PDF, a writable output")
	fmt.Fprintln(w, "sink and the assist key. A missing browser only disables PDF.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "      --json                Output JSON")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Exit codes: 0 ready or warnings, 1 errors.")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "export":
		printExportUsage(env.Stdout)
	case "render":
		printRenderUsage(env.Stdout)
	case "generate":
		printGenerateUsage(env.Stdout)
	case "reorder":
		printReorderUsage(env.Stdout)
	case "themes":
		printThemesUsage(env.Stdout)
	case "doctor":
		printDoctorUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: offerletter version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: offerletter help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
