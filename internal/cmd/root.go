package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command. Run without subcommands it previews
// and renames the files of one directory.
var rootCmd = &cobra.Command{
	Use:   "simplerename [directory]",
	Short: "Bulk rename files with rule-based previews",
	Long: `simplerename is a bulk file renamer: it loads a directory into a
spreadsheet-like preview, applies an ordered set of renaming rules (prefix,
suffix, find/replace, numbering, case, date stamps, extension policy), and
commits the result with full undo/redo history.

Renames are previewed before anything is touched. Conflicting proposals are
flagged and excluded from the commit; overwrites are backed up first.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRename,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var (
	applyNow  bool
	overwrite bool
	include   string

	prefixText     string
	suffixText     string
	findText       string
	replaceText    string
	useRegex       bool
	caseMode       string
	dateFormat     string
	datePosition   string
	extPolicy      string
	presetName     string
	numberFiles    bool
	numberStart    int
	numberStep     int
	numberWidth    int
	numberPosition string
)

func init() {
	rootCmd.Flags().BoolVarP(&applyNow, "apply", "a", false, "Apply renames immediately without interactive preview")
	rootCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Allow overwriting existing files (destination is backed up first)")
	rootCmd.Flags().StringVar(&include, "include", "", "Only include files matching this glob pattern")

	rootCmd.Flags().StringVar(&prefixText, "prefix", "", "Prepend text to every file name")
	rootCmd.Flags().StringVar(&suffixText, "suffix", "", "Append text to every file name (before the extension)")
	rootCmd.Flags().StringVar(&findText, "find", "", "Text or pattern to replace in file names")
	rootCmd.Flags().StringVar(&replaceText, "replace", "", "Replacement for --find matches")
	rootCmd.Flags().BoolVar(&useRegex, "regex", false, "Treat --find as a regular expression")
	rootCmd.Flags().StringVar(&caseMode, "case", "", "Case transform: upper, lower, or title")
	rootCmd.Flags().StringVar(&dateFormat, "date", "", "Insert a date stamp with this layout (e.g. 20060102)")
	rootCmd.Flags().StringVar(&datePosition, "date-position", "prefix", "Date stamp position: prefix or suffix")
	rootCmd.Flags().StringVar(&extPolicy, "ext", "", "Extension policy: lower, upper, or a replacement extension")
	rootCmd.Flags().StringVar(&presetName, "preset", "", "Apply a named rule preset before flag rules")

	rootCmd.Flags().BoolVarP(&numberFiles, "number", "n", false, "Number files in display order")
	rootCmd.Flags().IntVar(&numberStart, "number-start", 1, "First value for --number")
	rootCmd.Flags().IntVar(&numberStep, "number-step", 1, "Increment for --number")
	rootCmd.Flags().IntVar(&numberWidth, "number-width", 3, "Zero padding width for --number")
	rootCmd.Flags().StringVar(&numberPosition, "number-position", "suffix", "Counter position: prefix or suffix")
}
