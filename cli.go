package bren

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sokinpui/bren/rename"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type CLIConfig struct {
	Apply        bool
	Yes          bool
	OutputScript bool
	Undo         bool
	Redo         bool
	NoAnimation  bool
	Verbose      bool
	Extensions   []string
	Completion   string
	LogFile      string
	StateDir     string

	Chapter       bool
	Text          string
	TextPosition  rename.Position
	Start         int
	Digits        int
	Separator     string
	IndexPosition rename.Position
	Search        string
	Replacement   string
}

var cfg = &CLIConfig{}

var rootCmd = &cobra.Command{
	Use:   "bren",
	Short: "Batch-rename files with a previewed rule.",
	Long: `Batch-rename files given as arguments, piped on stdin, or copied to the clipboard.

Every command previews by default; pass --apply to rename.

Example: ls *.txt | bren numeral --chapter --apply`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Completion != "" {
			return handleCompletion(cmd)
		}

		if cfg.Undo && cfg.Redo {
			return errors.New("--undo and --redo are mutually exclusive")
		}
		if cfg.Undo || cfg.Redo {
			return run(nil, nil)
		}
		return cmd.Help()
	},
}

var numeralCmd = &cobra.Command{
	Use:   "numeral [paths...]",
	Short: "Convert Chinese numerals to Arabic digits",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(rename.NumeralConversion{ChapterOnly: cfg.Chapter}, args)
	},
}

var textCmd = &cobra.Command{
	Use:   "text [paths...]",
	Short: "Add text before the name or before the extension",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Apply && strings.TrimSpace(cfg.Text) == "" {
			return errors.New("--text must not be empty when applying")
		}
		return run(rename.TextInsertion{Text: cfg.Text, Position: cfg.TextPosition}, args)
	},
}

var indexCmd = &cobra.Command{
	Use:   "index [paths...]",
	Short: "Number files in the order given",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Digits < 0 {
			return fmt.Errorf("--digits must not be negative (got %d)", cfg.Digits)
		}
		return run(rename.IndexInsertion{
			Start:     cfg.Start,
			Digits:    cfg.Digits,
			Separator: rename.Sep(cfg.Separator),
			Position:  cfg.IndexPosition,
		}, args)
	},
}

var replaceCmd = &cobra.Command{
	Use:   "replace [paths...]",
	Short: "Replace every occurrence of a text",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Apply && cfg.Search == "" {
			return errors.New("--search must not be empty when applying")
		}
		return run(rename.LiteralReplace{Search: cfg.Search, Replacement: cfg.Replacement}, args)
	},
}

func run(rule rename.Rule, args []string) error {
	normalizeExtensions()

	log, err := NewLogger(cfg.Verbose, cfg.LogFile)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	app, err := NewApp(&Config{
		Rule:         rule,
		Paths:        args,
		Extensions:   cfg.Extensions,
		Apply:        cfg.Apply,
		Yes:          cfg.Yes,
		OutputScript: cfg.OutputScript,
		Undo:         cfg.Undo,
		Redo:         cfg.Redo,
		StateDir:     cfg.StateDir,
	}, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if cfg.OutputScript {
		_, err := app.Execute()
		return err
	}

	ui := NewTUI(app, cfg.NoAnimation)
	return ui.Run()
}

func handleCompletion(cmd *cobra.Command) error {
	switch cfg.Completion {
	case "bash":
		return cmd.Root().GenBashCompletion(os.Stdout)
	case "zsh":
		return cmd.Root().GenZshCompletion(os.Stdout)
	case "fish":
		return cmd.Root().GenFishCompletion(os.Stdout, true)
	case "powershell":
		return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
	default:
		return fmt.Errorf("unsupported shell for completion: %s", cfg.Completion)
	}
}

func normalizeExtensions() {
	for i, ext := range cfg.Extensions {
		if len(ext) > 0 && ext[0] != '.' {
			cfg.Extensions[i] = "." + ext
		}
	}
}

// positionValue adapts rename.Position to pflag.Value.
type positionValue struct{ p *rename.Position }

var _ pflag.Value = (*positionValue)(nil)

func (v *positionValue) String() string { return v.p.String() }
func (v *positionValue) Type() string   { return "prefix|suffix" }
func (v *positionValue) Set(s string) error {
	p, err := rename.ParsePosition(s)
	if err != nil {
		return err
	}
	*v.p = p
	return nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&cfg.Apply, "apply", false, "Rename files instead of only previewing")
	pf.BoolVarP(&cfg.Yes, "yes", "y", false, "Do not ask for confirmation")
	pf.BoolVarP(&cfg.OutputScript, "output-script", "s", false, "Print mv commands instead of renaming")
	pf.BoolVar(&cfg.NoAnimation, "no-animation", false, "Disable spinner")
	pf.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Debug logging to stderr")
	pf.StringSliceVarP(&cfg.Extensions, "extension", "e", []string{}, "Filter by extension")
	pf.StringVar(&cfg.LogFile, "log", "", "Append JSON operation log to file")
	pf.StringVar(&cfg.StateDir, "state-dir", "", "History directory (default: .bren at the git root)")

	rootCmd.Flags().StringVar(&cfg.Completion, "completion", "", "Generate completion script")
	rootCmd.Flags().BoolVarP(&cfg.Undo, "undo", "u", false, "Undo last batch")
	rootCmd.Flags().BoolVarP(&cfg.Redo, "redo", "r", false, "Redo last undone batch")

	numeralCmd.Flags().BoolVar(&cfg.Chapter, "chapter", false, "Only convert numerals framed as 第…回")

	textCmd.Flags().StringVarP(&cfg.Text, "text", "t", "", "Text to insert")
	textCmd.Flags().VarP(&positionValue{&cfg.TextPosition}, "position", "p", "Where to insert: prefix | suffix")

	cfg.Start, cfg.Digits, cfg.Separator = rename.DefaultStart, rename.DefaultDigits, rename.DefaultSeparator
	indexCmd.Flags().IntVar(&cfg.Start, "start", cfg.Start, "First number")
	indexCmd.Flags().IntVar(&cfg.Digits, "digits", cfg.Digits, "Minimum number of digits")
	indexCmd.Flags().StringVar(&cfg.Separator, "sep", cfg.Separator, "Separator between number and name")
	indexCmd.Flags().VarP(&positionValue{&cfg.IndexPosition}, "position", "p", "Where to insert: prefix | suffix")

	replaceCmd.Flags().StringVar(&cfg.Search, "search", "", "Text to find")
	replaceCmd.Flags().StringVar(&cfg.Replacement, "with", "", "Replacement text")

	rootCmd.AddCommand(numeralCmd, textCmd, indexCmd, replaceCmd)
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})
}

func Execute() error {
	return rootCmd.Execute()
}
