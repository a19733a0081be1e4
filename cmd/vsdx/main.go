// Package main provides the CLI entry point for vsdx.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stevensultana/vsdx/pkg/vsdx"
	"github.com/stevensultana/vsdx/pkg/vsdx/export"
	"github.com/stevensultana/vsdx/pkg/vsdx/models"
	"github.com/stevensultana/vsdx/pkg/vsdx/output"
)

var (
	logLevel string
	noLock   bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "vsdx",
		Short: "Inspect and edit Visio .vsdx files",
		Long: `vsdx reads Visio drawings, reports their pages, shapes and connections
as JSON or spreadsheets, and fills or rewrites shape text.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&noLock, "no-lock", false, "Do not take a lock file while saving")

	rootCmd.AddCommand(newInspectCmd(), newRenderCmd(), newReplaceCmd(), newExportCmd(), newPagesCmd())
	return rootCmd
}

func options() vsdx.Options {
	opts := vsdx.DefaultOptions()
	opts.Logger = newLogger(logLevel)
	if noLock {
		lock := false
		opts.LockOnSave = &lock
	}
	return opts
}

func open(path string) (*vsdx.Document, error) {
	doc, err := vsdx.Open(path, options())
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return doc, nil
}

func parseMode(mode string) (vsdx.Mode, error) {
	switch mode {
	case "light":
		return vsdx.ModeLight, nil
	case "standard":
		return vsdx.ModeStandard, nil
	case "verbose":
		return vsdx.ModeVerbose, nil
	}
	return "", fmt.Errorf("invalid mode: %s (must be light, standard, or verbose)", mode)
}

func newInspectCmd() *cobra.Command {
	var (
		outputPath string
		pretty     bool
		mode       string
		pagesDir   string
	)
	cmd := &cobra.Command{
		Use:   "inspect [input.vsdx]",
		Short: "Print pages, shapes and connections as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			data := doc.Snapshot(m)

			jsonData, err := output.ToJSON(data, pretty)
			if err != nil {
				return fmt.Errorf("serialization failed: %w", err)
			}
			if outputPath != "" {
				if err := os.WriteFile(outputPath, jsonData, 0644); err != nil {
					return fmt.Errorf("failed to write output: %w", err)
				}
			} else if pagesDir == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			}

			if pagesDir != "" {
				if err := writePageFiles(data, pagesDir, pretty); err != nil {
					return fmt.Errorf("failed to write page files: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&mode, "mode", "standard", "Snapshot mode: light, standard, verbose")
	cmd.Flags().StringVar(&pagesDir, "pages-dir", "", "Directory for per-page output files")
	return cmd
}

func writePageFiles(data *models.DocumentData, dir string, pretty bool) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	for i, page := range data.Pages {
		jsonData, err := output.PageToJSON(&page, pretty)
		if err != nil {
			return err
		}
		filename := filepath.Join(dir, fmt.Sprintf("%02d_%s.json", i+1, safeFileName(page.Name)))
		if err := os.WriteFile(filename, jsonData, 0644); err != nil {
			return err
		}
	}
	return nil
}

func safeFileName(name string) string {
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}
		return r
	}, name)
}

func newRenderCmd() *cobra.Command {
	var (
		contextPath string
		set         map[string]string
	)
	cmd := &cobra.Command{
		Use:   "render [input.vsdx] [output.vsdx]",
		Short: "Fill {{name}} placeholders and apply {% %} directives in shape text",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := loadContext(contextPath, set)
			if err != nil {
				return err
			}
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			if err := doc.ApplyTextContext(ctx); err != nil {
				return err
			}
			return doc.Save(args[1])
		},
	}
	cmd.Flags().StringVarP(&contextPath, "context", "c", "", "YAML file with placeholder values")
	cmd.Flags().StringToStringVar(&set, "set", nil, "Placeholder value as key=value (repeatable)")
	return cmd
}

func newReplaceCmd() *cobra.Command {
	var find, with, page string
	cmd := &cobra.Command{
		Use:   "replace [input.vsdx] [output.vsdx]",
		Short: "Replace text in every shape",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			if page != "" {
				p := doc.PageByName(page)
				if p == nil {
					return fmt.Errorf("page %q: %w", page, vsdx.ErrPageNotFound)
				}
				p.FindReplace(find, with)
			} else {
				doc.FindReplace(find, with)
			}
			return doc.Save(args[1])
		},
	}
	cmd.Flags().StringVar(&find, "find", "", "Text to find")
	cmd.Flags().StringVar(&with, "with", "", "Replacement text")
	cmd.Flags().StringVar(&page, "page", "", "Limit the replacement to one page")
	cmd.MarkFlagRequired("find")
	return cmd
}

func newExportCmd() *cobra.Command {
	var mode string
	cmd := &cobra.Command{
		Use:   "export [input.vsdx] [output.xlsx]",
		Short: "Export shape data to a spreadsheet, one sheet per page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			if err := export.WriteWorkbook(doc.Snapshot(m), args[1]); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&mode, "mode", "verbose", "Snapshot mode: light, standard, verbose")
	return cmd
}
