package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/stevensultana/vsdx/pkg/vsdx"
)

func newPagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pages",
		Short: "List and edit the pages of a drawing",
	}
	cmd.AddCommand(newPagesListCmd(), newPagesAddCmd(), newPagesCopyCmd(), newPagesRemoveCmd(), newPagesRenameCmd(), newPagesMoveCmd())
	return cmd
}

// positionFlags selects where a page goes: --first, --last (default),
// --before NAME or --after NAME.
type positionFlags struct {
	first  bool
	before string
	after  string
}

func (f *positionFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.first, "first", false, "Place the page first")
	cmd.Flags().StringVar(&f.before, "before", "", "Place the page before the named page")
	cmd.Flags().StringVar(&f.after, "after", "", "Place the page after the named page")
	cmd.MarkFlagsMutuallyExclusive("first", "before", "after")
}

func (f *positionFlags) resolve(doc *vsdx.Document) (vsdx.Position, *vsdx.Page, error) {
	lookup := func(name string) (*vsdx.Page, error) {
		p := doc.PageByName(name)
		if p == nil {
			return nil, fmt.Errorf("page %q: %w", name, vsdx.ErrPageNotFound)
		}
		return p, nil
	}
	switch {
	case f.first:
		return vsdx.PositionFirst, nil, nil
	case f.before != "":
		p, err := lookup(f.before)
		return vsdx.PositionBefore, p, err
	case f.after != "":
		p, err := lookup(f.after)
		return vsdx.PositionAfter, p, err
	}
	return vsdx.PositionLast, nil, nil
}

// pageArg finds a page by name, or by one-based number when no page has that
// name.
func pageArg(doc *vsdx.Document, arg string) (*vsdx.Page, error) {
	if p := doc.PageByName(arg); p != nil {
		return p, nil
	}
	if n, err := strconv.Atoi(arg); err == nil {
		if p := doc.Page(n - 1); p != nil {
			return p, nil
		}
	}
	return nil, fmt.Errorf("page %q: %w", arg, vsdx.ErrPageNotFound)
}

func newPagesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [input.vsdx]",
		Short: "List pages in document order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			for i, p := range doc.Pages() {
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d shapes\n", i+1, p.Name(), len(p.Shapes()))
			}
			return nil
		},
	}
}

func newPagesAddCmd() *cobra.Command {
	var (
		name string
		pos  positionFlags
	)
	cmd := &cobra.Command{
		Use:   "add [input.vsdx] [output.vsdx]",
		Short: "Add an empty page",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			where, ref, err := pos.resolve(doc)
			if err != nil {
				return err
			}
			if _, err := doc.AddPageAt(where, ref, name); err != nil {
				return err
			}
			return doc.Save(args[1])
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Page name (default: Page-N)")
	pos.register(cmd)
	return cmd
}

func newPagesCopyCmd() *cobra.Command {
	var (
		name string
		pos  positionFlags
	)
	cmd := &cobra.Command{
		Use:   "copy [input.vsdx] [output.vsdx] [page]",
		Short: "Copy a page with its shapes and connections",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			src, err := pageArg(doc, args[2])
			if err != nil {
				return err
			}
			where, ref, err := pos.resolve(doc)
			if err != nil {
				return err
			}
			if ref == nil && where == vsdx.PositionLast {
				where, ref = vsdx.PositionAfter, src
			}
			if _, err := doc.CopyPage(src, where, ref, name); err != nil {
				return err
			}
			return doc.Save(args[1])
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name of the copy (default: source name with a numeric suffix)")
	pos.register(cmd)
	return cmd
}

func newPagesRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove [input.vsdx] [output.vsdx] [page]",
		Short: "Remove a page",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			p, err := pageArg(doc, args[2])
			if err != nil {
				return err
			}
			if err := doc.RemovePage(p); err != nil {
				return err
			}
			return doc.Save(args[1])
		},
	}
}

func newPagesRenameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rename [input.vsdx] [output.vsdx] [page] [name]",
		Short: "Rename a page",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			p, err := pageArg(doc, args[2])
			if err != nil {
				return err
			}
			if err := p.SetName(args[3]); err != nil {
				return err
			}
			return doc.Save(args[1])
		},
	}
}

func newPagesMoveCmd() *cobra.Command {
	var pos positionFlags
	cmd := &cobra.Command{
		Use:   "move [input.vsdx] [output.vsdx] [page]",
		Short: "Move a page",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := open(args[0])
			if err != nil {
				return err
			}
			p, err := pageArg(doc, args[2])
			if err != nil {
				return err
			}
			where, ref, err := pos.resolve(doc)
			if err != nil {
				return err
			}
			if err := doc.MovePage(p, where, ref); err != nil {
				return err
			}
			return doc.Save(args[1])
		},
	}
	pos.register(cmd)
	return cmd
}
