package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/CharanSaiVaddi/jobboard-backend/internal/board"
	"github.com/CharanSaiVaddi/jobboard-backend/internal/job"
)

var statusColors = map[job.Status]*color.Color{
	job.StatusNeedToStart: color.New(color.FgYellow, color.Bold),
	job.StatusInProgress:  color.New(color.FgCyan, color.Bold),
	job.StatusCompleted:   color.New(color.FgGreen, color.Bold),
	job.StatusStopped:     color.New(color.FgRed, color.Bold),
}

var (
	okColor   = color.New(color.FgGreen)
	warnColor = color.New(color.FgYellow)
)

func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid job id %q", arg)
	}
	return id, nil
}

// columnLabel turns a loosely typed column name into its status label.
// Unrecognized names pass through so the board can reject them.
func columnLabel(s string) string {
	if st, ok := job.ParseStatus(s); ok {
		return st.String()
	}
	return s
}

func newTable(out io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(out)
	table.SetHeader(header)
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func printJobs(out io.Writer, jobs []job.Job) {
	table := newTable(out, "ID", "Title", "Status", "Category")
	for _, j := range jobs {
		table.Append([]string{strconv.Itoa(j.ID), j.Title, j.Status.String(), j.Category.String()})
	}
	table.Render()
}

// candidateFlags binds the job form fields to fs. keep is appended to each
// usage string.
func candidateFlags(fs *pflag.FlagSet, c *job.Candidate, keep string) {
	fs.StringVarP(&c.Title, "title", "t", "", "Job title"+keep)
	fs.StringVarP(&c.Category, "category", "c", "", "Read Emails, Web Parsing or Send Emails"+keep)
	fs.StringVarP(&c.Status, "status", "s", "", "Need to Start, In Progress or Completed"+keep)
}

func reportOutcome(out io.Writer, id int, verb string, o board.Outcome) {
	switch o {
	case board.Applied:
		okColor.Fprintf(out, "job %d %s\n", id, verb)
	case board.NotFound:
		warnColor.Fprintf(out, "job %d not found\n", id)
	default:
		fmt.Fprintln(out, "nothing to do")
	}
}

func newAddCmd() *cobra.Command {
	var (
		c      job.Candidate
		direct bool
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a job",
		Long: `Adds a job to the board. The title needs at least 3 characters and a
category is required. With --direct the title only has to be non-empty.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			add := a.Board.Add
			if direct {
				add = a.Board.AddDirect
			}
			j, err := add(cmd.Context(), c)
			if err != nil {
				return err
			}
			okColor.Fprintf(cmd.OutOrStdout(), "added job %d (%s)\n", j.ID, j.Status)
			return nil
		},
	}
	candidateFlags(cmd.Flags(), &c, "")
	cmd.Flags().BoolVar(&direct, "direct", false, "Allow titles shorter than 3 characters")
	return cmd
}

func newListCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List jobs in storage order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			jobs := board.Filter(a.Board.Jobs(), search)
			if len(jobs) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No jobs found.")
				return nil
			}
			printJobs(cmd.OutOrStdout(), jobs)
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Only show jobs whose title contains this text")
	return cmd
}

func newBoardCmd() *cobra.Command {
	var search string
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the board one column per status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			a.Board.SetSearch(search)
			out := cmd.OutOrStdout()
			for _, col := range a.Board.Columns() {
				statusColors[col.Status].Fprintf(out, "%s (%d)\n", col.Status, len(col.Jobs))
				if len(col.Jobs) == 0 {
					fmt.Fprintln(out, "  no jobs")
					fmt.Fprintln(out)
					continue
				}
				table := newTable(out, "ID", "Title", "Category", "Action")
				for _, j := range col.Jobs {
					table.Append([]string{strconv.Itoa(j.ID), j.Title, j.Category.String(), job.ActionLabel(j.Status)})
				}
				table.Render()
				fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "Only show jobs whose title contains this text")
	return cmd
}

func newEditCmd() *cobra.Command {
	var c job.Candidate
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a job's title, category or status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("title") {
				if current, ok := a.Board.Get(id); ok {
					c.Title = current.Title
				}
			}
			o, err := a.Board.Edit(cmd.Context(), id, c)
			if err != nil {
				return err
			}
			reportOutcome(cmd.OutOrStdout(), id, "updated", o)
			return nil
		},
	}
	candidateFlags(cmd.Flags(), &c, " (default keep)")
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a job",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			o, err := a.Board.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			reportOutcome(cmd.OutOrStdout(), id, "deleted", o)
			return nil
		},
	}
}

func newAdvanceCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "advance <id>",
		Short: "Start, complete or reopen a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			o, err := a.Board.Advance(cmd.Context(), id)
			if err != nil {
				return err
			}
			if j, ok := a.Board.Get(id); ok && o == board.Applied {
				okColor.Fprintf(cmd.OutOrStdout(), "job %d is now %s\n", id, j.Status)
				return nil
			}
			reportOutcome(cmd.OutOrStdout(), id, "advanced", o)
			return nil
		},
	}
}

func newMoveCmd() *cobra.Command {
	var (
		from, to       string
		fromIdx, toIdx int
	)
	cmd := &cobra.Command{
		Use:   "move <id>",
		Short: "Drag a job into another column",
		Long: `Moves a job the way a drag on the board does. The job is placed at the end
of the board. --from and --from-index default to where the job is now, and
--to-index defaults to the end of the destination column.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			a, err := GetAppFromContext(cmd.Context())
			if err != nil {
				return err
			}
			current, ok := a.Board.Get(id)
			if !ok {
				reportOutcome(cmd.OutOrStdout(), id, "moved", board.NotFound)
				return nil
			}

			src := board.Location{DroppableID: current.Status.String(), Index: fromIdx}
			if cmd.Flags().Changed("from") {
				src.DroppableID = columnLabel(from)
			}
			if !cmd.Flags().Changed("from-index") {
				src.Index = columnIndex(a.Board, src.DroppableID, id)
			}
			dst := board.Location{DroppableID: columnLabel(to), Index: toIdx}
			if !cmd.Flags().Changed("to-index") {
				dst.Index = columnLen(a.Board, dst.DroppableID)
			}

			o, err := a.Board.ReconcileDrag(cmd.Context(), board.DragResult{
				Source:      src,
				Destination: &dst,
				DraggableID: strconv.Itoa(id),
			})
			if err != nil {
				return err
			}
			reportOutcome(cmd.OutOrStdout(), id, "moved to "+dst.DroppableID, o)
			return nil
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Source column (default the job's column)")
	cmd.Flags().StringVar(&to, "to", "", "Destination column")
	cmd.Flags().IntVar(&fromIdx, "from-index", 0, "Position in the source column")
	cmd.Flags().IntVar(&toIdx, "to-index", 0, "Position in the destination column")
	cmd.MarkFlagRequired("to")
	return cmd
}

func columnIndex(b *board.Board, label string, id int) int {
	st, ok := job.StatusForColumn(label)
	if !ok {
		return 0
	}
	for i, j := range b.Column(st).Jobs {
		if j.ID == id {
			return i
		}
	}
	return 0
}

func columnLen(b *board.Board, label string) int {
	st, ok := job.StatusForColumn(label)
	if !ok {
		return 0
	}
	return len(b.Column(st).Jobs)
}
