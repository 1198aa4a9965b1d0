// ABOUTME: Show command for printing an Astronomy Picture of the Day
// ABOUTME: Resolves a date with fallback and renders the explanation with glamour

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/apod/internal/config"
	"github.com/harper/apod/internal/content"
	"github.com/harper/apod/internal/models"
	"github.com/harper/apod/internal/resolve"
	"github.com/harper/apod/internal/timeutil"
	"github.com/harper/apod/internal/tui"
)

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the Astronomy Picture of the Day",
	Long: `Show the Astronomy Picture of the Day for a date.

The date may be 'today', 'yesterday', or YYYY-MM-DD. Without a date the
most recent picture is shown: today's, or yesterday's when today's has not
been published yet. When a date has no picture, up to 7 earlier days are
tried.

Use --today to ask for today's picture only; if it is not published yet
you are asked before falling back.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().Bool("today", false, "show today's picture, asking before falling back")
	showCmd.Flags().BoolP("yes", "y", false, "accept the fallback without asking (with --today)")
	showCmd.Flags().Bool("json", false, "print the record as JSON")
}

func runShow(cmd *cobra.Command, args []string) error {
	today, _ := cmd.Flags().GetBool("today")
	yes, _ := cmd.Flags().GetBool("yes")
	asJSON, _ := cmd.Flags().GetBool("json")

	date, mode, err := requestFromArgs(args, today, resolver.Location())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	res, err := resolveWithConfirm(ctx, resolver, date, mode, func() (bool, error) {
		if yes {
			return true, nil
		}
		return confirm(cmd.InOrStdin(), cmd.OutOrStdout(), "Today's APOD hasn't been published yet. View the latest available picture instead?")
	})
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch res.Status {
	case resolve.StatusNeedsConfirmation:
		fmt.Fprintln(out, "Okay, not showing an earlier picture.")
		return nil
	case resolve.StatusUnresolved:
		fmt.Fprintf(cmd.ErrOrStderr(), "%s\n", color.New(color.Faint).Sprint("Run the command again to retry, or pick a different date."))
		return errors.New(tui.UnresolvedMessage(res))
	}

	if asJSON {
		return printJSON(out, res.Record)
	}
	printResult(out, res, resolver.Today())
	return nil
}

// requestFromArgs turns CLI input into a resolution request.
// No date means the initial load; --today wins over a date.
func requestFromArgs(args []string, today bool, loc *time.Location) (time.Time, resolve.Mode, error) {
	if today {
		return time.Time{}, resolve.ModeTodayCheck, nil
	}
	if len(args) == 0 {
		return time.Time{}, resolve.ModeInitial, nil
	}
	d, err := timeutil.ParseDay(args[0], time.Now(), loc)
	if err != nil {
		return time.Time{}, resolve.ModeExplicit, err
	}
	return d, resolve.ModeExplicit, nil
}

// resolveWithConfirm runs one resolution and, when today's entry is
// missing, asks whether to run the backward search from today.
// A nil ask leaves the NeedsConfirmation result as is.
func resolveWithConfirm(ctx context.Context, r *resolve.Resolver, date time.Time, mode resolve.Mode, ask func() (bool, error)) (resolve.Result, error) {
	res, err := r.Resolve(ctx, date, mode)
	if err != nil {
		if errors.Is(err, resolve.ErrInvalidDate) {
			return res, fmt.Errorf("%w (the archive starts %s)", err, timeutil.Format(timeutil.Floor(r.Location())))
		}
		return res, err
	}
	if res.Status != resolve.StatusNeedsConfirmation || ask == nil {
		return res, nil
	}

	ok, err := ask()
	if err != nil {
		return res, fmt.Errorf("failed to read answer: %w", err)
	}
	if !ok {
		return res, nil
	}
	return r.Resolve(ctx, r.Today(), resolve.ModeExplicit)
}

// confirm asks a yes/no question; anything but y or yes is no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N] ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func printJSON(w io.Writer, rec *models.Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func printResult(w io.Writer, res resolve.Result, today time.Time) {
	rec := res.Record

	bold := color.New(color.Bold).SprintFunc()
	faint := color.New(color.Faint).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	if notice := content.Notice(res.RequestedDate, res.EffectiveDate, today); notice != "" {
		fmt.Fprintf(w, "%s\n", yellow(notice))
	}

	fmt.Fprintln(w, strings.Repeat("─", config.SeparatorWidth))
	fmt.Fprintf(w, "%s\n\n", bold(rec.Title))
	fmt.Fprintf(w, "%s %s\n", faint("Date:"), timeutil.FormatDisplay(res.EffectiveDate))
	fmt.Fprintf(w, "%s %s\n", faint("Copyright:"), rec.CopyrightHolder())

	label := "Image:"
	if rec.MediaType == models.MediaVideo {
		label = "Video:"
	}
	fmt.Fprintf(w, "%s %s\n", faint(label), cyan(rec.URL))
	if rec.HDURL != nil && *rec.HDURL != "" {
		fmt.Fprintf(w, "%s %s\n", faint("HD:"), cyan(*rec.HDURL))
	}
	fmt.Fprintln(w, strings.Repeat("─", config.SeparatorWidth))

	if rec.Explanation == "" {
		fmt.Fprintln(w, "\n(No explanation available)")
		fmt.Fprintln(w)
		return
	}

	markdown := content.ToMarkdown(rec.Explanation)
	rendered, err := glamour.Render(markdown, config.DefaultStyle)
	if err != nil {
		fmt.Fprintf(w, "%s\n", faint("(markdown rendering unavailable, showing plain text)"))
		fmt.Fprintf(w, "\n%s\n", markdown)
	} else {
		fmt.Fprint(w, rendered)
	}
	fmt.Fprintln(w)
}
