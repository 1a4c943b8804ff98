package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"quote-configurator/catalog"
	"quote-configurator/models"
	"quote-configurator/pricing"
	"quote-configurator/scheduler"
	"quote-configurator/service"
	"quote-configurator/utils"
)

// NewRootCmd creates the configurator command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "configurator",
		Short:        "Offline tools for the quote configurator",
		SilenceUsage: true,
	}
	root.AddCommand(NewValidateCmd(), NewQuoteCmd(), NewSlotsCmd())
	return root
}

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a catalog file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(path)
			if err != nil {
				return err
			}
			data := c.Data()
			fmt.Fprintf(cmd.OutOrStdout(), "%s is valid: %d categories, %d project types, %d items\n",
				path, len(data.Categories), len(data.ProjectTypes), len(data.Items))
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "catalog", "c", "config/catalog.yaml", "Catalog file (yaml, json or toml)")
	return cmd
}

// NewQuoteCmd creates the quote command
func NewQuoteCmd() *cobra.Command {
	var path, projectType, locale string
	var selected []string
	var quantities map[string]int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price a selection",
		Long: `Price a selection the way the configurator does.

Items are applied in the given order, so list dependencies before the items needing them.
Items the selection rules refuse are reported and left out. With --select, catalog defaults
not listed are left out too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := catalog.Load(path)
			if err != nil {
				return err
			}
			resp, err := service.NewQuoteService(c, pricing.NewEngine(c)).Quote(models.QuoteRequest{
				ProjectType: projectType,
				Selected:    selected,
				Quantities:  quantities,
			})
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), resp)
			}
			return printQuote(cmd.OutOrStdout(), resp, utils.NewMoneyFormatter(locale, c.Pricing().Currency))
		},
	}

	cmd.Flags().StringVarP(&path, "catalog", "c", "config/catalog.yaml", "Catalog file (yaml, json or toml)")
	cmd.Flags().StringVarP(&projectType, "type", "t", "", "Project type id")
	cmd.Flags().StringSliceVarP(&selected, "select", "s", nil, "Item ids to select, in order")
	cmd.Flags().StringToIntVar(&quantities, "qty", nil, "Quantities, e.g. subpage=3")
	cmd.Flags().StringVar(&locale, "locale", "en-US", "Locale for amounts")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the quote as JSON")
	_ = cmd.MarkFlagRequired("type")
	return cmd
}

func printQuote(out io.Writer, resp *models.QuoteResponse, money *utils.MoneyFormatter) error {
	q := resp.Quote
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ITEM\tQTY\tHOURS\tTOTAL")
	for _, l := range q.Lines {
		total := money.Format(l.LineTotal)
		switch {
		case l.PercentageAdd != nil:
			total = "+" + money.FormatPercent(*l.PercentageAdd)
		case l.IncludedInBase:
			total = "included"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", l.Name, l.Quantity, money.FormatNumber(l.Hours), total)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nSubtotal:    %s\n", money.Format(q.Subtotal))
	if q.ComplexityPrice > 0 {
		fmt.Fprintf(out, "Complexity:  %s (%s, +%d days)\n", money.Format(q.ComplexityPrice), q.Tier, q.ComplexityExtraDays)
	}
	fmt.Fprintf(out, "Net:         %s\n", money.Format(q.PriceNet))
	fmt.Fprintf(out, "Gross:       %s (VAT %s)\n", money.Format(q.PriceGross), money.FormatPercent(q.VATRate))
	fmt.Fprintf(out, "Deposit:     %s\n", money.Format(q.Deposit))
	fmt.Fprintf(out, "Schedule:    %d working days (%s hours)\n", q.TotalDays, money.FormatNumber(q.TotalHours))
	for _, s := range resp.Skipped {
		fmt.Fprintf(out, "Skipped:     %s (%s)\n", s.ItemID, s.Reason)
	}
	return nil
}

// NewSlotsCmd creates the slots command
func NewSlotsCmd() *cobra.Command {
	var days int
	var from, to, weekend, tz string
	var busy []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "slots",
		Short: "List valid start dates for a project length",
		Long: `List every start date from which the given number of business days fits before --to
without touching a busy day. --to is exclusive.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := time.LoadLocation(tz)
			if err != nil {
				return fmt.Errorf("invalid --tz %q: %w", tz, err)
			}
			weekdays, err := scheduler.ParseWeekend(weekend)
			if err != nil {
				return err
			}
			sched := scheduler.New(weekdays, loc)

			start, err := sched.ParseDay(from)
			if err != nil {
				return fmt.Errorf("invalid --from: %w", err)
			}
			end, err := sched.ParseDay(to)
			if err != nil {
				return fmt.Errorf("invalid --to: %w", err)
			}

			intervals := make([]models.BusyInterval, 0, len(busy))
			for _, b := range busy {
				day, err := sched.ParseDay(strings.TrimSpace(b))
				if err != nil {
					return fmt.Errorf("invalid --busy day %q: %w", b, err)
				}
				intervals = append(intervals, models.BusyInterval{Start: day, End: day.AddDate(0, 0, 1)})
			}

			av := sched.FindAvailableStarts(days, intervals, start, end)
			starts := scheduler.FormatDays(av.ValidStarts)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), map[string][]string{
					"validStarts": starts,
					"busyDays":    scheduler.FormatDays(av.BusyDays),
				})
			}

			out := cmd.OutOrStdout()
			if len(starts) == 0 {
				fmt.Fprintf(out, "No start date fits %d business days between %s and %s\n", days, from, to)
				return nil
			}
			for _, d := range av.ValidStarts {
				fmt.Fprintf(out, "%s -> %s\n", d.Format(models.DateLayout),
					sched.ComputeEndDate(d, days).Format(models.DateLayout))
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&days, "days", "d", 1, "Required business days")
	cmd.Flags().StringVar(&from, "from", "", "First day of the window (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Day after the window (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&busy, "busy", nil, "Busy days (YYYY-MM-DD)")
	cmd.Flags().StringVar(&weekend, "weekend", "sat,sun", "Non-working weekdays")
	cmd.Flags().StringVar(&tz, "tz", "UTC", "Time zone of the calendar")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	return cmd
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
