// Command deskcal is the terminal front end for the calendar core:
// add, list, view, and delete events, show public holidays, export the
// calendar as ICS, and check the weather.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"deskcal/calendar"
	"deskcal/holiday"
	"deskcal/holiday/nager"
	"deskcal/internal/config"
	"deskcal/recurrence"
	"deskcal/store"
	"deskcal/weather"
)

const usage = `Usage: deskcal [-config path] <command> [args]

Commands:
  add [-repeat rule] <name> <YYYY-MM-DD> <HH:MM AM/PM> [description]
        Add an event; rule is one of None, Weekly, Biweekly, Monthly,
        "6 Months", Yearly.
  month <year> <month>     List holidays and events for a month.
  view <entry>             Show details for a listing line.
  delete <entry>           Delete the event series behind a listing line.
  holidays <year>          List public holidays for a year.
  weather [city]           Show current weather conditions.
  export [file]            Write all events as an ICS calendar.
`

var configPath = flag.String("config", "", "path to configuration file")

func main() {
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "deskcal: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging.Level)

	st := store.New(store.NewFilePersister(cfg.Storage.EventsFile), logger)
	if err := st.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "deskcal: %v\n", err)
		os.Exit(1)
	}

	source := nager.NewClient(cfg.Holidays.BaseURL, cfg.Holidays.Country, logger)
	cal := calendar.New(st, holiday.NewCache(source, logger), logger)

	ctx := context.Background()
	if err := run(ctx, cal, cfg, logger, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "deskcal: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cal *calendar.Calendar, cfg *config.Config, logger *slog.Logger, args []string) error {
	cmd, rest := args[0], args[1:]

	switch cmd {
	case "add":
		return runAdd(cal, rest)
	case "month":
		return runMonth(ctx, cal, rest)
	case "view":
		return runView(ctx, cal, rest)
	case "delete":
		return runDelete(ctx, cal, rest)
	case "holidays":
		return runHolidays(ctx, cal, rest)
	case "weather":
		return runWeather(ctx, cfg, logger, rest)
	case "export":
		return runExport(cal, rest)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runAdd(cal *calendar.Calendar, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	repeat := fs.String("repeat", "None", "recurrence rule")
	if err := fs.Parse(args); err != nil {
		return err
	}
	args = fs.Args()
	if len(args) < 3 {
		return fmt.Errorf("add needs a name, a date (YYYY-MM-DD), and a time (HH:MM AM/PM)")
	}
	name, date, clock := args[0], args[1], args[2]
	description := ""
	if len(args) > 3 {
		description = strings.Join(args[3:], " ")
	}

	rule, err := recurrence.ParseRule(*repeat)
	if err != nil {
		return err
	}

	dates, err := cal.AddEvent(name, date, clock, description, rule)
	if err != nil {
		return err
	}
	if len(dates) == 1 {
		fmt.Printf("Added %q on %s.\n", name, dates[0])
	} else {
		fmt.Printf("Added %q on %s, repeating %s (%d occurrences through %s).\n",
			name, dates[0], rule, len(dates), dates[len(dates)-1])
	}
	return nil
}

func runMonth(ctx context.Context, cal *calendar.Calendar, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("month needs a year and a month number")
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q: expected a number", args[0])
	}
	month, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid month %q: expected a number", args[1])
	}

	listing, err := cal.ListMonth(ctx, year, month)
	if err != nil {
		return err
	}
	if len(listing.Entries) == 0 {
		fmt.Printf("Nothing scheduled for %04d-%02d.\n", year, month)
		return nil
	}
	for _, label := range listing.Labels() {
		fmt.Println(label)
	}
	return nil
}

func runView(ctx context.Context, cal *calendar.Calendar, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("view needs one listing entry")
	}
	detail, err := cal.ViewEntry(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Println(detail)
	return nil
}

func runDelete(ctx context.Context, cal *calendar.Calendar, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("delete needs one listing entry")
	}
	removed, err := cal.DeleteEntry(ctx, args[0])
	if err != nil {
		return err
	}
	fmt.Printf("Removed %d occurrence(s).\n", removed)
	return nil
}

func runHolidays(ctx context.Context, cal *calendar.Calendar, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("holidays needs a year")
	}
	year, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid year %q: expected a number", args[0])
	}

	holidays := cal.Holidays(ctx, year)
	if len(holidays) == 0 {
		fmt.Printf("No holiday data for %d.\n", year)
		return nil
	}
	dates := make([]string, 0, len(holidays))
	for date := range holidays {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		fmt.Printf("%s  %s\n", date, holidays[date])
	}
	return nil
}

func runWeather(ctx context.Context, cfg *config.Config, logger *slog.Logger, args []string) error {
	city := cfg.Weather.DefaultCity
	if len(args) > 0 {
		city = strings.Join(args, " ")
	}

	client := weather.NewClient(cfg.Weather.BaseURL, cfg.Weather.APIKey, logger)
	line, err := client.Current(ctx, city)
	if err != nil {
		logger.Warn("weather lookup failed", "city", city, "err", err)
	}
	fmt.Println(line)
	return nil
}

func runExport(cal *calendar.Calendar, args []string) error {
	out := os.Stdout
	if len(args) > 0 {
		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		defer f.Close()
		out = f
	}
	return cal.ExportICS(out)
}

func newLogger(level string) *slog.Logger {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		l = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l}))
}
