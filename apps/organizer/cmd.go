package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"golang.org/x/term"

	"github.com/trezcool/organizer/core"
	"github.com/trezcool/organizer/storage/snapshot"
)

// mockable funcs
var (
	nowFunc         = time.Now
	isTerminalFunc  = func() bool { return term.IsTerminal(int(os.Stdout.Fd())) }
	waitForShutdown = func() {
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
		<-shutdown
	}

	errHelp = errors.New("help provided")
)

type commandLine struct {
	conf   *core.Config
	logger core.Logger
	out    io.Writer
	errOut io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  grades                                    - grade, letter and points per course")
	fmt.Fprintln(cli.out, "  gpa [-preset 4.0|4.3] [-max N]            - term GPA against the profile target")
	fmt.Fprintln(cli.out, "  required -course ID [-category NAME] -target PCT")
	fmt.Fprintln(cli.out, "                                            - score needed in a category to reach a course grade")
	fmt.Fprintln(cli.out, "  feed [FILTERS]                            - assignments and tasks by due date")
	fmt.Fprintln(cli.out, "  ics [FILTERS] [-name NAME] [-o FILE]      - export the feed as an iCalendar file")
	fmt.Fprintln(cli.out, "  export -format csv|xlsx [-what feed|grades] [-o FILE]")
	fmt.Fprintln(cli.out, "                                            - export the feed and grades")
	fmt.Fprintln(cli.out, "  scale [-file FILE]                        - check a letter scale, or print the current one")
	fmt.Fprintln(cli.out, "  remind [-watch]                           - show today's reminder, or remind daily")
	fmt.Fprintln(cli.out, "  stats                                     - workload statistics")
	fmt.Fprintln(cli.out, "  plan [-minutes N] [-save]                 - study tasks to plan for open assignments")
	fmt.Fprintln(cli.out, "  import [-courses FILE] [-assignments FILE] [-tasks FILE] [-mode merge|replace] [-o FILE]")
	fmt.Fprintln(cli.out, "                                            - import CSV files into the data file")
	fmt.Fprintln(cli.out, "")
	fmt.Fprintln(cli.out, "FILTERS: -q TEXT -kind assignment|task -course ID|- -status open|done -from DATE -to DATE")
	fmt.Fprintln(cli.out, "Every command takes -data FILE to use another data file than the configured one.")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	switch args[1] {
	case "grades":
		return cli.grades(args[2:])
	case "gpa":
		return cli.gpa(args[2:])
	case "required":
		return cli.required(args[2:])
	case "feed":
		return cli.feed(args[2:])
	case "ics":
		return cli.ics(args[2:])
	case "export":
		return cli.export(args[2:])
	case "scale":
		return cli.scale(args[2:])
	case "remind":
		return cli.remind(args[2:])
	case "stats":
		return cli.stats(args[2:])
	case "plan":
		return cli.plan(args[2:])
	case "import":
		return cli.importCSV(args[2:])
	default:
		cli.printUsage()
		return errHelp
	}
}

// command is a subcommand flag set with the shared -data flag.
type command struct {
	*flag.FlagSet
	data *string
}

func (cli *commandLine) newCommand(name string) command {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.errOut)
	return command{
		FlagSet: fs,
		data:    fs.String("data", "", "The data file to use (default: the configured one)."),
	}
}

func (cmd command) parse(args []string) error {
	if err := cmd.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return core.NewArgumentError(err.Error())
	}
	if cmd.NArg() > 0 {
		return core.NewArgumentError(fmt.Sprintf("%s: unexpected argument %q", cmd.Name(), cmd.Arg(0)))
	}
	return nil
}

// isSet reports whether the flag `name` was given.
func (cmd command) isSet(name string) bool {
	set := false
	cmd.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}

// dataPath is the -data file, else the configured one.
func (cli *commandLine) dataPath(cmd command) string {
	if *cmd.data != "" {
		return *cmd.data
	}
	return cli.conf.DataFile
}

// open loads the data file. Records that do not validate are kept and logged as warnings.
func (cli *commandLine) open(cmd command) (*snapshot.Repository, error) {
	repo, err := snapshot.Open(cli.dataPath(cmd))
	if err != nil {
		return nil, err
	}
	for _, problem := range repo.Problems() {
		cli.logger.Warn("data file: " + problem.Error())
	}
	return repo, nil
}

func (cli *commandLine) today() time.Time {
	return core.DateOf(nowFunc().In(cli.conf.Location()))
}

// table prints aligned columns on a terminal, tab-separated values otherwise.
func (cli *commandLine) table(header []string, rows [][]string) error {
	if !isTerminalFunc() {
		for _, row := range append([][]string{header}, rows...) {
			if _, err := fmt.Fprintln(cli.out, strings.Join(row, "\t")); err != nil {
				return err
			}
		}
		return nil
	}

	tw := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(header, "\t")))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// save writes `data` to the data file `path`, or to the CLI output when `path` is "-".
func (cli *commandLine) save(path string, data snapshot.Data) error {
	if path == "-" {
		return snapshot.Encode(cli.out, data)
	}
	if err := snapshot.Save(path, data); err != nil {
		return err
	}
	cli.logger.Info("written " + path)
	return nil
}

// num formats `f` with at most 2 decimals.
func num(f float64) string {
	return strconv.FormatFloat(core.Round(f, 2), 'f', -1, 64)
}

// createFile opens `path` for writing, or returns the CLI output when `path` is empty or "-".
func (cli *commandLine) createFile(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return cli.out, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}
