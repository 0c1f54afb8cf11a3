package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/avtools/resolvectl/cmd/resolvectl/internal/styles"
	"github.com/avtools/resolvectl/pkg/hostenv"
	"github.com/avtools/resolvectl/pkg/mcptools"
	"github.com/avtools/resolvectl/pkg/session"
)

const version = "0.3.0"

func main() {
	// Handle subcommands before flag parsing.
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "env":
			exit(runEnv())
			return
		case "info":
			exit(withSession(os.Args[1], nil, runInfo))
			return
		case "inspect":
			exit(withSession(os.Args[1], nil, runInspect))
			return
		case "export":
			var out string
			exit(withSession(os.Args[1], func(fs *flag.FlagSet) {
				fs.StringVar(&out, "o", "", "output path (default: <export_dir>/<timeline name>.otio)")
			}, func(ctx context.Context, sess *session.Session, args []string) error {
				return runExport(ctx, sess, out)
			}))
			return
		case "import":
			var name string
			exit(withSession(os.Args[1], func(fs *flag.FlagSet) {
				fs.StringVar(&name, "name", "", "name for the new timeline (default: file stem)")
			}, func(ctx context.Context, sess *session.Session, args []string) error {
				if len(args) != 1 {
					return fmt.Errorf("usage: resolvectl import [-name NAME] <file.otio>")
				}
				return runImport(ctx, sess, args[0], name)
			}))
			return
		case "diff":
			exit(runDiff(os.Args[2:]))
			return
		case "mcp":
			exit(withSession(os.Args[1], nil, runMCP))
			return
		}
	}

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: resolvectl [flags]\n       resolvectl <command> [flags]\n\nFlags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nCommands:\n"+
			"  env      Probe the scripting installation paths\n"+
			"  info     Show host, project, and timeline information\n"+
			"  inspect  List every clip on the current timeline\n"+
			"  export   Export the current timeline to OTIO\n"+
			"  import   Import an OTIO file as a new timeline\n"+
			"  diff     Compare two OTIO files\n"+
			"  mcp      Serve timeline tools over MCP on stdio\n"+
			"\nWithout a command, an interactive menu is started.\n")
	}

	configPath := flag.String("config", "", "path to configuration file (default: resolvectl.yaml or the user config dir)")
	envFile := flag.String("env", ".env", "path to .env file (ignored if missing)")
	verbose := flag.Bool("verbose", false, "trace every remote call")
	flag.Parse()

	if err := loadDotEnv(*envFile); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if err := runMenu(*configPath, *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func exit(err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", styles.Error.Render("error:"), err)
		os.Exit(1)
	}
}

// withSession runs fn inside a connected session, with the shared
// --config/--env/--verbose flags registered alongside any command flags.
func withSession(name string, extra func(*flag.FlagSet), fn func(context.Context, *session.Session, []string) error) error {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", "", "path to configuration file")
	envFile := fs.String("env", ".env", "path to .env file (ignored if missing)")
	verbose := fs.Bool("verbose", false, "trace every remote call")
	if extra != nil {
		extra(fs)
	}
	_ = fs.Parse(os.Args[2:])

	if err := loadDotEnv(*envFile); err != nil {
		return err
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sess, err := session.Connect(ctx, cfg, newLogger(cfg, *verbose))
	if err != nil {
		return err
	}
	defer func() { _ = sess.Close() }()

	return fn(ctx, sess, fs.Args())
}

// runEnv probes the scripting installation without connecting.
func runEnv() error {
	paths := hostenv.Lookup(runtime.GOOS)
	fmt.Println(paths.Describe())

	if _, err := hostenv.Discover(); err != nil {
		fmt.Println(styles.Warning.Render("Scripting modules not found; check your DaVinci Resolve installation"))
		return err
	}

	fmt.Println(styles.Success.Render("Scripting installation looks good"))
	return nil
}

func runInfo(ctx context.Context, sess *session.Session, _ []string) error {
	st, err := sess.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Println(renderStatus(st))
	return nil
}

func runInspect(ctx context.Context, sess *session.Session, _ []string) error {
	report, err := sess.InspectTimeline(ctx)
	if err != nil {
		return err
	}
	fmt.Println(renderInspect(report))
	return nil
}

func runExport(ctx context.Context, sess *session.Session, out string) error {
	if out == "" {
		path, err := sess.DefaultExportPath(ctx)
		if err != nil {
			return err
		}
		out = path
	}

	written, err := sess.ExportTimeline(ctx, out)
	if err != nil {
		return err
	}

	fmt.Println(styles.Success.Render("Exported timeline to " + written))
	return nil
}

func runImport(ctx context.Context, sess *session.Session, path, name string) error {
	printOTIOPreview(path)

	report, err := sess.ImportTimeline(ctx, path, name)
	if err != nil {
		return err
	}

	fmt.Println(renderImportReport(report))
	return nil
}

func runMCP(ctx context.Context, sess *session.Session, _ []string) error {
	return mcptools.New(sess, version).Serve(ctx, os.Stdin, os.Stdout)
}
