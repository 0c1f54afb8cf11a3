package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"

	"github.com/avtools/resolvectl/cmd/resolvectl/internal/styles"
	"github.com/avtools/resolvectl/pkg/otio"
	"github.com/avtools/resolvectl/pkg/session"
)

const (
	menuExport = "export"
	menuImport = "import"
	menuQuit   = "quit"
)

// runMenu is the default interactive mode. It connects once and loops on a
// small menu until the user quits.
func runMenu(configPath string, verbose bool) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var sess *session.Session
	var connectErr error
	if err := spinner.New().
		Title("Connecting to DaVinci Resolve...").
		Action(func() {
			sess, connectErr = session.Connect(ctx, cfg, newLogger(cfg, verbose))
		}).
		Run(); err != nil {
		return err
	}
	if connectErr != nil {
		return connectErr
	}
	defer func() { _ = sess.Close() }()

	st, err := sess.Status(ctx)
	if err != nil {
		return err
	}
	fmt.Println(renderStatus(st))

	for {
		choice, err := pickAction(sess.HasTimeline())
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}

		switch choice {
		case menuExport:
			err = menuExportFlow(ctx, sess)
		case menuImport:
			err = menuImportFlow(ctx, sess)
		case menuQuit:
			return nil
		}
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				continue
			}
			fmt.Println(styles.Error.Render("error: " + err.Error()))
		}
	}
}

func pickAction(hasTimeline bool) (string, error) {
	exportLabel := "1. Export current timeline to OTIO"
	if !hasTimeline {
		exportLabel += " (no timeline open)"
	}

	var choice string
	err := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title("What would you like to do?").
			Options(
				huh.NewOption(exportLabel, menuExport),
				huh.NewOption("2. Import an OTIO file as a new timeline", menuImport),
				huh.NewOption("3. Quit", menuQuit),
			).
			Value(&choice),
	)).Run()
	return choice, err
}

func menuExportFlow(ctx context.Context, sess *session.Session) error {
	if err := sess.EnsureTimeline(); err != nil {
		return err
	}

	out, err := sess.DefaultExportPath(ctx)
	if err != nil {
		return err
	}

	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Export to").
			Description("The .otio extension is added if missing").
			Value(&out).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("a path is required")
				}
				return nil
			}),
	)).Run(); err != nil {
		return err
	}

	out = otio.Normalize(out)
	if _, statErr := os.Stat(out); statErr == nil {
		var overwrite bool
		if err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title(out + " already exists. Overwrite?").
				Value(&overwrite),
		)).Run(); err != nil {
			return err
		}
		if !overwrite {
			return nil
		}
	}

	written, err := sess.ExportTimeline(ctx, out)
	if err != nil {
		return err
	}

	fmt.Println(styles.Success.Render("Exported timeline to " + written))
	return nil
}

func menuImportFlow(ctx context.Context, sess *session.Session) error {
	var path string
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("OTIO file to import").
			Value(&path).
			Validate(otio.ValidatePath),
	)).Run(); err != nil {
		return err
	}

	printOTIOPreview(path)

	name := otio.Stem(path)
	if err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("New timeline name").
			Value(&name).
			Validate(func(s string) error {
				if s == "" {
					return errors.New("a name is required")
				}
				return nil
			}),
	)).Run(); err != nil {
		return err
	}

	var report *session.ImportReport
	var importErr error
	if err := spinner.New().
		Title("Importing " + name + "...").
		Action(func() {
			report, importErr = sess.ImportTimeline(ctx, path, name)
		}).
		Run(); err != nil {
		return err
	}
	if importErr != nil {
		return importErr
	}

	fmt.Println(renderImportReport(report))
	return nil
}

// printOTIOPreview shows what the file contains before touching the host.
// Preview failures are not fatal; import surfaces real problems itself.
func printOTIOPreview(path string) {
	summary, err := otio.ReadSummary(path)
	if err != nil {
		fmt.Println(styles.Dim.Render("(could not preview " + path + ": " + err.Error() + ")"))
		return
	}
	fmt.Println(summary.String())
}
