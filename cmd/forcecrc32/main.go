package main

import (
	"context"
	"errors"
	"fmt"
	"io/ioutil"
	"log"
	"os"

	"github.com/bodgit/forcecrc32"
	"github.com/urfave/cli/v2"
)

const usage = "Usage: forcecrc32 FILE OFFSET CRC32"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if !c.Bool("quiet") {
		logger.SetOutput(os.Stdout)
	}
	return logger
}

func newForcer(c *cli.Context) (*forcecrc32.Forcer, func() error, error) {
	var journal *forcecrc32.Journal
	if file := c.String("journal"); file != "" {
		var err error
		if journal, err = forcecrc32.NewJournal(file); err != nil {
			return nil, nil, err
		}
		return forcecrc32.New(journal, newLogger(c)), journal.Close, nil
	}
	return forcecrc32.New(nil, newLogger(c)), func() error { return nil }, nil
}

func exitError(err error) error {
	var assertion *forcecrc32.AssertionError
	switch {
	case errors.As(err, &assertion):
		return cli.NewExitError("Assertion error: "+err.Error(), 1)
	case forcecrc32.IsInvalidArgument(err):
		return cli.NewExitError("Error: "+err.Error(), 1)
	default:
		return cli.NewExitError("I/O error: "+err.Error(), 1)
	}
}

func force(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.NewExitError(usage, 1)
	}

	offset, err := forcecrc32.ParseOffset(c.Args().Get(1))
	if err != nil {
		return exitError(err)
	}

	crc, err := forcecrc32.ParseCRC(c.Args().Get(2))
	if err != nil {
		return exitError(err)
	}

	file, err := forcecrc32.ResolveCue(c.Args().Get(0))
	if err != nil {
		return exitError(err)
	}

	f, closer, err := newForcer(c)
	if err != nil {
		return exitError(err)
	}
	defer closer()

	if _, err := f.ForceFile(file, offset, crc); err != nil {
		return exitError(err)
	}

	return nil
}

func main() {
	app := cli.NewApp()

	app.Name = "forcecrc32"
	app.Usage = "Force the CRC-32 of a file to any value"
	app.Version = "1.0.0"
	app.ArgsUsage = "FILE OFFSET CRC32"
	app.Description = "Rewrites the four bytes at OFFSET so the CRC-32 of FILE becomes CRC32, given as eight hexadecimal digits. FILE may be a cue sheet in which case its first data track is patched."

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "journal",
			EnvVars: []string{"FORCECRC32_JOURNAL"},
			Usage:   "record patches in this database so they can be reverted",
		},
		&cli.BoolFlag{
			Name:    "quiet",
			Aliases: []string{"q"},
			Usage:   "suppress status messages",
		},
	}

	app.Action = force

	app.Commands = []*cli.Command{
		{
			Name:        "history",
			Usage:       "List journalled patches of a file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file, err := forcecrc32.ResolveCue(c.Args().First())
				if err != nil {
					return exitError(err)
				}

				f, closer, err := newForcer(c)
				if err != nil {
					return exitError(err)
				}
				defer closer()

				patches, err := f.History(file)
				if err != nil {
					return exitError(err)
				}

				for _, p := range patches {
					fmt.Printf("%d\t%s\t%d\t%08X\t%08X\t% X\t% X\n", p.ID, p.Created.Format("2006-01-02 15:04:05"), p.Offset, p.OriginalCRC, p.NewCRC, p.Before[:], p.After[:])
				}

				return nil
			},
		},
		{
			Name:        "revert",
			Usage:       "Undo the most recent journalled patch of a file",
			Description: "",
			ArgsUsage:   "FILE",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				file, err := forcecrc32.ResolveCue(c.Args().First())
				if err != nil {
					return exitError(err)
				}

				f, closer, err := newForcer(c)
				if err != nil {
					return exitError(err)
				}
				defer closer()

				if _, err := f.Revert(file); err != nil {
					return exitError(err)
				}

				return nil
			},
		},
		{
			Name:        "scan",
			Usage:       "Print the CRC-32 of every file in a directory",
			Description: "",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
				}

				logger := log.New(ioutil.Discard, "", 0)
				f := forcecrc32.New(nil, logger)

				if err := f.Scan(context.Background(), c.Args().First(), os.Stdout); err != nil {
					return exitError(err)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
