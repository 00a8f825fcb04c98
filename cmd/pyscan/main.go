package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/specvital/pyscan/pkg/domain"
	"github.com/specvital/pyscan/pkg/parser/pytest"
)

var version = "dev"

const usageText = "Usage: pyscan <filepath>"

func main() {
	app := &cli.App{
		Name:      "pyscan",
		Usage:     "Static pytest test discovery for a single Python file",
		ArgsUsage: "<filepath>",
		Version:   version,
		Description: `pyscan parses one Python source file and prints a JSON manifest of
its test functions, test methods, and test classes, without executing
anything. Unreadable or unparsable files yield an empty manifest.`,
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Args().Len() != 1 {
		// The only user-visible failure path: bad invocation shape.
		if err := writeJSON(c.App.Writer, usageError()); err != nil {
			return cli.Exit(err, 1)
		}
		return cli.Exit("", 1)
	}

	path := c.Args().First()
	items := pytest.DiscoverFile(c.Context, path)
	return writeJSON(c.App.Writer, domain.NewReport(path, items))
}

func usageError() map[string]string {
	return map[string]string{"error": usageText}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
