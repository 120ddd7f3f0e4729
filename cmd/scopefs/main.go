package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/scopefs/internal/config"
	"github.com/standardbeagle/scopefs/internal/query"
	"github.com/standardbeagle/scopefs/internal/version"
)

func main() {
	app := &cli.App{
		Name:    "scopefs",
		Usage:   "Sandboxed read-only filesystem queries, as a CLI or an MCP server",
		Version: version.Info(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "sandbox root directory",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "max-file-size",
				Usage: "maximum readable file size (e.g. 10MB)",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "glob patterns to exclude from search (repeatable)",
			},
			&cli.BoolFlag{
				Name:  "follow-symlinks",
				Usage: "allow symlinks that resolve outside the sandbox root",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "emit JSON instead of human-readable output",
			},
		},
		Commands: []*cli.Command{
			lsCommand(),
			catCommand(),
			findCommand(),
			statCommand(),
			mcpCommand(),
			configCommand(),
		},
		Action: func(c *cli.Context) error {
			// When launched by an MCP client over pipes, skip straight to
			// server mode so clients need no extra arguments.
			if isMCPMode() {
				return runMCPServer(c)
			}
			return cli.ShowAppHelp(c)
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfigWithOverrides loads layered config for the chosen root and then
// applies command-line overrides on top.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("root"))
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if c.IsSet("root") {
		cfg.Sandbox.Root = c.String("root")
	}
	if s := c.String("max-file-size"); s != "" {
		size, err := config.ParseSize(s)
		if err != nil {
			return nil, fmt.Errorf("invalid --max-file-size: %w", err)
		}
		cfg.Sandbox.MaxFileSize = size
	}
	if c.IsSet("follow-symlinks") {
		cfg.Sandbox.FollowSymlinks = c.Bool("follow-symlinks")
	}
	if patterns := c.StringSlice("exclude"); len(patterns) > 0 {
		cfg.Exclude = config.DeduplicatePatterns(append(cfg.Exclude, patterns...))
	}

	validator := config.NewValidator()
	if err := validator.ValidateAndSetDefaults(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func buildEngine(c *cli.Context) (*query.Engine, *config.Config, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, nil, err
	}
	engine, err := query.NewEngine(cfg)
	if err != nil {
		return nil, nil, err
	}
	return engine, cfg, nil
}

func lsCommand() *cli.Command {
	return &cli.Command{
		Name:      "ls",
		Usage:     "List a directory inside the sandbox",
		ArgsUsage: "[path]",
		Action: func(c *cli.Context) error {
			engine, _, err := buildEngine(c)
			if err != nil {
				return err
			}
			listing, err := engine.List(context.Background(), c.Args().First())
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(listing)
			}
			for _, item := range listing.Items {
				fmt.Println(formatEntry(item))
			}
			return nil
		},
	}
}

func catCommand() *cli.Command {
	return &cli.Command{
		Name:      "cat",
		Usage:     "Print a file from the sandbox",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("cat requires a file path")
			}
			engine, _, err := buildEngine(c)
			if err != nil {
				return err
			}
			content, err := engine.ReadFile(context.Background(), c.Args().First())
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(content)
			}
			fmt.Print(content.Content)
			return nil
		},
	}
}

func findCommand() *cli.Command {
	return &cli.Command{
		Name:      "find",
		Usage:     "Search for files by name pattern (* and ? wildcards)",
		ArgsUsage: "<pattern> [path]",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("find requires a pattern")
			}
			engine, _, err := buildEngine(c)
			if err != nil {
				return err
			}
			report, err := engine.Search(context.Background(), c.Args().Get(1), c.Args().First())
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(report)
			}
			for _, match := range report.Found {
				fmt.Println(match.RelativePath)
			}
			if report.Truncated {
				fmt.Fprintln(os.Stderr, "(results truncated; raise search.max_results to see more)")
			}
			return nil
		},
	}
}

func statCommand() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "Show metadata for a file or directory",
		ArgsUsage: "<path>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return fmt.Errorf("stat requires a path")
			}
			engine, _, err := buildEngine(c)
			if err != nil {
				return err
			}
			info, err := engine.Stat(context.Background(), c.Args().First())
			if err != nil {
				return err
			}
			if c.Bool("json") {
				return printJSON(info)
			}
			printFileInfo(info)
			return nil
		},
	}
}

func formatEntry(item query.DirEntry) string {
	if item.Type == query.KindDirectory {
		return fmt.Sprintf("[DIR]  %s", item.Name)
	}
	return fmt.Sprintf("[FILE] %s (%d bytes)", item.Name, item.SizeBytes)
}

func printFileInfo(info *query.FileInfo) {
	fmt.Printf("Path:        %s\n", info.RelativePath)
	fmt.Printf("Type:        %s\n", info.Type)
	fmt.Printf("Size:        %d bytes\n", info.SizeBytes)
	fmt.Printf("Permissions: %s\n", info.Permissions)
	fmt.Printf("Created:     %s\n", info.CreatedAt)
	fmt.Printf("Modified:    %s\n", info.ModifiedAt)
	fmt.Printf("Accessed:    %s\n", info.AccessedAt)
}

func printJSON(v interface{}) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

// isMCPMode detects whether we were launched by an MCP client rather than
// interactively. MCP clients spawn the binary with stdin attached to a pipe.
func isMCPMode() bool {
	if os.Getenv("SCOPEFS_MCP_MODE") == "1" {
		return true
	}
	if strings.Contains(strings.ToLower(os.Args[0]), "mcp") {
		return true
	}
	stat, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return stat.Mode()&os.ModeCharDevice == 0
}
