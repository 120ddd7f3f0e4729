package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/scopefs/internal/config"
)

func configCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Manage scopefs configuration",
		Subcommands: []*cli.Command{
			{
				Name:  "init",
				Usage: "Create a .scopefs.kdl in the sandbox root",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "force",
						Usage: "overwrite an existing config file",
					},
				},
				Action: configInitAction,
			},
			{
				Name:   "show",
				Usage:  "Print the effective configuration",
				Action: configShowAction,
			},
			{
				Name:   "validate",
				Usage:  "Check the configuration for errors",
				Action: configValidateAction,
			},
		},
	}
}

func configInitAction(c *cli.Context) error {
	root := c.String("root")
	path := filepath.Join(root, ".scopefs.kdl")

	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := os.WriteFile(path, []byte(kdlTemplate()), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	fmt.Printf("Created %s\n", path)
	return nil
}

func configShowAction(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	if c.Bool("json") {
		return printJSON(cfg)
	}
	fmt.Print(configToKDL(cfg))
	return nil
}

func configValidateAction(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration invalid: %v\n", err)
		return cli.Exit("", 1)
	}

	fmt.Println("Configuration is valid.")
	if cfg.Sandbox.FollowSymlinks {
		fmt.Println("Warning: follow_symlinks is enabled; symlinks may expose files outside the sandbox root.")
	}
	if cfg.Sandbox.MaxFileSize > config.DefaultMaxFileSize {
		fmt.Printf("Note: max_file_size is %d bytes, above the default of %d.\n",
			cfg.Sandbox.MaxFileSize, config.DefaultMaxFileSize)
	}
	return nil
}

// configToKDL renders the effective configuration in the same KDL shape the
// loader accepts, so the output can be pasted back into .scopefs.kdl.
func configToKDL(cfg *config.Config) string {
	var b strings.Builder
	fmt.Fprintf(&b, "version %d\n\n", cfg.Version)
	b.WriteString("sandbox {\n")
	fmt.Fprintf(&b, "    root %q\n", cfg.Sandbox.Root)
	fmt.Fprintf(&b, "    max_file_size %d\n", cfg.Sandbox.MaxFileSize)
	fmt.Fprintf(&b, "    follow_symlinks %v\n", cfg.Sandbox.FollowSymlinks)
	b.WriteString("}\n\n")
	b.WriteString("search {\n")
	fmt.Fprintf(&b, "    max_results %d\n", cfg.Search.MaxResults)
	fmt.Fprintf(&b, "    max_depth %d\n", cfg.Search.MaxDepth)
	fmt.Fprintf(&b, "    concurrency %d\n", cfg.Search.Concurrency)
	b.WriteString("}\n\n")
	b.WriteString("exclude {\n")
	for _, pattern := range cfg.Exclude {
		fmt.Fprintf(&b, "    %q\n", pattern)
	}
	b.WriteString("}\n")
	return b.String()
}

func kdlTemplate() string {
	return `// scopefs configuration
version 1

sandbox {
    // Sandbox root, relative paths resolve against this file's directory.
    root "."
    // Maximum readable file size. Accepts bytes or "10MB" style strings.
    max_file_size "10MB"
    follow_symlinks false
}

search {
    max_results 10000
    // 0 means unlimited depth.
    max_depth 0
    // 0 picks a value based on CPU count.
    concurrency 0
}

exclude {
    "**/.git/**"
}
`
}
