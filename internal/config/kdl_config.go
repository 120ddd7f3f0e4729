package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .scopefs.kdl file in dir.
// Returns (nil, nil) when the file does not exist.
func LoadKDL(dir string) (*Config, error) {
	kdlPath := filepath.Join(dir, ".scopefs.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		return nil, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .scopefs.kdl: %v", err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	resolveConfigRoot(cfg, dir)
	return cfg, nil
}

// resolveConfigRoot makes the sandbox root absolute. A relative root is
// resolved against the directory containing the config file.
func resolveConfigRoot(cfg *Config, dir string) {
	if cfg == nil {
		return
	}
	if cfg.Sandbox.Root != "" {
		if !filepath.IsAbs(cfg.Sandbox.Root) {
			cfg.Sandbox.Root = filepath.Join(dir, cfg.Sandbox.Root)
		}
		cfg.Sandbox.Root = filepath.Clean(cfg.Sandbox.Root)
		return
	}
	if absRoot, err := filepath.Abs(dir); err == nil {
		cfg.Sandbox.Root = absRoot
	} else {
		cfg.Sandbox.Root = dir
	}
}

func parseKDL(content string) (*Config, error) {
	cfg := DefaultConfig()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "sandbox":
			for _, cn := range n.Children { // sandbox { root "." max_file_size "10MB" }
				switch nodeName(cn) {
				case "root":
					if s, ok := firstStringArg(cn); ok {
						cfg.Sandbox.Root = s
					}
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Sandbox.MaxFileSize = int64(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if sz, err := ParseSize(s); err == nil {
							cfg.Sandbox.MaxFileSize = sz
						}
					}
				case "follow_symlinks":
					if b, ok := firstBoolArg(cn); ok {
						cfg.Sandbox.FollowSymlinks = b
					}
				}
			}
		case "search":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "max_results":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.MaxResults = v
					}
				case "max_depth":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.MaxDepth = v
					}
				case "concurrency":
					if v, ok := firstIntArg(cn); ok {
						cfg.Search.Concurrency = v
					}
				}
			}
		case "exclude":
			// An exclude block replaces the built-in exclusions entirely.
			cfg.Exclude = collectStringArgs(n)
		}
	}

	return cfg, nil
}

// Helpers leveraging the kdl-go document model.
func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}

	// Block format like exclude { "pattern" } stores strings as child
	// nodes whose name is the string value.
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}

	return out
}

// ParseSize handles size strings like "10MB", "500KB", "1GB"
func ParseSize(s string) (int64, error) {
	s = strings.ToUpper(strings.TrimSpace(s))

	var multiplier int64 = 1
	var numStr string

	switch {
	case strings.HasSuffix(s, "GB"):
		multiplier = 1024 * 1024 * 1024
		numStr = strings.TrimSuffix(s, "GB")
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		numStr = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		numStr = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		multiplier = 1
		numStr = strings.TrimSuffix(s, "B")
	default:
		numStr = s
	}

	num, err := strconv.ParseInt(numStr, 10, 64)
	if err != nil {
		return 0, err
	}

	return num * multiplier, nil
}
