package config

import (
	"fmt"
	"os"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// ServerConfig carries the operational knobs spec.md is silent on: worker
// pool sizing for the filter-and-sort offload, LSP spawn timeout, and the
// project warm-up globs (SPEC_FULL §2.3/§3.2). Parsed from an optional KDL
// file; its absence is not an error, matching the teacher's own
// LoadKDL("no .lci.kdl found -> nil, nil") convention.
type ServerConfig struct {
	FilterSortWorkers int
	LSPSpawnTimeoutMS int
	Warmup            WarmupConfig
}

// WarmupConfig configures the optional startup identifier-database
// pre-population walk (SPEC_FULL §3.2).
type WarmupConfig struct {
	Enabled bool
	Include []string
	Exclude []string
}

func defaultServerConfig() ServerConfig {
	return ServerConfig{
		FilterSortWorkers: 0, // 0 means "use runtime.GOMAXPROCS(0)"
		LSPSpawnTimeoutMS: 10000,
	}
}

// LoadServerConfig reads path (default ".ycmd.kdl"). A missing file yields
// the defaults and a nil error, exactly like the teacher's LoadKDL.
func LoadServerConfig(path string) (ServerConfig, error) {
	cfg := defaultServerConfig()

	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: reading server config %s: %w", path, err)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return cfg, fmt.Errorf("config: parsing server config %s: %w", path, err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "filter_sort":
			for _, cn := range n.Children {
				if nodeName(cn) == "workers" {
					if v, ok := firstIntArg(cn); ok {
						cfg.FilterSortWorkers = v
					}
				}
			}
		case "lsp":
			for _, cn := range n.Children {
				if nodeName(cn) == "spawn_timeout_ms" {
					if v, ok := firstIntArg(cn); ok {
						cfg.LSPSpawnTimeoutMS = v
					}
				}
			}
		case "warmup":
			if b, ok := firstBoolArg(n); ok {
				cfg.Warmup.Enabled = b
			} else {
				cfg.Warmup.Enabled = true
			}
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "include":
					cfg.Warmup.Include = collectStringArgs(cn)
				case "exclude":
					cfg.Warmup.Exclude = collectStringArgs(cn)
				}
			}
		}
	}

	return cfg, nil
}

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

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
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
	if len(out) == 0 {
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			}
		}
	}
	return out
}
