// Command ycmd is the server's entrypoint: flag parsing, options-file
// loading, log redirection and the HTTP listener - all explicitly out of
// scope as hard engineering (spec.md §1) but still required to produce a
// runnable server wired to the core this repository implements.
package main

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/standardbeagle/ycmd-go/internal/config"
	"github.com/standardbeagle/ycmd-go/internal/debug"
	"github.com/standardbeagle/ycmd-go/internal/dispatch"
	"github.com/standardbeagle/ycmd-go/internal/httpapi"
	"github.com/standardbeagle/ycmd-go/internal/idcompleter"
	"github.com/standardbeagle/ycmd-go/internal/identifier"
	"github.com/standardbeagle/ycmd-go/internal/mcpfacade"
	"github.com/standardbeagle/ycmd-go/internal/version"
	"github.com/standardbeagle/ycmd-go/internal/warmup"
)

func main() {
	app := &cli.App{
		Name:  "ycmd",
		Usage: "long-lived code-comprehension server",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "port", Value: 1337, Usage: "TCP port to listen on"},
			&cli.StringFlag{Name: "out", Usage: "redirect stdout to this file"},
			&cli.StringFlag{Name: "err", Usage: "redirect stderr to this file"},
			&cli.StringFlag{Name: "options_file", Required: true, Usage: "path to the JSON user_options defaults file"},
			&cli.BoolFlag{Name: "wait_for_debugger", Usage: "block at startup indefinitely so a debugger can attach"},
			&cli.StringFlag{Name: "server-config", Value: ".ycmd.kdl", Usage: "optional KDL server-tuning config"},
			&cli.StringFlag{Name: "identifier-regex-file", Usage: "optional TOML filetype->regex overrides"},
			&cli.StringFlag{Name: "clangd-path", Usage: "explicit clangd binary path (overrides user_options and PATH search)"},
			&cli.BoolFlag{Name: "mcp", Usage: "additionally expose the completion core as MCP tools over stdio"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if out := c.String("out"); out != "" {
		f, err := os.OpenFile(out, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening --out %s: %w", out, err)
		}
		os.Stdout = f
	}
	if errPath := c.String("err"); errPath != "" {
		f, err := os.OpenFile(errPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening --err %s: %w", errPath, err)
		}
		os.Stderr = f
	}
	debug.SetOutput(os.Stderr)

	if c.Bool("wait_for_debugger") {
		fmt.Fprintf(os.Stderr, "ycmd %s: pid %d, waiting for debugger...\n", version.Version, os.Getpid())
		select {} // blocks until the process is killed; ^C still works via the OS.
	}

	opts, err := config.LoadOptionsFile(c.String("options_file"))
	if err != nil {
		return err // non-zero exit per §6: missing/unparseable options_file
	}

	serverCfg, err := config.LoadServerConfig(c.String("server-config"))
	if err != nil {
		return err
	}

	regexes := identifier.NewRegistry()
	if regexFile := c.String("identifier-regex-file"); regexFile != "" {
		overrides, err := config.LoadIdentifierRegexes(regexFile)
		if err != nil {
			return err
		}
		regexes.SetOverrides(overrides)
	}

	clangdPath := c.String("clangd-path")
	if clangdPath == "" {
		clangdPath = opts.ClangdBinaryPath
	}
	locate := func(filetype string) (string, []string, bool) {
		switch filetype {
		case "cpp", "c":
			if clangdPath != "" {
				return clangdPath, nil, true
			}
			if p, err := exec.LookPath("clangd"); err == nil {
				return p, nil, true
			}
		}
		return "", nil, false
	}

	ids := idcompleter.NewDatabase(regexes)
	semantic := dispatch.NewLspEngines(locate, os.Stderr)
	d := dispatch.NewDispatcher(ids, semantic, regexes, opts.MinNumCharsForCompletion, opts.MinNumIdentifierCandChars)

	if serverCfg.Warmup.Enabled {
		root, err := os.Getwd()
		if err == nil {
			go warmup.Run(warmup.Config{Root: root, Include: serverCfg.Warmup.Include, Exclude: serverCfg.Warmup.Exclude}, ids, regexes)
		}
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", c.Int("port")))
	if err != nil {
		return fmt.Errorf("listening on port %d: %w", c.Int("port"), err)
	}

	shutdown := make(chan struct{})
	srv := httpapi.New(d, func() { close(shutdown) })
	httpSrv := &http.Server{Handler: srv.Mux()}

	go func() {
		if err := httpSrv.Serve(listener); err != nil && err != http.ErrServerClosed {
			debug.Log("server", "serve error: %v", err)
		}
	}()

	if c.Bool("mcp") {
		facade := mcpfacade.New(d)
		mcpCtx, cancelMCP := context.WithCancel(context.Background())
		defer cancelMCP()
		go func() {
			if err := facade.Run(mcpCtx); err != nil {
				debug.Log("mcpfacade", "stopped: %v", err)
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-shutdown:
	case <-sigCh:
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}
