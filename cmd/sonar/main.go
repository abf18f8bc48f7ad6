package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/starford/sonar/internal"
	"github.com/starford/sonar/internal/host"
	pkgconfig "github.com/starford/sonar/pkg/config"
)

var version = "dev"

func loadConfig(cmd *cli.Command) (*internal.Config, string, error) {
	configPath := cmd.String("config")

	cfg := internal.NewDefaultConfig()
	if err := pkgconfig.LoadOptional(configPath, cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, configPath, nil
}

func baseOptions(cmd *cli.Command) (*internal.Config, []internal.Option, error) {
	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	return cfg, []internal.Option{
		internal.WithConfig(cfg),
		internal.WithConfigPath(configPath),
		internal.WithVersion(version),
	}, nil
}

// parseTarget splits "plugin://<id>/path/?query" or "/path/?query".
func parseTarget(target, addonID string) (string, string) {
	target = strings.TrimPrefix(target, "plugin://"+addonID)
	path, query, _ := strings.Cut(target, "?")
	if path == "" {
		path = "/"
	}
	return path, query
}

func invoke(ctx context.Context, cmd *cli.Command) error {
	cfg, opts, err := baseOptions(cmd)
	if err != nil {
		return err
	}

	path, query := parseTarget(cmd.Args().First(), cfg.Addon.ID)
	req := host.Request{
		Path:   path,
		Query:  query,
		Handle: int(cmd.Int("handle")),
	}
	if cmd.IsSet("input") {
		input := cmd.String("input")
		req.Input = &input
	}

	opts = append(opts, internal.WithRequest(req))
	if err := internal.Invoke(ctx, opts...); err != nil {
		return fmt.Errorf("invoke error: %w", err)
	}
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	_, opts, err := baseOptions(cmd)
	if err != nil {
		return err
	}
	if err := internal.Run(ctx, opts...); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

func serveMCP(ctx context.Context, cmd *cli.Command) error {
	_, opts, err := baseOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ServeMCP(ctx, opts...)
}

func clearCache(ctx context.Context, cmd *cli.Command) error {
	_, opts, err := baseOptions(cmd)
	if err != nil {
		return err
	}
	return internal.ClearCache(ctx, opts...)
}

func showSettings(_ context.Context, cmd *cli.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	keys := internal.SettingKeys()
	if cmd.Args().Present() {
		keys = cmd.Args().Slice()
	}
	for _, k := range keys {
		v, err := cfg.Setting(k)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%s=%s\n", k, v)
	}
	return nil
}

func setSetting(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Len() != 2 {
		return fmt.Errorf("usage: settings set <key> <value>")
	}
	cfg, configPath, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.SetSetting(cmd.Args().Get(0), cmd.Args().Get(1)); err != nil {
		return err
	}
	return pkgconfig.Save(configPath, cfg)
}

func main() {
	cmd := &cli.Command{
		Name:    "sonar",
		Usage:   "SoundCloud browsing plugin core with CLI, HTTP and MCP hosts",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "invoke",
				Usage:     "Run one plugin invocation and print the host response as JSON",
				ArgsUsage: "<plugin://id/path/?query | /path/?query>",
				Action:    invoke,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "handle",
						Usage: "Directory handle passed to the plugin",
						Value: 1,
					},
					&cli.StringFlag{
						Name:  "input",
						Usage: "Answer to an input dialog",
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Run the HTTP host with SSE events",
				Action: serve,
			},
			{
				Name:   "mcp",
				Usage:  "Expose the plugin as MCP tools over stdio",
				Action: serveMCP,
			},
			{
				Name:  "settings",
				Usage: "Show or change settings",
				Commands: []*cli.Command{
					{
						Name:      "show",
						Usage:     "Print settings",
						ArgsUsage: "[key...]",
						Action:    showSettings,
					},
					{
						Name:      "set",
						Usage:     "Change one setting and save the config file",
						ArgsUsage: "<key> <value>",
						Action:    setSetting,
					},
				},
			},
			{
				Name:  "cache",
				Usage: "Manage the response cache",
				Commands: []*cli.Command{
					{
						Name:   "clear",
						Usage:  "Remove every cached response",
						Action: clearCache,
					},
				},
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
