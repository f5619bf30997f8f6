package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mistial-dev/deathnote"
	"github.com/mistial-dev/deathnote/credit"
	"github.com/mistial-dev/deathnote/pkg/version"
	"github.com/mistial-dev/deathnote/registry"
	"github.com/mistial-dev/deathnote/settings"
)

var rootCmd = &cobra.Command{
	Use:   "deathnote",
	Short: "Death Note lobby settings tool",
	Long:  "deathnote manages Death Note lobby settings and generates shareable, attributed setting summaries. Run a subcommand, or serve the tool surface over MCP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	// Persistent flags (available to all subcommands).
	rootCmd.PersistentFlags().String("definitions", "", "Path to a YAML setting definitions file")
	rootCmd.PersistentFlags().Bool("watch", false, "Reload the definitions file on change")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("tool-url", credit.DefaultToolURL, "Canonical tool URL for attribution")

	// Bind flags to Viper.
	_ = viper.BindPFlag("definitions", rootCmd.PersistentFlags().Lookup("definitions"))
	_ = viper.BindPFlag("watch", rootCmd.PersistentFlags().Lookup("watch"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("tool_url", rootCmd.PersistentFlags().Lookup("tool-url"))

	// Env support: DEATHNOTE_DEFINITIONS, DEATHNOTE_DEBUG, etc.
	viper.SetEnvPrefix("DEATHNOTE")
	viper.AutomaticEnv()

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func newLogger() (*zap.Logger, error) {
	if viper.GetBool("debug") {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newInstance builds the facade from the bound configuration.
func newInstance() (*deathnote.DeathNote, *zap.Logger, error) {
	logger, err := newLogger()
	if err != nil {
		return nil, nil, err
	}
	dn, err := deathnote.New(deathnote.Options{
		Info: registry.ToolInfo{
			Version: version.Version,
			ToolURL: viper.GetString("tool_url"),
		},
		DefinitionsFile:  viper.GetString("definitions"),
		WatchDefinitions: viper.GetBool("watch"),
		Logger:           logger,
	})
	if err != nil {
		return nil, nil, err
	}
	return dn, logger, nil
}

// `generate` subcommand: print the shareable settings summary.
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate the shareable settings summary",
	RunE: func(cmd *cobra.Command, args []string) error {
		dn, logger, err := newInstance()
		if err != nil {
			return err
		}
		defer dn.Close()
		defer logger.Sync()

		fmt.Println(dn.Generate())
		return nil
	},
}

// `settings` subcommand group.
var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Inspect and modify lobby settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var settingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings with current values",
	RunE: func(cmd *cobra.Command, args []string) error {
		dn, logger, err := newInstance()
		if err != nil {
			return err
		}
		defer dn.Close()
		defer logger.Sync()

		var bin settings.Bin
		for _, s := range dn.Store().AllSettings() {
			if s.Definition.Bin != bin {
				bin = s.Definition.Bin
				fmt.Printf("%s:\n", bin.Label())
			}
			marker := " "
			if s.Changed() {
				marker = "*"
			}
			fmt.Printf("  %s %-28s %v\n", marker, s.Definition.Key, s.Value)
		}
		return nil
	},
}

var settingsGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Show one setting in detail",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dn, logger, err := newInstance()
		if err != nil {
			return err
		}
		defer dn.Close()
		defer logger.Sync()

		key := args[0]
		def, ok := dn.Store().Definition(key)
		if !ok {
			return fmt.Errorf("unknown setting: %s", key)
		}
		value, _ := dn.Store().Value(key)
		fmt.Printf("%s (%s, %s)\n", def.Title, def.Key, def.Bin.Label())
		fmt.Printf("  value:   %v\n", value)
		fmt.Printf("  default: %v\n", def.Default)
		if len(def.Choices) > 0 {
			fmt.Printf("  choices: %v\n", def.Choices)
		}
		if def.Help != "" {
			fmt.Printf("  %s\n", def.Help)
		}
		return nil
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Update a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		dn, logger, err := newInstance()
		if err != nil {
			return err
		}
		defer dn.Close()
		defer logger.Sync()

		key := args[0]
		def, ok := dn.Store().Definition(key)
		if !ok {
			return fmt.Errorf("unknown setting: %s", key)
		}
		value, err := def.ParseValue(args[1])
		if err != nil {
			return err
		}
		if err := dn.Store().Update(key, value); err != nil {
			return err
		}
		v, _ := dn.Store().Value(key)
		fmt.Printf("%s = %v\n", key, v)
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Reset one setting, or all settings when no key is given",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dn, logger, err := newInstance()
		if err != nil {
			return err
		}
		defer dn.Close()
		defer logger.Sync()

		if len(args) == 0 {
			dn.Store().ResetAll()
			fmt.Println("all settings reset")
			return nil
		}
		if err := dn.Store().Reset(args[0]); err != nil {
			return err
		}
		v, _ := dn.Store().Value(args[0])
		fmt.Printf("%s = %v\n", args[0], v)
		return nil
	},
}

var settingsSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search setting definitions by free text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dn, logger, err := newInstance()
		if err != nil {
			return err
		}
		defer dn.Close()
		defer logger.Sync()

		limit, _ := cmd.Flags().GetInt("limit")
		results, err := dn.SearchSettings(args[0], limit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Println("no matches")
			return nil
		}
		for _, r := range results {
			fmt.Printf("%-28s %-10s %s\n", r.Key, r.Bin.Label(), r.Title)
		}
		return nil
	},
}

func init() {
	settingsSearchCmd.Flags().Int("limit", 10, "Maximum results")

	settingsCmd.AddCommand(settingsListCmd)
	settingsCmd.AddCommand(settingsGetCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsSearchCmd)
}

// `serve` subcommand: expose the tool surface over MCP.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the MCP tool surface",
	RunE: func(cmd *cobra.Command, args []string) error {
		dn, logger, err := newInstance()
		if err != nil {
			return err
		}
		defer dn.Close()
		defer logger.Sync()

		transport, _ := cmd.Flags().GetString("transport")
		switch transport {
		case "stdio":
			return registry.ServeStdio(context.Background(), dn.Registry())
		case "http":
			addr, _ := cmd.Flags().GetString("addr")
			logger.Info("serving http", zap.String("addr", addr))
			mux := http.NewServeMux()
			mux.Handle("/mcp", registry.ServeHTTP(dn.Registry()))
			mux.Handle("/sse", registry.ServeSSE(dn.Registry()))
			return http.ListenAndServe(addr, mux)
		default:
			return fmt.Errorf("unknown transport: %s (stdio|http)", transport)
		}
	},
}

func init() {
	serveCmd.Flags().String("transport", "stdio", "Transport (stdio|http)")
	serveCmd.Flags().String("addr", ":8420", "Listen address for http transport")
}

// `version` subcommand.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}
