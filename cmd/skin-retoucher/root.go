package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"skin-retoucher/internal/config"
	"skin-retoucher/internal/logger"
	"skin-retoucher/internal/pipeline"
	"skin-retoucher/internal/shutdown"
	"skin-retoucher/internal/vision"
)

// Version is the application version.
const Version = "0.1.0"

var (
	configPath string
	logLevel   string
	humanLogs  bool
	overrides  []string

	cfg *config.Config
	log logger.Logger

	resources   *shutdown.Manager
	stopSignals func()
)

// paramFlags maps typed command-line flags to configuration keys.
var paramFlags = map[string]string{
	"radius":        "patch_radius",
	"strength":      "blend_strength",
	"sigma":         "sigma_multiplier",
	"margin":        "face_margin",
	"max-blemishes": "max_blemishes",
	"cascade":       "cascade_path",
	"clone":         "clone_method",
}

var rootCmd = &cobra.Command{
	Use:     "skin-retoucher",
	Short:   "Automatic skin smoothing and blemish removal for portraits",
	Version: Version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		level, err := logger.ParseLevel(c.Log.Level)
		if err != nil {
			return err
		}
		cfg = c
		log = logger.New(level, c.Log.Human)

		// Ctrl+C cancels the command context and releases registered resources.
		resources = shutdown.NewManager(cmd.Context(), log)
		stopSignals = resources.Listen()
		cmd.SetContext(resources.Context())
		return nil
	},
}

func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	err := rootCmd.ExecuteContext(context.Background())
	if closeErr := releaseResources(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML parameter preset")
	flags.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.BoolVar(&humanLogs, "human", false, "Human-readable console logs instead of JSON")
	flags.StringArrayVar(&overrides, "set", nil, "Override a parameter as key=value (repeatable)")
	registerParamFlags(rootCmd)
}

func registerParamFlags(cmd *cobra.Command) {
	flags := cmd.PersistentFlags()
	flags.Int("radius", 0, "Donor patch radius in pixels")
	flags.Int("strength", 0, "Smoothing blend strength, 0-100")
	flags.Float64("sigma", 0, "Skin threshold width in standard deviations")
	flags.Int("margin", 0, "Face region margin in percent")
	flags.Int("max-blemishes", 0, "Correct at most this many blemishes per face (0 = all)")
	flags.String("cascade", "", "Haar cascade XML for face detection")
	flags.String("clone", "", "Cloning method: poisson or opencv")
}

// loadConfig layers command-line flags over config.Load.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	c, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := applyFlags(cmd, c); err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// applyFlags copies explicitly set flags into c. --set pairs are applied
// last.
func applyFlags(cmd *cobra.Command, c *config.Config) error {
	flags := cmd.Flags()
	for name, key := range paramFlags {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}
		if err := c.Set(key, f.Value.String()); err != nil {
			return err
		}
	}
	if f := flags.Lookup("log-level"); f != nil && f.Changed {
		c.Log.Level = f.Value.String()
	}
	if f := flags.Lookup("human"); f != nil && f.Changed {
		c.Log.Human = f.Value.String() == "true"
	}

	pairs, err := flags.GetStringArray("set")
	if err != nil {
		return err
	}
	for _, pair := range pairs {
		if err := c.SetPair(pair); err != nil {
			return err
		}
	}
	return nil
}

func releaseResources() error {
	if resources == nil {
		return nil
	}
	stopSignals()
	return resources.Shutdown()
}

// newRetoucher opens the OpenCV backend and builds the automatic pipeline.
func newRetoucher() (*pipeline.Retoucher, error) {
	backend, err := vision.NewBackend(cfg.Params, log)
	if err != nil {
		return nil, err
	}
	resources.Register("vision backend", backend)

	stages := backend.Stages(cfg.Params.CloneMethod)
	return pipeline.NewRetoucher(cfg.Params, stages, log)
}

// defaultOutput derives "<name>_retouched<ext>" next to the input.
func defaultOutput(input string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + "_retouched" + ext
}
