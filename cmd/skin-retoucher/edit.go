package main

import (
	"errors"

	"github.com/spf13/cobra"

	"skin-retoucher/internal/config"
	"skin-retoucher/internal/gui"
	"skin-retoucher/internal/pipeline"
	"skin-retoucher/internal/retouch"
	"skin-retoucher/internal/session"
	"skin-retoucher/internal/vision"
)

type editOptions struct {
	Input  string
	Output string
}

var editOpts editOptions

var editCmd = &cobra.Command{
	Use:   "edit",
	Short: "Remove blemishes interactively by clicking on them",
	Long: `Opens the image in a window. Click a blemish to replace it with the
smoothest nearby patch, press C to restore the original and Esc (or close
the window) to save and exit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runEdit(editOpts)
	},
}

func init() {
	editCmd.Flags().StringVarP(&editOpts.Input, "input", "i", "", "Path to input image")
	editCmd.Flags().StringVarP(&editOpts.Output, "output", "o", "", "Path to output image (default: <input>_retouched.<ext>)")

	editCmd.MarkFlagRequired("input")
	rootCmd.AddCommand(editCmd)
}

func runEdit(opts editOptions) error {
	if opts.Output == "" {
		opts.Output = defaultOutput(opts.Input)
	}

	frame, err := pipeline.LoadImage(opts.Input)
	if err != nil {
		return err
	}

	cloner, err := editCloner()
	if err != nil {
		return err
	}
	corrector := retouch.NewCorrector(cfg.Params.PatchRadius, cloner, log)
	sess := session.New(frame, corrector, log)

	result := gui.NewEditor(sess, frame, log).Run()

	if err := pipeline.NewImageSaver(log).SaveToPath(opts.Output, result); err != nil {
		return err
	}
	log.Info("Edit", "edited image saved", map[string]interface{}{
		"output": opts.Output,
		"edits":  sess.Edits(),
	})
	return nil
}

// editCloner returns the OpenCV seamless cloner unless Poisson cloning is
// configured or OpenCV is not compiled in.
func editCloner() (retouch.Cloner, error) {
	if cfg.Params.CloneMethod == config.CloneMethodPoisson {
		return retouch.NewPoissonCloner(), nil
	}

	backend, err := vision.NewBackend(cfg.Params, log)
	if errors.Is(err, vision.ErrUnavailable) {
		log.Info("Edit", "opencv cloning unavailable; using poisson", nil)
		return retouch.NewPoissonCloner(), nil
	}
	if err != nil {
		return nil, err
	}
	resources.Register("vision backend", backend)
	return backend, nil
}
