package cmd

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tomgalvin.uk/qlprint/internal/bitmap"
	"tomgalvin.uk/qlprint/internal/config"
	"tomgalvin.uk/qlprint/internal/media"
	"tomgalvin.uk/qlprint/internal/printer"
	"tomgalvin.uk/qlprint/internal/render"
)

var ErrUnknownMediaName = errors.New("Unknown media name")

var printOpts struct {
	image   string
	layout  string
	wait    bool
	preview string
	dryRun  bool
	media   string
}

var printCmd = &cobra.Command{
	Use:   "print <text> [secondary text]",
	Short: "Print a text label",
	Long: `Print one or two lines of text, sized to fill the loaded label.

With --dry-run no printer is opened: the label is rendered for the media given
by --media, which is useful together with --preview.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		job := render.Job{Text: args[0], Scale: cfg.Scale}
		if len(args) > 1 {
			job.SecondaryText = args[1]
		}
		layout, err := render.ParseLayout(printOpts.layout)
		if err != nil {
			return err
		}
		job.Layout = layout

		if printOpts.dryRun {
			g, err := parseMediaName(printOpts.media)
			if err != nil {
				return err
			}
			lines, err := rasterize(g, job)
			if err != nil {
				return err
			}
			printField("Media", g.String())
			printField("Raster lines", len(lines))
			fmt.Println(successStyle.Render("Dry run, nothing printed"))
			return nil
		}

		s, err := openPrinter(cmd.Context())
		if err != nil {
			return err
		}
		defer s.close()

		g, err := s.printer.CurrentLabel(cmd.Context())
		if err != nil {
			return err
		}
		lines, err := rasterize(g, job)
		if err != nil {
			return err
		}
		return sendLines(cmd.Context(), s.printer, lines)
	},
}

func rasterize(g media.Geometry, job render.Job) ([]bitmap.RasterLine, error) {
	f, err := render.LoadFont(cfg.Font)
	if err != nil {
		return nil, err
	}
	r := render.NewRasterizer(g, f)
	r.Length = cfg.CanvasLength
	if printOpts.image != "" {
		img, err := render.LoadImage(printOpts.image)
		if err != nil {
			return nil, err
		}
		if err := r.SetSecondaryImage(img); err != nil {
			return nil, err
		}
	}

	canvas, err := r.Render(job)
	if err != nil {
		return nil, err
	}
	if printOpts.preview != "" {
		if err := writePreview(printOpts.preview, canvas); err != nil {
			return nil, err
		}
		logger.Info("Wrote preview", "path", printOpts.preview)
	}

	lines, err := bitmap.PackLines(bitmap.FromGray(canvas))
	if err != nil {
		return nil, fmt.Errorf("Couldn't convert label for %s:\n%w", g, err)
	}
	return lines, nil
}

func writePreview(path string, canvas image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("Couldn't create preview file:\n%w", err)
	}
	if err := png.Encode(f, canvas); err != nil {
		f.Close()
		return fmt.Errorf("Couldn't encode preview:\n%w", err)
	}
	return f.Close()
}

func sendLines(ctx context.Context, p *printer.Printer, lines []bitmap.RasterLine) error {
	if !printOpts.wait {
		reply, err := p.Print(ctx, lines)
		if err != nil {
			return err
		}
		if reply.HasErrors() {
			fmt.Println(warnStyle.Render("Printer reported: " + strings.Join(reply.Errors, ", ")))
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("Sent %d raster lines", len(lines))))
		return nil
	}

	p.PollObserver = func(s *printer.Status) {
		if s.HasErrors() {
			fmt.Println(warnStyle.Render("Printer reported: " + strings.Join(s.Errors, ", ")))
		}
	}
	if _, err := p.PrintBlocking(ctx, lines); err != nil {
		return err
	}
	fmt.Println(successStyle.Render("Printed"))
	return nil
}

// Parses a media name as listed by the labels command: "62" for continuous
// tape or "29x90" for die-cut labels
func parseMediaName(name string) (media.Geometry, error) {
	widthPart, lengthPart, dieCut := strings.Cut(strings.ToLower(strings.TrimSuffix(name, "mm")), "x")
	width, err := strconv.ParseUint(widthPart, 10, 8)
	if err != nil {
		return media.Geometry{}, fmt.Errorf("%w: %s", ErrUnknownMediaName, name)
	}
	var length uint64
	if dieCut {
		length, err = strconv.ParseUint(lengthPart, 10, 8)
		if err != nil || length == 0 {
			return media.Geometry{}, fmt.Errorf("%w: %s", ErrUnknownMediaName, name)
		}
	}
	g, ok := media.Lookup(uint8(width), uint8(length))
	if !ok {
		return media.Geometry{}, fmt.Errorf("%w: %s", ErrUnknownMediaName, name)
	}
	return g, nil
}

func init() {
	rootCmd.AddCommand(printCmd)

	flags := printCmd.Flags()
	flags.StringVar(&printOpts.image, "image", "", "image to print below the text (12mm tape only)")
	flags.StringVar(&printOpts.layout, "layout", "auto", "text layout: auto, single or two-line")
	flags.Float64("scale", 1.0, "font size multiplier")
	flags.String("font", "goregular", "builtin font name, font file or system font name")
	flags.Int("length", render.DefaultLength, "label length in dots for continuous tape")
	flags.BoolVar(&printOpts.wait, "wait", false, "wait until the printer has finished printing")
	flags.StringVar(&printOpts.preview, "preview", "", "write the rendered label to a PNG file")
	flags.BoolVar(&printOpts.dryRun, "dry-run", false, "render the label without printing it")
	flags.StringVar(&printOpts.media, "media", "62", "media to render for with --dry-run")

	bindFlag(printCmd, config.KeyScale, "scale")
	bindFlag(printCmd, config.KeyFont, "font")
	bindFlag(printCmd, config.KeyCanvasLength, "length")
}
