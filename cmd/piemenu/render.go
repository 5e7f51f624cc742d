package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/recera/piemenu/cmd/piemenu/internal/preview"
)

func newRenderCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "render <scene.yaml>",
		Short: "Render a scene with its menu to PNG",
		Long: `Loads the scene, opens the menu with the scripted gesture and writes
the diagram with the menu overlay as a PNG image.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderPNG(args[0], outputPath(args[0], output, ".png"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to the scene name with .png)")
	return cmd
}

func newHTMLCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "html <scene.yaml>",
		Short: "Print the menu overlay markup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := preview.Render(args[0])
			if err != nil {
				return err
			}
			if output == "" || output == "-" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), f.Markup)
				return err
			}
			if err := os.WriteFile(output, []byte(f.Markup+"\n"), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			log.Printf("✅ Wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to stdout)")
	return cmd
}

func newWatchCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "watch <scene.yaml>",
		Short: "Re-render the PNG whenever the scene changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			scene := args[0]
			out := outputPath(scene, output, ".png")
			if err := renderPNG(scene, out); err != nil {
				log.Printf("❌ %v", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			log.Printf("👀 Watching %s", scene)
			return preview.Watch(ctx, scene, func() {
				if err := renderPNG(scene, out); err != nil {
					log.Printf("❌ %v", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (defaults to the scene name with .png)")
	return cmd
}

func renderPNG(scene, output string) error {
	f, err := preview.Render(scene)
	if err != nil {
		return err
	}
	if err := os.WriteFile(output, f.PNG, 0644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	for _, s := range f.Selected {
		log.Printf("🎯 Selected %s", s)
	}
	log.Printf("✅ Rendered %s", output)
	return nil
}

func outputPath(scene, output, ext string) string {
	if output != "" {
		return output
	}
	base := scene
	for _, suffix := range []string{".yaml", ".yml"} {
		base = strings.TrimSuffix(base, suffix)
	}
	return base + ext
}
