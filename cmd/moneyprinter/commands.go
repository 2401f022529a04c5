package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vigneshnagarajan93/MoneyPrinter/auth"
	"github.com/vigneshnagarajan93/MoneyPrinter/internal/platform"
	"github.com/vigneshnagarajan93/MoneyPrinter/processing"
)

type generateOptions struct {
	configPath string
	request    processing.Request
	output     string
}

func newGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Run the whole pipeline for one video",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.resolve(cmd)
			if err != nil {
				return err
			}

			cfg := platform.LoadConfig()
			pipeline, err := platform.NewPipeline(cmd.Context(), cfg)
			if err != nil {
				return err
			}

			video := req.Video(0)
			if err := pipeline.Run(cmd.Context(), &video, opts.output); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), video.OutputPath)
			log.Printf("[+] Title: %s", video.Title)
			log.Printf("[+] Keywords: %s", strings.Join(video.Keywords, ", "))
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "YAML request file")
	flags.StringVarP(&opts.request.Subject, "subject", "s", "", "video subject")
	flags.IntVar(&opts.request.ParagraphNumber, "paragraphs", 0, "number of script paragraphs")
	flags.StringVar(&opts.request.AIModel, "model", "", "language model")
	flags.StringVar(&opts.request.Voice, "voice", "", "narration voice")
	flags.StringVar(&opts.request.Language, "language", "", "script language")
	flags.StringVar(&opts.request.SubtitlesPosition, "subtitles-position", "", `subtitle position, e.g. "center,bottom"`)
	flags.StringVar(&opts.request.TextColor, "color", "", "subtitle color")
	flags.StringVar(&opts.request.CustomPrompt, "prompt", "", "custom script prompt")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (default <temp>/output.mp4)")

	return cmd
}

// resolve loads the request file, if any, and lets explicitly set flags
// override its fields.
func (o *generateOptions) resolve(cmd *cobra.Command) (processing.Request, error) {
	var req processing.Request
	if o.configPath != "" {
		loaded, err := processing.LoadRequest(o.configPath)
		if err != nil {
			return processing.Request{}, err
		}
		req = loaded
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, val string) {
		if flags.Changed(name) {
			*dst = val
		}
	}
	override("subject", &req.Subject, o.request.Subject)
	override("model", &req.AIModel, o.request.AIModel)
	override("voice", &req.Voice, o.request.Voice)
	override("language", &req.Language, o.request.Language)
	override("subtitles-position", &req.SubtitlesPosition, o.request.SubtitlesPosition)
	override("color", &req.TextColor, o.request.TextColor)
	override("prompt", &req.CustomPrompt, o.request.CustomPrompt)
	if flags.Changed("paragraphs") {
		req.ParagraphNumber = o.request.ParagraphNumber
	}

	if strings.TrimSpace(req.Subject) == "" {
		return processing.Request{}, fmt.Errorf("a subject is required (--subject or subject: in --config)")
	}
	return req, nil
}

func newTokenCmd() *cobra.Command {
	var userID uint

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Print an API token for a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := platform.LoadConfig()
			if cfg.JWTSecret == "" {
				return fmt.Errorf("JWT_SECRET must be set")
			}
			token, err := auth.GenerateJWT(cfg.JWTSecret, userID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().UintVar(&userID, "user-id", 0, "user the token is issued to")
	_ = cmd.MarkFlagRequired("user-id")
	return cmd
}

func newTermsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "terms",
		Short: "Extract search terms from a model response on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			out, err := json.Marshal(processing.ParseSearchTerms(string(input)))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clean",
		Short: "Clean a raw script on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), processing.CleanScript(string(input)))
			return nil
		},
	}
}
