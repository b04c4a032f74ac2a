package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harunnryd/kokoroctl/pkg/workflow"
)

type convertOptions struct {
	text  string
	voice string
	out   string
	play  bool
}

func newConvertCmd(a *app) *cobra.Command {
	var opts convertOptions
	cmd := &cobra.Command{
		Use:   "convert [text...]",
		Short: "Synthesize text into a WAV file under the output directory",
		Example: `  kokoroctl convert -t "Hello there" -v af_bella
  echo "Hello" | kokoroctl convert -t - -o greeting --play`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := convertText(opts.text, args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return runConvert(ctx, a, cmd.OutOrStdout(), workflow.Request{
				Text:       text,
				Voice:      opts.voice,
				Autoplay:   opts.play,
				OutputName: opts.out,
			})
		},
	}
	cmd.Flags().StringVarP(&opts.text, "text", "t", "", `text to speak ("-" reads stdin)`)
	cmd.Flags().StringVarP(&opts.voice, "voice", "v", "", "voice id (default: first catalog voice)")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file name; .wav is appended when missing")
	cmd.Flags().BoolVarP(&opts.play, "play", "p", false, "play the file after saving")
	return cmd
}

func convertText(flag string, args []string, stdin io.Reader) (string, error) {
	if flag == "-" {
		raw, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(raw), nil
	}
	if flag != "" {
		return flag, nil
	}
	return strings.Join(args, " "), nil
}

func runConvert(ctx context.Context, a *app, out io.Writer, req workflow.Request) error {
	eng, err := a.engine(ctx, newStatusPresenter(out))
	if err != nil {
		return err
	}
	defer eng.Close()

	if st := eng.Convert(ctx, req); st.IsError() {
		return errFailed
	}
	return nil
}
