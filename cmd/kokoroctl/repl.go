package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harunnryd/kokoroctl/pkg/runner"
	"github.com/harunnryd/kokoroctl/pkg/voices"
	"github.com/harunnryd/kokoroctl/pkg/workflow"
)

const replHelp = `Type text and press Enter to convert it.
  /voice <id>    select a voice (Tab completes)
  /out [name]    set the output file name; empty resets to auto-name
  /play on|off   toggle playback after saving
  /voices        list voices
  /status        show the session settings and last status
  /quit          exit (or Ctrl-D)
Ctrl-C cancels a running conversion.`

type converter interface {
	Convert(ctx context.Context, req workflow.Request) workflow.Status
	Catalog() *voices.Catalog
}

// session holds the front-end state a request is built from.
type session struct {
	conv     converter
	out      io.Writer
	voice    string
	name     string
	autoplay bool
	last     workflow.Status
}

func newSession(conv converter, out io.Writer) *session {
	s := &session{conv: conv, out: out, last: workflow.Initial}
	if cat := conv.Catalog(); cat.Usable() {
		s.voice = cat.Default()
	}
	return s
}

func (s *session) prompt() string {
	voice := s.voice
	if voice == "" {
		voice = "no voice"
	}
	return fmt.Sprintf("kokoro(%s)> ", voice)
}

// handle processes one input line and reports whether the session should end.
func (s *session) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "/") {
		s.last = s.conv.Convert(ctx, workflow.Request{
			Text:       line,
			Voice:      s.voice,
			Autoplay:   s.autoplay,
			OutputName: s.name,
		})
		return false
	}

	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)
	switch cmd {
	case "/quit", "/exit":
		return true
	case "/help":
		fmt.Fprintln(s.out, replHelp)
	case "/voice":
		cat := s.conv.Catalog()
		if !cat.Usable() {
			fmt.Fprintln(s.out, errorColor.Sprint(cat.Default()))
			return false
		}
		voice, err := cat.Resolve(arg)
		if err != nil {
			fmt.Fprintln(s.out, errorColor.Sprint(err))
			return false
		}
		s.voice = voice
		fmt.Fprintf(s.out, "voice: %s (%s)\n", voice, voices.Language(voice))
	case "/out":
		s.name = arg
		if arg == "" {
			fmt.Fprintln(s.out, "output: auto-name")
		} else {
			fmt.Fprintf(s.out, "output: %s\n", arg)
		}
	case "/play":
		switch strings.ToLower(arg) {
		case "on", "true", "1":
			s.autoplay = true
		case "off", "false", "0":
			s.autoplay = false
		case "":
			s.autoplay = !s.autoplay
		default:
			fmt.Fprintln(s.out, errorColor.Sprint("usage: /play on|off"))
			return false
		}
		fmt.Fprintf(s.out, "play: %v\n", s.autoplay)
	case "/voices":
		cat := s.conv.Catalog()
		if !cat.Usable() {
			fmt.Fprintln(s.out, errorColor.Sprint(cat.Default()))
			return false
		}
		for _, id := range cat.IDs() {
			marker := " "
			if id == s.voice {
				marker = "*"
			}
			fmt.Fprintf(s.out, "%s %s\t%s\n", marker, id, voices.Language(id))
		}
	case "/status":
		name := s.name
		if name == "" {
			name = "auto"
		}
		fmt.Fprintf(s.out, "voice: %s\noutput: %s\nplay: %v\n", s.voice, name, s.autoplay)
		colorFor(s.last.Severity).Fprintln(s.out, s.last.Message)
	default:
		fmt.Fprintln(s.out, errorColor.Sprintf("unknown command %s, try /help", cmd))
	}
	return false
}

func (s *session) completer() *readline.PrefixCompleter {
	voiceIDs := func(string) []string {
		return s.conv.Catalog().Complete("")
	}
	return readline.NewPrefixCompleter(
		readline.PcItem("/voice", readline.PcItemDynamic(voiceIDs)),
		readline.PcItem("/out"),
		readline.PcItem("/play", readline.PcItem("on"), readline.PcItem("off")),
		readline.PcItem("/voices"),
		readline.PcItem("/status"),
		readline.PcItem("/help"),
		readline.PcItem("/quit"),
	)
}

func newReplCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive session: each line is converted with the current settings",
		RunE: func(cmd *cobra.Command, _ []string) error {
			runner.PrintBanner(cmd.OutOrStdout(), !color.NoColor)

			pres := newStatusPresenter(cmd.OutOrStdout())
			eng, err := a.engine(cmd.Context(), pres)
			if err != nil {
				return err
			}
			defer eng.Close()

			s := newSession(eng, cmd.OutOrStdout())
			rl, err := readline.NewEx(&readline.Config{
				Prompt:          s.prompt(),
				AutoComplete:    s.completer(),
				InterruptPrompt: "^C",
				EOFPrompt:       "exit",
			})
			if err != nil {
				return err
			}
			defer rl.Close()
			s.out = rl.Stdout()
			pres.setWriter(rl.Stdout())

			fmt.Fprintln(s.out, replHelp)
			fmt.Fprintln(s.out, workflow.Initial.Message)
			for {
				line, err := rl.Readline()
				if errors.Is(err, readline.ErrInterrupt) {
					continue
				}
				if errors.Is(err, io.EOF) {
					return nil
				}
				if err != nil {
					return err
				}
				if strings.TrimSpace(line) == "" {
					continue
				}

				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
				quit := s.handle(ctx, line)
				stop()
				if quit {
					return nil
				}
				rl.SetPrompt(s.prompt())
			}
		},
	}
}
