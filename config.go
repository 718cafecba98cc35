package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	bind            string
	drawExcludeLast bool
	idealPlayers    int
	minPlayers      int
	port            int
	prefix          string
	profile         bool
	questionCount   int
	questions       string
	saveFile        string
	tick            time.Duration
	tlsCert         string
	tlsKey          string
	verbose         bool
	version         bool
	waitTime        int
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.minPlayers < 1 {
		return fmt.Errorf("invalid minimum player count (must be at least 1): %d", c.minPlayers)
	}
	if c.idealPlayers < 1 {
		return fmt.Errorf("invalid ideal player count (must be at least 1): %d", c.idealPlayers)
	}
	if c.questionCount < 1 {
		return fmt.Errorf("invalid question count (must be at least 1): %d", c.questionCount)
	}
	if c.waitTime < 0 {
		return fmt.Errorf("invalid wait time (must not be negative): %d", c.waitTime)
	}
	if c.tick <= 0 || c.tick > time.Second {
		return fmt.Errorf("invalid tick interval (must be between 1ns-1s inclusive): %s", c.tick)
	}
	if c.questions == "" {
		return errors.New("--questions must name a question bank")
	}
	if c.saveFile == "" {
		return errors.New("--save-file must name a snapshot path")
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func (c *Config) rules() Rules {
	return Rules{
		MinPlayers:    c.minPlayers,
		IdealPlayers:  c.idealPlayers,
		QuestionCount: c.questionCount,
		WaitTime:      c.waitTime,
	}
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QUIZSHOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "quizshow",
		Short:         "A phase-based trivia game show for a room full of phones.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: QUIZSHOW_BIND)")
	fs.BoolVar(&cfg.drawExcludeLast, "draw-exclude-last", true, "never draw the last remaining question unless it is the only one left (env: QUIZSHOW_DRAW_EXCLUDE_LAST)")
	fs.IntVar(&cfg.idealPlayers, "ideal-players", 4, "ready players needed to skip the instructions countdown (env: QUIZSHOW_IDEAL_PLAYERS)")
	fs.IntVar(&cfg.minPlayers, "min-players", 4, "players required before the game starts (env: QUIZSHOW_MIN_PLAYERS)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: QUIZSHOW_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: QUIZSHOW_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: QUIZSHOW_PROFILE)")
	fs.IntVar(&cfg.questionCount, "question-count", 5, "questions per round (env: QUIZSHOW_QUESTION_COUNT)")
	fs.StringVar(&cfg.questions, "questions", "questions.yaml", "path to question bank, in json or yaml (env: QUIZSHOW_QUESTIONS)")
	fs.StringVar(&cfg.saveFile, "save-file", "save.json", "path to game snapshot (env: QUIZSHOW_SAVE_FILE)")
	fs.DurationVar(&cfg.tick, "tick", defaultTick, "interval between game state evaluations (env: QUIZSHOW_TICK)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: QUIZSHOW_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: QUIZSHOW_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: QUIZSHOW_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: QUIZSHOW_VERSION)")
	fs.IntVar(&cfg.waitTime, "wait-time", 30, "seconds to show instructions before the first round (env: QUIZSHOW_WAIT_TIME)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("quizshow v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
