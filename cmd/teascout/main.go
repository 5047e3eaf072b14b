// Command teascout evaluates candidate bubble tea shop locations. A swarm of
// research agents scouts the area, profiles the competition, reads customer
// reviews, and scores the demographics, then a reporter agent compiles the
// findings into a structured report.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	// Ensure API keys are loaded
	_ "github.com/joho/godotenv/autoload"

	"github.com/fogfish/opts"
	"github.com/k0kubun/pp/v3"
	"github.com/nats-io/nats.go"
	"github.com/phsym/zeroslog"
	"github.com/rs/zerolog"

	"github.com/teascout/teascout"
	"github.com/teascout/teascout/api"
	"github.com/teascout/teascout/events"
	"github.com/teascout/teascout/internal/broker"
	"github.com/teascout/teascout/internal/census"
	"github.com/teascout/teascout/internal/checkpoint"
	"github.com/teascout/teascout/internal/config"
	"github.com/teascout/teascout/internal/places"
	"github.com/teascout/teascout/internal/report"
	"github.com/teascout/teascout/internal/team"
	"github.com/teascout/teascout/internal/yelp"
	"github.com/teascout/teascout/pkg/slogx"
	"github.com/teascout/teascout/provider/openai"
)

var log zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Stamp}
	log = zerolog.New(output).With().Timestamp().Logger()
	slog.SetDefault(slog.New(
		zeroslog.NewHandler(log, &zeroslog.HandlerOptions{Level: slog.LevelInfo}),
	))
}

func main() {
	if err := run(); err != nil {
		slog.Error("run failed", slogx.Error(err))
		os.Exit(1)
	}
}

func run() error {
	location := flag.String("location", "", "area to evaluate, for example \"Cupertino, CA\"")
	company := flag.String("company", "", "company whose existing stores anchor the niche profile")
	samples := flag.String("samples", "", "comma separated locations of existing company stores")
	stream := flag.Bool("stream", true, "stream assistant output as it arrives")
	debug := flag.Bool("debug", false, "dump the raw report before rendering")
	maxTurns := flag.Int("max-turns", 0, "abort a step after this many model turns, 0 means unlimited")
	flag.Parse()

	if *location == "" {
		return fmt.Errorf("-location is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := context.Background()

	placesClient, err := places.New(cfg.GooglePlacesKey)
	if err != nil {
		return err
	}
	var yelpClient *yelp.Client
	if cfg.YelpKey != "" {
		if yelpClient, err = yelp.New(cfg.YelpKey); err != nil {
			return err
		}
	} else {
		slog.Warn("YELP_API_KEY is empty, yelp tools are disabled")
	}
	censusClient := census.New(cfg.CensusKey)

	tm, err := team.New(ctx, team.Deps{
		Places: placesClient,
		Yelp:   yelpClient,
		Census: censusClient,
		Model:  buildModel(cfg),
	})
	if err != nil {
		return err
	}

	console, result := newConsoleHook(os.Stdout)
	var hook teascout.Hook[report.Report] = console

	if cfg.NATSURL != "" {
		conn, cerr := nats.Connect(cfg.NATSURL)
		if cerr != nil {
			return fmt.Errorf("failed to connect to nats: %w", cerr)
		}
		defer conn.Close()
		topic := broker.NATS[report.Report](conn).Topic(ctx, "teascout.runs")
		hook = &exportingHook{
			Hook:    events.NewCompositeHook(console, broker.Publisher(topic)),
			console: console,
		}
	}

	execOpts := []opts.Option[teascout.ExecutionContext]{
		teascout.StructuredOutput[report.Report](
			"LocationReport",
			"Structured evaluation of candidate bubble tea shop locations",
		),
	}
	if *stream {
		execOpts = append(execOpts, teascout.Streaming(true))
	}
	if *maxTurns > 0 {
		execOpts = append(execOpts, teascout.WithMaxTurns(*maxTurns))
	}
	if cfg.MongoURI != "" {
		store, serr := checkpoint.NewMongo(ctx, cfg.MongoURI, "teascout")
		if serr != nil {
			return serr
		}
		execOpts = append(execOpts, teascout.WithCheckpoints(store))
	}

	agents := tm.Agents()
	swarm := teascout.New(
		teascout.Name("teascout"),
		teascout.Agents(agents[0], agents[1:]...),
		teascout.Steps(
			teascout.Step(team.ScoutName, scoutPrompt(*location, *company, *samples)),
			teascout.Step(team.ReporterName, "Compile the complete location report from the research gathered so far."),
		),
	)

	if err := swarm.Run(ctx, teascout.Local(hook, execOpts...)); err != nil {
		return err
	}

	rep, ok := <-result
	if !ok {
		return fmt.Errorf("the run finished without producing a report")
	}
	if *debug {
		pp.Println(rep)
	}
	fmt.Println(rep.Render())
	return nil
}

func scoutPrompt(location, company, samples string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Evaluate %s as a location for opening a new bubble tea shop.", location)
	if company != "" {
		fmt.Fprintf(&b, " The shop will be a new %s store", company)
		if samples != "" {
			fmt.Fprintf(&b, ", existing stores to profile: %s", samples)
		}
		b.WriteString(".")
	}
	b.WriteString(" Survey the shopping centers, research every competitor, check the demographics, and hand the quantitative analysis off before you summarize.")
	return b.String()
}

func buildModel(cfg config.Config) api.Model {
	if cfg.UseFireworks() {
		return openai.Fireworks(cfg.ModelName)
	}
	if strings.HasPrefix(cfg.ModelName, "accounts/fireworks/") {
		// the default model name targets the fireworks endpoint
		return openai.GPT4oMini()
	}
	return openai.Model(cfg.ModelName)
}

// exportingHook fans events out to the console and the broker while keeping
// the console's close semantics.
type exportingHook struct {
	events.Hook[report.Report]
	console *consoleHook
}

func (h *exportingHook) OnClose(ctx context.Context) {
	h.console.OnClose(ctx)
}
