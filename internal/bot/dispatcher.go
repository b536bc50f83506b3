// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package bot maps commands onto the lookup pipeline. Every command yields
// at least one card, so every command can be presented as a session.
package bot

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/pdiddy/anilookup/internal/logging"
	"github.com/pdiddy/anilookup/internal/metrics"
	"github.com/pdiddy/anilookup/internal/paginate"
	"github.com/pdiddy/anilookup/internal/recommend"
	"github.com/pdiddy/anilookup/internal/render"
	"github.com/pdiddy/anilookup/internal/resolve"
	"github.com/pdiddy/anilookup/internal/termparse"
	"github.com/pdiddy/anilookup/pkg/types"
)

// Command names, as typed after the chat prefix.
const (
	CmdLookup      = "lookup"
	CmdSearch      = "search"
	CmdRecommend   = "recommend"
	CmdRecommendID = "recommendid"
	CmdPing        = "ping"
	CmdReadme      = "readme"
	CmdHelp        = "help"
	CmdNext        = "next"
	CmdPrev        = "prev"
)

// Prefix marks a chat line as a command.
const Prefix = "$"

var (
	// ErrNotCommand reports a chat line without the command prefix.
	ErrNotCommand = errors.New("not a command")

	// ErrUnknownCommand reports a prefixed line naming no command.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrNoSession reports navigation without a live session.
	ErrNoSession = errors.New("no active results")
)

// Dispatcher runs commands against the resolver, fan-out and renderer.
type Dispatcher struct {
	resolver *resolve.Resolver
	fanout   *recommend.Fanout
	renderer *render.Renderer
	sessions *paginate.Store
	opts     []paginate.Option
}

// New returns a Dispatcher whose sessions are created with opts.
func New(resolver *resolve.Resolver, fanout *recommend.Fanout, renderer *render.Renderer, opts ...paginate.Option) *Dispatcher {
	return &Dispatcher{
		resolver: resolver,
		fanout:   fanout,
		renderer: renderer,
		sessions: paginate.NewStore(),
		opts:     opts,
	}
}

// Sessions exposes the per-conversation session store.
func (d *Dispatcher) Sessions() *paginate.Store { return d.sessions }

// ParseLine splits "$name payload" into its command name and payload.
func ParseLine(line string) (name, payload string, err error) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, Prefix) {
		return "", "", ErrNotCommand
	}
	line = strings.TrimPrefix(line, Prefix)
	name, payload = line, ""
	if i := strings.IndexFunc(line, unicode.IsSpace); i >= 0 {
		name, payload = line[:i], line[i:]
	}
	name = strings.ToLower(name)
	if name == "" {
		return "", "", ErrNotCommand
	}
	return name, strings.TrimSpace(payload), nil
}

// Cards runs one command and returns its cards. The result is never empty.
func (d *Dispatcher) Cards(ctx context.Context, name, payload string) ([]types.Card, error) {
	start := time.Now()
	var cards []types.Card

	switch name {
	case CmdLookup:
		cards = d.lookup(ctx, payload)
	case CmdSearch:
		cards = d.search(ctx, payload)
	case CmdRecommendID:
		cards = d.recommendByID(ctx, payload)
	case CmdRecommend:
		cards = d.recommendByTerms(ctx, payload)
	case CmdPing:
		cards = []types.Card{render.PingCard()}
	case CmdReadme, CmdHelp:
		cards = []types.Card{render.ReadmeCard()}
	default:
		return nil, ErrUnknownCommand
	}

	result := string(cards[0].Kind)
	metrics.Commands.WithLabelValues(name, result).Inc()
	logging.Info().
		Str("command", name).
		Str("payload", payload).
		Str("result", result).
		Int("cards", len(cards)).
		Dur("elapsed", time.Since(start)).
		Msg("command handled")
	return cards, nil
}

// Run runs one command and presents its cards as a new session.
func (d *Dispatcher) Run(ctx context.Context, name, payload string) (*paginate.Session, error) {
	cards, err := d.Cards(ctx, name, payload)
	if err != nil {
		return nil, err
	}
	return paginate.Present(cards, d.opts...)
}

// Handle runs one chat line for a conversation and returns the page to
// show. Navigation commands move the conversation's live session; any
// other command replaces it.
func (d *Dispatcher) Handle(ctx context.Context, conversation, line string) (paginate.Page, error) {
	name, payload, err := ParseLine(line)
	if err != nil {
		return paginate.Page{}, err
	}

	switch name {
	case CmdNext, CmdPrev:
		s, ok := d.sessions.Get(conversation)
		if !ok {
			return paginate.Page{}, ErrNoSession
		}
		var page paginate.Page
		if name == CmdNext {
			page, err = s.Next()
		} else {
			page, err = s.Prev()
		}
		if errors.Is(err, paginate.ErrExpired) {
			return paginate.Page{}, ErrNoSession
		}
		return page, err
	}

	s, err := d.Run(ctx, name, payload)
	if err != nil {
		return paginate.Page{}, err
	}
	d.sessions.Put(conversation, s)
	return s.Current()
}

func (d *Dispatcher) lookup(ctx context.Context, payload string) []types.Card {
	rec, err := d.resolver.ByID(ctx, payload)
	if err != nil {
		return []types.Card{failureCard(err)}
	}
	return []types.Card{d.renderer.Render(rec)}
}

func (d *Dispatcher) search(ctx context.Context, payload string) []types.Card {
	count, terms := termparse.Parse(payload)
	if terms == "" {
		return []types.Card{render.MissingTermsCard(Prefix + CmdSearch + " [num=N] <terms>")}
	}
	recs, err := d.resolver.BySearch(ctx, terms, count)
	if err != nil {
		return []types.Card{failureCard(err)}
	}
	if len(recs) == 0 {
		return []types.Card{render.NoResultsCard(terms)}
	}
	return d.renderer.RenderAll(recs)
}

func (d *Dispatcher) recommendByID(ctx context.Context, payload string) []types.Card {
	count, idText := termparse.Parse(payload)
	seed, err := d.resolver.ByID(ctx, idText)
	if err != nil {
		return []types.Card{failureCard(err)}
	}
	return d.expand(ctx, []int{seed.ID}, count, idText)
}

func (d *Dispatcher) recommendByTerms(ctx context.Context, payload string) []types.Card {
	count, terms := termparse.Parse(payload)
	if terms == "" {
		return []types.Card{render.MissingTermsCard(Prefix + CmdRecommend + " [num=N] <terms>")}
	}
	seeds, err := d.resolver.BySearch(ctx, terms, count)
	if err != nil {
		return []types.Card{failureCard(err)}
	}
	if len(seeds) == 0 {
		return []types.Card{render.NoResultsCard(terms)}
	}
	ids := make([]int, 0, len(seeds))
	for _, s := range seeds {
		ids = append(ids, s.ID)
	}
	return d.expand(ctx, ids, count, terms)
}

func (d *Dispatcher) expand(ctx context.Context, seeds []int, perSeed int, query string) []types.Card {
	res, err := d.fanout.Expand(ctx, seeds, perSeed)
	if err != nil {
		logging.Warn().Err(err).Int("records", len(res.Records)).Msg("recommendation fan-out interrupted")
	}
	if len(res.Records) == 0 {
		return []types.Card{render.NoResultsCard(query)}
	}
	return d.renderer.RenderAll(res.Records)
}

// failureCard maps a resolution failure to its terminal card.
func failureCard(err error) types.Card {
	switch {
	case errors.Is(err, resolve.ErrInvalidInput):
		return render.InvalidInputCard()
	case errors.Is(err, resolve.ErrNotFound):
		return render.NotFoundCard()
	default:
		logging.Warn().Err(err).Msg("candidate resolution failed")
		return render.UpstreamErrorCard()
	}
}
