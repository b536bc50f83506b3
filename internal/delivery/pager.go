// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package delivery drives paginated sessions over a concrete surface: an
// interactive terminal pager or a websocket conversation.
package delivery

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/anilookup/internal/paginate"
	"github.com/pdiddy/anilookup/internal/render"
)

const pagerHelp = "[n]ext  [p]rev  [f]irst  [l]ast  [q]uit"

// Pager pages through a session on a terminal, reading one key per line.
type Pager struct {
	In  io.Reader
	Out io.Writer
}

// Run shows the current card and follows navigation keys until the user
// quits, input ends, ctx is cancelled, or the session expires. The session
// is closed on return.
func (p Pager) Run(ctx context.Context, s *paginate.Session) error {
	defer s.Close()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(p.In)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	page, err := s.Current()
	if err != nil {
		return p.finish(err)
	}
	p.show(page)

	for {
		fmt.Fprintf(p.Out, "%s > ", pagerHelp)

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			fmt.Fprintln(p.Out)
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			fmt.Fprintln(p.Out)
			return nil
		}

		var move func() (paginate.Page, error)
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "n", "next", "":
			move = s.Next
		case "p", "prev":
			move = s.Prev
		case "f", "first":
			move = s.First
		case "l", "last":
			move = s.Last
		case "q", "quit", "exit":
			return nil
		default:
			fmt.Fprintf(p.Out, "unknown key %q\n", line)
			continue
		}

		page, err = move()
		if err != nil {
			return p.finish(err)
		}
		p.show(page)
	}
}

func (p Pager) show(page paginate.Page) {
	fmt.Fprintf(p.Out, "\n[%d/%d]\n", page.Number(), page.Total)
	render.WriteCard(p.Out, page.Card)
}

func (p Pager) finish(err error) error {
	if errors.Is(err, paginate.ErrExpired) {
		fmt.Fprintln(p.Out, "\nThese results have expired. Run the command again to refresh them.")
		return nil
	}
	return err
}
