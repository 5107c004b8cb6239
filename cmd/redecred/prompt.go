package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/redecred/redecred"
	"github.com/redecred/redecred/fold"
)

// optionFunc returns the code and display name of a catalog entry.
type optionFunc[T any] func(T) (id, name string)

func stateOption(s *redecred.State) (string, string) { return s.Code, s.Name }
func cityOption(c *redecred.City) (string, string) { return c.ID, c.Name }
func planOption(p *redecred.Plan) (string, string) { return p.ID, p.Name }
func typeOption(t *redecred.ProviderType) (string, string) { return t.ID, t.Name }
func specialtyOption(s *redecred.Specialty) (string, string) { return s.ID, s.Name }

// matchOption finds the entry whose code equals query, else the first whose
// name equals it ignoring case and accents, else the only entry whose name
// contains it.
func matchOption[T any](items []T, query string, opt optionFunc[T]) (T, bool) {
	var zero T
	query = strings.TrimSpace(query)
	if query == "" {
		return zero, false
	}

	for _, item := range items {
		if id, _ := opt(item); strings.EqualFold(id, query) {
			return item, true
		}
	}
	for _, item := range items {
		if _, name := opt(item); fold.Equal(name, query) {
			return item, true
		}
	}

	var found []T
	for _, item := range items {
		if _, name := opt(item); fold.Contains(name, query) {
			found = append(found, item)
		}
	}
	if len(found) == 1 {
		return found[0], true
	}
	return zero, false
}

// prompter asks the user to pick entries from numbered menus.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// choose resolves a selector. A non-empty flag is matched directly;
// otherwise the user picks from a numbered menu by position, code or name.
func choose[T any](p *prompter, label, flag string, items []T, opt optionFunc[T]) (T, error) {
	var zero T
	if flag != "" {
		if item, ok := matchOption(items, flag, opt); ok {
			return item, nil
		}
		return zero, redecred.Errorf(redecred.EINVALID, "unknown %s %q", label, flag)
	}
	if len(items) == 0 {
		return zero, redecred.Errorf(redecred.EUNAVAILABLE, "no %s available", label)
	}

	fmt.Fprintf(p.out, "Select %s:\n", label)
	for i, item := range items {
		id, name := opt(item)
		fmt.Fprintf(p.out, "%4d) %s  %s\n", i+1, id, name)
	}

	for {
		fmt.Fprintf(p.out, "%s (number, code or name): ", label)
		line, err := p.in.ReadString('\n')
		answer := strings.TrimSpace(line)

		if answer != "" {
			if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(items) {
				return items[n-1], nil
			}
			if item, ok := matchOption(items, answer, opt); ok {
				return item, nil
			}
			fmt.Fprintf(p.out, "No single %s matches %q.\n", label, answer)
		}

		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return zero, redecred.Errorf(redecred.EINVALID, "no %s selected", label)
		}
		if err != nil {
			return zero, err
		}
	}
}
