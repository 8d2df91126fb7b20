// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package vacancy reconstructs job vacancy records from the ordered text
// blocks of a gazette document.
//
// The parser is a two-state machine. It idles until a block carrying a
// "Vacancy VN-<digits>" header starts a record, accumulates labelled fields
// from the blocks that follow, and emits the record only when the
// "Agency Recruitment Site" field closes it. Records that never reach that
// field are not emitted; they are counted in Result.Dropped.
package vacancy

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/gazette-vacancies/pkg/types"
)

// Grammar versions. v1 is the comma contact layout, v2 the stacked-line one.
const (
	GrammarV1 = "v1"
	GrammarV2 = "v2"
)

var (
	headerPattern = regexp.MustCompile(`Vacancy VN-\d+`)
	codePattern   = regexp.MustCompile(`^VN-\d+$`)
)

// GrammarVersion returns the grammar version implied by a contact mode.
func GrammarVersion(mode types.ContactMode) string {
	if mode == types.ContactNewline {
		return GrammarV2
	}
	return GrammarV1
}

// Result is the outcome of parsing one block sequence.
type Result struct {
	// Vacancies holds the completed records in document order.
	Vacancies []types.Vacancy

	// Dropped counts records that were started but never closed, either
	// because another header arrived first or because the input ended.
	Dropped int

	// DroppedCodes lists the vacancy codes of the dropped records.
	DroppedCodes []string

	// Ignored counts blocks that matched neither a header nor a field label.
	Ignored int

	// Grammar is the grammar version used for this parse.
	Grammar string
}

// Parser turns block sequences into vacancy records. A Parser holds no
// per-parse state and may be reused.
type Parser struct {
	mode  types.ContactMode
	rules []rule
}

// New returns a parser for the given configuration. An empty contact mode
// selects the comma layout.
func New(cfg types.ParserConfig) (*Parser, error) {
	mode := cfg.ContactMode
	switch mode {
	case "":
		mode = types.ContactComma
	case types.ContactComma, types.ContactNewline:
	default:
		return nil, fmt.Errorf("unknown contact mode %q: use %s or %s",
			mode, types.ContactComma, types.ContactNewline)
	}
	return &Parser{mode: mode, rules: fieldRules(mode)}, nil
}

var defaultParser, _ = New(types.ParserConfig{})

// Parse parses blocks with the default (comma contact) grammar.
func Parse(blocks []types.Block) (Result, error) {
	return defaultParser.Parse(blocks)
}

// Grammar returns the grammar version of p.
func (p *Parser) Grammar() string { return GrammarVersion(p.mode) }

// Parse scans blocks once, front to back. On error no records are returned.
func (p *Parser) Parse(blocks []types.Block) (Result, error) {
	s := &scanner{blocks: blocks}
	s.result.Grammar = p.Grammar()

	for s.pos = 0; s.pos < len(blocks); s.pos++ {
		text := strings.TrimSpace(blocks[s.pos].Text)

		if headerPattern.MatchString(text) {
			if err := s.header(text); err != nil {
				return Result{}, err
			}
			continue
		}

		if s.state != stateAccumulating {
			s.result.Ignored++
			continue
		}

		matched := false
		for _, r := range p.rules {
			if !r.match(text) {
				continue
			}
			if err := r.apply(s, text); err != nil {
				return Result{}, s.fail(r.label, text, err)
			}
			matched = true
			break
		}
		if !matched {
			s.result.Ignored++
		}
	}

	s.finish()
	return s.result, nil
}

type state int

const (
	stateIdle state = iota
	stateAccumulating
)

// scanner carries the state of a single Parse call.
type scanner struct {
	blocks []types.Block
	pos    int
	state  state
	job    types.Vacancy
	result Result
}

func (s *scanner) header(text string) error {
	code, err := headerCode(text)
	if err != nil {
		return s.fail("header", text, err)
	}
	client, err := s.lookahead()
	if err != nil {
		return s.fail("header", text, err)
	}

	s.abandon()
	s.job = types.NewVacancy()
	s.job.Set(types.FieldVacancy, code)
	s.job.Set(types.FieldClient, client)
	s.state = stateAccumulating
	return nil
}

// lookahead returns the collapsed text of the block after the cursor.
func (s *scanner) lookahead() (string, error) {
	next := s.pos + 1
	if next >= len(s.blocks) {
		return "", ErrLookaheadOutOfRange
	}
	return collapse(s.blocks[next].Text), nil
}

func (s *scanner) set(f types.Field, value string) {
	s.job.Set(f, value)
}

func (s *scanner) flush() {
	s.result.Vacancies = append(s.result.Vacancies, s.job)
	s.job = types.Vacancy{}
	s.state = stateIdle
}

// abandon discards an open record, if any.
func (s *scanner) abandon() {
	if s.state != stateAccumulating {
		return
	}
	s.result.Dropped++
	s.result.DroppedCodes = append(s.result.DroppedCodes, s.job.Value(types.FieldVacancy))
	s.job = types.Vacancy{}
	s.state = stateIdle
}

func (s *scanner) finish() { s.abandon() }

func (s *scanner) fail(label, text string, err error) error {
	return &ParseError{Index: s.pos, Label: label, Text: text, Err: err}
}

// headerCode extracts the vacancy code. A header stacked over another line
// carries the code as the last word of its second segment; a single-line
// header carries it as the second word.
func headerCode(text string) (string, error) {
	var code string
	if _, rest, ok := strings.Cut(text, "\n"); ok {
		if words := strings.Fields(rest); len(words) > 0 {
			code = words[len(words)-1]
		}
	} else if words := strings.Fields(text); len(words) > 1 {
		code = words[1]
	}
	if !codePattern.MatchString(code) {
		return "", ErrMalformedHeader
	}
	return code, nil
}

// collapse trims s and joins its lines with single spaces.
func collapse(s string) string {
	return strings.TrimSpace(strings.Join(strings.Split(strings.TrimSpace(s), "\n"), " "))
}

// detail is the default extraction: everything after the label line, or the
// whole text when the block is a single line.
func detail(text string) string {
	parts := strings.SplitN(text, "\n", 2)
	if len(parts) == 1 {
		return collapse(parts[0])
	}
	return collapse(parts[1])
}
