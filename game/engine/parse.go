package engine

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync/atomic"
)

// Header is the signature line every level pack starts with
const Header = "Mushroom Man 3.0"

var (
	ErrBadHeader        = errors.New("bad header")
	ErrBadFormat        = errors.New("bad format")
	ErrInvalidCharacter = errors.New("invalid character")
	ErrBadChecksum      = errors.New("bad checksum")
	ErrMissingStart     = errors.New("level has no start cell")
	ErrTooFewLevels     = errors.New("too few levels")
)

// ParseError locates a level pack failure. Kind is one of the Err* sentinels above.
type ParseError struct {
	Kind   error
	Line   int
	Column int
	Detail string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if e.Line > 0 {
		fmt.Fprintf(&b, " at line %d", e.Line)
		if e.Column > 0 {
			fmt.Fprintf(&b, ", column %d", e.Column)
		}
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Kind
}

// Sequence hands out level numbers. Numbers keep increasing across every
// parse that shares the same Sequence.
type Sequence struct {
	next atomic.Int64
}

// NewSequence returns a sequence starting at 1
func NewSequence() *Sequence {
	s := &Sequence{}
	s.next.Store(1)
	return s
}

// Next returns the next number
func (s *Sequence) Next() int {
	return int(s.next.Add(1) - 1)
}

// ChecksumVerifier checks the header checksum against the level data that follows it
type ChecksumVerifier interface {
	VerifyChecksum(checksum uint32, payload []byte) error
}

// ChecksumFunc adapts a function to ChecksumVerifier
type ChecksumFunc func(checksum uint32, payload []byte) error

func (f ChecksumFunc) VerifyChecksum(checksum uint32, payload []byte) error {
	return f(checksum, payload)
}

// SkipChecksum accepts any checksum. Level packs in the wild have never been verified.
var SkipChecksum ChecksumVerifier = ChecksumFunc(func(uint32, []byte) error { return nil })

// ParseOption customises ParseLevelPack
type ParseOption func(*parser)

// WithChecksumVerifier replaces SkipChecksum
func WithChecksumVerifier(v ChecksumVerifier) ParseOption {
	return func(p *parser) {
		p.verifier = v
	}
}

// WithMinLevels overrides MinLevels. Only tooling should lower it.
func WithMinLevels(n int) ParseOption {
	return func(p *parser) {
		p.minLevels = n
	}
}

var tokenCells = map[byte]CellKind{
	' ': Empty,
	'b': Bomb,
	'c': Cement,
	'd': Barrel,
	'e': Exit,
	'f': Money,
	'g': Guard,
	'h': Hole,
	'i': MetalWall,
	'j': JellyBean,
	'k': Key,
	'l': Lock,
	'n': Gun,
	'o': Oxygen,
	's': Start,
	'w': Wall,
	'~': Water,
}

var cellTokens = func() map[CellKind]byte {
	m := make(map[CellKind]byte, len(tokenCells))
	for tok, kind := range tokenCells {
		m[kind] = tok
	}
	return m
}()

const teleportToken = 't'

// EncodeCell returns the level-file token for a cell
func EncodeCell(c Cell) string {
	if c.Kind == Teleport {
		return fmt.Sprintf("%c%d%d", teleportToken, c.TeleportID, c.Facing)
	}
	return string(cellTokens[c.Kind])
}

// EncodeRow encodes a row of cells as a level-file line without its terminator
func EncodeRow(row []Cell) string {
	var b strings.Builder
	for _, c := range row {
		b.WriteString(EncodeCell(c))
	}
	return b.String()
}

// DecodeRow is the inverse of EncodeRow
func DecodeRow(row string) ([]Cell, error) {
	cells, col, err := decodeRow([]byte(row))
	if err != nil {
		return nil, fmt.Errorf("column %d: %w", col, err)
	}
	return cells, nil
}

// LoadPack parses a level pack with a fresh level sequence
func LoadPack(data []byte) (*LevelPack, error) {
	return ParseLevelPack(data, NewSequence())
}

// ParseLevelPack decodes a whole level pack. Any failure aborts the load and
// no partial pack is returned. A nil seq numbers levels from 1.
func ParseLevelPack(data []byte, seq *Sequence, opts ...ParseOption) (*LevelPack, error) {
	if seq == nil {
		seq = NewSequence()
	}
	p := &parser{
		sc:        &lineScanner{data: data},
		seq:       seq,
		verifier:  SkipChecksum,
		minLevels: MinLevels,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p.parse()
}

type parser struct {
	sc        *lineScanner
	seq       *Sequence
	verifier  ChecksumVerifier
	minLevels int
}

func (p *parser) parse() (*LevelPack, error) {
	header, err := p.sc.next()
	if err != nil || string(header) != Header {
		return nil, &ParseError{Kind: ErrBadHeader, Line: 1, Detail: fmt.Sprintf("expected %q", Header)}
	}

	line, err := p.sc.next()
	if err != nil {
		return nil, p.formatErr(err, "missing checksum")
	}
	checksum, err := parseChecksum(line)
	if err != nil {
		return nil, &ParseError{Kind: ErrBadFormat, Line: p.sc.line, Detail: err.Error()}
	}

	line, err = p.sc.next()
	if err != nil {
		return nil, p.formatErr(err, "missing blank line after checksum")
	}
	if len(line) != 0 {
		return nil, &ParseError{Kind: ErrBadFormat, Line: p.sc.line, Detail: "expected blank line after checksum"}
	}
	payload := p.sc.data[p.sc.pos:]

	var levels []*Level
	for !p.sc.onlyBlankLinesLeft() {
		level, err := p.level()
		if err != nil {
			return nil, err
		}
		levels = append(levels, level)
	}

	if len(levels) < p.minLevels {
		return nil, &ParseError{Kind: ErrTooFewLevels, Detail: fmt.Sprintf("found %d, need at least %d", len(levels), p.minLevels)}
	}
	if err := p.verifier.VerifyChecksum(checksum, payload); err != nil {
		return nil, &ParseError{Kind: ErrBadChecksum, Line: 2, Detail: err.Error()}
	}

	return &LevelPack{Checksum: checksum, Levels: levels}, nil
}

func (p *parser) level() (*Level, error) {
	name, err := p.sc.next()
	if err != nil {
		return nil, p.formatErr(err, "missing level name")
	}
	nameLine := p.sc.line
	author, err := p.sc.next()
	if err != nil {
		return nil, p.formatErr(err, "missing level author")
	}

	var rows [][]Cell
	for {
		line, err := p.sc.next()
		if err != nil {
			return nil, p.formatErr(err, "missing blank line after level rows")
		}
		if len(line) == 0 {
			break
		}
		row, col, err := decodeRow(line)
		if err != nil {
			return nil, &ParseError{Kind: ErrInvalidCharacter, Line: p.sc.line, Column: col, Detail: err.Error()}
		}
		if len(rows) > 0 && len(row) > len(rows[0]) {
			return nil, &ParseError{Kind: ErrBadFormat, Line: p.sc.line,
				Detail: fmt.Sprintf("row has %d cells but the first row has %d", len(row), len(rows[0]))}
		}
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil, &ParseError{Kind: ErrBadFormat, Line: p.sc.line, Detail: "level has no rows"}
	}

	// Rows shorter than the first one are padded with Empty cells.
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, C(Empty))
		}
		rows[i] = row
	}
	grid, err := GridFromRows(rows)
	if err != nil {
		return nil, &ParseError{Kind: ErrBadFormat, Line: nameLine, Detail: err.Error()}
	}

	start, ok := grid.Find(Start)
	if !ok {
		return nil, &ParseError{Kind: ErrMissingStart, Line: nameLine, Detail: fmt.Sprintf("level %q", name)}
	}

	return &Level{
		Name:      lossyString(name),
		Author:    lossyString(author),
		Number:    p.seq.Next(),
		Grid:      grid,
		StartPos:  start,
		PlayerPos: start,
	}, nil
}

func (p *parser) formatErr(err error, detail string) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe
	}
	return &ParseError{Kind: ErrBadFormat, Line: p.sc.line + 1, Detail: detail}
}

func parseChecksum(line []byte) (uint32, error) {
	if len(line) == 0 {
		return 0, fmt.Errorf("empty checksum")
	}
	for _, b := range line {
		if b < '0' || b > '9' {
			return 0, fmt.Errorf("checksum %q is not an unsigned integer", line)
		}
	}
	v, err := strconv.ParseUint(string(line), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("checksum %q out of range", line)
	}
	return uint32(v), nil
}

// decodeRow returns the cells of one row, or the 1-based column of the bad token
func decodeRow(line []byte) ([]Cell, int, error) {
	row := make([]Cell, 0, len(line))
	for i := 0; i < len(line); i++ {
		b := line[i]
		if kind, ok := tokenCells[b]; ok {
			row = append(row, C(kind))
			continue
		}
		if b != teleportToken {
			return nil, i + 1, fmt.Errorf("unknown cell token %q", b)
		}
		if i+2 >= len(line) {
			return nil, i + 1, fmt.Errorf("truncated teleport token")
		}
		id, facing := line[i+1], line[i+2]
		if id < '0'+MinTeleportID || id > '0'+MaxTeleportID {
			return nil, i + 2, fmt.Errorf("teleport id %q not in 1-5", id)
		}
		if facing < '1' || facing > '4' {
			return nil, i + 3, fmt.Errorf("teleport direction %q not in 1-4", facing)
		}
		row = append(row, TeleportCell(id-'0', Dir(facing-'0')))
		i += 2
	}
	return row, 0, nil
}

func lossyString(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

type lineScanner struct {
	data []byte
	pos  int
	line int
}

// next returns the next line without its terminator. Lines must end in
// "\n" or "\r\n"; io.EOF is returned once the data is exhausted.
func (s *lineScanner) next() ([]byte, error) {
	if s.pos >= len(s.data) {
		return nil, io.EOF
	}
	s.line++
	rest := s.data[s.pos:]
	i := bytes.IndexAny(rest, "\r\n")
	if i < 0 {
		return nil, &ParseError{Kind: ErrBadFormat, Line: s.line, Detail: "missing line ending"}
	}
	text := rest[:i]
	switch {
	case rest[i] == '\n':
		s.pos += i + 1
	case i+1 < len(rest) && rest[i+1] == '\n':
		s.pos += i + 2
	default:
		return nil, &ParseError{Kind: ErrBadFormat, Line: s.line, Column: i + 1, Detail: "carriage return without line feed"}
	}
	return text, nil
}

func (s *lineScanner) onlyBlankLinesLeft() bool {
	for _, b := range s.data[s.pos:] {
		if b != '\r' && b != '\n' {
			return false
		}
	}
	return true
}
